// Package archive persists finalized sales to Postgres. The market's
// working state stays in memory; the archive is an append-only record
// for reporting, so writes are best-effort from the engine's side.
package archive

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"dealyard.app/market/core/config"
	"dealyard.app/market/internal/market"
)

type Archive struct {
	pool *pgxpool.Pool
}

// New opens the connection pool and bootstraps the sales table.
func New(ctx context.Context, cfg config.ArchiveConfig) (*Archive, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing archive config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	} else {
		poolCfg.MinConns = 2
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging archive database: %w", err)
	}

	a := &Archive{pool: pool}
	if err := a.bootstrap(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return a, nil
}

func (a *Archive) Close() {
	a.pool.Close()
}

// bootstrap creates the sales table if it does not exist. Idempotent,
// so multiple replicas can start concurrently.
func (a *Archive) bootstrap(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS sales (
			deal_id    BIGINT PRIMARY KEY,
			listing_id BIGINT NOT NULL,
			buyer_id   BIGINT NOT NULL,
			seller_id  BIGINT NOT NULL,
			item_name  TEXT NOT NULL,
			price      DOUBLE PRECISION NOT NULL,
			sold_at    TIMESTAMPTZ NOT NULL
		)`
	if _, err := a.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("bootstrapping sales table: %w", err)
	}
	return nil
}

// RecordSale appends one finalized sale. Re-recording the same deal is
// a no-op, which keeps retries safe.
func (a *Archive) RecordSale(ctx context.Context, sale market.SaleRecord) error {
	const insert = `
		INSERT INTO sales (deal_id, listing_id, buyer_id, seller_id, item_name, price, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (deal_id) DO NOTHING`
	if _, err := a.pool.Exec(ctx, insert,
		sale.DealID, sale.ListingID, sale.BuyerID, sale.SellerID,
		sale.ItemName, sale.Price, sale.SoldAt,
	); err != nil {
		return fmt.Errorf("recording sale: %w", err)
	}
	return nil
}
