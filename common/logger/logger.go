package logger

import (
	"context"
	"log/slog"
	"os"

	"dealyard.app/market/core/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/trace"
)

func Setup(cfg config.Config) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if cfg.IsDevelopment() {
		opts.Level = slog.LevelDebug
	}

	if cfg.IsProduction() && cfg.OTel.Enabled() {
		handler = otelslog.NewHandler(
			cfg.OTel.ServiceName,
			otelslog.WithLoggerProvider(global.GetLoggerProvider()),
		)
	} else if cfg.IsProduction() {
		handler = NewMarketHandler(slog.NewJSONHandler(os.Stdout, opts))
	} else {
		handler = NewMarketHandler(slog.NewTextHandler(os.Stdout, opts))
	}

	slog.SetDefault(slog.New(handler))
}

// MarketHandler enriches every record with the marketplace identifiers
// carried in the context, plus OTel trace/span IDs when a span is active.
type MarketHandler struct {
	slog.Handler
}

func NewMarketHandler(h slog.Handler) *MarketHandler {
	return &MarketHandler{Handler: h}
}

func (h *MarketHandler) Handle(ctx context.Context, r slog.Record) error {
	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		sc := span.SpanContext()
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	fields := GetLogFields(ctx)
	if fields.ListingID != nil {
		r.AddAttrs(slog.Int64("listing_id", *fields.ListingID))
	}
	if fields.SessionID != nil {
		r.AddAttrs(slog.Int64("session_id", *fields.SessionID))
	}
	if fields.DealID != nil {
		r.AddAttrs(slog.Int64("deal_id", *fields.DealID))
	}
	if fields.BuyerID != nil {
		r.AddAttrs(slog.Int64("buyer_id", *fields.BuyerID))
	}
	if fields.SellerID != nil {
		r.AddAttrs(slog.Int64("seller_id", *fields.SellerID))
	}
	if fields.Component != "" {
		r.AddAttrs(slog.String("component", fields.Component))
	}

	return h.Handler.Handle(ctx, r)
}

func (h *MarketHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &MarketHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *MarketHandler) WithGroup(name string) slog.Handler {
	return &MarketHandler{Handler: h.Handler.WithGroup(name)}
}
