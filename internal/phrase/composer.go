// Package phrase produces the human-readable text attached to offers
// and deals. Offer messages are deterministic templates so the round
// loop never touches the network; only the post-agreement announcement
// may go through a language model.
package phrase

import (
	"context"
	"fmt"

	"dealyard.app/market/common/llm"
)

// BuyerOfferMessage renders a buyer's bid line.
func BuyerOfferMessage(price float64, opening bool) string {
	if opening {
		return fmt.Sprintf("I can offer $%.2f", price)
	}
	return fmt.Sprintf("I can go up to $%.2f", price)
}

// SellerCounterMessage renders a seller's counter line.
func SellerCounterMessage(price float64) string {
	return fmt.Sprintf("I could consider $%.2f", price)
}

// Announcement carries the facts of a closed negotiation for composing
// the public deal announcement.
type Announcement struct {
	ItemName    string
	BuyerName   string
	SellerName  string
	AgreedPrice float64
	AskingPrice float64
	Rounds      int
}

type Composer interface {
	ComposeDealAnnouncement(ctx context.Context, ann Announcement) (string, error)
}

type announcementResult struct {
	Text string `json:"text" jsonschema_description:"One or two sentence deal announcement"`
}

type llmComposer struct {
	client llm.Client
}

// NewLLMComposer phrases announcements with a language model. Errors
// propagate to the caller, which falls back to keeping the deal
// unannounced.
func NewLLMComposer(client llm.Client) Composer {
	return &llmComposer{client: client}
}

func (c *llmComposer) ComposeDealAnnouncement(ctx context.Context, ann Announcement) (string, error) {
	prompt := fmt.Sprintf(
		"Item: %s\nBuyer: %s\nSeller: %s\nAgreed price: $%.2f\nOriginal asking price: $%.2f\nRounds of negotiation: %d",
		ann.ItemName, ann.BuyerName, ann.SellerName, ann.AgreedPrice, ann.AskingPrice, ann.Rounds)

	var result announcementResult
	_, err := c.client.Chat(ctx, llm.Request{
		SystemPrompt: "You write short, upbeat marketplace deal announcements. " +
			"One or two sentences, no emojis, mention the item and the final price.",
		UserPrompt:  prompt,
		SchemaName:  "deal_announcement",
		Schema:      llm.GenerateSchema[announcementResult](),
		MaxTokens:   120,
		Temperature: llm.Temp(0.7),
	}, &result)
	if err != nil {
		return "", fmt.Errorf("compose announcement: %w", err)
	}
	return result.Text, nil
}

type templateComposer struct{}

// NewTemplateComposer renders announcements from a fixed template. Used
// when no language model is configured.
func NewTemplateComposer() Composer {
	return templateComposer{}
}

func (templateComposer) ComposeDealAnnouncement(_ context.Context, ann Announcement) (string, error) {
	return fmt.Sprintf("%s and %s closed a deal on %s at $%.2f after %d rounds.",
		ann.BuyerName, ann.SellerName, ann.ItemName, ann.AgreedPrice, ann.Rounds), nil
}
