package phrase

import (
	"context"
	"strings"
	"testing"
)

func TestOfferMessages(t *testing.T) {
	if got := BuyerOfferMessage(480, true); got != "I can offer $480.00" {
		t.Errorf("opening message = %q", got)
	}
	if got := BuyerOfferMessage(560.5, false); got != "I can go up to $560.50" {
		t.Errorf("follow-up message = %q", got)
	}
	if got := SellerCounterMessage(552); got != "I could consider $552.00" {
		t.Errorf("counter message = %q", got)
	}
}

func TestTemplateComposer(t *testing.T) {
	composer := NewTemplateComposer()
	text, err := composer.ComposeDealAnnouncement(context.Background(), Announcement{
		ItemName:    "leather couch",
		BuyerName:   "Priya",
		SellerName:  "Maya",
		AgreedPrice: 552,
		AskingPrice: 800,
		Rounds:      3,
	})
	if err != nil {
		t.Fatalf("ComposeDealAnnouncement: %v", err)
	}
	for _, want := range []string{"Priya", "Maya", "leather couch", "$552.00"} {
		if !strings.Contains(text, want) {
			t.Errorf("announcement %q missing %q", text, want)
		}
	}
}
