package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlockedPage(t *testing.T) {
	tests := []struct {
		name    string
		content string
		blocked bool
	}{
		{
			name:    "normal product page",
			content: `<html><body><div class="x-price-primary">US $10.00</div></body></html>`,
			blocked: false,
		},
		{
			name:    "cloudflare interstitial",
			content: `<html><body>Checking your browser before accessing www.ebay.com</body></html>`,
			blocked: true,
		},
		{
			name:    "zero size object error",
			content: `<html><body>Service Unavailable - Zero size object</body></html>`,
			blocked: true,
		},
		{
			name:    "captcha challenge",
			content: `<html><body>To continue, please verify that you are not a robot</body></html>`,
			blocked: true,
		},
		{
			name:    "empty content",
			content: "",
			blocked: true,
		},
		{
			name:    "whitespace only",
			content: "   \n\t  ",
			blocked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, blocked := blockedPage(tt.content)
			assert.Equal(t, tt.blocked, blocked)
			if blocked {
				assert.NotEmpty(t, reason)
			}
		})
	}
}
