package filters

import (
	"strings"
	"testing"
)

func TestQualityFilter_RejectReason(t *testing.T) {
	prose := "Whole grains, lean protein and vegetables form the foundation of a balanced plate. " +
		"Adults benefit from regular meal timing and adequate hydration throughout the day. " +
		"Pairing carbohydrates with protein slows digestion and keeps energy levels steady. " +
		"Aim for a variety of colors on the plate to cover a broad range of micronutrients."

	tests := []struct {
		name       string
		text       string
		wantReject bool
		wantReason string
	}{
		{
			name:       "too short",
			text:       "A short fragment about oats.",
			wantReject: true,
			wantReason: ReasonTooShort,
		},
		{
			name:       "digit noise rejected",
			text:       strings.Repeat("0123456789", 10),
			wantReject: true,
			wantReason: ReasonTooShort,
		},
		{
			name:       "long digit noise fails alpha floor",
			text:       strings.Repeat("0123456789 ", 30),
			wantReject: true,
			wantReason: ReasonLowAlpha,
		},
		{
			name:       "link heavy",
			text:       prose + " See http://a.example/one and http://b.example/two for sources.",
			wantReject: true,
			wantReason: ReasonLinkHeavy,
		},
		{
			name:       "ad phrase",
			text:       prose + " Subscribe to our newsletter for more tips.",
			wantReject: true,
			wantReason: ReasonAdPhrase,
		},
		{
			name:       "natural prose accepted",
			text:       prose,
			wantReject: false,
		},
	}

	f := New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rejected, reason := f.RejectReason(tt.text)
			if rejected != tt.wantReject {
				t.Errorf("RejectReason() rejected = %v, want %v", rejected, tt.wantReject)
			}

			if rejected && reason != tt.wantReason {
				t.Errorf("RejectReason() reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}

func TestQualityFilter_Options(t *testing.T) {
	f := New(WithMinLength(10), WithMinAlpha(5), WithAdPhrases([]string{"buy now"}))

	if f.IsLowQuality("Plenty of words here to pass the relaxed thresholds easily.") {
		t.Error("expected relaxed filter to accept short prose")
	}

	if !f.IsLowQuality("You should buy now before the offer expires, stocks are limited!") {
		t.Error("expected custom ad phrase to reject")
	}
}
