package resolver

import (
	"testing"

	"github.com/BlockRunAI/PredictOS/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		url      string
		platform model.PlatformType
		id       string
	}{
		{"https://polymarket.com/event/fed-decision-in-december", model.PlatformPolymarket, "fed-decision-in-december"},
		{"https://polymarket.com/event/fed-decision-in-december/will-the-fed-cut?tid=1", model.PlatformPolymarket, "fed-decision-in-december"},
		{"https://POLYMARKET.COM/event/Some-Slug", model.PlatformPolymarket, "Some-Slug"},
		{"polymarket.com/event/no-scheme", model.PlatformPolymarket, "no-scheme"},
		{"https://kalshi.com/markets/kxfeddecision/fed-meeting/kxfeddecision-25dec", model.PlatformKalshi, "KXFEDDECISION-25DEC"},
		{"https://kalshi.com/markets/a/b/c/kxbtc-25dec31", model.PlatformKalshi, "KXBTC-25DEC31"},
		{"https://kalshi.com/events/kxbtc", model.PlatformKalshi, "KXBTC"},
		{"https://kalshi.com/markets/kxbtc/", model.PlatformKalshi, "KXBTC"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := Resolve(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.platform, got.Platform)
			assert.Equal(t, tt.id, got.Identifier)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		url  string
		want error
	}{
		{"https://example.com/event/foo", model.ErrUnsupportedPlatform},
		{"", model.ErrUnsupportedPlatform},
		{"https://polymarket.com/markets/foo", model.ErrMalformedURL},
		{"https://polymarket.com/event", model.ErrMalformedURL},
		{"https://polymarket.com/", model.ErrMalformedURL},
		{"https://kalshi.com/markets/a/b", model.ErrMalformedURL},
		{"https://kalshi.com/browse/kxbtc", model.ErrMalformedURL},
		{"https://kalshi.com", model.ErrMalformedURL},
		{"http://[::1:kalshi.com/markets/x", model.ErrMalformedURL},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			_, err := Resolve(tt.url)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
