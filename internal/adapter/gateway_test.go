package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/BlockRunAI/PredictOS/internal/config"
	"github.com/BlockRunAI/PredictOS/internal/interfaces"
	"github.com/BlockRunAI/PredictOS/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	platform  model.PlatformType
	event     *model.SourceEventData
	fetchErr  error
	markets   []model.SimplifiedMarket
	searchErr error
}

func (s *stubAdapter) GetType() model.PlatformType { return s.platform }

func (s *stubAdapter) FetchEvent(context.Context, string) (*model.SourceEventData, error) {
	return s.event, s.fetchErr
}

func (s *stubAdapter) SearchMarkets(context.Context, string) ([]model.SimplifiedMarket, error) {
	return s.markets, s.searchErr
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func upstreamErr() error {
	return fmt.Errorf("获取事件失败: %w", fmt.Errorf("%w: status 502", model.ErrUpstream))
}

func TestGatewayFetchSource(t *testing.T) {
	ev := &model.SourceEventData{
		EventTitle: "Fed decision",
		Markets:    []model.SimplifiedMarket{model.NewSimplifiedMarket("Cut", 37, true)},
		Source:     model.PlatformPolymarket,
	}

	tests := []struct {
		name    string
		stub    *stubAdapter
		wantErr error
	}{
		{"ok", &stubAdapter{event: ev}, nil},
		{"upstream failure is not found", &stubAdapter{fetchErr: upstreamErr()}, model.ErrSourceNotFound},
		{"zero markets is not found", &stubAdapter{event: &model.SourceEventData{EventTitle: "empty"}}, model.ErrSourceNotFound},
		{"nil event is not found", &stubAdapter{}, model.ErrSourceNotFound},
		{"cancellation propagates", &stubAdapter{fetchErr: context.Canceled}, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.stub.platform = model.PlatformPolymarket
			g := NewGateway(quietLogger(), tt.stub)

			got, err := g.FetchSource(context.Background(), model.PlatformPolymarket, "fed-decision")
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Same(t, ev, got)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
		})
	}
}

func TestGatewayFetchSourceNamesPlatform(t *testing.T) {
	g := NewGateway(quietLogger(), &stubAdapter{platform: model.PlatformKalshi, fetchErr: upstreamErr()})
	_, err := g.FetchSource(context.Background(), model.PlatformKalshi, "KXBTC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Kalshi")
	assert.False(t, errors.Is(err, model.ErrUpstream))
}

func TestGatewaySearch(t *testing.T) {
	t.Run("upstream failure is empty", func(t *testing.T) {
		g := NewGateway(quietLogger(), &stubAdapter{platform: model.PlatformKalshi, searchErr: upstreamErr()})
		got, err := g.Search(context.Background(), model.PlatformKalshi, "fed")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("nil result is empty", func(t *testing.T) {
		g := NewGateway(quietLogger(), &stubAdapter{platform: model.PlatformKalshi})
		got, err := g.Search(context.Background(), model.PlatformKalshi, "fed")
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("other errors propagate", func(t *testing.T) {
		boom := errors.New("boom")
		g := NewGateway(quietLogger(), &stubAdapter{platform: model.PlatformKalshi, searchErr: boom})
		_, err := g.Search(context.Background(), model.PlatformKalshi, "fed")
		assert.ErrorIs(t, err, boom)
	})

	t.Run("results pass through", func(t *testing.T) {
		markets := []model.SimplifiedMarket{model.NewSimplifiedMarket("Cut", 42, true)}
		g := NewGateway(quietLogger(), &stubAdapter{platform: model.PlatformKalshi, markets: markets})
		got, err := g.Search(context.Background(), model.PlatformKalshi, "fed")
		require.NoError(t, err)
		assert.Equal(t, markets, got)
	})
}

func TestGatewayUnknownPlatform(t *testing.T) {
	g := NewGateway(quietLogger())
	_, err := g.Search(context.Background(), model.PlatformKalshi, "fed")
	assert.ErrorIs(t, err, model.ErrUnsupportedPlatform)
}

func TestPlatformRegistry(t *testing.T) {
	Register(model.PlatformKalshi, func(cfg *config.PlatformConfig, logger *logrus.Logger) interfaces.MarketAdapter {
		return &stubAdapter{platform: model.PlatformKalshi}
	})
	t.Cleanup(func() { delete(factoryRegistry, model.PlatformKalshi) })

	cfg := &config.Config{Platforms: map[string]config.PlatformConfig{
		"kalshi":  {BaseURL: "http://kalshi.test"},
		"unknown": {BaseURL: "http://unknown.test"},
	}}
	r := NewPlatformRegistry(cfg, quietLogger())

	assert.Equal(t, 1, r.GetPlatformCount())
	assert.Equal(t, []model.PlatformType{model.PlatformKalshi}, r.ListRegisteredPlatforms())
	a, err := r.GetAdapter(model.PlatformKalshi)
	require.NoError(t, err)
	assert.Equal(t, model.PlatformKalshi, a.GetType())

	_, err = r.GetAdapter(model.PlatformPolymarket)
	assert.Error(t, err)
	assert.Len(t, r.Adapters(), 1)
}
