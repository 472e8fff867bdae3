package kalshi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BlockRunAI/PredictOS/internal/config"
	"github.com/BlockRunAI/PredictOS/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestAdapter(t *testing.T, authKey string, h http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := &config.PlatformConfig{BaseURL: srv.URL, Timeout: 5, AuthKey: authKey}
	return NewKalshiAdapter(cfg, quietLogger()).(*Adapter)
}

func TestFetchEventNested(t *testing.T) {
	a := newTestAdapter(t, "gw-key", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/event/KXFEDDECISION-25DEC", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("withNestedMarkets"))
		assert.Equal(t, "Bearer gw-key", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{
		  "event": {
		    "event_ticker": "KXFEDDECISION-25DEC",
		    "title": "Fed decision in Dec 2025?",
		    "markets": [
		      {"ticker": "A", "title": "Cut 25bps", "yes_bid": 40, "yes_ask": 44, "last_price": 10},
		      {"ticker": "B", "yes_sub_title": "Hold", "last_price": 37},
		      {"ticker": "C", "title": "Hike", "yes_ask": "12"},
		      {"ticker": "D", "title": "Unknown"}
		    ]
		  }
		}`)
	})

	ev, err := a.FetchEvent(context.Background(), "KXFEDDECISION-25DEC")
	require.NoError(t, err)
	assert.Equal(t, model.PlatformKalshi, ev.Source)
	assert.Equal(t, "Fed decision in Dec 2025?", ev.EventTitle)
	require.Len(t, ev.Markets, 4)

	assert.InDelta(t, 42.0, ev.Markets[0].YesPrice, 0.001)
	assert.Equal(t, "Hold", ev.Markets[1].Title)
	assert.InDelta(t, 37.0, ev.Markets[1].YesPrice, 0.001)
	assert.InDelta(t, 12.0, ev.Markets[2].YesPrice, 0.001)
	assert.Equal(t, 50.0, ev.Markets[3].YesPrice)
	assert.False(t, ev.Markets[3].PriceKnown)
}

func TestFetchEventFlatWithSiblingMarkets(t *testing.T) {
	a := newTestAdapter(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{
		  "event_ticker": "KXBTC",
		  "title": "Bitcoin above 100k?",
		  "markets": [{"ticker": "KXBTC-100K", "title": "Above 100k", "last_price": 61}]
		}`)
	})

	ev, err := a.FetchEvent(context.Background(), "KXBTC")
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin above 100k?", ev.EventTitle)
	require.Len(t, ev.Markets, 1)
	assert.InDelta(t, 61.0, ev.Markets[0].YesPrice, 0.001)
}

func TestFetchEventUpstreamError(t *testing.T) {
	a := newTestAdapter(t, "", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
	_, err := a.FetchEvent(context.Background(), "KXBTC")
	assert.ErrorIs(t, err, model.ErrUpstream)
}

func TestSearchMarketsFlattensDollarQuotes(t *testing.T) {
	a := newTestAdapter(t, "", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "fed rate", q.Get("q"))
		assert.Equal(t, "open", q.Get("event_status"))
		assert.Equal(t, "true", q.Get("withNestedMarkets"))
		_, _ = io.WriteString(w, `{
		  "events": [
		    {"event_ticker": "E1", "markets": [
		      {"ticker": "M1", "title": "Cut", "yesBid": "0.40", "yesAsk": "0.44"},
		      {"ticker": "M2", "title": "Hold", "yesAsk": "0.3"}
		    ]},
		    {"event_ticker": "E2", "markets": [
		      {"ticker": "M3", "yesSubTitle": "Hike", "yesBid": null, "yesAsk": null}
		    ]}
		  ]
		}`)
	})

	markets, err := a.SearchMarkets(context.Background(), "fed rate")
	require.NoError(t, err)
	require.Len(t, markets, 3)
	assert.InDelta(t, 42.0, markets[0].YesPrice, 0.001)
	assert.InDelta(t, 30.0, markets[1].YesPrice, 0.001)
	assert.Equal(t, "Hike", markets[2].Title)
	assert.Equal(t, 50.0, markets[2].YesPrice)
	assert.False(t, markets[2].PriceKnown)
}

func TestSearchMarketsNoEvents(t *testing.T) {
	a := newTestAdapter(t, "", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"events": []}`)
	})
	markets, err := a.SearchMarkets(context.Background(), "zzz")
	require.NoError(t, err)
	assert.Empty(t, markets)
}

func TestNormalizeSearchIsIdempotent(t *testing.T) {
	bid, ask := model.FlexDecimal("0.40"), model.FlexDecimal("0.44")
	resp := &model.KalshiSearchResponse{Events: []model.KalshiSearchEvent{{
		Markets: []model.KalshiSearchMarket{{Title: "Cut", YesBid: &bid, YesAsk: &ask}},
	}}}
	assert.Equal(t, NormalizeSearch(resp), NormalizeSearch(resp))
}
