package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/BlockRunAI/PredictOS/internal/adapter"
	"github.com/BlockRunAI/PredictOS/internal/config"
	"github.com/BlockRunAI/PredictOS/internal/interfaces"
	"github.com/BlockRunAI/PredictOS/internal/model"
	"github.com/BlockRunAI/PredictOS/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

func init() {
	adapter.Register(model.PlatformPolymarket, NewPolymarketAdapter)
}

// Adapter Polymarket Gamma API 只读适配器
type Adapter struct {
	cfg        *config.PlatformConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewPolymarketAdapter(cfg *config.PlatformConfig, logger *logrus.Logger) interfaces.MarketAdapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(httpclient.Options{Timeout: cfg.Timeout, Proxy: cfg.Proxy}, logger),
		logger:     logger,
	}
}

// GetType ========== 实现MarketAdapter接口 ==========
func (p *Adapter) GetType() model.PlatformType {
	return model.PlatformPolymarket
}

// FetchEvent GET /events/slug/{slug}
func (p *Adapter) FetchEvent(ctx context.Context, slug string) (*model.SourceEventData, error) {
	eventURL := fmt.Sprintf("%s/events/slug/%s", strings.TrimRight(p.cfg.BaseURL, "/"), url.PathEscape(slug))
	var ev model.PolymarketEvent
	if err := httpclient.GetJSON(ctx, p.httpClient, eventURL, nil, &ev); err != nil {
		return nil, fmt.Errorf("获取Polymarket事件%s失败: %w", slug, err)
	}
	return NormalizeEvent(&ev), nil
}

// SearchMarkets GET /events?status=open&q={query}，所有事件的盘口展开为一个序列
func (p *Adapter) SearchMarkets(ctx context.Context, query string) ([]model.SimplifiedMarket, error) {
	q := url.Values{}
	q.Set("status", "open")
	q.Set("q", query)
	searchURL := fmt.Sprintf("%s/events?%s", strings.TrimRight(p.cfg.BaseURL, "/"), q.Encode())

	var raw json.RawMessage
	if err := httpclient.GetJSON(ctx, p.httpClient, searchURL, nil, &raw); err != nil {
		return nil, fmt.Errorf("搜索Polymarket事件失败: %w", err)
	}
	events, err := decodeEventList(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: 解析Polymarket搜索结果失败: %v", model.ErrUpstream, err)
	}

	markets := make([]model.SimplifiedMarket, 0)
	for i := range events {
		markets = append(markets, NormalizeMarkets(events[i].Markets)...)
	}
	p.logger.WithFields(logrus.Fields{
		"query":   query,
		"events":  len(events),
		"markets": len(markets),
	}).Debug("Polymarket搜索完成")
	return markets, nil
}

// decodeEventList 兼容裸数组与 {"events":[...]} / {"data":[...]} 两种包装
func decodeEventList(raw json.RawMessage) ([]model.PolymarketEvent, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var events []model.PolymarketEvent
		if err := json.Unmarshal(raw, &events); err != nil {
			return nil, err
		}
		return events, nil
	}
	var wrapped struct {
		Events []model.PolymarketEvent `json:"events"`
		Data   []model.PolymarketEvent `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	if len(wrapped.Events) > 0 {
		return wrapped.Events, nil
	}
	return wrapped.Data, nil
}

// NormalizeEvent 事件 → SourceEventData（纯函数）
func NormalizeEvent(ev *model.PolymarketEvent) *model.SourceEventData {
	return &model.SourceEventData{
		EventTitle: ev.Title,
		Markets:    NormalizeMarkets(ev.Markets),
		Source:     model.PlatformPolymarket,
	}
}

// NormalizeMarkets yesPrice = outcomePrices[0] × 100，无法解析时兜底 50
func NormalizeMarkets(markets []model.PolymarketMarket) []model.SimplifiedMarket {
	out := make([]model.SimplifiedMarket, 0, len(markets))
	for _, m := range markets {
		yes, ok := yesPrice(m.OutcomePrices)
		out = append(out, model.NewSimplifiedMarket(m.DisplayTitle(), yes, ok))
	}
	return out
}

func yesPrice(outcomePrices string) (float64, bool) {
	prices, err := parseJSONArrayString(outcomePrices)
	if err != nil || len(prices) == 0 {
		return 0, false
	}
	return model.PriceFromProbability(prices[0])
}

// 解析伪JSON数组字符串（元素可能是字符串也可能是数字）
func parseJSONArrayString(s string) ([]string, error) {
	if s == "" || s == "null" {
		return []string{}, nil
	}
	var res []model.FlexDecimal
	if err := json.Unmarshal([]byte(s), &res); err != nil {
		return nil, err
	}
	out := make([]string, len(res))
	for i := range res {
		out[i] = res[i].String()
	}
	return out, nil
}
