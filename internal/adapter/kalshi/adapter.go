package kalshi

import (
	"context"
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
	adapter.Register(model.PlatformKalshi, NewKalshiAdapter)
}

// Adapter 经由中间网关访问 Kalshi 的只读适配器
type Adapter struct {
	cfg        *config.PlatformConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewKalshiAdapter(cfg *config.PlatformConfig, logger *logrus.Logger) interfaces.MarketAdapter {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(httpclient.Options{Timeout: cfg.Timeout, Proxy: cfg.Proxy}, logger),
		logger:     logger,
	}
}

// GetType ========== 实现MarketAdapter接口 ==========
func (k *Adapter) GetType() model.PlatformType {
	return model.PlatformKalshi
}

// FetchEvent GET /event/{ticker}?withNestedMarkets=true
func (k *Adapter) FetchEvent(ctx context.Context, ticker string) (*model.SourceEventData, error) {
	eventURL := fmt.Sprintf("%s/event/%s?withNestedMarkets=true", k.baseURL(), url.PathEscape(ticker))
	var resp model.KalshiEventResponse
	if err := httpclient.GetJSON(ctx, k.httpClient, eventURL, k.header(), &resp); err != nil {
		return nil, fmt.Errorf("获取Kalshi事件%s失败: %w", ticker, err)
	}
	ev := resp.Resolve()
	if ev == nil {
		// 网关返回空对象，按无盘口处理，由网关边界映射为未找到
		return &model.SourceEventData{Source: model.PlatformKalshi, Markets: []model.SimplifiedMarket{}}, nil
	}
	return NormalizeEvent(ev), nil
}

// SearchMarkets GET /search?q=&event_status=open&withNestedMarkets=true
func (k *Adapter) SearchMarkets(ctx context.Context, query string) ([]model.SimplifiedMarket, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("event_status", "open")
	q.Set("withNestedMarkets", "true")
	searchURL := fmt.Sprintf("%s/search?%s", k.baseURL(), q.Encode())

	var resp model.KalshiSearchResponse
	if err := httpclient.GetJSON(ctx, k.httpClient, searchURL, k.header(), &resp); err != nil {
		return nil, fmt.Errorf("搜索Kalshi事件失败: %w", err)
	}
	markets := NormalizeSearch(&resp)
	k.logger.WithFields(logrus.Fields{
		"query":   query,
		"events":  len(resp.Events),
		"markets": len(markets),
	}).Debug("Kalshi搜索完成")
	return markets, nil
}

func (k *Adapter) baseURL() string {
	return strings.TrimRight(k.cfg.BaseURL, "/")
}

// header 配置了网关Key时携带 Bearer 认证
func (k *Adapter) header() http.Header {
	h := http.Header{}
	if k.cfg.AuthKey != "" {
		h.Set("Authorization", "Bearer "+k.cfg.AuthKey)
	}
	return h
}

// NormalizeEvent 事件 → SourceEventData（纯函数）
func NormalizeEvent(ev *model.KalshiEventApi) *model.SourceEventData {
	markets := make([]model.SimplifiedMarket, 0, len(ev.Markets))
	for _, m := range ev.Markets {
		yes, ok := eventMarketPrice(m)
		markets = append(markets, model.NewSimplifiedMarket(m.DisplayTitle(), yes, ok))
	}
	return &model.SourceEventData{
		EventTitle: ev.Title,
		Markets:    markets,
		Source:     model.PlatformKalshi,
	}
}

// NormalizeSearch 所有事件的盘口展开为一个序列（纯函数）
func NormalizeSearch(resp *model.KalshiSearchResponse) []model.SimplifiedMarket {
	markets := make([]model.SimplifiedMarket, 0)
	for _, ev := range resp.Events {
		for _, m := range ev.Markets {
			yes, ok := searchMarketPrice(m)
			markets = append(markets, model.NewSimplifiedMarket(m.DisplayTitle(), yes, ok))
		}
	}
	return markets
}

// eventMarketPrice 美分报价：买卖价都有取中间价，否则 last_price，否则取存在的一侧
func eventMarketPrice(m model.KalshiMarketApi) (float64, bool) {
	bid, hasBid := model.PriceFromPercent(m.YesBid.String())
	ask, hasAsk := model.PriceFromPercent(m.YesAsk.String())
	if hasBid && hasAsk {
		return model.MidPrice(bid, ask), true
	}
	if last, ok := model.PriceFromPercent(m.LastPrice.String()); ok {
		return last, true
	}
	if hasBid {
		return bid, true
	}
	if hasAsk {
		return ask, true
	}
	return 0, false
}

// searchMarketPrice 美元小数报价（"0.44"）：买卖价中间价 × 100，缺一侧时取另一侧
func searchMarketPrice(m model.KalshiSearchMarket) (float64, bool) {
	bid, hasBid := model.PriceFromProbability(m.YesBid.String())
	ask, hasAsk := model.PriceFromProbability(m.YesAsk.String())
	switch {
	case hasBid && hasAsk:
		return model.MidPrice(bid, ask), true
	case hasBid:
		return bid, true
	case hasAsk:
		return ask, true
	default:
		return 0, false
	}
}
