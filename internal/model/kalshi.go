package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ========== Kalshi 网关 GET /event/{ticker}?withNestedMarkets=true ==========

// KalshiEventResponse 单事件响应：事件可能包在 "event" 下，也可能直接平铺；markets 可能与 event 同级
type KalshiEventResponse struct {
	Event   *KalshiEventApi   `json:"event"`
	Markets []KalshiMarketApi `json:"markets"`
	KalshiEventApi
}

// Resolve 合并两种响应形态，返回事件（无事件时返回nil）
func (r *KalshiEventResponse) Resolve() *KalshiEventApi {
	ev := r.Event
	if ev == nil {
		if r.EventTicker == "" && r.Title == "" {
			return nil
		}
		flat := r.KalshiEventApi
		ev = &flat
	}
	if len(ev.Markets) == 0 && len(r.Markets) > 0 {
		ev.Markets = r.Markets
	}
	return ev
}

// KalshiEventApi 单条事件的 API 结构
type KalshiEventApi struct {
	EventTicker  string            `json:"event_ticker"`
	SeriesTicker string            `json:"series_ticker"`
	Title        string            `json:"title"`
	SubTitle     string            `json:"sub_title"`
	Category     string            `json:"category"`
	Markets      []KalshiMarketApi `json:"markets,omitempty"`
}

// KalshiMarketApi 单条 market 的 API 结构（binary YES/NO，价格单位为美分）
type KalshiMarketApi struct {
	Ticker      string       `json:"ticker"`
	EventTicker string       `json:"event_ticker"`
	Title       string       `json:"title"`
	YesSubTitle string       `json:"yes_sub_title"`
	Status      string       `json:"status"`
	LastPrice   *FlexDecimal `json:"last_price"`
	YesBid      *FlexDecimal `json:"yes_bid"`
	YesAsk      *FlexDecimal `json:"yes_ask"`
}

// DisplayTitle title 优先，其次 yes_sub_title，最后 ticker
func (m KalshiMarketApi) DisplayTitle() string {
	for _, s := range []string{m.Title, m.YesSubTitle, m.Ticker} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// ========== Kalshi 网关 GET /search?q=&event_status=open&withNestedMarkets=true ==========

// KalshiSearchResponse 搜索响应根
type KalshiSearchResponse struct {
	Events []KalshiSearchEvent `json:"events"`
}

// KalshiSearchEvent 搜索结果中的事件
type KalshiSearchEvent struct {
	EventTicker string               `json:"event_ticker"`
	Title       string               `json:"title"`
	Markets     []KalshiSearchMarket `json:"markets"`
}

// KalshiSearchMarket 搜索结果中的 market，yesAsk/yesBid 为美元小数字符串（如 "0.44"）
type KalshiSearchMarket struct {
	Ticker      string       `json:"ticker"`
	Title       string       `json:"title"`
	YesSubTitle string       `json:"yesSubTitle"`
	YesAsk      *FlexDecimal `json:"yesAsk"`
	YesBid      *FlexDecimal `json:"yesBid"`
}

// DisplayTitle 同 KalshiMarketApi
func (m KalshiSearchMarket) DisplayTitle() string {
	for _, s := range []string{m.Title, m.YesSubTitle, m.Ticker} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// FlexDecimal 兼容数字与数字字符串两种 JSON 表示，保留原始文本交给 decimal 解析
type FlexDecimal string

func (f *FlexDecimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexDecimal(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexDecimal(n.String())
	return nil
}

// String 原始文本；nil 安全
func (f *FlexDecimal) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}
