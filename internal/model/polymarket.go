package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// PolymarketEvent Gamma API 事件结构（/events/slug/{slug} 与 /events 列表共用）
type PolymarketEvent struct {
	ID      string             `json:"id"`
	Slug    string             `json:"slug"`
	Title   string             `json:"title"`
	Active  flexBool           `json:"active"`
	Closed  flexBool           `json:"closed"`
	Markets []PolymarketMarket `json:"markets"`
}

// PolymarketMarket Gamma API 事件下的盘口
type PolymarketMarket struct {
	ID            string `json:"id"`
	Question      string `json:"question"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Outcomes      string `json:"outcomes"`      // 伪JSON数组字符串，如 "[\"Yes\",\"No\"]"
	OutcomePrices string `json:"outcomePrices"` // 伪JSON数组字符串，如 "[\"0.37\",\"0.63\"]"
}

// DisplayTitle question 优先，缺失时回退到 title
func (m PolymarketMarket) DisplayTitle() string {
	if q := strings.TrimSpace(m.Question); q != "" {
		return q
	}
	return m.Title
}

// flexBool 兼容 Gamma 返回 bool 或 "true"/"false" 字符串
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexBool(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, _ := strconv.ParseBool(s)
	*f = flexBool(v)
	return nil
}
