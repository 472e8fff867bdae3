package model

// SimplifiedMarket 标准化后的单个可交易选项，只保留比对所需字段
type SimplifiedMarket struct {
	Title    string  `json:"title"`
	YesPrice float64 `json:"yesPrice"` // 0-100
	// PriceKnown 为 false 表示上游无可用价格，YesPrice 为兜底值 50
	PriceKnown bool `json:"priceKnown"`
}

// NewSimplifiedMarket 构建选项；ok=false 时使用兜底价格
func NewSimplifiedMarket(title string, yes float64, ok bool) SimplifiedMarket {
	if !ok {
		return SimplifiedMarket{Title: title, YesPrice: DefaultYesPrice}
	}
	return SimplifiedMarket{Title: title, YesPrice: yes, PriceKnown: true}
}

// SourceEventData 通过 slug/ticker 直接拉取到的源事件
type SourceEventData struct {
	EventTitle string             `json:"eventTitle"`
	Markets    []SimplifiedMarket `json:"markets"`
	Source     PlatformType       `json:"source"`
}

// ArbitrageMarketData 源事件或匹配候选的可比对投影
type ArbitrageMarketData struct {
	Source     PlatformType `json:"source"`
	Name       string       `json:"name"`
	Identifier string       `json:"identifier"`
	YesPrice   float64      `json:"yesPrice"`
	NoPrice    float64      `json:"noPrice"`
	URL        string       `json:"url"`
	PriceKnown *bool        `json:"priceKnown,omitempty"`
	RawData    any          `json:"rawData,omitempty"`
}

// ProjectSource 由源事件构建投影：价格取第一个选项，no = 100 - yes，原始事件作为审计数据
func ProjectSource(ev *SourceEventData, identifier, url string) ArbitrageMarketData {
	yes := DefaultYesPrice
	known := false
	if ev != nil && len(ev.Markets) > 0 && ev.Markets[0].PriceKnown {
		yes = ev.Markets[0].YesPrice
		known = true
	}
	out := ArbitrageMarketData{
		Identifier: identifier,
		YesPrice:   yes,
		NoPrice:    Complement(yes),
		URL:        url,
		PriceKnown: &known,
	}
	if ev != nil {
		out.Source = ev.Source
		out.Name = ev.EventTitle
		out.RawData = ev
	}
	return out
}

// ArbitrageStrategy 套利执行建议（两边各买一侧）
type ArbitrageStrategy struct {
	BuyYesOn         string  `json:"buyYesOn,omitempty"`
	BuyYesPrice      float64 `json:"buyYesPrice,omitempty"`
	BuyNoOn          string  `json:"buyNoOn,omitempty"`
	BuyNoPrice       float64 `json:"buyNoPrice,omitempty"`
	TotalCost        float64 `json:"totalCost,omitempty"`
	GuaranteedPayout float64 `json:"guaranteedPayout,omitempty"`
	NetProfit        float64 `json:"netProfit,omitempty"`
}

// ArbitrageOpportunity 套利判断
type ArbitrageOpportunity struct {
	HasArbitrage  bool               `json:"hasArbitrage"`
	ProfitPercent *float64           `json:"profitPercent,omitempty"`
	Strategy      *ArbitrageStrategy `json:"strategy,omitempty"`
	Explanation   string             `json:"explanation,omitempty"`
}

// ArbitrageAnalysis 流水线最终结论。PolymarketData/KalshiData 中源平台那一侧始终为本地投影
type ArbitrageAnalysis struct {
	IsSameMarket              bool                 `json:"isSameMarket"`
	SameMarketConfidence      float64              `json:"sameMarketConfidence"`
	MarketComparisonReasoning string               `json:"marketComparisonReasoning"`
	PolymarketData            *ArbitrageMarketData `json:"polymarketData,omitempty"`
	KalshiData                *ArbitrageMarketData `json:"kalshiData,omitempty"`
	Arbitrage                 ArbitrageOpportunity `json:"arbitrage"`
	Summary                   string               `json:"summary"`
	Risks                     []string             `json:"risks"`
	Recommendation            string               `json:"recommendation"`
}

// SetPlatformData 按平台写入对应槽位
func (a *ArbitrageAnalysis) SetPlatformData(p PlatformType, data *ArbitrageMarketData) {
	switch p {
	case PlatformPolymarket:
		a.PolymarketData = data
	case PlatformKalshi:
		a.KalshiData = data
	}
}

// PlatformData 读取对应平台槽位
func (a *ArbitrageAnalysis) PlatformData(p PlatformType) *ArbitrageMarketData {
	switch p {
	case PlatformPolymarket:
		return a.PolymarketData
	case PlatformKalshi:
		return a.KalshiData
	default:
		return nil
	}
}
