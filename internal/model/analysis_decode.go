package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DecodeAnalysis 宽松解析模型返回的分析JSON。
// 仅当文本不是合法JSON对象时返回错误；字段类型偏差（数字写成字符串、risks 写成单个字符串等）按最接近的含义转换
func DecodeAnalysis(data []byte) (*ArbitrageAnalysis, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("analysis is null")
	}

	a := &ArbitrageAnalysis{
		IsSameMarket:              flexBoolOf(raw["isSameMarket"]),
		MarketComparisonReasoning: flexText(raw["marketComparisonReasoning"]),
		PolymarketData:            flexMarketData(raw["polymarketData"]),
		KalshiData:                flexMarketData(raw["kalshiData"]),
		Arbitrage:                 flexOpportunity(raw["arbitrage"]),
		Summary:                   flexText(raw["summary"]),
		Risks:                     flexStrings(raw["risks"]),
		Recommendation:            flexText(raw["recommendation"]),
	}
	if v, ok := flexNumber(raw["sameMarketConfidence"]); ok {
		a.SameMarketConfidence = v
	}
	return a, nil
}

// flexMarketData 非对象一律视为缺失
func flexMarketData(v any) *ArbitrageMarketData {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	d := &ArbitrageMarketData{
		Name:       flexText(obj["name"]),
		Identifier: flexText(obj["identifier"]),
		URL:        flexText(obj["url"]),
		RawData:    obj["rawData"],
	}
	if p, ok := ParsePlatform(flexText(obj["source"])); ok {
		d.Source = p
	}
	var yesOK, noOK bool
	d.YesPrice, yesOK = flexNumber(obj["yesPrice"])
	d.NoPrice, noOK = flexNumber(obj["noPrice"])
	if !yesOK && noOK {
		d.YesPrice = Complement(d.NoPrice)
	}
	if pk, ok := obj["priceKnown"]; ok && pk != nil {
		known := flexBoolOf(pk)
		d.PriceKnown = &known
	}
	return d
}

func flexOpportunity(v any) ArbitrageOpportunity {
	obj, ok := v.(map[string]any)
	if !ok {
		return ArbitrageOpportunity{}
	}
	op := ArbitrageOpportunity{
		HasArbitrage: flexBoolOf(obj["hasArbitrage"]),
		Explanation:  flexText(obj["explanation"]),
	}
	if p, ok := flexNumber(obj["profitPercent"]); ok {
		op.ProfitPercent = &p
	}
	if s, ok := obj["strategy"].(map[string]any); ok {
		st := &ArbitrageStrategy{
			BuyYesOn: flexText(s["buyYesOn"]),
			BuyNoOn:  flexText(s["buyNoOn"]),
		}
		st.BuyYesPrice, _ = flexNumber(s["buyYesPrice"])
		st.BuyNoPrice, _ = flexNumber(s["buyNoPrice"])
		st.TotalCost, _ = flexNumber(s["totalCost"])
		st.GuaranteedPayout, _ = flexNumber(s["guaranteedPayout"])
		st.NetProfit, _ = flexNumber(s["netProfit"])
		op.Strategy = st
	}
	return op
}

// flexNumber 数字或数字字符串（允许 % 后缀）
func flexNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		d, ok := parseDecimal(strings.TrimSuffix(strings.TrimSpace(t), "%"))
		if !ok {
			return 0, false
		}
		return d.InexactFloat64(), true
	default:
		return 0, false
	}
}

// flexBoolOf bool、"true"/"false" 字符串或非零数字
func flexBoolOf(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b
	case float64:
		return t != 0
	default:
		return false
	}
}

func flexText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64, bool:
		return fmt.Sprint(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// flexStrings 数组或单个字符串；空值返回空切片而非 nil
func flexStrings(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case []any:
		for _, item := range t {
			if s := strings.TrimSpace(flexText(item)); s != "" {
				out = append(out, s)
			}
		}
	case nil:
	default:
		if s := strings.TrimSpace(flexText(t)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
