package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultYesPrice 价格缺失或无法解析时的兜底值（未知≈五五开）
const DefaultYesPrice = 50.0

var (
	hundred    = decimal.NewFromInt(100)
	pricePlace = int32(2)
)

// ClampPrice 将0-100刻度的价格截断到合法区间并保留两位小数
func ClampPrice(d decimal.Decimal) float64 {
	if d.IsNegative() {
		d = decimal.Zero
	}
	if d.GreaterThan(hundred) {
		d = hundred
	}
	return d.Round(pricePlace).InexactFloat64()
}

// PriceFromProbability 小数概率字符串（如 "0.37"）→ 0-100 刻度
func PriceFromProbability(s string) (float64, bool) {
	d, ok := parseDecimal(s)
	if !ok {
		return 0, false
	}
	return ClampPrice(d.Mul(hundred)), true
}

// PriceFromPercent 百分比字符串（如 "37%" 或 "37"）→ 0-100 刻度
func PriceFromPercent(s string) (float64, bool) {
	d, ok := parseDecimal(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if !ok {
		return 0, false
	}
	return ClampPrice(d), true
}

// PriceFromCents 美分报价（1-99）→ 0-100 刻度，二者数值一致
func PriceFromCents(cents float64) float64 {
	return ClampPrice(decimal.NewFromFloat(cents))
}

// MidPrice 买卖价中间价
func MidPrice(bid, ask float64) float64 {
	sum := decimal.NewFromFloat(bid).Add(decimal.NewFromFloat(ask))
	return ClampPrice(sum.Div(decimal.NewFromInt(2)))
}

// Complement 返回 100 - yes，按十进制计算保证 yes+no 恰好为100
func Complement(yes float64) float64 {
	return hundred.Sub(decimal.NewFromFloat(yes)).InexactFloat64()
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
