package model

import "strings"

// PlatformType 平台类型枚举
type PlatformType string

const (
	PlatformPolymarket PlatformType = "polymarket"
	PlatformKalshi     PlatformType = "kalshi" // Kalshi官方拼写
)

// platformDomains 平台规范域名，用于从URL识别平台
var platformDomains = map[PlatformType]string{
	PlatformPolymarket: "polymarket.com",
	PlatformKalshi:     "kalshi.com",
}

// AllPlatforms 支持的全部平台（固定顺序）
func AllPlatforms() []PlatformType {
	return []PlatformType{PlatformPolymarket, PlatformKalshi}
}

// Domain 返回平台的规范域名
func (p PlatformType) Domain() string {
	return platformDomains[p]
}

// Valid 是否为受支持的平台
func (p PlatformType) Valid() bool {
	_, ok := platformDomains[p]
	return ok
}

// Opposite 返回另一个平台（套利搜索的目标平台）
func (p PlatformType) Opposite() PlatformType {
	if p == PlatformPolymarket {
		return PlatformKalshi
	}
	return PlatformPolymarket
}

// DisplayName 用于提示词和日志的展示名
func (p PlatformType) DisplayName() string {
	switch p {
	case PlatformPolymarket:
		return "Polymarket"
	case PlatformKalshi:
		return "Kalshi"
	default:
		return string(p)
	}
}

// ParsePlatform 按名称解析平台（大小写不敏感）
func ParsePlatform(name string) (PlatformType, bool) {
	p := PlatformType(strings.ToLower(strings.TrimSpace(name)))
	return p, p.Valid()
}

// MarketURL 用前台站点地址拼接市场链接，可被 resolver 重新解析；任一参数为空返回空串
func (p PlatformType) MarketURL(webURL, identifier string) string {
	webURL = strings.TrimRight(strings.TrimSpace(webURL), "/")
	identifier = strings.TrimSpace(identifier)
	if webURL == "" || identifier == "" {
		return ""
	}
	switch p {
	case PlatformPolymarket:
		return webURL + "/event/" + identifier
	case PlatformKalshi:
		return webURL + "/markets/" + strings.ToLower(identifier)
	default:
		return ""
	}
}
