// Package prompt 生成两次模型调用的 system/user 提示词。
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BlockRunAI/PredictOS/internal/model"
)

// searchQuerySystem 搜索词生成的 system prompt
const searchQuerySystem = `You generate search queries for prediction market platforms.

Given the title of an event listed on one platform, output the 1-2 most distinctive keywords that would find the same event on another platform's keyword search.

Rules:
- Output ONLY the keywords, separated by a single space.
- No quotes, no punctuation, no explanation.
- Prefer proper nouns, tickers and named entities over generic words like "will", "price" or "market".`

// SearchQuery 搜索词生成提示词
func SearchQuery(title string, source, target model.PlatformType) (system, user string) {
	user = fmt.Sprintf("Event title on %s: %s\n\nGenerate a 1-2 word search query to find this event on %s.",
		source.DisplayName(), strings.TrimSpace(title), target.DisplayName())
	return searchQuerySystem, user
}

// arbitrageSystem 套利判断的 system prompt，要求严格输出 JSON 对象
const arbitrageSystem = `You are an expert prediction market analyst specializing in cross-platform arbitrage between Polymarket and Kalshi.

You receive one SOURCE market and a list of CANDIDATE markets found by keyword search on the other platform. Prices are on a 0-100 scale (cents per $1 payout). YES + NO of a single market always sum to 100.

Your tasks:
1. Decide whether any candidate is the SAME market as the source: same underlying event, same resolution criteria, same deadline. Similar topics are NOT enough.
2. If the same market exists, check for arbitrage: buying YES on one platform and NO on the other costs less than the guaranteed payout of 100.
3. Markets flagged "priceKnown": false have NO price data; their price of 50 is a placeholder. Never claim arbitrage based on a placeholder price.

Respond ONLY with a JSON object of this shape:
{
  "isSameMarket": boolean,
  "sameMarketConfidence": number between 0 and 1,
  "marketComparisonReasoning": string,
  "polymarketData": {"source": "polymarket", "name": string, "identifier": string, "yesPrice": number, "noPrice": number, "url": string} or null,
  "kalshiData": {"source": "kalshi", "name": string, "identifier": string, "yesPrice": number, "noPrice": number, "url": string} or null,
  "arbitrage": {
    "hasArbitrage": boolean,
    "profitPercent": number or null,
    "strategy": {"buyYesOn": string, "buyYesPrice": number, "buyNoOn": string, "buyNoPrice": number, "totalCost": number, "guaranteedPayout": number, "netProfit": number} or null,
    "explanation": string
  },
  "summary": string,
  "risks": [string],
  "recommendation": string
}

Fill the data field of the candidate platform with the best matching candidate, or null when nothing matches.`

// sourceView 提示词中的源市场（不含原始数据）
type sourceView struct {
	Platform   string  `json:"platform"`
	Name       string  `json:"name"`
	Identifier string  `json:"identifier"`
	URL        string  `json:"url"`
	YesPrice   float64 `json:"yesPrice"`
	NoPrice    float64 `json:"noPrice"`
	PriceKnown bool    `json:"priceKnown"`
}

// Arbitrage 套利判断提示词
func Arbitrage(source model.ArbitrageMarketData, candidates []model.SimplifiedMarket, searchPlatform model.PlatformType) (system, user string, err error) {
	known := source.PriceKnown == nil || *source.PriceKnown
	src, err := json.MarshalIndent(sourceView{
		Platform:   source.Source.DisplayName(),
		Name:       source.Name,
		Identifier: source.Identifier,
		URL:        source.URL,
		YesPrice:   source.YesPrice,
		NoPrice:    source.NoPrice,
		PriceKnown: known,
	}, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("序列化源市场失败: %w", err)
	}
	cands, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("序列化候选市场失败: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SOURCE MARKET (%s):\n%s\n\n", source.Source.DisplayName(), src)
	fmt.Fprintf(&sb, "CANDIDATE MARKETS (%s search results, %d total):\n%s\n\n", searchPlatform.DisplayName(), len(candidates), cands)
	fmt.Fprintf(&sb, "Determine whether any %s candidate is the same market as the source and whether an arbitrage opportunity exists.", searchPlatform.DisplayName())
	return arbitrageSystem, sb.String(), nil
}
