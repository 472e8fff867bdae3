package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/BlockRunAI/PredictOS/internal/interfaces"
	"github.com/BlockRunAI/PredictOS/internal/model"
	"github.com/BlockRunAI/PredictOS/internal/prompt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// JudgeResult 套利判断结果
type JudgeResult struct {
	Analysis   *model.ArbitrageAnalysis
	Model      string
	TokensUsed *int
}

// ArbitrageJudge 让模型判断候选中是否有同一市场以及是否存在套利
type ArbitrageJudge struct {
	backends  BackendSelector
	maxTokens int
	webURLs   map[model.PlatformType]string // 平台前台站点，用于补全匹配候选的链接
	logger    *logrus.Logger
}

// NewArbitrageJudge 创建 ArbitrageJudge
func NewArbitrageJudge(backends BackendSelector, maxTokens int, logger *logrus.Logger) *ArbitrageJudge {
	return &ArbitrageJudge{backends: backends, maxTokens: maxTokens, logger: logger}
}

// WithWebURLs 设置各平台前台站点地址
func (j *ArbitrageJudge) WithWebURLs(urls map[model.PlatformType]string) *ArbitrageJudge {
	j.webURLs = urls
	return j
}

// Judge 源平台槽位始终使用本地投影；对侧槽位取模型给出的值（可能为空）并校正价格与链接；其余字段宽松解析后采用
func (j *ArbitrageJudge) Judge(ctx context.Context, source model.ArbitrageMarketData, candidates []model.SimplifiedMarket, searchPlatform model.PlatformType, modelID string) (*JudgeResult, error) {
	system, user, err := prompt.Arbitrage(source, candidates, searchPlatform)
	if err != nil {
		return nil, err
	}

	backend := j.backends.Select(modelID)
	res, err := backend.Respond(ctx, interfaces.RespondRequest{
		Model:        modelID,
		Instructions: system,
		Input:        user,
		MaxTokens:    j.maxTokens,
		Format:       interfaces.OutputJSONObject,
	})
	if err != nil {
		return nil, fmt.Errorf("套利分析调用失败: %w", err)
	}

	analysis, err := model.DecodeAnalysis([]byte(strings.TrimSpace(res.Text)))
	if err != nil {
		j.logger.WithError(err).WithFields(logrus.Fields{
			"backend": backend.Name(),
			"model":   res.Model,
			"chars":   len(res.Text),
		}).Error("模型返回的分析结果不是合法JSON")
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidAgentResponse, err)
	}

	matched := analysis.PlatformData(searchPlatform)
	analysis.PolymarketData, analysis.KalshiData = nil, nil
	if matched != nil {
		j.normalizeMatched(matched, searchPlatform)
	}
	analysis.SetPlatformData(searchPlatform, matched)
	local := source
	analysis.SetPlatformData(source.Source, &local)

	j.logger.WithFields(logrus.Fields{
		"backend":        backend.Name(),
		"is_same_market": analysis.IsSameMarket,
		"confidence":     analysis.SameMarketConfidence,
		"has_arbitrage":  analysis.Arbitrage.HasArbitrage,
	}).Info("套利分析完成")
	return &JudgeResult{Analysis: analysis, Model: res.Model, TokensUsed: res.TokensUsed}, nil
}

// normalizeMatched 对侧槽位：平台固定为搜索平台，no = 100 - yes，缺链接时按前台站点拼接
func (j *ArbitrageJudge) normalizeMatched(m *model.ArbitrageMarketData, searchPlatform model.PlatformType) {
	m.Source = searchPlatform
	m.YesPrice = model.ClampPrice(decimal.NewFromFloat(m.YesPrice))
	m.NoPrice = model.Complement(m.YesPrice)
	if strings.TrimSpace(m.URL) == "" {
		m.URL = searchPlatform.MarketURL(j.webURLs[searchPlatform], m.Identifier)
	}
}
