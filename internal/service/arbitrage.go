package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BlockRunAI/PredictOS/internal/interfaces"
	"github.com/BlockRunAI/PredictOS/internal/model"
	"github.com/BlockRunAI/PredictOS/internal/resolver"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// MarketGateway 行情网关（adapter.Gateway）
type MarketGateway interface {
	FetchSource(ctx context.Context, platform model.PlatformType, identifier string) (*model.SourceEventData, error)
	Search(ctx context.Context, platform model.PlatformType, query string) ([]model.SimplifiedMarket, error)
}

// AnalysisResult 一次分析的结果与元信息；出错时也尽量填充已知字段
type AnalysisResult struct {
	RequestID      string
	Analysis       *model.ArbitrageAnalysis
	Model          string
	TokensUsed     *int
	SourceMarket   model.PlatformType
	SearchedMarket model.PlatformType
	Query          string
	Candidates     int
	EarlyExit      bool
}

// ArbitrageService 串联链接解析、拉取、搜索词生成、搜索与套利判断
type ArbitrageService struct {
	gateway MarketGateway
	queries *QuerySynthesizer
	judge   *ArbitrageJudge
	audit   interfaces.AuditRecorder // 可为 nil
	logger  *logrus.Logger
}

// NewArbitrageService 创建 ArbitrageService；audit 为 nil 时不落库
func NewArbitrageService(gateway MarketGateway, queries *QuerySynthesizer, judge *ArbitrageJudge, audit interfaces.AuditRecorder, logger *logrus.Logger) *ArbitrageService {
	return &ArbitrageService{
		gateway: gateway,
		queries: queries,
		judge:   judge,
		audit:   audit,
		logger:  logger,
	}
}

// Analyze 顺序执行整条流水线。返回的 result 始终非 nil
func (s *ArbitrageService) Analyze(ctx context.Context, req model.AnalyzeRequest) (*AnalysisResult, error) {
	result := &AnalysisResult{RequestID: uuid.New().String(), Model: req.Model}
	if strings.TrimSpace(req.URL) == "" {
		return result, fmt.Errorf("%w: Missing required parameter: 'url'", model.ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Model) == "" {
		return result, fmt.Errorf("%w: Missing required parameter: 'model'", model.ErrInvalidRequest)
	}

	target, err := resolver.Resolve(req.URL)
	if err != nil {
		return result, err
	}
	result.SourceMarket = target.Platform
	result.SearchedMarket = target.Platform.Opposite()
	log := s.logger.WithFields(logrus.Fields{
		"request_id": result.RequestID,
		"source":     target.Platform,
		"identifier": target.Identifier,
		"model":      req.Model,
	})

	ev, err := s.gateway.FetchSource(ctx, target.Platform, target.Identifier)
	if err != nil {
		return result, err
	}
	log.WithFields(logrus.Fields{"title": ev.EventTitle, "markets": len(ev.Markets)}).Info("源事件拉取成功")

	q, err := s.queries.Synthesize(ctx, ev.EventTitle, target.Platform, result.SearchedMarket, req.Model)
	if err != nil {
		return result, err
	}
	result.Query = q.Query
	result.Model = firstNonEmpty(q.Model, req.Model)
	result.TokensUsed = q.TokensUsed

	candidates, err := s.gateway.Search(ctx, result.SearchedMarket, q.Query)
	if err != nil {
		return result, err
	}
	result.Candidates = len(candidates)

	projection := model.ProjectSource(ev, target.Identifier, req.URL)
	if len(candidates) == 0 {
		log.WithField("query", q.Query).Info("搜索无结果，跳过套利分析")
		result.EarlyExit = true
		result.Analysis = noMatchAnalysis(projection, result.SearchedMarket, q.Query)
		s.record(ctx, req, result, ev, target.Identifier)
		return result, nil
	}

	verdict, err := s.judge.Judge(ctx, projection, candidates, result.SearchedMarket, req.Model)
	if err != nil {
		return result, err
	}
	result.Analysis = verdict.Analysis
	result.Model = firstNonEmpty(verdict.Model, result.Model)
	result.TokensUsed = sumTokens(result.TokensUsed, verdict.TokensUsed)

	log.WithFields(logrus.Fields{
		"query":         q.Query,
		"candidates":    len(candidates),
		"has_arbitrage": verdict.Analysis.Arbitrage.HasArbitrage,
	}).Info("套利分析流水线完成")
	s.record(ctx, req, result, ev, target.Identifier)
	return result, nil
}

// noMatchAnalysis 搜索为空时的固定结论，源平台槽位仍填本地投影
func noMatchAnalysis(source model.ArbitrageMarketData, searched model.PlatformType, query string) *model.ArbitrageAnalysis {
	msg := fmt.Sprintf("No matching markets found on %s for search query %q.", searched.DisplayName(), query)
	a := &model.ArbitrageAnalysis{
		IsSameMarket:              false,
		SameMarketConfidence:      0,
		MarketComparisonReasoning: msg,
		Arbitrage: model.ArbitrageOpportunity{
			HasArbitrage: false,
			Explanation:  "No comparable market was found, so no arbitrage can be evaluated.",
		},
		Summary:        fmt.Sprintf("Could not find an equivalent of %q on %s.", source.Name, searched.DisplayName()),
		Risks:          []string{fmt.Sprintf("The %s search returned no results; the market may exist under different wording.", searched.DisplayName())},
		Recommendation: fmt.Sprintf("Search %s manually or try again with a different model.", searched.DisplayName()),
	}
	local := source
	a.SetPlatformData(source.Source, &local)
	return a
}

// record 审计落库失败只记录日志，不影响请求
func (s *ArbitrageService) record(ctx context.Context, req model.AnalyzeRequest, result *AnalysisResult, ev *model.SourceEventData, identifier string) {
	if s.audit == nil {
		return
	}
	analysis, err := json.Marshal(result.Analysis)
	if err != nil {
		s.logger.WithError(err).Warn("序列化分析结果失败，跳过审计")
		return
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		raw = nil
	}
	audit := &model.ArbitrageAudit{
		RequestID:      result.RequestID,
		URL:            req.URL,
		Model:          result.Model,
		SourcePlatform: string(result.SourceMarket),
		SearchPlatform: string(result.SearchedMarket),
		Identifier:     identifier,
		SearchQuery:    result.Query,
		CandidateCount: result.Candidates,
		IsSameMarket:   result.Analysis.IsSameMarket,
		HasArbitrage:   result.Analysis.Arbitrage.HasArbitrage,
		TokensUsed:     result.TokensUsed,
		Analysis:       datatypes.JSON(analysis),
		RawSource:      datatypes.JSON(raw),
	}
	if err := s.audit.Record(ctx, audit); err != nil {
		s.logger.WithError(err).WithField("request_id", result.RequestID).Warn("审计记录写入失败")
	}
}

func sumTokens(a, b *int) *int {
	if a == nil && b == nil {
		return nil
	}
	total := 0
	if a != nil {
		total += *a
	}
	if b != nil {
		total += *b
	}
	return &total
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
