package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/BlockRunAI/PredictOS/internal/interfaces"
	"github.com/BlockRunAI/PredictOS/internal/model"
	"github.com/BlockRunAI/PredictOS/internal/prompt"

	"github.com/sirupsen/logrus"
)

// maxQueryWords 搜索词最多保留的词数
const maxQueryWords = 2

// BackendSelector 按模型ID选择后端（llm.Router）
type BackendSelector interface {
	Select(modelID string) interfaces.AIBackend
}

// QueryResult 搜索词生成结果
type QueryResult struct {
	Query      string
	Model      string
	TokensUsed *int
}

// QuerySynthesizer 把事件标题压缩为 1-2 个词的搜索词
type QuerySynthesizer struct {
	backends  BackendSelector
	maxTokens int
	logger    *logrus.Logger
}

// NewQuerySynthesizer 创建 QuerySynthesizer
func NewQuerySynthesizer(backends BackendSelector, maxTokens int, logger *logrus.Logger) *QuerySynthesizer {
	return &QuerySynthesizer{backends: backends, maxTokens: maxTokens, logger: logger}
}

// Synthesize 单次调用，不重试；空结果原样返回
func (s *QuerySynthesizer) Synthesize(ctx context.Context, title string, source, target model.PlatformType, modelID string) (*QueryResult, error) {
	backend := s.backends.Select(modelID)
	system, user := prompt.SearchQuery(title, source, target)

	res, err := backend.Respond(ctx, interfaces.RespondRequest{
		Model:        modelID,
		Instructions: system,
		Input:        user,
		MaxTokens:    s.maxTokens,
		Format:       interfaces.OutputText,
	})
	if err != nil {
		return nil, fmt.Errorf("生成搜索词失败: %w", err)
	}

	query := CleanQuery(res.Text)
	s.logger.WithFields(logrus.Fields{
		"backend": backend.Name(),
		"title":   title,
		"raw":     res.Text,
		"query":   query,
	}).Info("搜索词生成完成")
	return &QueryResult{Query: query, Model: res.Model, TokensUsed: res.TokensUsed}, nil
}

var quoteStripper = strings.NewReplacer(
	`"`, "", `'`, "", "`", "",
	"“", "", "”", "", "‘", "", "’", "",
)

// CleanQuery 去引号、去首尾空白、按空白切分后保留前两个词
func CleanQuery(raw string) string {
	words := strings.Fields(quoteStripper.Replace(raw))
	if len(words) > maxQueryWords {
		words = words[:maxQueryWords]
	}
	return strings.Join(words, " ")
}
