package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/BlockRunAI/PredictOS/internal/model"
	"github.com/BlockRunAI/PredictOS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Analyzer 套利分析流水线（service.ArbitrageService）
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalyzeRequest) (*service.AnalysisResult, error)
}

// ArbitrageHandler 套利分析接口
type ArbitrageHandler struct {
	analyzer Analyzer
	logger   *logrus.Logger
}

// NewArbitrageHandler 创建 ArbitrageHandler
func NewArbitrageHandler(analyzer Analyzer, logger *logrus.Logger) *ArbitrageHandler {
	return &ArbitrageHandler{analyzer: analyzer, logger: logger}
}

// Analyze 分析一个市场链接
// POST /api/arbitrage {"url": "...", "model": "..."}
func (h *ArbitrageHandler) Analyze(c *gin.Context) {
	start := time.Now()

	var req model.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		msg := bindErrorMessage(err)
		h.logger.WithError(err).Warn("请求参数校验失败")
		c.JSON(http.StatusBadRequest, failure(msg, newMetadata(uuid.New().String(), req.Model, start)))
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), req)
	if result == nil {
		result = &service.AnalysisResult{RequestID: uuid.New().String(), Model: req.Model}
	}
	meta := newMetadata(result.RequestID, result.Model, start)
	meta.TokensUsed = result.TokensUsed
	meta.SourceMarket = result.SourceMarket
	meta.SearchedMarket = result.SearchedMarket

	if err != nil {
		status := statusFor(err)
		entry := h.logger.WithError(err).WithFields(logrus.Fields{
			"request_id": meta.RequestID,
			"url":        req.URL,
			"status":     status,
		})
		if status >= http.StatusInternalServerError {
			entry.Error("套利分析失败")
		} else {
			entry.Warn("套利分析请求被拒绝")
		}
		c.JSON(status, failure(err.Error(), meta))
		return
	}

	c.JSON(http.StatusOK, model.ResponseEnvelope{
		Success:  true,
		Data:     result.Analysis,
		Metadata: meta,
	})
}

// Preflight CORS 预检，无响应体
func (h *ArbitrageHandler) Preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Header("Access-Control-Allow-Headers", strings.Join(corsHeaders, ", "))
	c.AbortWithStatus(http.StatusNoContent)
}

// MethodNotAllowed 非 POST/OPTIONS 请求
func (h *ArbitrageHandler) MethodNotAllowed(c *gin.Context) {
	msg := fmt.Sprintf("Method %s not allowed", c.Request.Method)
	c.JSON(http.StatusMethodNotAllowed, failure(msg, newMetadata(uuid.New().String(), "", time.Now())))
}

// Health 存活探针
// GET /api/health
func (h *ArbitrageHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusFor 错误分类 → HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidRequest),
		errors.Is(err, model.ErrUnsupportedPlatform),
		errors.Is(err, model.ErrMalformedURL):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrSourceNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// bindErrorMessage 缺字段时指出字段名，其余按请求体不合法处理
func bindErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fmt.Sprintf("Missing required parameter: '%s'", strings.ToLower(verrs[0].Field()))
	}
	return "Invalid JSON body"
}

func newMetadata(requestID, modelID string, start time.Time) model.ResponseMetadata {
	return model.ResponseMetadata{
		RequestID:        requestID,
		Timestamp:        time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		Model:            modelID,
	}
}

func failure(msg string, meta model.ResponseMetadata) model.ResponseEnvelope {
	return model.ResponseEnvelope{Success: false, Error: msg, Metadata: meta}
}
