package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/BlockRunAI/PredictOS/internal/config"
	"github.com/BlockRunAI/PredictOS/internal/interfaces"
	"github.com/BlockRunAI/PredictOS/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// responsesRequest POST {base_url}/responses 请求体
type responsesRequest struct {
	Model           string        `json:"model"`
	Instructions    string        `json:"instructions,omitempty"`
	Input           string        `json:"input"`
	MaxOutputTokens int           `json:"max_output_tokens,omitempty"`
	Text            *textSettings `json:"text,omitempty"`
}

type textSettings struct {
	Format textFormat `json:"format"`
}

type textFormat struct {
	Type string `json:"type"`
}

// responsesResponse 只解析用到的字段
type responsesResponse struct {
	Model  string       `json:"model"`
	Output []outputItem `json:"output"`
	Usage  *struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type outputItem struct {
	Type    string        `json:"type"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ResponsesClient Responses 协议客户端，OpenAI 与 xAI 各一个实例
type ResponsesClient struct {
	name       string
	cfg        config.BackendConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewResponsesClient(name string, cfg config.BackendConfig, logger *logrus.Logger) *ResponsesClient {
	return &ResponsesClient{
		name:       name,
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(httpclient.Options{Timeout: cfg.Timeout, Proxy: cfg.Proxy}, logger),
		logger:     logger,
	}
}

// Name 后端名称（日志用）
func (c *ResponsesClient) Name() string { return c.name }

// Respond 单次调用，不重试
func (c *ResponsesClient) Respond(ctx context.Context, req interfaces.RespondRequest) (*interfaces.RespondResult, error) {
	body := responsesRequest{
		Model:           req.Model,
		Instructions:    req.Instructions,
		Input:           req.Input,
		MaxOutputTokens: req.MaxTokens,
	}
	if req.Format != "" {
		body.Text = &textSettings{Format: textFormat{Type: string(req.Format)}}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("序列化%s请求失败: %w", c.name, err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/responses"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("构建%s请求失败: %w", c.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	var resp responsesResponse
	if err := httpclient.Do(c.httpClient, httpReq, &resp); err != nil {
		return nil, fmt.Errorf("%s调用失败: %w", c.name, err)
	}

	result := &interfaces.RespondResult{
		Text:  resp.text(),
		Model: resp.Model,
	}
	if result.Model == "" {
		result.Model = req.Model
	}
	if resp.Usage != nil {
		total := resp.Usage.TotalTokens
		result.TokensUsed = &total
	}

	c.logger.WithFields(logrus.Fields{
		"backend": c.name,
		"model":   result.Model,
		"format":  req.Format,
		"chars":   len(result.Text),
	}).Debug("模型调用完成")
	return result, nil
}

// text 按顺序拼接所有带 content 的输出项中的文本片段
func (r *responsesResponse) text() string {
	var sb strings.Builder
	for _, item := range r.Output {
		for _, part := range item.Content {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}
