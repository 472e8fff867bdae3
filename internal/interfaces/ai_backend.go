package interfaces

import "context"

// OutputFormat 模型输出格式
type OutputFormat string

const (
	OutputText       OutputFormat = "text"
	OutputJSONObject OutputFormat = "json_object"
)

// RespondRequest 一次模型调用的输入
type RespondRequest struct {
	Model        string
	Instructions string // system prompt
	Input        string // user prompt
	MaxTokens    int
	Format       OutputFormat
}

// RespondResult 一次模型调用的输出
type RespondResult struct {
	Text       string // 所有 content 片段按顺序拼接
	Model      string // 后端实际使用的模型
	TokensUsed *int   // 后端未返回 usage 时为 nil
}

// AIBackend 模型后端能力（OpenAI 与 xAI 共用同一协议，两个实例）
type AIBackend interface {
	Name() string
	Respond(ctx context.Context, req RespondRequest) (*RespondResult, error)
}
