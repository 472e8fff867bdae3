package model

// AnalyzeRequest POST 请求体
type AnalyzeRequest struct {
	URL   string `json:"url" binding:"required"`
	Model string `json:"model" binding:"required"`
}

// ResponseMetadata 每次响应都会携带的元信息
type ResponseMetadata struct {
	RequestID        string       `json:"requestId"`
	Timestamp        string       `json:"timestamp"`
	ProcessingTimeMs int64        `json:"processingTimeMs"`
	Model            string       `json:"model"`
	TokensUsed       *int         `json:"tokensUsed,omitempty"`
	SourceMarket     PlatformType `json:"sourceMarket,omitempty"`
	SearchedMarket   PlatformType `json:"searchedMarket,omitempty"`
}

// ResponseEnvelope 统一响应包装（成功或失败）
type ResponseEnvelope struct {
	Success  bool               `json:"success"`
	Data     *ArbitrageAnalysis `json:"data,omitempty"`
	Error    string             `json:"error,omitempty"`
	Metadata ResponseMetadata   `json:"metadata"`
}
