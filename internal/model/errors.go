package model

import "errors"

// 流水线错误分类，api 层按 errors.Is 映射HTTP状态码
var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrUnsupportedPlatform  = errors.New("unsupported platform")
	ErrMalformedURL         = errors.New("malformed market url")
	ErrSourceNotFound       = errors.New("source event not found")
	ErrInvalidAgentResponse = errors.New("invalid agent response")

	// ErrUpstream 上游传输失败（网络错误、非2xx、响应无法解析），仅在网关边界被吸收
	ErrUpstream = errors.New("upstream request failed")
)
