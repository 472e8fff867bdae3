package interfaces

import (
	"context"

	"github.com/BlockRunAI/PredictOS/internal/model"
)

// MarketAdapter 所有平台必须实现的核心接口（只读：按标识拉取事件、按关键词搜索）
type MarketAdapter interface {
	GetType() model.PlatformType                                                       // 平台类型
	FetchEvent(ctx context.Context, identifier string) (*model.SourceEventData, error) // slug/ticker → 标准化事件
	SearchMarkets(ctx context.Context, query string) ([]model.SimplifiedMarket, error) // 关键词 → 扁平化候选
}
