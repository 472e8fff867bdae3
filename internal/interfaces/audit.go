package interfaces

import (
	"context"

	"github.com/BlockRunAI/PredictOS/internal/model"
)

// AuditRecorder 分析结果落库（只写）
type AuditRecorder interface {
	Record(ctx context.Context, audit *model.ArbitrageAudit) error
}
