package repository

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/BlockRunAI/PredictOS/internal/interfaces"
	"github.com/BlockRunAI/PredictOS/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuditRepository 审计记录只写仓库
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) interfaces.AuditRecorder {
	return &AuditRepository{db: db}
}

// Record 写入一条审计记录；request_id 冲突时忽略
func (r *AuditRepository) Record(ctx context.Context, audit *model.ArbitrageAudit) error {
	prepareAudit(audit)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "request_id"}}, DoNothing: true}).
		Create(audit).Error
	if err != nil {
		return fmt.Errorf("保存审计记录失败: %w, request_id: %s", err, audit.RequestID)
	}
	return nil
}

// prepareAudit 截断超长字段，避免数据库字段超限
func prepareAudit(a *model.ArbitrageAudit) {
	a.URL = truncate(a.URL, 512)
	a.Model = truncate(a.Model, 64)
	a.Identifier = truncate(a.Identifier, 128)
	a.SearchQuery = truncate(a.SearchQuery, 128)
	if len(a.Analysis) == 0 {
		a.Analysis = []byte("{}")
	}
}

// truncate 按字符数截断
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
