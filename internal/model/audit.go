package model

import (
	"time"

	"gorm.io/datatypes"
)

// ArbitrageAudit 每次成功分析的审计记录（只写，流水线不回读）
type ArbitrageAudit struct {
	ID             uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID"`
	RequestID      string         `gorm:"column:request_id;type:varchar(64);uniqueIndex;not null;comment:请求ID"`
	URL            string         `gorm:"column:url;type:varchar(512);not null;comment:用户提交的市场链接"`
	Model          string         `gorm:"column:model;type:varchar(64);not null;comment:使用的模型"`
	SourcePlatform string         `gorm:"column:source_platform;type:varchar(16);not null;comment:源平台"`
	SearchPlatform string         `gorm:"column:search_platform;type:varchar(16);not null;comment:搜索平台"`
	Identifier     string         `gorm:"column:identifier;type:varchar(128);comment:slug或ticker"`
	SearchQuery    string         `gorm:"column:search_query;type:varchar(128);comment:生成的搜索词"`
	CandidateCount int            `gorm:"column:candidate_count;type:int;default:0;comment:候选市场数量"`
	IsSameMarket   bool           `gorm:"column:is_same_market;type:boolean;default:false;comment:是否同一市场"`
	HasArbitrage   bool           `gorm:"column:has_arbitrage;type:boolean;default:false;index;comment:是否存在套利"`
	TokensUsed     *int           `gorm:"column:tokens_used;type:int;comment:两次模型调用消耗的token"`
	Analysis       datatypes.JSON `gorm:"column:analysis;type:jsonb;not null;comment:完整分析结论"`
	RawSource      datatypes.JSON `gorm:"column:raw_source;type:jsonb;comment:源事件原始数据"`
	CreatedAt      time.Time      `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
}

func (ArbitrageAudit) TableName() string { return "arbitrage_audits" }
