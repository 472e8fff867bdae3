package adapter

import (
	"fmt"

	"github.com/BlockRunAI/PredictOS/internal/config"
	"github.com/BlockRunAI/PredictOS/internal/interfaces"
	"github.com/BlockRunAI/PredictOS/internal/model"

	"github.com/sirupsen/logrus"
)

// PlatformRegistry 按配置实例化的适配器集合
type PlatformRegistry struct {
	cfg      *config.Config
	logger   *logrus.Logger
	adapters map[model.PlatformType]interfaces.MarketAdapter
}

func NewPlatformRegistry(cfg *config.Config, logger *logrus.Logger) *PlatformRegistry {
	r := &PlatformRegistry{
		cfg:      cfg,
		logger:   logger,
		adapters: make(map[model.PlatformType]interfaces.MarketAdapter),
	}
	r.initAdaptersFromFactories()
	return r
}

// initAdaptersFromFactories 遍历配置中的平台，匹配工厂函数创建实例
func (r *PlatformRegistry) initAdaptersFromFactories() {
	r.logger.WithField("factory_platforms", ListFactories()).Debug("已注册的适配器工厂")

	for name, platformCfg := range r.cfg.Platforms {
		platformType, ok := model.ParsePlatform(name)
		if !ok {
			r.logger.WithField("platform", name).Warn("不支持的平台配置，已忽略")
			continue
		}
		factory, ok := GetFactory(platformType)
		if !ok {
			r.logger.WithField("platform", platformType).Error("未找到对应的工厂函数（init未注册？）")
			continue
		}

		pc := platformCfg
		adapterIns := factory(&pc, r.logger)
		if adapterIns == nil {
			r.logger.WithField("platform", platformType).Error("工厂函数返回nil适配器实例")
			continue
		}
		if adapterIns.GetType() != platformType {
			r.logger.WithFields(logrus.Fields{
				"config_platform":  platformType,
				"adapter_platform": adapterIns.GetType(),
			}).Error("适配器平台类型与配置不匹配")
			continue
		}
		r.adapters[platformType] = adapterIns
		r.logger.WithFields(logrus.Fields{
			"platform": platformType,
			"base_url": pc.BaseURL,
		}).Info("适配器实例初始化成功")
	}
}

// ListRegisteredPlatforms 已初始化的平台（固定顺序）
func (r *PlatformRegistry) ListRegisteredPlatforms() []model.PlatformType {
	var platforms []model.PlatformType
	for _, p := range model.AllPlatforms() {
		if _, ok := r.adapters[p]; ok {
			platforms = append(platforms, p)
		}
	}
	return platforms
}

// GetAdapter 获取适配器实例
func (r *PlatformRegistry) GetAdapter(platform model.PlatformType) (interfaces.MarketAdapter, error) {
	adapterIns, ok := r.adapters[platform]
	if !ok {
		return nil, fmt.Errorf("平台%s未初始化适配器实例（已初始化：%v）", platform, r.ListRegisteredPlatforms())
	}
	return adapterIns, nil
}

// Adapters 全部适配器实例
func (r *PlatformRegistry) Adapters() []interfaces.MarketAdapter {
	out := make([]interfaces.MarketAdapter, 0, len(r.adapters))
	for _, p := range r.ListRegisteredPlatforms() {
		out = append(out, r.adapters[p])
	}
	return out
}

// GetPlatformCount 获取已初始化实例的平台数量
func (r *PlatformRegistry) GetPlatformCount() int {
	return len(r.adapters)
}
