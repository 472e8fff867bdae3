package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/BlockRunAI/PredictOS/internal/interfaces"
	"github.com/BlockRunAI/PredictOS/internal/model"

	"github.com/sirupsen/logrus"
)

// Gateway 行情网关：在此统一吸收上游故障。
// 直接拉取失败视为源事件不存在，搜索失败视为无匹配；其余错误原样返回
type Gateway struct {
	adapters map[model.PlatformType]interfaces.MarketAdapter
	logger   *logrus.Logger
}

func NewGateway(logger *logrus.Logger, adapters ...interfaces.MarketAdapter) *Gateway {
	g := &Gateway{
		adapters: make(map[model.PlatformType]interfaces.MarketAdapter, len(adapters)),
		logger:   logger,
	}
	for _, a := range adapters {
		g.adapters[a.GetType()] = a
	}
	return g
}

func (g *Gateway) adapter(platform model.PlatformType) (interfaces.MarketAdapter, error) {
	a, ok := g.adapters[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnsupportedPlatform, platform)
	}
	return a, nil
}

// FetchSource 按 slug/ticker 拉取源事件，上游失败或没有任何盘口都返回 ErrSourceNotFound
func (g *Gateway) FetchSource(ctx context.Context, platform model.PlatformType, identifier string) (*model.SourceEventData, error) {
	a, err := g.adapter(platform)
	if err != nil {
		return nil, err
	}
	ev, err := a.FetchEvent(ctx, identifier)
	if err != nil {
		if errors.Is(err, model.ErrUpstream) {
			g.logger.WithError(err).WithFields(logrus.Fields{
				"platform":   platform,
				"identifier": identifier,
			}).Warn("源事件拉取失败，按未找到处理")
			return nil, notFound(platform, identifier)
		}
		return nil, err
	}
	if ev == nil || len(ev.Markets) == 0 {
		g.logger.WithFields(logrus.Fields{
			"platform":   platform,
			"identifier": identifier,
		}).Warn("源事件没有任何盘口")
		return nil, notFound(platform, identifier)
	}
	return ev, nil
}

// Search 在指定平台搜索开放事件，上游失败返回空序列
func (g *Gateway) Search(ctx context.Context, platform model.PlatformType, query string) ([]model.SimplifiedMarket, error) {
	a, err := g.adapter(platform)
	if err != nil {
		return nil, err
	}
	markets, err := a.SearchMarkets(ctx, query)
	if err != nil {
		if errors.Is(err, model.ErrUpstream) {
			g.logger.WithError(err).WithFields(logrus.Fields{
				"platform": platform,
				"query":    query,
			}).Warn("搜索失败，按无匹配处理")
			return []model.SimplifiedMarket{}, nil
		}
		return nil, err
	}
	if markets == nil {
		markets = []model.SimplifiedMarket{}
	}
	return markets, nil
}

func notFound(platform model.PlatformType, identifier string) error {
	return fmt.Errorf("%w: %s event %q", model.ErrSourceNotFound, platform.DisplayName(), identifier)
}
