package llm

import (
	"strings"

	"github.com/BlockRunAI/PredictOS/internal/config"
	"github.com/BlockRunAI/PredictOS/internal/interfaces"
)

// Router 按模型ID选择后端：命中前缀或白名单走 primary，其余走 fallback
type Router struct {
	primary  interfaces.AIBackend
	fallback interfaces.AIBackend
	prefixes []string
	models   map[string]struct{}
}

func NewRouter(primary, fallback interfaces.AIBackend, rules config.RoutingConfig) *Router {
	r := &Router{
		primary:  primary,
		fallback: fallback,
		prefixes: make([]string, 0, len(rules.Prefixes)),
		models:   make(map[string]struct{}, len(rules.Models)),
	}
	for _, p := range rules.Prefixes {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			r.prefixes = append(r.prefixes, p)
		}
	}
	for _, m := range rules.Models {
		r.models[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}
	return r
}

// Select 纯函数：同一模型ID总是选到同一后端
func (r *Router) Select(modelID string) interfaces.AIBackend {
	if r.matchesPrimary(modelID) {
		return r.primary
	}
	return r.fallback
}

func (r *Router) matchesPrimary(modelID string) bool {
	id := strings.ToLower(strings.TrimSpace(modelID))
	if _, ok := r.models[id]; ok {
		return true
	}
	for _, p := range r.prefixes {
		if strings.HasPrefix(id, p) {
			return true
		}
	}
	return false
}
