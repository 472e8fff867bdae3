// Package resolver 将用户提交的市场链接识别为平台与事件标识（slug/ticker）。
package resolver

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/BlockRunAI/PredictOS/internal/model"
)

// Target 链接解析结果
type Target struct {
	Platform   model.PlatformType
	Identifier string
}

// Resolve 按域名识别平台，再按平台的路径规则提取标识
func Resolve(rawURL string) (Target, error) {
	platform, ok := detectPlatform(rawURL)
	if !ok {
		return Target{}, fmt.Errorf("%w: %s", model.ErrUnsupportedPlatform, rawURL)
	}

	segments, err := pathSegments(rawURL)
	if err != nil {
		return Target{}, fmt.Errorf("%w: %v", model.ErrMalformedURL, err)
	}

	var id string
	switch platform {
	case model.PlatformPolymarket:
		id, ok = polymarketSlug(segments)
	case model.PlatformKalshi:
		id, ok = kalshiTicker(segments)
	}
	if !ok {
		return Target{}, fmt.Errorf("%w: cannot extract %s identifier from %s", model.ErrMalformedURL, platform.DisplayName(), rawURL)
	}
	return Target{Platform: platform, Identifier: id}, nil
}

// detectPlatform 大小写不敏感的域名子串匹配
func detectPlatform(rawURL string) (model.PlatformType, bool) {
	lower := strings.ToLower(rawURL)
	for _, p := range model.AllPlatforms() {
		if strings.Contains(lower, p.Domain()) {
			return p, true
		}
	}
	return "", false
}

func pathSegments(rawURL string) ([]string, error) {
	s := strings.TrimSpace(rawURL)
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host")
	}
	var segments []string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments, nil
}

// polymarketSlug /event/{slug}[/...]
func polymarketSlug(segments []string) (string, bool) {
	for i, seg := range segments {
		if seg == "event" && i+1 < len(segments) {
			return segments[i+1], true
		}
	}
	return "", false
}

// kalshiTicker /markets/{series}/{slug}/{ticker} 取最后一段；/events/{ticker} 与 /markets/{ticker} 取第二段
func kalshiTicker(segments []string) (string, bool) {
	switch {
	case len(segments) >= 4:
		return strings.ToUpper(segments[len(segments)-1]), true
	case len(segments) == 2 && (segments[0] == "markets" || segments[0] == "events"):
		return strings.ToUpper(segments[1]), true
	default:
		return "", false
	}
}
