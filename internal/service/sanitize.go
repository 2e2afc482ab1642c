package service

import (
	"strings"

	"github.com/civicengine/api/internal/model"
)

// Sanitization bounds for render submissions. Oversized input is
// clamped, not rejected; only an empty selection after clamping is an
// error.
const (
	maxNameLen    = 80
	maxTitleLen   = 120
	maxURLTextLen = 120
	maxPolicies   = 10
)

// sanitizeRenderRequest normalizes a submission into a worker payload:
// strings truncated to their documented bounds, support values clamped
// to 0-100, the policy list capped at maxPolicies with blank entries
// dropped.
func sanitizeRenderRequest(req *model.RenderStartRequest) *model.RenderJobPayload {
	payload := &model.RenderJobPayload{
		DisplayName:         truncate(strings.TrimSpace(req.DisplayName), maxNameLen),
		Label:               truncate(strings.TrimSpace(req.Label), maxNameLen),
		AvgConsensusSupport: clampSupport(req.AvgConsensusSupport),
		URLText:             truncate(strings.TrimSpace(req.URLText), maxURLTextLen),
	}

	for _, p := range req.Policies {
		if len(payload.Policies) == maxPolicies {
			break
		}
		id := strings.TrimSpace(p.ID)
		title := truncate(strings.TrimSpace(p.Title), maxTitleLen)
		if id == "" || title == "" {
			continue
		}
		payload.Policies = append(payload.Policies, model.RenderPolicy{
			ID:             id,
			Title:          title,
			Category:       truncate(strings.TrimSpace(p.Category), maxNameLen),
			AverageSupport: clampSupport(p.AverageSupport),
		})
	}

	return payload
}

// truncate cuts a string to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func clampSupport(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
