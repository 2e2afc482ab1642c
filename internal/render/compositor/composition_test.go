package compositor

import (
	"strings"
	"testing"

	"github.com/civicengine/api/internal/model"
)

func TestBuildCompositionPage_EmbedsPayload(t *testing.T) {
	payload := &model.RenderJobPayload{
		DisplayName:         "Jordan",
		Label:               "The Optimizer",
		AvgConsensusSupport: 81,
		Policies: []model.RenderPolicy{
			{ID: "childcare-tax-credit", Title: "Expand the Child Care Tax Credit", Category: "families", AverageSupport: 81},
		},
		URLText: "mostof.us/jordan",
	}

	page, err := BuildCompositionPage(payload)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	for _, want := range []string{"Jordan", "The Optimizer", "childcare-tax-credit", "mostof.us/jordan", "MediaRecorder", "window.__render"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestBuildCompositionPage_EscapesScriptBreakout(t *testing.T) {
	payload := &model.RenderJobPayload{
		DisplayName: "</script><script>alert(1)</script>",
		Label:       "x",
		Policies:    []model.RenderPolicy{{ID: "p", Title: "t", Category: "c"}},
	}

	page, err := BuildCompositionPage(payload)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if strings.Contains(page, "</script><script>alert(1)</script>") {
		t.Error("payload was embedded without escaping")
	}
}
