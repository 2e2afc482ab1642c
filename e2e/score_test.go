package e2e

import (
	"net/http"
	"testing"
)

func TestPolicies_List(t *testing.T) {
	ta := setupApp(t)

	resp, err := doAuthRequest(t, ta.app, http.MethodGet, "/api/policies", "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	policies, ok := result["policies"].([]interface{})
	if !ok || len(policies) == 0 {
		t.Fatalf("expected non-empty 'policies' array, got %v", result["policies"])
	}

	first, ok := policies[0].(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected policy shape: %v", policies[0])
	}
	if first["policyId"] == nil || first["title"] == nil {
		t.Errorf("expected policyId and title, got %v", first)
	}
}

func TestArchetypes_List(t *testing.T) {
	ta := setupApp(t)

	resp, err := doAuthRequest(t, ta.app, http.MethodGet, "/api/archetypes", "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)
}

func TestScore_Defaults(t *testing.T) {
	ta := setupApp(t)

	body := `{"policyIds": ["childcare-tax-credit", "drug-price-negotiation"]}`
	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/score", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	scores, ok := result["scores"].([]interface{})
	if !ok || len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %v", result["scores"])
	}
	if result["avgConsensusSupport"] == nil {
		t.Error("expected avgConsensusSupport in response")
	}

	first := scores[0].(map[string]interface{})
	if first["overall"] == nil {
		t.Errorf("expected overall score, got %v", first)
	}
}

func TestScore_Archetype(t *testing.T) {
	ta := setupApp(t)

	body := `{"policyIds": ["childcare-tax-credit"], "archetype": "advocate"}`
	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/score", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)
}

func TestScore_AbsentLens(t *testing.T) {
	ta := setupApp(t)

	// election-audit-standards only has a needs table; the other
	// lenses must come back as null placeholders, not zeroes.
	body := `{"policyIds": ["election-audit-standards"]}`
	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/score", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusOK)

	result := parseJSON(t, resp)
	scores := result["scores"].([]interface{})
	score := scores[0].(map[string]interface{})

	if score["impact"] != nil {
		t.Errorf("expected null impact, got %v", score["impact"])
	}
	if score["economics"] != nil {
		t.Errorf("expected null economics, got %v", score["economics"])
	}
	if score["needs"] == nil {
		t.Error("expected needs score")
	}
	if score["overall"] == nil {
		t.Error("expected overall score from remaining lens")
	}
}

func TestScore_UnknownPolicy(t *testing.T) {
	ta := setupApp(t)

	body := `{"policyIds": ["no-such-policy"]}`
	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/score", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadRequest)
}

func TestScore_UnknownArchetype(t *testing.T) {
	ta := setupApp(t)

	body := `{"policyIds": ["childcare-tax-credit"], "archetype": "visionary"}`
	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/score", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadRequest)
}

func TestScore_EmptySelection(t *testing.T) {
	ta := setupApp(t)

	body := `{"policyIds": []}`
	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/score", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadRequest)
}

func TestScore_NoAuth(t *testing.T) {
	ta := setupApp(t)

	resp, err := doRequest(ta.app, http.MethodPost, "/api/score", `{"policyIds": ["childcare-tax-credit"]}`, nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusUnauthorized)
}
