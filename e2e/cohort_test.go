package e2e

import (
	"fmt"
	"net/http"
	"testing"
)

func createTestCohort(t *testing.T, ta *testApp) (id, joinCode string) {
	t.Helper()

	body := `{"name": "Period 3 Civics", "policyIds": ["childcare-tax-credit", "rural-broadband"]}`
	resp, err := doTeacherRequest(t, ta.app, http.MethodPost, "/api/cohorts/", body)
	if err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusCreated)

	result := parseJSON(t, resp)
	id, _ = result["id"].(string)
	joinCode, _ = result["joinCode"].(string)
	if id == "" || joinCode == "" {
		t.Fatalf("expected id and joinCode, got %v", result)
	}
	return id, joinCode
}

func TestCohortCreate_TeacherOnly(t *testing.T) {
	ta := setupApp(t)

	body := `{"name": "Period 3 Civics", "policyIds": ["childcare-tax-credit"]}`
	resp, err := doAuthRequest(t, ta.app, http.MethodPost, "/api/cohorts/", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusForbidden)
}

func TestCohortCreate_UnknownPolicy(t *testing.T) {
	ta := setupApp(t)

	body := `{"name": "Period 3 Civics", "policyIds": ["no-such-policy"]}`
	resp, err := doTeacherRequest(t, ta.app, http.MethodPost, "/api/cohorts/", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadRequest)
}

func TestCohortLifecycle(t *testing.T) {
	ta := setupApp(t)
	id, joinCode := createTestCohort(t, ta)

	// New cohorts start in exploration
	resp, err := doAuthRequest(t, ta.app, http.MethodGet, "/api/cohorts/"+id, "")
	if err != nil {
		t.Fatalf("get request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	if phase := parseJSON(t, resp)["phase"]; phase != "exploration" {
		t.Errorf("expected phase 'exploration', got %v", phase)
	}

	// Student looks the cohort up by code, then joins
	resp, err = doAuthRequest(t, ta.app, http.MethodGet, "/api/cohorts/code/"+joinCode, "")
	if err != nil {
		t.Fatalf("code lookup failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	if lookedUp := parseJSON(t, resp)["id"]; lookedUp != id {
		t.Errorf("code lookup returned cohort %v, want %s", lookedUp, id)
	}

	resp, err = doAuthRequest(t, ta.app, http.MethodPost, "/api/cohorts/"+id+"/join", `{"displayName": "Sam"}`)
	if err != nil {
		t.Fatalf("join request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	resp, err = doAuthRequest(t, ta.app, http.MethodGet, "/api/cohorts/"+id+"/members", "")
	if err != nil {
		t.Fatalf("members request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	members := parseJSON(t, resp)["members"].([]interface{})
	if len(members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(members))
	}

	// Positions are closed during exploration
	posBody := `{"policyId": "childcare-tax-credit", "stance": "support", "reflection": "Helps working parents."}`
	resp, err = doAuthRequest(t, ta.app, http.MethodPost, "/api/cohorts/"+id+"/positions", posBody)
	if err != nil {
		t.Fatalf("position request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusConflict)

	// Teacher opens the positions phase
	resp, err = doTeacherRequest(t, ta.app, http.MethodPost, "/api/cohorts/"+id+"/phase", `{"phase": "positions"}`)
	if err != nil {
		t.Fatalf("phase request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	resp, err = doAuthRequest(t, ta.app, http.MethodPost, "/api/cohorts/"+id+"/positions", posBody)
	if err != nil {
		t.Fatalf("position request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusCreated)
	pos := parseJSON(t, resp)
	if pos["revised"] != false {
		t.Errorf("first submission should not be revised, got %v", pos["revised"])
	}

	// Resubmission during revision overwrites and flags the revision
	resp, err = doTeacherRequest(t, ta.app, http.MethodPost, "/api/cohorts/"+id+"/phase", `{"phase": "revision"}`)
	if err != nil {
		t.Fatalf("phase request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	revised := `{"policyId": "childcare-tax-credit", "stance": "unsure", "reflection": "The discussion raised cost concerns."}`
	resp, err = doAuthRequest(t, ta.app, http.MethodPost, "/api/cohorts/"+id+"/positions", revised)
	if err != nil {
		t.Fatalf("revision request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusCreated)
	pos = parseJSON(t, resp)
	if pos["revised"] != true {
		t.Errorf("resubmission should be revised, got %v", pos["revised"])
	}
	if pos["stance"] != "unsure" {
		t.Errorf("expected revised stance 'unsure', got %v", pos["stance"])
	}

	// One position per (student, policy): the revision replaced the original
	resp, err = doAuthRequest(t, ta.app, http.MethodGet, "/api/cohorts/"+id+"/positions", "")
	if err != nil {
		t.Fatalf("positions request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)
	positions := parseJSON(t, resp)["positions"].([]interface{})
	if len(positions) != 1 {
		t.Fatalf("expected 1 position, got %d", len(positions))
	}
}

func TestCohortPosition_PolicyNotInCohort(t *testing.T) {
	ta := setupApp(t)
	id, _ := createTestCohort(t, ta)

	resp, err := doTeacherRequest(t, ta.app, http.MethodPost, "/api/cohorts/"+id+"/phase", `{"phase": "positions"}`)
	if err != nil {
		t.Fatalf("phase request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusOK)

	body := `{"policyId": "drug-price-negotiation", "stance": "support"}`
	resp, err = doAuthRequest(t, ta.app, http.MethodPost, fmt.Sprintf("/api/cohorts/%s/positions", id), body)
	if err != nil {
		t.Fatalf("position request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadRequest)
}

func TestCohortLookup_InvalidCode(t *testing.T) {
	ta := setupApp(t)

	resp, err := doAuthRequest(t, ta.app, http.MethodGet, "/api/cohorts/code/ZZZZZZ", "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusNotFound)
}

func TestCohortPhase_InvalidPhase(t *testing.T) {
	ta := setupApp(t)
	id, _ := createTestCohort(t, ta)

	resp, err := doTeacherRequest(t, ta.app, http.MethodPost, "/api/cohorts/"+id+"/phase", `{"phase": "recess"}`)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	assertStatus(t, resp, http.StatusBadRequest)
}
