package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/splitspend/splitspend/internal/auth"
	"github.com/splitspend/splitspend/internal/service"
	"github.com/splitspend/splitspend/internal/storage/sqlite"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitspend-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	users := service.NewUserService(store, auth.NewBcryptHasher())
	groups := service.NewGroupService(store)

	ts := httptest.NewServer(New(users, groups).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) (int, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

func signup(t *testing.T, ts *httptest.Server, name, email, phone string) float64 {
	t.Helper()
	status, body := postJSON(t, ts.URL+"/v1/user/signup", map[string]any{
		"name":        name,
		"email":       email,
		"phoneNumber": phone,
		"password":    "secret-pass",
	})
	if status != http.StatusCreated {
		t.Fatalf("signup(%s): expected 201, got %d (%v)", email, status, body)
	}
	id, ok := body["userId"].(float64)
	if !ok {
		t.Fatalf("signup(%s): missing userId in %v", email, body)
	}
	return id
}

func TestSignupEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	t.Run("valid signup", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/v1/user/signup", map[string]any{
			"name":        "Alice",
			"email":       "alice@x.com",
			"phoneNumber": "1111111111",
			"password":    "secret-pass",
		})
		if status != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%v)", status, body)
		}
		if body["name"] != "Alice" || body["email"] != "alice@x.com" || body["phoneNumber"] != "1111111111" {
			t.Errorf("unexpected projection: %v", body)
		}
		if body["createdAt"] == nil {
			t.Error("expected createdAt in projection")
		}
		// The projection must never carry password material.
		for _, key := range []string{"password", "passwordHash", "hash"} {
			if _, ok := body[key]; ok {
				t.Errorf("projection leaks %q", key)
			}
		}
	})

	t.Run("validation failure lists fields", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/v1/user/signup", map[string]any{
			"name":        "",
			"email":       "not-an-email",
			"phoneNumber": "12ab",
			"password":    "short",
		})
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", status)
		}
		if body["message"] != "Validation Failed" {
			t.Errorf("unexpected message: %v", body["message"])
		}
		fields, ok := body["errors"].(map[string]any)
		if !ok {
			t.Fatalf("expected errors map, got %v", body["errors"])
		}
		for _, field := range []string{"name", "email", "phoneNumber", "password"} {
			if _, ok := fields[field]; !ok {
				t.Errorf("missing validation message for %q in %v", field, fields)
			}
		}
		if body["timestamp"] == nil {
			t.Error("expected timestamp in error body")
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/v1/user/signup", map[string]any{
			"name":        "Imposter",
			"email":       "alice@x.com",
			"phoneNumber": "9999999999",
			"password":    "secret-pass",
		})
		if status != http.StatusConflict {
			t.Fatalf("expected 409, got %d", status)
		}
		if body["message"] != "User with email alice@x.com already exists" {
			t.Errorf("unexpected message: %v", body["message"])
		}
	})

	t.Run("duplicate phone conflicts", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/v1/user/signup", map[string]any{
			"name":        "Bob",
			"email":       "bob@x.com",
			"phoneNumber": "1111111111",
			"password":    "secret-pass",
		})
		if status != http.StatusConflict {
			t.Fatalf("expected 409, got %d", status)
		}
		if body["message"] != "User with phone number 1111111111 already exists" {
			t.Errorf("unexpected message: %v", body["message"])
		}
	})
}

func TestLoginEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	userID := signup(t, ts, "Alice", "alice@x.com", "1111111111")

	t.Run("valid credentials", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/v1/user/login", map[string]any{
			"email":    "alice@x.com",
			"password": "secret-pass",
		})
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d (%v)", status, body)
		}
		if body["userId"] != userID {
			t.Errorf("expected userId %v, got %v", userID, body["userId"])
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/v1/user/login", map[string]any{
			"email":    "alice@x.com",
			"password": "wrong-pass",
		})
		if status != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", status)
		}
		if body["message"] != "Invalid email or password" {
			t.Errorf("unexpected message: %v", body["message"])
		}
	})

	t.Run("unknown email gets the same response", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/v1/user/login", map[string]any{
			"email":    "nobody@x.com",
			"password": "secret-pass",
		})
		if status != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", status)
		}
		if body["message"] != "Invalid email or password" {
			t.Errorf("unexpected message: %v", body["message"])
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		status, _ := postJSON(t, ts.URL+"/v1/user/login", map[string]any{})
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", status)
		}
	})
}

func TestGroupEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	aliceID := signup(t, ts, "Alice", "a@x.com", "1111111111")
	bobID := signup(t, ts, "Bob", "b@x.com", "2222222222")

	var groupID float64

	t.Run("create group", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/v1/groups/create", map[string]any{
			"groupName":   "Trip",
			"createdById": aliceID,
		})
		if status != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%v)", status, body)
		}
		if body["groupName"] != "Trip" || body["createdById"] != aliceID {
			t.Errorf("unexpected projection: %v", body)
		}
		if body["memberCount"] != float64(1) {
			t.Errorf("expected memberCount 1, got %v", body["memberCount"])
		}
		var ok bool
		if groupID, ok = body["groupId"].(float64); !ok || groupID == 0 {
			t.Fatalf("missing groupId in %v", body)
		}
	})

	t.Run("create group with unknown creator is 404", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/v1/groups/create", map[string]any{
			"groupName":   "Ghost Group",
			"createdById": 999,
		})
		if status != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", status)
		}
		if body["message"] != "User with ID 999 not found" {
			t.Errorf("unexpected message: %v", body["message"])
		}
	})

	t.Run("create group validation", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/v1/groups/create", map[string]any{
			"groupName": "x",
		})
		if status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", status)
		}
		fields, _ := body["errors"].(map[string]any)
		if fields["groupName"] != "Group name must be between 2 and 100 characters" {
			t.Errorf("unexpected groupName message: %v", fields["groupName"])
		}
		if fields["createdById"] != "Creator user ID is required" {
			t.Errorf("unexpected createdById message: %v", fields["createdById"])
		}
	})

	t.Run("list groups", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/v1/groups")
		if err != nil {
			t.Fatalf("GET /v1/groups failed: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var groups []map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&groups); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(groups) != 1 {
			t.Fatalf("expected 1 group, got %d", len(groups))
		}
		if groups[0]["groupName"] != "Trip" {
			t.Errorf("unexpected group: %v", groups[0])
		}
	})

	t.Run("add member", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/v1/groups/member/add", map[string]any{
			"groupId": groupID,
			"userId":  bobID,
		})
		if status != http.StatusOK {
			t.Fatalf("expected 200, got %d (%v)", status, body)
		}
		if body["groupName"] != "Trip" {
			t.Errorf("unexpected groupName: %v", body["groupName"])
		}
		if body["memberCount"] != float64(2) {
			t.Errorf("expected memberCount 2, got %v", body["memberCount"])
		}
		members, ok := body["members"].([]any)
		if !ok || len(members) != 2 {
			t.Fatalf("expected 2 members, got %v", body["members"])
		}
		admin := members[0].(map[string]any)
		if admin["userId"] != aliceID || admin["role"] != "ADMIN" {
			t.Errorf("unexpected admin entry: %v", admin)
		}
		added := members[1].(map[string]any)
		if added["userId"] != bobID || added["role"] != "MEMBER" || added["name"] != "Bob" {
			t.Errorf("unexpected member entry: %v", added)
		}
	})

	t.Run("re-adding a member is 409", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/v1/groups/member/add", map[string]any{
			"groupId": groupID,
			"userId":  bobID,
		})
		if status != http.StatusConflict {
			t.Fatalf("expected 409, got %d", status)
		}
		if body["message"] != "Bob is already a member of this group" {
			t.Errorf("unexpected message: %v", body["message"])
		}
	})

	t.Run("add member to unknown group is 404", func(t *testing.T) {
		status, body := postJSON(t, ts.URL+"/v1/groups/member/add", map[string]any{
			"groupId": 999,
			"userId":  bobID,
		})
		if status != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", status)
		}
		if body["message"] != "Group with ID 999 not found" {
			t.Errorf("unexpected message: %v", body["message"])
		}
	})

	t.Run("add unknown user is 404", func(t *testing.T) {
		status, _ := postJSON(t, ts.URL+"/v1/groups/member/add", map[string]any{
			"groupId": groupID,
			"userId":  999,
		})
		if status != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", status)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/health-check")
	if err != nil {
		t.Fatalf("GET /health-check failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestUnknownJSONFieldsRejected(t *testing.T) {
	ts := setupTestServer(t)

	status, body := postJSON(t, ts.URL+"/v1/user/signup", map[string]any{
		"name":        "Alice",
		"email":       "alice@x.com",
		"phoneNumber": "1111111111",
		"password":    "secret-pass",
		"role":        "ADMIN",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%v)", status, body)
	}
	if body["message"] != "Invalid request body" {
		t.Errorf("unexpected message: %v", body["message"])
	}
}
