package mockapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t      *testing.T
	server *Server
	url    string
	token  string
}

func newHarness(t *testing.T, cfg *Config) *harness {
	t.Helper()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	srv := New(cfg)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &harness{t: t, server: srv, url: ts.URL + "/api"}
}

func (h *harness) do(method, path string, body any) (int, map[string]any) {
	h.t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(h.t, err)
		rdr = bytes.NewReader(data)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, h.url+path, rdr)
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (h *harness) login() {
	h.t.Helper()
	token, ok := h.server.CreateUser("ada", "ada@example.com", "secret1", "Ada Lovelace")
	require.True(h.t, ok)
	h.token = token
}

func (h *harness) createProject(name, websiteType string) int64 {
	h.t.Helper()
	status, body := h.do("POST", "/projects", map[string]string{"project_name": name, "website_type": websiteType})
	require.Equal(h.t, http.StatusCreated, status, body)
	return int64(body["project"].(map[string]any)["id"].(float64))
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t, nil)

	status, body := h.do("POST", "/auth/register", map[string]string{
		"username": "ada", "email": "ada@example.com", "password": "secret1", "full_name": "Ada Lovelace",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.NotEmpty(t, body["token"])
	assert.Equal(t, "ada", body["user"].(map[string]any)["username"])

	status, _ = h.do("POST", "/auth/register", map[string]string{
		"username": "ada2", "email": "ADA@example.com", "password": "secret1", "full_name": "Ada",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body = h.do("POST", "/auth/login", map[string]string{"email": "ada@example.com", "password": "wrong!"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password", body["error"])

	status, body = h.do("POST", "/auth/login", map[string]string{"email": "ada@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)
	h.token = body["token"].(string)

	status, body = h.do("GET", "/auth/profile", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Ada Lovelace", body["user"].(map[string]any)["full_name"])

	status, body = h.do("PUT", "/auth/profile", map[string]string{"full_name": "Augusta Ada King"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Augusta Ada King", body["user"].(map[string]any)["full_name"])
}

func TestRequireAuth(t *testing.T) {
	h := newHarness(t, nil)

	status, body := h.do("GET", "/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Missing Authorization Header", body["msg"])

	h.login()
	status, _ = h.do("GET", "/projects", nil)
	assert.Equal(t, http.StatusOK, status)

	h.server.RevokeToken(h.token)
	status, _ = h.do("GET", "/projects", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProjectsCRUD(t *testing.T) {
	h := newHarness(t, nil)
	h.login()

	status, body := h.do("POST", "/projects", map[string]string{"project_name": "  "})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Project name is required", body["error"])

	first := h.createProject("First", "business")
	second := h.createProject("Second", "")

	status, body = h.do("GET", "/projects/"+itoa(second), nil)
	require.Equal(t, http.StatusOK, status)
	p := body["project"].(map[string]any)
	assert.Equal(t, "draft", p["status"])
	assert.Nil(t, p["generated_code"])
	assert.Equal(t, "general", p["website_type"])

	status, body = h.do("GET", "/projects?page=1&per_page=1", nil)
	require.Equal(t, http.StatusOK, status)
	list := body["projects"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, float64(second), list[0].(map[string]any)["id"], "newest first")
	assert.Equal(t, float64(2), body["total"])

	status, body = h.do("GET", "/projects?page=5&per_page=1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["projects"])
	assert.Equal(t, float64(2), body["total"], "total counts every project, not the page")

	status, body = h.do("PUT", "/projects/"+itoa(first)+"/", map[string]string{"description": "Updated"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Updated", body["project"].(map[string]any)["description"])

	status, _ = h.do("DELETE", "/projects/"+itoa(first), nil)
	assert.Equal(t, http.StatusOK, status)
	status, body = h.do("DELETE", "/projects/"+itoa(first), nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Project not found", body["error"])
}

func TestProjectsAreScopedToOwner(t *testing.T) {
	h := newHarness(t, nil)
	h.login()
	id := h.createProject("Mine", "blog")

	other, ok := h.server.CreateUser("bob", "bob@example.com", "secret1", "Bob")
	require.True(t, ok)
	h.token = other

	status, _ := h.do("GET", "/projects/"+itoa(id), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGenerateAndRegenerate(t *testing.T) {
	h := newHarness(t, nil)
	h.login()
	id := h.createProject("Bistro", "restaurant")

	status, body := h.do("POST", "/ai/regenerate-website", map[string]any{"project_id": id, "modifications": "bigger logo"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "No existing code to modify. Generate website first.", body["error"])

	status, body = h.do("POST", "/ai/generate-website", map[string]any{"project_id": id, "prompt": ""})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Website description/prompt is required", body["error"])

	status, body = h.do("POST", "/ai/generate-website", map[string]any{"project_id": id, "prompt": "A cozy bistro"})
	require.Equal(t, http.StatusOK, status)
	p := body["project"].(map[string]any)
	assert.Equal(t, "generated", p["status"])
	assert.Contains(t, p["generated_code"], `id="menu"`)
	assert.Contains(t, body, "generation_time")

	status, body = h.do("POST", "/ai/regenerate-website", map[string]any{"project_id": id, "modifications": "add opening hours"})
	require.Equal(t, http.StatusOK, status)
	p = body["project"].(map[string]any)
	assert.Equal(t, "regenerated", p["status"])
	assert.Contains(t, p["generated_code"], "add opening hours")

	status, body = h.do("GET", "/ai/generation-history/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, status)
	history := body["history"].([]any)
	require.Len(t, history, 2)
	assert.Equal(t, "Modifications: add opening hours", history[0].(map[string]any)["prompt"])
	assert.Equal(t, true, history[1].(map[string]any)["success"])
}

func TestRenderSiteIsDeterministic(t *testing.T) {
	h := newHarness(t, nil)
	h.login()
	id := h.createProject("Same", "portfolio")

	_, first := h.do("POST", "/ai/generate-website", map[string]any{"project_id": id, "prompt": "p"})
	_, second := h.do("POST", "/ai/generate-website", map[string]any{"project_id": id, "prompt": "p"})

	a := first["project"].(map[string]any)["generated_code"].(string)
	b := second["project"].(map[string]any)["generated_code"].(string)
	assert.Equal(t, a, b)
	assert.True(t, strings.Contains(a, `id="gallery"`))
}

func TestFaultInjection(t *testing.T) {
	h := newHarness(t, nil)
	h.login()
	id := h.createProject("Faulty", "blog")
	path := "/api/projects/" + itoa(id)

	h.server.InjectFault("PUT", path, Fault{Status: http.StatusUnauthorized, Times: 1})
	status, body := h.do("PUT", "/projects/"+itoa(id), map[string]string{"description": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token has expired", body["msg"])

	status, _ = h.do("PUT", "/projects/"+itoa(id), map[string]string{"description": "x"})
	assert.Equal(t, http.StatusOK, status, "fault should be consumed")

	h.server.InjectFault("GET", path, Fault{Status: http.StatusInternalServerError, Error: "Failed to get project", Details: "db down"})
	status, body = h.do("GET", "/projects/"+itoa(id), nil)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "db down", body["details"])
	h.server.ClearFaults()

	assert.Equal(t, 2, h.server.Hits("PUT", path))
}

func TestGenerationDelayHonorsDisconnect(t *testing.T) {
	h := newHarness(t, &Config{Prefix: "/api", GenerationDelay: time.Hour})
	h.login()
	id := h.createProject("Slow", "landing")

	client := &http.Client{Timeout: 50 * time.Millisecond}
	data, _ := json.Marshal(map[string]any{"project_id": id, "prompt": "x"})
	req, _ := http.NewRequest("POST", h.url+"/ai/generate-website", bytes.NewReader(data))
	req.Header.Set("Authorization", "Bearer "+h.token)
	_, err := client.Do(req)
	require.Error(t, err)

	status, body := h.do("GET", "/projects/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "draft", body["project"].(map[string]any)["status"])
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
