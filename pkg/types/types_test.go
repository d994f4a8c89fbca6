package types

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebsiteType_Normalize(t *testing.T) {
	tests := []struct {
		in   WebsiteType
		want WebsiteType
	}{
		{"business", WebsiteBusiness},
		{"  Restaurant ", WebsiteRestaurant},
		{"ECOMMERCE", WebsiteEcommerce},
		{"general", WebsiteOther},
		{"", WebsiteOther},
		{"other", WebsiteOther},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
	for _, wt := range WebsiteTypes {
		assert.True(t, wt.Known(), "%s should be known", wt)
	}
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, StatusRegenerated.Valid())
	assert.False(t, Status("published").Valid())

	assert.True(t, StatusGenerated.RevertsTo(StatusDraft))
	assert.True(t, StatusRegenerated.RevertsTo(StatusDraft))
	assert.False(t, StatusDraft.RevertsTo(StatusDraft))
	assert.False(t, StatusRegenerated.RevertsTo(StatusGenerated))
}

func TestProject_Consistent(t *testing.T) {
	code := "<html></html>"
	empty := ""

	assert.True(t, (&Project{Status: StatusDraft}).Consistent())
	assert.False(t, (&Project{Status: StatusDraft, GeneratedCode: &code}).Consistent())
	assert.True(t, (&Project{Status: StatusGenerated, GeneratedCode: &code}).Consistent())
	assert.False(t, (&Project{Status: StatusGenerated}).Consistent())
	assert.False(t, (&Project{Status: StatusRegenerated, GeneratedCode: &empty}).Consistent())
	assert.False(t, (&Project{Status: "bogus"}).Consistent())
}

func TestProject_CloneIsDeep(t *testing.T) {
	code := "v1"
	p := &Project{ID: 1, Status: StatusGenerated, GeneratedCode: &code}

	c := p.Clone()
	*c.GeneratedCode = "v2"

	assert.Equal(t, "v1", *p.GeneratedCode)
	assert.Nil(t, (*Project)(nil).Clone())
}

func TestProject_WireFormat(t *testing.T) {
	raw := `{
		"id": 5,
		"user_id": 2,
		"project_name": "Bistro",
		"description": "Family place",
		"website_type": "restaurant",
		"requirements": "",
		"generated_code": null,
		"status": "draft",
		"created_at": "Tue, 14 Oct 2025 10:00:00 GMT",
		"updated_at": "2025-10-14T10:00:00"
	}`

	var p Project
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	assert.Equal(t, "Bistro", p.Name)
	assert.Equal(t, WebsiteRestaurant, p.WebsiteType)
	assert.Nil(t, p.GeneratedCode)
	assert.Equal(t, 2025, p.CreatedAt.Year())
	assert.Equal(t, p.CreatedAt.Unix(), p.UpdatedAt.Unix())

	out, err := json.Marshal(ProjectFields{Name: "Bistro", WebsiteType: WebsiteRestaurant})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"project_name":"Bistro"`)
	assert.NotContains(t, string(out), "status")
	assert.NotContains(t, string(out), "generated_code")
}

func TestTimestamp(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	assert.True(t, ts.IsZero())

	require.NoError(t, json.Unmarshal([]byte(`"2025-01-02T03:04:05Z"`), &ts))
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), ts.Time)

	out, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-02T03:04:05Z"`, string(out))

	out, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestSession_Valid(t *testing.T) {
	assert.False(t, (*Session)(nil).Valid())
	assert.False(t, (&Session{Token: "t"}).Valid())
	assert.False(t, (&Session{User: &User{ID: 1}}).Valid())
	assert.True(t, (&Session{Token: "t", User: &User{ID: 1}}).Valid())
}

func TestRegisterInput_ConfirmPasswordNotSent(t *testing.T) {
	out, err := json.Marshal(RegisterInput{Username: "u", Password: "secret1", ConfirmPassword: "secret1"})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "confirm")
	assert.Contains(t, string(out), `"full_name"`)
}

func TestAPIError_UserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *APIError
		want string
	}{
		{"validation", ValidationError("Project name is required"), "Project name is required"},
		{"generation", GenerationError("operation already in progress"), "operation already in progress"},
		{"unauthorized", UnauthorizedError("Invalid token"), "Authentication failed. Please login again."},
		{"network", NetworkError(errors.New("dial tcp")), "Network error. Please check your connection."},
		{"400 with message", ServerError(400, "Project ID is required", ""), "Project ID is required"},
		{"400 without message", ServerError(400, "", ""), "Invalid request. Please check your input."},
		{"500 with message", ServerError(500, "AI generation failed", "quota"), "AI generation failed"},
		{"500 without message", ServerError(500, "", ""), "Server error. Please try again later."},
		{"404", ServerError(404, "Project not found", ""), "Error 404: Project not found"},
		{"503 without message", ServerError(503, "", ""), "Error 503: Unknown error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.UserMessage())
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestAPIError_Wrapping(t *testing.T) {
	err := fmt.Errorf("list projects: %w", NetworkError(context.Canceled))

	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, IsKind(err, KindNetwork))
	assert.False(t, IsKind(err, KindServer))
	assert.Contains(t, err.Error(), "network error")

	assert.True(t, IsNotFound(ServerError(404, "Project not found", "")))
	assert.False(t, IsNotFound(ServerError(400, "", "")))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}

func TestDuration_JSON(t *testing.T) {
	var cfg APIConfig
	require.NoError(t, json.Unmarshal([]byte(`{"timeout":"45s","generationTimeout":180}`), &cfg))
	assert.Equal(t, 45*time.Second, cfg.Timeout.Std())
	assert.Equal(t, 180*time.Second, cfg.GenerationTimeout.Std())

	assert.Error(t, json.Unmarshal([]byte(`{"timeout":"soon"}`), &cfg))
}
