package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

func TestBuildPrompt_Business(t *testing.T) {
	p := &types.Project{
		Name:        "Acme",
		Description: "We sell widgets",
		WebsiteType: types.WebsiteBusiness,
	}

	want := `Create a professional business website for "Acme".

Requirements:
- Modern responsive design with professional blue and white with gray accents
- Hero section, about/services, contact form, footer
- Include testimonials section
- We sell widgets

Create a complete HTML file with embedded CSS and JavaScript. Use modern design with smooth animations and 3D effects.`
	assert.Equal(t, want, BuildPrompt(p))
}

func TestBuildPrompt_EveryType(t *testing.T) {
	cases := append([]types.WebsiteType{}, types.WebsiteTypes...)
	cases = append(cases, "", "spaceship", "RESTAURANT")

	for _, wt := range cases {
		t.Run(string(wt), func(t *testing.T) {
			p := &types.Project{Name: "Site", WebsiteType: wt}
			prompt := BuildPrompt(p)

			norm := wt.Normalize()
			assert.True(t, strings.HasPrefix(prompt, baseInstruction(norm)+` for "Site".`))
			assert.Contains(t, prompt, "- Modern responsive design with "+colorScheme(norm)+"\n")
			assert.Contains(t, prompt, "- Hero section, about/services, contact form, footer\n")
			assert.True(t, strings.HasSuffix(prompt, "smooth animations and 3D effects."))
			assert.NotContains(t, prompt, "\n\n\n")
			assert.NotContains(t, prompt, "- \n")
			assert.Equal(t, prompt, BuildPrompt(p), "prompt must be deterministic")
		})
	}
}

func TestBuildPrompt_UnknownTypeUsesDefaults(t *testing.T) {
	prompt := BuildPrompt(&types.Project{Name: "X", WebsiteType: "spaceship"})
	assert.True(t, strings.HasPrefix(prompt, `Create a professional website for "X".`))
	assert.Contains(t, prompt, "modern and professional color scheme")
}

func TestBuildPrompt_BonusClauses(t *testing.T) {
	tests := []struct {
		wt     types.WebsiteType
		clause string
	}{
		{types.WebsiteBusiness, "- Include testimonials section"},
		{types.WebsitePortfolio, "- Include portfolio gallery"},
		{types.WebsiteRestaurant, "- Include menu section"},
	}
	all := []string{"testimonials section", "portfolio gallery", "menu section"}

	for _, tt := range tests {
		prompt := BuildPrompt(&types.Project{Name: "N", WebsiteType: tt.wt})
		assert.Contains(t, prompt, tt.clause)
		for _, other := range all {
			if !strings.Contains(tt.clause, other) {
				assert.NotContains(t, prompt, other)
			}
		}
	}

	blog := BuildPrompt(&types.Project{Name: "N", WebsiteType: types.WebsiteBlog})
	for _, other := range all {
		assert.NotContains(t, blog, other)
	}
}

func TestBuildPrompt_RestaurantMentionsMenu(t *testing.T) {
	prompt := BuildPrompt(&types.Project{Name: "Trattoria", WebsiteType: types.WebsiteRestaurant})
	assert.Contains(t, strings.ToLower(prompt), "menu")
	assert.Contains(t, prompt, "warm and appetizing colors (reds, oranges, browns)")
}

func TestBuildPrompt_OptionalLines(t *testing.T) {
	p := &types.Project{
		Name:         "Blog",
		WebsiteType:  types.WebsiteBlog,
		Description:  "   ",
		Requirements: " Dark mode toggle ",
	}
	prompt := BuildPrompt(p)
	assert.Contains(t, prompt, "- Dark mode toggle\n")
	assert.Equal(t, 3, strings.Count(prompt, "\n- "))
}

func TestExamplePrompt(t *testing.T) {
	assert.Contains(t, ExamplePrompt(types.WebsitePortfolio), "portfolio website for a graphic designer")
	assert.Contains(t, ExamplePrompt(types.WebsiteRestaurant), "menu with categories")
	assert.Equal(t, ExamplePrompt(types.WebsiteBusiness), ExamplePrompt(types.WebsiteBlog))
	assert.Equal(t, ExamplePrompt(types.WebsiteBusiness), ExamplePrompt("unknown"))
}

func TestBuildPrompt_NilProject(t *testing.T) {
	var got string
	require.NotPanics(t, func() { got = BuildPrompt(nil) })
	assert.Equal(t, BuildPrompt(&types.Project{WebsiteType: types.WebsiteOther}), got)
	assert.NotEmpty(t, got)
}
