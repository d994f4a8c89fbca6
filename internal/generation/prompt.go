package generation

import (
	"fmt"
	"strings"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

// BuildPrompt composes the generation prompt for a project. It is a pure
// function of the project's name, type, description and requirements.
// A nil project yields the prompt for an unnamed project of type other.
func BuildPrompt(p *types.Project) string {
	if p == nil {
		p = &types.Project{}
	}
	wt := p.WebsiteType.Normalize()

	var b strings.Builder
	fmt.Fprintf(&b, "%s for \"%s\".\n\n", baseInstruction(wt), p.Name)
	b.WriteString("Requirements:\n")
	fmt.Fprintf(&b, "- Modern responsive design with %s\n", colorScheme(wt))
	b.WriteString("- Hero section, about/services, contact form, footer\n")
	for _, line := range bonusClauses(wt) {
		b.WriteString("- " + line + "\n")
	}
	if d := strings.TrimSpace(p.Description); d != "" {
		b.WriteString("- " + d + "\n")
	}
	if r := strings.TrimSpace(p.Requirements); r != "" {
		b.WriteString("- " + r + "\n")
	}
	b.WriteString("\nCreate a complete HTML file with embedded CSS and JavaScript. Use modern design with smooth animations and 3D effects.")
	return b.String()
}

func baseInstruction(t types.WebsiteType) string {
	switch t {
	case types.WebsiteBusiness:
		return "Create a professional business website"
	case types.WebsitePortfolio:
		return "Design a creative portfolio website"
	case types.WebsiteBlog:
		return "Build a modern blog website"
	case types.WebsiteEcommerce:
		return "Develop an e-commerce website"
	case types.WebsiteLanding:
		return "Create a high-converting landing page"
	case types.WebsiteRestaurant:
		return "Design a restaurant website"
	case types.WebsiteAgency:
		return "Build a digital agency website"
	case types.WebsiteNonprofit:
		return "Create a nonprofit organization website"
	case types.WebsiteEducation:
		return "Design an educational website"
	case types.WebsiteHealthcare:
		return "Build a healthcare website"
	default:
		return "Create a professional website"
	}
}

func colorScheme(t types.WebsiteType) string {
	switch t {
	case types.WebsiteBusiness:
		return "professional blue and white with gray accents"
	case types.WebsitePortfolio:
		return "creative and vibrant with a dark theme"
	case types.WebsiteBlog:
		return "clean and readable with warm colors"
	case types.WebsiteEcommerce:
		return "trustworthy blues and greens with white"
	case types.WebsiteLanding:
		return "high-contrast colors for conversions"
	case types.WebsiteRestaurant:
		return "warm and appetizing colors (reds, oranges, browns)"
	case types.WebsiteAgency:
		return "modern and bold with bright accents"
	case types.WebsiteNonprofit:
		return "trustworthy and warm colors"
	case types.WebsiteEducation:
		return "friendly and accessible colors"
	case types.WebsiteHealthcare:
		return "calming blues and greens with white"
	default:
		return "modern and professional color scheme"
	}
}

func bonusClauses(t types.WebsiteType) []string {
	switch t {
	case types.WebsiteBusiness:
		return []string{"Include testimonials section"}
	case types.WebsitePortfolio:
		return []string{"Include portfolio gallery"}
	case types.WebsiteRestaurant:
		return []string{"Include menu section"}
	default:
		return nil
	}
}

// ExamplePrompt returns a sample free-form prompt for a website type.
// Types without a dedicated sample get the business one.
func ExamplePrompt(t types.WebsiteType) string {
	switch t.Normalize() {
	case types.WebsitePortfolio:
		return "Design a creative portfolio website for a graphic designer with a dark theme, animated hero section, project gallery with hover effects, about section, skills showcase, and contact form. Use vibrant accent colors."
	case types.WebsiteRestaurant:
		return "Build a restaurant website with warm colors, hero section with food images, menu with categories, reservation system, location map, chef's story, and customer reviews. Include appetizing food photography."
	default:
		return "Create a modern business website for a tech startup with a dark blue theme, hero section with animated background, services grid, team profiles, client testimonials, and contact form. Include smooth scrolling and 3D card effects."
	}
}
