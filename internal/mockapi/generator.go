package mockapi

import (
	"fmt"
	"html"
	"strings"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

// renderSite builds a complete single-file page for a project. The output
// depends only on its inputs.
func renderSite(p *types.Project, prompt string) string {
	name := html.EscapeString(p.Name)
	wt := p.WebsiteType.Normalize()

	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	fmt.Fprintf(&b, "<meta charset=\"UTF-8\">\n<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", name)
	b.WriteString("<style>\nbody { margin: 0; font-family: system-ui, sans-serif; }\nsection { padding: 4rem 2rem; }\n.hero { min-height: 60vh; transform-style: preserve-3d; }\n</style>\n")
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<section id=\"hero\" class=\"hero\">\n<h1>%s</h1>\n</section>\n", name)
	fmt.Fprintf(&b, "<section id=\"about\">\n<h2>About</h2>\n<p>%s</p>\n</section>\n", html.EscapeString(p.Description))
	b.WriteString("<section id=\"services\">\n<h2>Services</h2>\n</section>\n")

	switch wt {
	case types.WebsiteBusiness:
		b.WriteString("<section id=\"testimonials\">\n<h2>Testimonials</h2>\n</section>\n")
	case types.WebsitePortfolio:
		b.WriteString("<section id=\"gallery\">\n<h2>Gallery</h2>\n</section>\n")
	case types.WebsiteRestaurant:
		b.WriteString("<section id=\"menu\">\n<h2>Menu</h2>\n</section>\n")
	}

	b.WriteString("<section id=\"contact\">\n<h2>Contact</h2>\n<form><input type=\"email\" name=\"email\"><button type=\"submit\">Send</button></form>\n</section>\n")
	fmt.Fprintf(&b, "<footer>\n<p>&copy; %s</p>\n</footer>\n", name)
	fmt.Fprintf(&b, "<!-- prompt: %s -->\n", commentSafe(prompt))
	b.WriteString("<script>\ndocument.querySelectorAll('section').forEach(function (s) { s.classList.add('visible'); });\n</script>\n")
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// applyModifications appends a change block to existing code.
func applyModifications(code, modifications string) string {
	block := fmt.Sprintf("<section class=\"modification\">\n<p>%s</p>\n</section>\n", html.EscapeString(modifications))
	if i := strings.LastIndex(code, "</body>"); i >= 0 {
		return code[:i] + block + code[i:]
	}
	return code + block
}

func commentSafe(s string) string {
	return strings.ReplaceAll(s, "--", "- -")
}
