// Package artifact works with the HTML documents produced by generation:
// naming downloads, inspecting their structure, diffing revisions and
// exporting them as Markdown.
package artifact

import (
	"errors"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/utkarshverma439/SiteCraft-AI/pkg/types"
)

// ErrNoCode is returned when a project has nothing to export.
var ErrNoCode = errors.New("no generated code to download")

var whitespace = regexp.MustCompile(`\s+`)

// FileName returns the download name for a project: whitespace runs become
// underscores and ".html" is appended.
func FileName(projectName string) string {
	name := whitespace.ReplaceAllString(strings.TrimSpace(projectName), "_")
	if name == "" {
		name = "website"
	}
	return name + ".html"
}

// Code returns the project's generated document.
func Code(p *types.Project) (string, error) {
	if p == nil || !p.HasCode() {
		return "", ErrNoCode
	}
	return *p.GeneratedCode, nil
}

// Sections lists the structural sections looked for by Inspect, in report
// order.
var Sections = []string{
	"hero",
	"about",
	"services",
	"testimonials",
	"gallery",
	"menu",
	"contact",
	"footer",
}

// Report summarizes a generated document.
type Report struct {
	Title    string          `json:"title" yaml:"title"`
	Sections map[string]bool `json:"sections" yaml:"sections"`
	Scripts  int             `json:"scripts" yaml:"scripts"`
	Styles   int             `json:"styles" yaml:"styles"`
	Links    int             `json:"links" yaml:"links"`
	Forms    int             `json:"forms" yaml:"forms"`
	Bytes    int             `json:"bytes" yaml:"bytes"`
}

// Missing returns the sections Inspect did not find.
func (r *Report) Missing() []string {
	var out []string
	for _, s := range Sections {
		if !r.Sections[s] {
			out = append(out, s)
		}
	}
	return out
}

// Inspect parses html and reports its title, which known sections it has
// and how many scripts, styles, links and forms it carries. A section
// counts when an element has it as id or class, or when it is the
// corresponding landmark tag (header for hero, footer for footer).
func Inspect(html string) (*Report, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	r := &Report{
		Title:    strings.TrimSpace(doc.Find("title").First().Text()),
		Sections: make(map[string]bool, len(Sections)),
		Scripts:  doc.Find("script").Length(),
		Styles:   doc.Find("style, link[rel='stylesheet']").Length(),
		Links:    doc.Find("a[href]").Length(),
		Forms:    doc.Find("form").Length(),
		Bytes:    len(html),
	}
	for _, s := range Sections {
		sel := "#" + s + ", ." + s
		switch s {
		case "hero":
			sel += ", header"
		case "footer":
			sel += ", footer"
		case "contact":
			sel += ", form"
		}
		r.Sections[s] = doc.Find(sel).Length() > 0
	}
	return r, nil
}
