package artifact

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// Markdown converts a generated document to Markdown. Scripts, styles and
// head metadata are dropped.
func Markdown(html string) (string, error) {
	converter := md.NewConverter("", true, &md.Options{
		HeadingStyle:     "atx",
		HorizontalRule:   "---",
		BulletListMarker: "-",
		CodeBlockStyle:   "fenced",
		EmDelimiter:      "*",
	})
	converter.Remove("script", "style", "meta", "link", "title", "noscript")

	out, err := converter.ConvertString(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out) + "\n", nil
}

// MarkdownFileName is FileName with a ".md" extension.
func MarkdownFileName(projectName string) string {
	return strings.TrimSuffix(FileName(projectName), ".html") + ".md"
}
