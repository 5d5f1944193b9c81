package driveexport

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blankLines = regexp.MustCompile(`\n{3,}`)

// StripHTML reduces report HTML to plain text suitable for a markdown
// export. Scripts, styles and hidden elements are dropped; block elements
// become paragraph breaks.
func StripHTML(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style").Remove()
	doc.Find("[hidden], [style*='display:none'], [style*='display: none']").Remove()

	// Block elements get trailing newlines so their text does not run
	// together once tags are gone.
	doc.Find("p, div, h1, h2, h3, h4, li, tr, br").Each(func(i int, sel *goquery.Selection) {
		sel.AppendHtml("\n")
	})

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}
