package render

import "strings"

// Font selects style and size; the family is fixed per document.
type Font struct {
	Style string // "", "B", "I"
	Size  float64
}

// Fonts used across the document.
var (
	fontTitle       = Font{"B", 16}
	fontCompanyName = Font{"B", 12}
	fontLabel       = Font{"B", 9}
	fontBody        = Font{"", 9}
	fontSmall       = Font{"", 7}
)

// Measurer reports the rendered width of a text run in page units. The
// layout engine depends on this interface only, so pagination decisions can
// be tested without a PDF backend.
type Measurer interface {
	TextWidth(text string, f Font) float64
}

// wrapText word-wraps text to maxWidth, honoring embedded newlines. Words
// wider than the column are hard-broken so wrapping always terminates.
// The result always has at least one line.
func wrapText(m Measurer, text string, f Font, maxWidth float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := ""
		for _, word := range words {
			// Hard-break a word that cannot fit a line by itself.
			for m.TextWidth(word, f) > maxWidth && len([]rune(word)) > 1 {
				runes := []rune(word)
				cut := len(runes) - 1
				for cut > 1 && m.TextWidth(string(runes[:cut]), f) > maxWidth {
					cut--
				}
				if current != "" {
					lines = append(lines, current)
					current = ""
				}
				lines = append(lines, string(runes[:cut]))
				word = string(runes[cut:])
			}
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if current == "" || m.TextWidth(candidate, f) <= maxWidth {
				current = candidate
			} else {
				lines = append(lines, current)
				current = word
			}
		}
		lines = append(lines, current)
	}
	return lines
}
