package extract

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
	reBoxNoise   = regexp.MustCompile(`(?m)^\s*[_\-]{3,}\s*$`)
)

// Normalize collapses noisy whitespace in recovered report text.
// Conservative: keeps line breaks; collapses >2 newlines into a single blank line.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reTabs.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = reBoxNoise.ReplaceAllString(s, "")
	// collapse too many blank lines
	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	// trim trailing spaces on lines
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")
	return strings.TrimSpace(s)
}

// digitRepairs maps characters tesseract commonly mistakes for digits.
// Applied only inside candidate numeric tokens, never to whole lines.
var digitRepairs = map[rune]rune{
	'O': '0', 'o': '0', 'Q': '0', 'D': '0',
	'I': '1', 'l': '1', '|': '1', '!': '1',
	'Z': '2', 'z': '2',
	'S': '5', 's': '5',
	'G': '6', 'b': '6',
	'T': '7', 't': '7',
	'B': '8',
	'g': '9', 'q': '9',
}

// repairDigits rewrites confusable characters in a numeric token. The second
// return reports whether anything was repaired, which lowers the local
// parse confidence.
func repairDigits(tok string) (string, bool) {
	repaired := false
	out := make([]rune, 0, len(tok))
	for _, r := range tok {
		if sub, ok := digitRepairs[r]; ok {
			out = append(out, sub)
			repaired = true
			continue
		}
		out = append(out, r)
	}
	return string(out), repaired
}
