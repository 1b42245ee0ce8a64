package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/wayss000/Inner-See-sub000/internal/domain"
)

// sectionHeader matches a numbered header at the start of a line, allowing
// markdown decoration such as "## 1." or "**2.**".
var sectionHeader = regexp.MustCompile(`(?m)^[ \t>#*]*([1-3])[.)]\**[ \t]*`)

// Parse splits an analysis reply into its three numbered sections. Each
// header is searched for after the previous one found; a section whose
// header is missing is left empty. Only a trailing block after the last
// header is taken as the disclaimer, and Disclaimer is never empty.
func Parse(text string) domain.AIAnalysisResult {
	out := domain.AIAnalysisResult{RawText: text}

	type span struct{ start, end int }
	var found [3]*span

	matches := sectionHeader.FindAllStringSubmatchIndex(text, -1)
	pos := 0
	for n := 1; n <= 3; n++ {
		for _, m := range matches {
			if m[0] < pos || text[m[2]:m[3]] != strconv.Itoa(n) {
				continue
			}
			found[n-1] = &span{start: m[0], end: m[1]}
			pos = m[1]
			break
		}
	}

	cut, disclaimer := trailingDisclaimer(text, pos)
	out.Disclaimer = disclaimer
	body := text[:cut]

	sections := make([]string, 3)
	for i, sp := range found {
		if sp == nil {
			continue
		}
		stop := len(body)
		for _, next := range found[i+1:] {
			if next != nil {
				stop = next.start
				break
			}
		}
		sections[i] = strings.TrimSpace(body[sp.end:stop])
	}

	out.Summary = sections[0]
	out.Suggestions = sections[1]
	out.References = sections[2]
	return out
}

// trailingDisclaimer looks for disclaimerMarker in the last paragraph, or
// failing that the last line, of text, provided it starts at or after from.
// It returns where the body ends and the disclaimer. Without a match the
// body is the whole text and the canonical Disclaimer is returned.
func trailingDisclaimer(text string, from int) (int, string) {
	end := len(strings.TrimRight(text, " \t\r\n"))
	for _, sep := range []string{"\n\n", "\n"} {
		start := strings.LastIndex(text[:end], sep)
		if start < 0 {
			start = 0
		} else {
			start += len(sep)
		}
		if start < from {
			continue
		}
		block := text[start:end]
		if strings.Contains(strings.ToLower(block), disclaimerMarker) {
			return start, strings.TrimSpace(block)
		}
	}
	return len(text), Disclaimer
}
