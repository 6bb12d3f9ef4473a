package extraction

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var (
	fenceRe         = regexp.MustCompile("(?s)^\\s*```[a-zA-Z]*\\s*(.*?)\\s*```\\s*$")
	missingCommaRe  = regexp.MustCompile(`("|\d|\}|\]|true|false|null)(\s*\n\s*)("[^"\n]*"\s*:)`)
	adjacentObjRe   = regexp.MustCompile(`\}(\s*)\{`)
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	stringValueRe   = regexp.MustCompile(`"([^"\\]*(?:\\.[^"\\]*)*)"`)
)

// repairStep is one syntax fix. Steps are applied individually and then
// cumulatively.
type repairStep func(string) string

var repairSteps = []repairStep{
	stripFences,
	sliceObject,
	escapeControlChars,
	insertMissingCommas,
	stripTrailingCommas,
}

// Repair returns candidate fixes for malformed JSON text, cheapest first. The
// input itself is never among the candidates, and candidates are unique.
func Repair(text string) []string {
	seen := map[string]bool{strings.TrimSpace(text): true}
	var out []string
	add := func(c string) {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			return
		}
		seen[c] = true
		out = append(out, c)
	}

	for _, step := range repairSteps {
		add(step(text))
	}

	cumulative := text
	for _, step := range repairSteps {
		cumulative = step(cumulative)
		add(cumulative)
	}
	return out
}

// ParseReceipt strictly decodes text into an ExtractedReceipt.
func ParseReceipt(text string) (*ExtractedReceipt, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty JSON document")
	}
	if !strings.HasPrefix(text, "{") {
		return nil, errors.New("JSON document is not an object")
	}
	var receipt ExtractedReceipt
	if err := json.Unmarshal([]byte(text), &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// parseWithRepair parses text as is, then each local repair candidate in
// turn. It returns the candidate that parsed and whether a repair was needed.
func parseWithRepair(text string) (*ExtractedReceipt, string, bool, error) {
	receipt, err := ParseReceipt(text)
	if err == nil {
		return receipt, text, false, nil
	}
	firstErr := err

	for _, candidate := range Repair(text) {
		if receipt, err := ParseReceipt(candidate); err == nil {
			return receipt, candidate, true, nil
		}
	}
	return nil, "", false, firstErr
}

func stripFences(s string) string {
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// sliceObject keeps the outermost JSON object, ignoring braces inside strings.
// An unterminated object runs to the last closing brace.
func sliceObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return s
	}

	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	if end := strings.LastIndex(s, "}"); end > start {
		return s[start : end+1]
	}
	return s[start:]
}

// escapeControlChars escapes raw newlines and tabs inside string values.
func escapeControlChars(s string) string {
	return stringValueRe.ReplaceAllStringFunc(s, func(match string) string {
		content := match[1 : len(match)-1]
		content = strings.ReplaceAll(content, "\r", `\r`)
		content = strings.ReplaceAll(content, "\n", `\n`)
		content = strings.ReplaceAll(content, "\t", `\t`)
		return `"` + content + `"`
	})
}

func insertMissingCommas(s string) string {
	s = missingCommaRe.ReplaceAllString(s, "$1,$2$3")
	return adjacentObjRe.ReplaceAllString(s, "},$1{")
}

func stripTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}
