package parse

import (
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Strategy is a named, pure text transform producing a parse candidate.
type Strategy struct {
	Name      string
	Transform func(raw string) string
}

// Strategy names, in their default order.
const (
	StrategyFences       = "fences"
	StrategyBoundary     = "boundary"
	StrategyAggressive   = "aggressive"
	StrategyCommonErrors = "common-errors"
	StrategyStructural   = "structural"
	StrategyJSONRepair   = "jsonrepair"
)

// DefaultStrategies returns the recovery strategies in preference order.
// The jsonrepair strategy is last because it rewrites the most text.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: StrategyFences, Transform: StripFences},
		{Name: StrategyBoundary, Transform: ExtractBoundary},
		{Name: StrategyAggressive, Transform: AggressiveClean},
		{Name: StrategyCommonErrors, Transform: func(raw string) string { return FixCommonErrors(ExtractBoundary(raw)) }},
		{Name: StrategyStructural, Transform: RepairStructure},
		{Name: StrategyJSONRepair, Transform: LibraryRepair},
	}
}

var (
	fenceOpenRe     = regexp.MustCompile("(?m)^[ \t]*```[A-Za-z0-9_+-]*\\s*")
	fenceCloseRe    = regexp.MustCompile("(?m)```[A-Za-z0-9_+-]*[ \t]*$")
	lineCommentRe   = regexp.MustCompile(`(?m)//.*$`)
	blockCommentRe  = regexp.MustCompile(`(?s)/\*.*?\*/`)
	trailingCommaRe = regexp.MustCompile(`,(\s*[}\]])`)
	looseKeyRe      = regexp.MustCompile(`(['"])?([a-zA-Z0-9_]+)(['"])?:`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	objectGapRe     = regexp.MustCompile(`}\s*{`)
	arrayGapRe      = regexp.MustCompile(`]\s*\[`)
)

// StripFences removes markdown code fences, including a language tag right
// after an opening fence, and trims surrounding whitespace. Only fences that
// start or end a line count, so backticks inside string values survive.
func StripFences(raw string) string {
	s := fenceOpenRe.ReplaceAllString(raw, "")
	return strings.TrimSpace(fenceCloseRe.ReplaceAllString(s, ""))
}

// ExtractBoundary returns the text from the first '{' to the last '}'
// inclusive. Text without such a pair is returned unchanged.
func ExtractBoundary(raw string) string {
	first := strings.IndexByte(raw, '{')
	last := strings.LastIndexByte(raw, '}')
	if first == -1 || last == -1 || first >= last {
		return raw
	}
	return raw[first : last+1]
}

// AggressiveClean strips comments and trailing commas, forces every
// key-looking token before a colon into double quotes and collapses runs of
// whitespace. The key rewrite can also hit text inside string values.
func AggressiveClean(raw string) string {
	s := stripComments(raw)
	s = removeTrailingCommas(s)
	s = looseKeyRe.ReplaceAllString(s, `"${2}":`)
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// FixCommonErrors strips comments and trailing commas, turns single quotes
// into double quotes, inserts missing commas between adjacent objects or
// arrays and drops control characters.
func FixCommonErrors(raw string) string {
	s := stripComments(raw)
	s = removeTrailingCommas(s)
	s = strings.ReplaceAll(s, "'", `"`)
	s = objectGapRe.ReplaceAllString(s, "},{")
	s = arrayGapRe.ReplaceAllString(s, "],[")
	s = stripControl(s)
	return strings.TrimSpace(s)
}

// RepairStructure heals truncated output: after boundary extraction and
// FixCommonErrors it closes an unterminated string and appends the closing
// braces and brackets still open, innermost first. The healed tail is
// syntactically valid but may not be what the model meant.
func RepairStructure(raw string) string {
	s := FixCommonErrors(ExtractBoundary(raw))
	s += closers(s)
	return removeTrailingCommas(s)
}

// LibraryRepair runs jsonrepair over the text from the first '{' to the end,
// so a document cut off mid-array keeps its tail and gets closed. When that
// does not yield an object it retries on the boundary-extracted text, and
// returns that text unchanged when jsonrepair gives up on both.
func LibraryRepair(raw string) string {
	s := StripFences(raw)
	if first := strings.IndexByte(s, '{'); first > 0 {
		s = s[first:]
	}
	if repaired, err := jsonrepair.JSONRepair(s); err == nil && strings.HasPrefix(strings.TrimSpace(repaired), "{") {
		return repaired
	}

	bounded := ExtractBoundary(s)
	repaired, err := jsonrepair.JSONRepair(bounded)
	if err != nil {
		return bounded
	}
	return repaired
}

func stripComments(s string) string {
	s = lineCommentRe.ReplaceAllString(s, "")
	return blockCommentRe.ReplaceAllString(s, "")
}

func removeTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// closers returns the characters needed to close every string, object and
// array left open in s. Brackets inside string literals are ignored, as are
// closing characters that do not match the innermost open one.
func closers(s string) string {
	var (
		stack    []byte
		inString bool
		escaped  bool
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if n := len(stack); n > 0 && stack[n-1] == c {
				stack = stack[:n-1]
			}
		}
	}

	var b strings.Builder
	if inString {
		b.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}
