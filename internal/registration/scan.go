package registration

import (
	"regexp"
	"strings"
)

// Syntax describes the lexical elements the scanner must step over so that
// anchors are only found in code, never inside comments or string literals.
type Syntax struct {
	LineComments []string
	BlockComment [2]string

	// Quotes lists the string delimiters. Backslash escapes apply inside
	// them unless the delimiter is also listed in RawQuotes.
	Quotes    string
	RawQuotes string

	// HashAttributes keeps "#[" as code even when "#" starts a line comment
	HashAttributes bool
}

// source is a text plus a per-byte mask that is true for code
type source struct {
	text string
	code []bool
}

func scan(text string, syn Syntax) *source {
	code := make([]bool, len(text))
	i := 0
	for i < len(text) {
		if syn.lineCommentAt(text, i) {
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				i = len(text)
			} else {
				i += end
			}
			continue
		}

		if opener, closer := syn.BlockComment[0], syn.BlockComment[1]; opener != "" && strings.HasPrefix(text[i:], opener) {
			end := strings.Index(text[i+len(opener):], closer)
			if end < 0 {
				i = len(text)
			} else {
				i += len(opener) + end + len(closer)
			}
			continue
		}

		c := text[i]
		if strings.IndexByte(syn.Quotes, c) >= 0 {
			raw := strings.IndexByte(syn.RawQuotes, c) >= 0
			j := i + 1
			for j < len(text) {
				if !raw && text[j] == '\\' {
					j += 2
					continue
				}
				if text[j] == c {
					j++
					break
				}
				j++
			}
			i = min(j, len(text))
			continue
		}

		code[i] = true
		i++
	}
	return &source{text: text, code: code}
}

func (syn Syntax) lineCommentAt(text string, i int) bool {
	for _, prefix := range syn.LineComments {
		if !strings.HasPrefix(text[i:], prefix) {
			continue
		}
		if prefix == "#" && syn.HashAttributes && strings.HasPrefix(text[i:], "#[") {
			continue
		}
		return true
	}
	return false
}

// find returns the bounds of the first match of re that starts in code at or
// after from, or nil.
func (s *source) find(re *regexp.Regexp, from int) []int {
	for _, loc := range re.FindAllStringIndex(s.text[from:], -1) {
		start, end := loc[0]+from, loc[1]+from
		if s.code[start] {
			return []int{start, end}
		}
	}
	return nil
}

// findAll returns every match of re starting in code within [from, to)
func (s *source) findAll(re *regexp.Regexp, from, to int) [][]int {
	var out [][]int
	for _, loc := range re.FindAllStringSubmatchIndex(s.text[from:to], -1) {
		if !s.code[loc[0]+from] {
			continue
		}
		shifted := make([]int, len(loc))
		for i, v := range loc {
			if v >= 0 {
				shifted[i] = v + from
			} else {
				shifted[i] = v
			}
		}
		out = append(out, shifted)
	}
	return out
}

// indexCode returns the position of the next code byte c at or after from
func (s *source) indexCode(c byte, from int) int {
	for i := from; i < len(s.text); i++ {
		if s.code[i] && s.text[i] == c {
			return i
		}
	}
	return -1
}

// matching returns the position of the bracket closing the one at open,
// counting only code bytes, or -1 when unbalanced.
func (s *source) matching(open int) int {
	var closer byte
	switch s.text[open] {
	case '(':
		closer = ')'
	case '{':
		closer = '}'
	case '[':
		closer = ']'
	default:
		return -1
	}

	depth := 0
	for i := open; i < len(s.text); i++ {
		if !s.code[i] {
			continue
		}
		switch s.text[i] {
		case s.text[open]:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// lineIndent returns the leading whitespace of the line containing pos
func (s *source) lineIndent(pos int) string {
	start := strings.LastIndexByte(s.text[:pos], '\n') + 1
	end := start
	for end < len(s.text) && (s.text[end] == ' ' || s.text[end] == '\t') {
		end++
	}
	return s.text[start:end]
}
