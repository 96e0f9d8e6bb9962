package ndbc

import (
	"iter"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`^[0-9A-Za-z+./-]+$`)

// Lines yields the first arity tokens of every line in body that carries at
// least arity well-formed tokens. Header lines (leading '#'), short lines and
// lines with malformed tokens are skipped without error.
func Lines(body string, arity int) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		for _, tokens := range numberedLines(body, arity) {
			if !yield(tokens) {
				return
			}
		}
	}
}

// numberedLines is Lines with the 1-based source line number attached.
func numberedLines(body string, arity int) iter.Seq2[int, []string] {
	return func(yield func(int, []string) bool) {
		if arity <= 0 {
			return
		}
		n := 0
		for line := range strings.SplitSeq(body, "\n") {
			n++
			tokens, ok := matchLine(line, arity)
			if !ok {
				continue
			}
			if !yield(n, tokens) {
				return
			}
		}
	}
}

func matchLine(line string, arity int) ([]string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, false
	}
	fields := strings.Fields(line)
	if len(fields) < arity {
		return nil, false
	}
	tokens := fields[:arity:arity]
	for _, tok := range tokens {
		if !tokenPattern.MatchString(tok) {
			return nil, false
		}
	}
	return tokens, true
}
