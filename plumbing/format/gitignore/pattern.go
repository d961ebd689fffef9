package gitignore

import (
	"path/filepath"
	"strings"
)

// MatchResult is the result of matching a Pattern against a path.
type MatchResult int

const (
	// NoMatch means the pattern did not match the path at all.
	NoMatch MatchResult = iota
	// Exclude means the pattern matched and the path should be ignored.
	Exclude
	// Include means the pattern matched a negated ("!") entry and the
	// path should be un-ignored, overriding an earlier Exclude.
	Include
)

// Pattern defines a single gitignore pattern.
type Pattern interface {
	// Match matches the given path to the pattern. The path segments
	// are compared to the segments of the pattern; isDir must be true
	// when path names a directory.
	Match(path []string, isDir bool) MatchResult
}

type pattern struct {
	domain  []string
	pattern []string

	inclusion bool
	dirOnly   bool
}

// ParsePattern parses a single gitignore line into a Pattern, scoped to
// domain: the path, relative to the repository root, of the directory
// the line was read from (nil for the root .gitignore or the global and
// system excludes files).
func ParsePattern(p string, domain []string) Pattern {
	res := pattern{domain: domain}

	if strings.HasPrefix(p, "!") {
		res.inclusion = true
		p = p[1:]
	}

	if strings.HasSuffix(p, "/") {
		res.dirOnly = true
		p = p[:len(p)-1]
	}

	p = strings.TrimPrefix(p, "/")
	res.pattern = strings.Split(p, "/")

	return &res
}

func (p *pattern) Match(path []string, isDir bool) MatchResult {
	if len(path) <= len(p.domain) {
		return NoMatch
	}

	for i, d := range p.domain {
		if path[i] != d {
			return NoMatch
		}
	}

	rest := path[len(p.domain):]

	var matched bool
	if len(p.pattern) == 1 && p.pattern[0] != "**" {
		matched = p.matchAnywhere(rest, isDir)
	} else {
		matched = matchSegments(p.pattern, rest, p.dirOnly, isDir)
	}

	if !matched {
		return NoMatch
	}

	if p.inclusion {
		return Include
	}

	return Exclude
}

// matchAnywhere matches a basename-only pattern (no "/" other than a
// possible trailing one) against any segment of rest, the way git
// matches a bare name at any depth under the domain.
func (p *pattern) matchAnywhere(rest []string, isDir bool) bool {
	for i, seg := range rest {
		ok, err := filepath.Match(p.pattern[0], seg)
		if err != nil || !ok {
			continue
		}

		if p.dirOnly && i == len(rest)-1 && !isDir {
			continue
		}

		return true
	}

	return false
}

// matchSegments matches an anchored, possibly multi-segment pattern
// (one containing "/", or a bare "**") against path, starting at
// path[0]. "**" stands for any number of segments, including zero, but
// only when it is an entire path component on its own; a component
// merely containing "**" is undefined by gitignore and never matches.
// Once pat is exhausted, any remaining path is accepted: a fully
// matched prefix necessarily names a directory when anything sits
// beneath it.
func matchSegments(pat, path []string, dirOnly, isDir bool) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			if len(pat) == 1 {
				return true
			}

			for consumed := 0; consumed <= len(path); consumed++ {
				if matchSegments(pat[1:], path[consumed:], dirOnly, isDir) {
					return true
				}
			}

			return false
		}

		if strings.Contains(pat[0], "**") {
			return false
		}

		if len(path) == 0 {
			return false
		}

		ok, err := filepath.Match(pat[0], path[0])
		if err != nil || !ok {
			return false
		}

		pat = pat[1:]
		path = path[1:]
	}

	if len(path) > 0 {
		return true
	}

	return !dirOnly || isDir
}
