package gitignore

// Matcher evaluates a set of Patterns against paths, honoring later
// patterns' precedence over earlier ones (so a later "!" entry can
// override an earlier exclude), the same resolution order git applies
// across .gitignore, the global excludesfile, and $GIT_DIR/info/exclude.
type Matcher interface {
	// Match returns true if the given path is excluded by the
	// patterns the Matcher was built from.
	Match(path []string, isDir bool) bool
}

type matcher struct {
	patterns []Pattern
}

// NewMatcher returns a Matcher built from patterns, evaluated in the
// order given: later patterns take precedence over earlier ones.
func NewMatcher(patterns []Pattern) Matcher {
	return &matcher{patterns: patterns}
}

func (m *matcher) Match(path []string, isDir bool) bool {
	n := len(m.patterns)

	for i := n - 1; i >= 0; i-- {
		res := m.patterns[i].Match(path, isDir)
		if res == NoMatch {
			continue
		}

		return res == Exclude
	}

	return false
}
