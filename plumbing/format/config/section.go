package config

import (
	"fmt"
	"slices"
	"strings"
)

// Option is a single "key = value" line within a section or subsection.
type Option struct {
	Key   string
	Value string
}

// IsKey reports whether o's key matches name, case-insensitively (git
// config keys are case-insensitive).
func (o *Option) IsKey(name string) bool {
	return strings.EqualFold(o.Key, name)
}

// GoString implements fmt.GoStringer, for debug-friendly test diffs.
func (o *Option) GoString() string {
	return fmt.Sprintf("&config.Option{Key:%q, Value:%q}", o.Key, o.Value)
}

// Options is an ordered list of Option, preserving declaration order and
// last-one-wins lookup semantics matching git's own behavior.
type Options []*Option

// GoString implements fmt.GoStringer.
func (opts Options) GoString() string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		parts[i] = o.GoString()
	}
	return strings.Join(parts, ", ")
}

// Get returns the value of the last option matching key, or "" if absent.
func (opts Options) Get(key string) string {
	for i := len(opts) - 1; i >= 0; i-- {
		if opts[i].IsKey(key) {
			return opts[i].Value
		}
	}
	return ""
}

// GetAll returns every value for key, in declaration order.
func (opts Options) GetAll(key string) []string {
	out := []string{}
	for _, o := range opts {
		if o.IsKey(key) {
			out = append(out, o.Value)
		}
	}
	return out
}

// Has reports whether any option matches key.
func (opts Options) Has(key string) bool {
	for _, o := range opts {
		if o.IsKey(key) {
			return true
		}
	}
	return false
}

// Sections is an ordered list of Section.
type Sections []*Section

// GoString implements fmt.GoStringer.
func (ss Sections) GoString() string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = s.GoString()
	}
	return strings.Join(parts, ", ")
}

// Subsections is an ordered list of named Subsection, e.g. the
// `[remote "origin"]` blocks under a `remote` Section.
type Subsections []*Subsection

// GoString implements fmt.GoStringer.
func (ss Subsections) GoString() string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = s.GoString()
	}
	return strings.Join(parts, ", ")
}

// Subsection is a named sub-block of a Section, e.g. `[branch "main"]`.
type Subsection struct {
	Name    string
	Options Options
}

// GoString implements fmt.GoStringer.
func (s *Subsection) GoString() string {
	return fmt.Sprintf("&config.Subsection{Name:%q, Options:%s}", s.Name, s.Options.GoString())
}

// IsName reports whether name matches this subsection's name, case
// sensitively (unlike a section's own name, a subsection name is a git
// ref/branch/remote identifier and is case-significant).
func (s *Subsection) IsName(name string) bool { return s.Name == name }

// Option returns the value of the last entry for key.
func (s *Subsection) Option(key string) string { return s.Options.Get(key) }

// OptionAll returns every value for key.
func (s *Subsection) OptionAll(key string) []string { return s.Options.GetAll(key) }

// HasOption reports whether any entry matches key.
func (s *Subsection) HasOption(key string) bool { return s.Options.Has(key) }

// GetOption is an alias of Option, used where the calling code reads more
// naturally as a getter.
func (s *Subsection) GetOption(key string) string { return s.Option(key) }

// GetAllOptions is an alias of OptionAll.
func (s *Subsection) GetAllOptions(key string) []string { return s.OptionAll(key) }

// AddOption appends a new key/value pair, without removing any existing
// entries for the same key.
func (s *Subsection) AddOption(key, value string) *Subsection {
	s.Options = append(s.Options, &Option{Key: key, Value: value})
	return s
}

// SetOption assigns values to the existing entries for key, positionally:
// the Nth existing entry for key gets values[N]. Extra values beyond the
// existing entry count are appended; existing entries beyond len(values)
// are dropped.
func (s *Subsection) SetOption(key string, values ...string) *Subsection {
	s.Options = setPositional(s.Options, key, values)
	return s
}

// RemoveOption deletes every entry for key.
func (s *Subsection) RemoveOption(key string) *Subsection {
	s.Options = removeKey(s.Options, key)
	return s
}

func setPositional(opts Options, key string, values []string) Options {
	out := make(Options, 0, len(opts)+len(values))
	vi := 0
	for _, o := range opts {
		if !o.IsKey(key) {
			out = append(out, o)
			continue
		}
		if vi < len(values) {
			out = append(out, &Option{Key: key, Value: values[vi]})
			vi++
		}
	}
	for ; vi < len(values); vi++ {
		out = append(out, &Option{Key: key, Value: values[vi]})
	}
	return out
}

func removeKey(opts Options, key string) Options {
	kept := make(Options, 0, len(opts))
	for _, o := range opts {
		if !o.IsKey(key) {
			kept = append(kept, o)
		}
	}
	return kept
}

// Section is a top-level config block, e.g. `[core]` or `[remote "x"]`
// (whose subsections carry the `"x"` part).
type Section struct {
	Name        string
	Options     Options
	Subsections Subsections
}

// GoString implements fmt.GoStringer.
func (s *Section) GoString() string {
	return fmt.Sprintf("&config.Section{Name:%q, Options:%s, Subsections:%s}", s.Name, s.Options.GoString(), s.Subsections.GoString())
}

// IsName reports whether name matches this section's name,
// case-insensitively (a top-level section name like "core" or "remote"
// is not case-significant).
func (s *Section) IsName(name string) bool { return strings.EqualFold(s.Name, name) }

// Subsection returns the subsection named name, creating it if absent.
func (s *Section) Subsection(name string) *Subsection {
	for _, ss := range s.Subsections {
		if ss.IsName(name) {
			return ss
		}
	}

	ss := &Subsection{Name: name}
	s.Subsections = append(s.Subsections, ss)
	return ss
}

// HasSubsection reports whether a subsection named name already exists,
// without creating one.
func (s *Section) HasSubsection(name string) bool {
	for _, ss := range s.Subsections {
		if ss.IsName(name) {
			return true
		}
	}
	return false
}

// RemoveSubsection deletes the subsection named name, if any.
func (s *Section) RemoveSubsection(name string) *Section {
	kept := make(Subsections, 0, len(s.Subsections))
	for _, ss := range s.Subsections {
		if !ss.IsName(name) {
			kept = append(kept, ss)
		}
	}
	s.Subsections = kept
	return s
}

// Option returns the value of the last entry for key.
func (s *Section) Option(key string) string { return s.Options.Get(key) }

// OptionAll returns every value for key.
func (s *Section) OptionAll(key string) []string { return s.Options.GetAll(key) }

// HasOption reports whether any entry matches key.
func (s *Section) HasOption(key string) bool { return s.Options.Has(key) }

// GetOption is an alias of Option.
func (s *Section) GetOption(key string) string { return s.Option(key) }

// GetAllOptions is an alias of OptionAll.
func (s *Section) GetAllOptions(key string) []string { return s.OptionAll(key) }

// AddOption appends a new key/value pair to s's own options (not a
// subsection's).
func (s *Section) AddOption(key, value string) *Section {
	s.Options = append(s.Options, &Option{Key: key, Value: value})
	return s
}

// SetOption replaces every existing entry for key with the given values,
// moving them to the end of the option list. When key already holds
// exactly values, in that order, s is left unchanged.
func (s *Section) SetOption(key string, values ...string) *Section {
	if slices.Equal(s.OptionAll(key), values) {
		return s
	}
	s.Options = removeKey(s.Options, key)
	for _, v := range values {
		s.AddOption(key, v)
	}
	return s
}

// RemoveOption deletes every entry for key.
func (s *Section) RemoveOption(key string) *Section {
	s.Options = removeKey(s.Options, key)
	return s
}
