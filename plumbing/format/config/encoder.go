package config

import (
	"fmt"
	"io"
	"strings"
)

// An Encoder writes config sections to an output stream in git's
// INI-like config-file format.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w}
}

// Encode writes cfg's sections, in order, to the stream.
func (e *Encoder) Encode(cfg *Config) error {
	for _, s := range cfg.Sections {
		if err := e.encodeSection(s); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeSection(s *Section) error {
	if len(s.Options) > 0 {
		if err := e.printf("[%s]\n", s.Name); err != nil {
			return err
		}
		if err := e.encodeOptions(s.Options); err != nil {
			return err
		}
	}

	for _, ss := range s.Subsections {
		if err := e.printf("[%s %q]\n", s.Name, ss.Name); err != nil {
			return err
		}
		if err := e.encodeOptions(ss.Options); err != nil {
			return err
		}
	}

	return nil
}

func (e *Encoder) encodeOptions(opts Options) error {
	for _, o := range opts {
		if err := e.printf("\t%s = %s\n", o.Key, quoteValue(o.Value)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(e.w, format, args...)
	return err
}

func needsQuoting(v string) bool {
	if v == "" {
		return false
	}
	if strings.TrimSpace(v) != v {
		return true
	}
	return strings.ContainsAny(v, "#;\"\\")
}

func quoteValue(v string) string {
	if !needsQuoting(v) {
		return v
	}

	var b strings.Builder
	b.WriteByte('"')
	for _, r := range v {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
