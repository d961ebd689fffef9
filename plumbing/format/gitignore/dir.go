package gitignore

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	format "github.com/wit-vcs/wit/plumbing/format/config"
)

const (
	commentPrefix   = "#"
	gitDir          = ".git"
	gitignoreFile   = ".gitignore"
	excludeFile     = "info/exclude"
	gitconfigFile   = ".gitconfig"
	systemFile      = "/etc/gitconfig"
	coreSection     = "core"
	excludesfileKey = "excludesfile"
)

// ReadPatterns reads gitignore patterns recursively, starting from
// path. path must be the relative path of a directory from the
// repository root (nil for the root itself). It collects the patterns
// of every .gitignore found under path, each scoped to the directory
// it was read from, and, at the root, $GIT_DIR/info/exclude as well.
// A directory already excluded by a pattern read higher up the tree is
// never descended into, matching git's own traversal: an ignored
// directory's contents, including any .gitignore it holds, are never
// inspected.
func ReadPatterns(fs billy.Filesystem, path []string) ([]Pattern, error) {
	return readPatterns(fs, path, nil)
}

func readPatterns(fs billy.Filesystem, path []string, inherited []Pattern) ([]Pattern, error) {
	var ps []Pattern

	if len(path) == 0 {
		if patterns, err := readIgnoreFile(fs, nil, fs.Join(gitDir, excludeFile)); err == nil {
			ps = append(ps, patterns...)
		}
	}

	ignoreFile := gitignoreFile
	if len(path) > 0 {
		ignoreFile = fs.Join(fs.Join(path...), gitignoreFile)
	}

	if patterns, err := readIgnoreFile(fs, path, ignoreFile); err == nil {
		ps = append(ps, patterns...)
	}

	var base string
	if len(path) > 0 {
		base = fs.Join(path...)
	}

	infos, err := fs.ReadDir(base)
	if err != nil {
		return ps, nil
	}

	combined := make([]Pattern, 0, len(inherited)+len(ps))
	combined = append(combined, inherited...)
	combined = append(combined, ps...)
	m := NewMatcher(combined)

	for _, fi := range infos {
		if !fi.IsDir() || fi.Name() == gitDir {
			continue
		}

		child := make([]string, len(path)+1)
		copy(child, path)
		child[len(path)] = fi.Name()

		if m.Match(child, true) {
			continue
		}

		subps, err := readPatterns(fs, child, combined)
		if err != nil {
			return nil, err
		}

		ps = append(ps, subps...)
	}

	return ps, nil
}

func readIgnoreFile(fs billy.Filesystem, domain []string, name string) ([]Pattern, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parsePatternLines(f, domain), nil
}

func parsePatternLines(r io.Reader, domain []string) []Pattern {
	var ps []Pattern

	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimRight(s.Text(), " \r\n")
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}

		ps = append(ps, ParsePattern(line, domain))
	}

	return ps
}

// LoadGlobalPatterns loads the patterns referenced by
// core.excludesfile in the current user's ~/.gitconfig, returning no
// patterns (and no error) when either the config or the excludesfile
// entry is absent.
func LoadGlobalPatterns(fs billy.Filesystem) ([]Pattern, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil
	}

	return loadExcludesFile(fs, fs.Join(home, gitconfigFile), home)
}

// LoadSystemPatterns loads the patterns referenced by
// core.excludesfile in /etc/gitconfig.
func LoadSystemPatterns(fs billy.Filesystem) ([]Pattern, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	return loadExcludesFile(fs, systemFile, home)
}

func loadExcludesFile(fs billy.Filesystem, configPath, home string) ([]Pattern, error) {
	f, err := fs.Open(configPath)
	if err != nil {
		return nil, nil
	}
	defer f.Close()

	cfg := format.New()
	if err := format.NewDecoder(f).Decode(cfg); err != nil {
		return nil, nil
	}

	value := cfg.Section(coreSection).GetOption(excludesfileKey)
	if value == "" {
		return nil, nil
	}

	if unquoted, err := strconv.Unquote(value); err == nil {
		value = unquoted
	}

	value = expandHome(value, home)

	ef, err := fs.Open(value)
	if err != nil {
		return nil, nil
	}
	defer ef.Close()

	return parsePatternLines(ef, nil), nil
}

// expandHome resolves a leading "~/" or "~user/" prefix to home. It
// cannot resolve a different user's home directory, so it falls back
// to the current one, matching the only case this module can actually
// run as.
func expandHome(p, home string) string {
	if p == "~" {
		return home
	}

	if !strings.HasPrefix(p, "~") {
		return p
	}

	rest := p[1:]
	idx := strings.IndexByte(rest, '/')
	if idx == -1 {
		return home
	}

	return home + rest[idx:]
}
