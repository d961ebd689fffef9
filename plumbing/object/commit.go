package object

import (
	"bufio"
	"bytes"
	"crypto"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/wit-vcs/wit/plumbing"
)

// Signature is an identity line: "Name <email> unix_ts tz" (§3 "Commit").
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Decode parses "Name <email> unix_ts tz" into s.
func (s *Signature) Decode(line []byte) {
	open := bytes.LastIndexByte(line, '<')
	close := bytes.LastIndexByte(line, '>')
	if open < 0 || close < 0 || close < open {
		s.Name = string(bytes.TrimSpace(line))
		return
	}

	s.Name = strings.TrimSpace(string(line[:open]))
	s.Email = string(line[open+1 : close])

	rest := strings.TrimSpace(string(line[close+1:]))
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return
	}
	sec, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return
	}
	loc := parseTimezone(fields[1])
	s.When = time.Unix(sec, 0).In(loc)
}

func parseTimezone(tz string) *time.FixedZone {
	if len(tz) != 5 || (tz[0] != '+' && tz[0] != '-') {
		return time.FixedZone("", 0)
	}
	h, errH := strconv.Atoi(tz[1:3])
	m, errM := strconv.Atoi(tz[3:5])
	if errH != nil || errM != nil {
		return time.FixedZone("", 0)
	}
	offset := (h*3600 + m*60)
	if tz[0] == '-' {
		offset = -offset
	}
	return time.FixedZone(tz, offset)
}

// String renders the signature the way it is written into a commit body.
func (s Signature) String() string {
	_, offset := s.When.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	tz := fmt.Sprintf("%s%02d%02d", sign, offset/3600, (offset/60)%60)
	return fmt.Sprintf("%s <%s> %d %s", s.Name, s.Email, s.When.Unix(), tz)
}

// Commit is a point in history: a tree snapshot, zero or more parents, and
// authorship (§3 "Object — Commit").
type Commit struct {
	hash      plumbing.Hash
	TreeHash  plumbing.Hash
	ParentHashes []plumbing.Hash
	Author    Signature
	Committer Signature
	Message   string
}

func (c *Commit) ID() plumbing.Hash         { return c.hash }
func (c *Commit) Type() plumbing.ObjectType { return plumbing.CommitObject }

// NumParents returns the number of parent commits (0 for the initial commit).
func (c *Commit) NumParents() int { return len(c.ParentHashes) }

// body serializes the commit in canonical header+message form.
func (c *Commit) body() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash.String())
	for _, p := range c.ParentHashes {
		fmt.Fprintf(&buf, "parent %s\n", p.String())
	}
	fmt.Fprintf(&buf, "author %s\n", c.Author.String())
	fmt.Fprintf(&buf, "committer %s\n", c.Committer.String())
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// Encode hashes and wraps the commit as a plumbing.EncodedObject.
func (c *Commit) Encode(algo crypto.Hash) (plumbing.EncodedObject, error) {
	o := NewMemoryObject(algo, plumbing.CommitObject, c.body())
	c.hash = o.Hash()
	return o, nil
}

func decodeCommit(id plumbing.Hash, body []byte) (*Commit, error) {
	c := &Commit{hash: id}
	sc := bufio.NewScanner(bytes.NewReader(body))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			break
		}
		key, rest, ok := cutSpace(line)
		if !ok {
			return nil, fmt.Errorf("object/commit: malformed header: %q", line)
		}
		switch key {
		case "tree":
			h, ok := plumbing.FromHex(string(rest))
			if !ok {
				return nil, fmt.Errorf("object/commit: invalid tree hash")
			}
			c.TreeHash = h
		case "parent":
			h, ok := plumbing.FromHex(string(rest))
			if !ok {
				return nil, fmt.Errorf("object/commit: invalid parent hash")
			}
			c.ParentHashes = append(c.ParentHashes, h)
		case "author":
			c.Author.Decode(rest)
		case "committer":
			c.Committer.Decode(rest)
		default:
			// Unknown header (e.g. gpgsig): ignored, per §3 the core does
			// not require understanding extension headers to traverse
			// history.
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	var message []byte
	if headerEnd := bytes.Index(body, []byte("\n\n")); headerEnd >= 0 {
		message = body[headerEnd+2:]
	}
	c.Message = string(message)

	return c, nil
}

func cutSpace(line []byte) (key string, rest []byte, ok bool) {
	i := bytes.IndexByte(line, ' ')
	if i < 0 {
		return "", nil, false
	}
	return string(line[:i]), line[i+1:], true
}
