package object

import (
	"bytes"
	"crypto"
	"fmt"

	"github.com/wit-vcs/wit/plumbing"
)

// Tag is an annotated tag: a named, signed-or-unsigned pointer at another
// object, carrying its own message and tagger identity (§3 "Object — Tag").
type Tag struct {
	hash       plumbing.Hash
	TargetHash plumbing.Hash
	TargetType plumbing.ObjectType
	Name       string
	Tagger     Signature
	Message    string
}

func (t *Tag) ID() plumbing.Hash         { return t.hash }
func (t *Tag) Type() plumbing.ObjectType { return plumbing.TagObject }

func (t *Tag) body() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "object %s\n", t.TargetHash.String())
	fmt.Fprintf(&buf, "type %s\n", t.TargetType.String())
	fmt.Fprintf(&buf, "tag %s\n", t.Name)
	fmt.Fprintf(&buf, "tagger %s\n", t.Tagger.String())
	buf.WriteByte('\n')
	buf.WriteString(t.Message)
	return buf.Bytes()
}

// Encode hashes and wraps the tag as a plumbing.EncodedObject.
func (t *Tag) Encode(algo crypto.Hash) (plumbing.EncodedObject, error) {
	o := NewMemoryObject(algo, plumbing.TagObject, t.body())
	t.hash = o.Hash()
	return o, nil
}

func decodeTag(id plumbing.Hash, body []byte) (*Tag, error) {
	t := &Tag{hash: id}

	headerEnd := bytes.Index(body, []byte("\n\n"))
	headers := body
	var message []byte
	if headerEnd >= 0 {
		headers = body[:headerEnd]
		message = body[headerEnd+2:]
	}
	t.Message = string(message)

	for _, line := range bytes.Split(headers, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		key, rest, ok := cutSpace(line)
		if !ok {
			return nil, fmt.Errorf("object/tag: malformed header: %q", line)
		}
		switch key {
		case "object":
			h, ok := plumbing.FromHex(string(rest))
			if !ok {
				return nil, fmt.Errorf("object/tag: invalid object hash")
			}
			t.TargetHash = h
		case "type":
			typ, err := plumbing.ParseObjectType(string(rest))
			if err != nil {
				return nil, fmt.Errorf("object/tag: %w", err)
			}
			t.TargetType = typ
		case "tag":
			t.Name = string(rest)
		case "tagger":
			t.Tagger.Decode(rest)
		}
	}

	return t, nil
}
