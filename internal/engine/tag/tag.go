// Package tag provides opaque identities for markers and observers.
package tag

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind names the type of a marker. Queries filter on it.
type Kind string

// Any matches markers of every kind.
const Any Kind = ""

// Tag identifies a marker or an observer. Two tags are equal only if one was
// copied from the other; the zero Tag identifies nothing.
type Tag struct {
	id   uuid.UUID
	kind Kind
}

// New returns a fresh tag of the given kind.
func New(kind Kind) Tag {
	return Tag{id: uuid.New(), kind: kind}
}

// Kind returns the kind the tag was created with.
func (t Tag) Kind() Kind {
	return t.kind
}

// ID returns the tag's unique identifier.
func (t Tag) ID() uuid.UUID {
	return t.id
}

// IsZero reports whether t is the zero Tag.
func (t Tag) IsZero() bool {
	return t.id == uuid.Nil
}

// Matches reports whether the tag is of kind k. Any matches everything.
func (t Tag) Matches(k Kind) bool {
	return k == Any || t.kind == k
}

// String returns a short human-readable form, e.g. "bold#1b4e28ba".
func (t Tag) String() string {
	if t.IsZero() {
		return "tag(nil)"
	}
	s := t.id.String()
	if t.kind == Any {
		return fmt.Sprintf("#%s", s[:8])
	}
	return fmt.Sprintf("%s#%s", t.kind, s[:8])
}
