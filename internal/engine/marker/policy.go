package marker

import "strings"

// Role decides where a marker boundary lands when an edit covers it.
type Role uint8

const (
	// Mark boundaries fall back to the leading edge of the replacement.
	Mark Role = 1
	// Point boundaries are pushed to the trailing edge of the replacement.
	Point Role = 2
)

// String returns "MARK" or "POINT".
func (r Role) String() string {
	switch r {
	case Mark:
		return "MARK"
	case Point:
		return "POINT"
	default:
		return "INVALID"
	}
}

// Policy packs the start role (bits 4-7), the end role (bits 0-3) and the
// Priority and Paragraph modifiers.
type Policy uint16

const (
	// ExclusiveExclusive does not grow on either side: (POINT, MARK).
	// A marker with this policy is removed when an edit collapses it.
	ExclusiveExclusive Policy = Policy(Point)<<4 | Policy(Mark)
	// ExclusiveInclusive grows at its end only: (POINT, POINT).
	ExclusiveInclusive Policy = Policy(Point)<<4 | Policy(Point)
	// InclusiveExclusive grows at its start only: (MARK, MARK).
	InclusiveExclusive Policy = Policy(Mark)<<4 | Policy(Mark)
	// InclusiveInclusive grows on both sides: (MARK, POINT).
	InclusiveInclusive Policy = Policy(Mark)<<4 | Policy(Point)

	// Priority markers are returned ahead of all others by Query.
	Priority Policy = 1 << 8
	// Paragraph markers must start and end on paragraph boundaries.
	Paragraph Policy = 1 << 9

	roleMask = 0xFF
)

// StartRole returns the role of the start boundary.
func (p Policy) StartRole() Role {
	return Role(p>>4) & 0x0F
}

// EndRole returns the role of the end boundary.
func (p Policy) EndRole() Role {
	return Role(p) & 0x0F
}

// Roles returns the policy without its modifier bits.
func (p Policy) Roles() Policy {
	return p & roleMask
}

// IsPriority reports whether the Priority bit is set.
func (p Policy) IsPriority() bool {
	return p&Priority != 0
}

// IsParagraph reports whether the Paragraph bit is set.
func (p Policy) IsParagraph() bool {
	return p&Paragraph != 0
}

// Valid reports whether both roles are set and no unknown bits are present.
func (p Policy) Valid() bool {
	if p&^(roleMask|Priority|Paragraph) != 0 {
		return false
	}
	return validRole(p.StartRole()) && validRole(p.EndRole())
}

func validRole(r Role) bool {
	return r == Mark || r == Point
}

// String returns the policy word plus modifiers, e.g. "EXCLUSIVE_INCLUSIVE|PRIORITY".
func (p Policy) String() string {
	var name string
	switch p.Roles() {
	case ExclusiveExclusive:
		name = "EXCLUSIVE_EXCLUSIVE"
	case ExclusiveInclusive:
		name = "EXCLUSIVE_INCLUSIVE"
	case InclusiveExclusive:
		name = "INCLUSIVE_EXCLUSIVE"
	case InclusiveInclusive:
		name = "INCLUSIVE_INCLUSIVE"
	default:
		return "INVALID"
	}
	parts := []string{name}
	if p.IsPriority() {
		parts = append(parts, "PRIORITY")
	}
	if p.IsParagraph() {
		parts = append(parts, "PARAGRAPH")
	}
	return strings.Join(parts, "|")
}

// ParsePolicy parses the form produced by String. Separators may be "|" or ",".
func ParsePolicy(s string) (Policy, bool) {
	var p Policy
	for _, part := range strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool { return r == '|' || r == ',' }) {
		switch strings.TrimSpace(part) {
		case "EXCLUSIVE_EXCLUSIVE":
			p |= ExclusiveExclusive
		case "EXCLUSIVE_INCLUSIVE":
			p |= ExclusiveInclusive
		case "INCLUSIVE_EXCLUSIVE":
			p |= InclusiveExclusive
		case "INCLUSIVE_INCLUSIVE":
			p |= InclusiveInclusive
		case "PRIORITY":
			p |= Priority
		case "PARAGRAPH":
			p |= Paragraph
		default:
			return 0, false
		}
	}
	return p, p.Valid()
}
