// Package typeid provides the 128-bit type identifiers used throughout
// dispatchcore to answer "what interface does this object implement" without
// a language-level vtable. Identifiers follow the four-dword-plus-eight-byte
// layout so they can be embedded as literals, e.g.:
//
//	var SwarmTypeID = typeid.MustParse("A0252DA6-7817-4536-B265-0A0152781652")
package typeid

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ID is a 128-bit type identifier: 4 dwords followed by 8 bytes, matching the
// layout a GUID/UUID literal uses.
type ID [16]byte

// Nil is the zero identifier, never assigned to a real type.
var Nil ID

// Equal reports whether two identifiers are the same.
func (id ID) Equal(other ID) bool {
	return id == other
}

// IsNil reports whether id is the zero identifier.
func (id ID) IsNil() bool {
	return id == Nil
}

// String renders id in dash-grouped hex form, e.g.
// "A0252DA6-7817-4536-B265-0A0152781652".
func (id ID) String() string {
	return fmt.Sprintf("%08X-%04X-%04X-%04X-%012X",
		id[0:4], id[4:6], id[6:8], id[8:10], id[10:16])
}

// Parse parses a dash-grouped hex literal into an ID.
func Parse(s string) (ID, error) {
	groups := strings.Split(s, "-")
	if len(groups) != 5 {
		return Nil, fmt.Errorf("typeid: malformed literal %q: want 5 dash-separated groups", s)
	}
	widths := [5]int{8, 4, 4, 4, 12}
	var buf [16]byte
	offset := 0
	for i, g := range groups {
		if len(g) != widths[i] {
			return Nil, fmt.Errorf("typeid: malformed literal %q: group %d has width %d, want %d", s, i, len(g), widths[i])
		}
		n, err := hex.Decode(buf[offset:offset+widths[i]/2], []byte(g))
		if err != nil {
			return Nil, fmt.Errorf("typeid: malformed literal %q: %w", s, err)
		}
		offset += n
	}
	var id ID
	copy(id[:], buf[:])
	return id, nil
}

// MustParse is like Parse but panics on error. Intended for package-level
// identifier literals.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}
