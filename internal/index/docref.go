// Package index holds the uncompressed, in-memory form of the inverted
// index: terms mapped to references of the documents that contain them.
package index

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// DocRef identifies a document in a raw index. A reference is either
// numeric (an external integer ID) or a label (a file name or any other
// string key). The two kinds never compare equal.
type DocRef struct {
	num     int
	label   string
	isLabel bool
}

// NumRef returns a numeric document reference.
func NumRef(n int) DocRef { return DocRef{num: n} }

// LabelRef returns a string document reference.
func LabelRef(s string) DocRef { return DocRef{label: s, isLabel: true} }

// IsLabel reports whether the reference is a string label.
func (r DocRef) IsLabel() bool { return r.isLabel }

// Num returns the numeric value of the reference. Only meaningful when
// IsLabel is false.
func (r DocRef) Num() int { return r.num }

// Label returns the string value of the reference. Only meaningful when
// IsLabel is true.
func (r DocRef) Label() string { return r.label }

func (r DocRef) String() string {
	if r.isLabel {
		return r.label
	}
	return strconv.Itoa(r.num)
}

// Less orders numeric references before labels, numerics by value and
// labels lexicographically. It gives snapshots a stable posting order.
func (r DocRef) Less(other DocRef) bool {
	if r.isLabel != other.isLabel {
		return !r.isLabel
	}
	if r.isLabel {
		return r.label < other.label
	}
	return r.num < other.num
}

// MarshalJSON writes numeric references as JSON numbers and labels as JSON
// strings, so a serialized raw index keeps the shape it was built from.
func (r DocRef) MarshalJSON() ([]byte, error) {
	if r.isLabel {
		return json.Marshal(r.label)
	}
	return []byte(strconv.Itoa(r.num)), nil
}

// UnmarshalJSON accepts a JSON number or string and produces the matching
// reference kind. Anything else is rejected.
func (r *DocRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty document reference")
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("parsing document reference: %w", err)
		}
		*r = LabelRef(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("document reference must be an integer or a string: %w", err)
	}
	*r = NumRef(n)
	return nil
}
