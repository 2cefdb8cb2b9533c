// Package collision tracks directory member names that are matched
// case-insensitively and detects entries that fold to the same name.
package collision

import (
	"fmt"
	"strings"

	"github.com/arloliu/chromadec/errs"
)

// Tracker maps case-folded names to the actual entry names. A folded name
// seen with two different spellings is ambiguous and never resolves.
type Tracker struct {
	names     map[string]string // folded -> actual
	ambiguous map[string][]string
	order     []string
}

// NewTracker creates an empty tracker sized for n names.
func NewTracker(n int) *Tracker {
	return &Tracker{
		names:     make(map[string]string, n),
		ambiguous: make(map[string][]string),
		order:     make([]string, 0, n),
	}
}

func fold(name string) string {
	return strings.ToUpper(name)
}

// Track records an entry name. Tracking the same spelling twice is a no-op.
func (t *Tracker) Track(name string) {
	key := fold(name)
	existing, ok := t.names[key]
	switch {
	case !ok:
		t.names[key] = name
		t.order = append(t.order, name)
	case existing == name:
		return
	default:
		if _, seen := t.ambiguous[key]; !seen {
			t.ambiguous[key] = []string{existing}
		}
		t.ambiguous[key] = append(t.ambiguous[key], name)
		t.order = append(t.order, name)
	}
}

// Resolve returns the actual spelling of name.
//
// Returns:
//   - string: the tracked entry name
//   - bool: false when no entry matches
//   - error: errs.ErrAmbiguousMember when more than one entry matches
func (t *Tracker) Resolve(name string) (string, bool, error) {
	key := fold(name)
	if spellings, ok := t.ambiguous[key]; ok {
		return "", true, fmt.Errorf("%s matches %s: %w", name, strings.Join(spellings, ", "), errs.ErrAmbiguousMember)
	}
	actual, ok := t.names[key]

	return actual, ok, nil
}

// HasCollision reports whether any two entries fold to the same name.
func (t *Tracker) HasCollision() bool {
	return len(t.ambiguous) > 0
}

// Names returns every tracked spelling in tracking order.
func (t *Tracker) Names() []string {
	return t.order
}

// Count returns the number of distinct spellings tracked.
func (t *Tracker) Count() int {
	return len(t.order)
}
