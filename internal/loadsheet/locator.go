package loadsheet

import (
	"fmt"
	"strings"
)

// LocatorKind selects how a Locator finds its line
type LocatorKind string

const (
	// Positional picks the line at a fixed zero-based offset
	Positional LocatorKind = "positional"
	// Keyword picks the first line whose leading tokens match a phrase
	Keyword LocatorKind = "keyword"
)

// Locator is a named rule yielding at most one line of a LineSequence
type Locator struct {
	Name   string      `yaml:"name"`
	Kind   LocatorKind `yaml:"kind"`
	Offset int         `yaml:"offset,omitempty"`
	Phrase string      `yaml:"phrase,omitempty"`
}

// AtLine returns a positional locator
func AtLine(name string, offset int) Locator {
	return Locator{Name: name, Kind: Positional, Offset: offset}
}

// StartingWith returns a keyword locator for a one or two token phrase
func StartingWith(name, phrase string) Locator {
	return Locator{Name: name, Kind: Keyword, Phrase: phrase}
}

// Validate checks the locator definition
func (l Locator) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("locator name cannot be empty")
	}

	switch l.Kind {
	case Positional:
		if l.Offset < 0 {
			return fmt.Errorf("locator %q: offset must not be negative", l.Name)
		}
	case Keyword:
		n := len(Tokens(l.Phrase))
		if n < 1 || n > 2 {
			return fmt.Errorf("locator %q: keyword phrase must have one or two tokens, got %d", l.Name, n)
		}
	default:
		return fmt.Errorf("locator %q: unknown kind %q", l.Name, l.Kind)
	}

	return nil
}

// matches reports whether the leading tokens of line equal the keyword phrase
func (l Locator) matches(line string) bool {
	want := Tokens(l.Phrase)
	got := Tokens(line)
	if len(got) < len(want) {
		return false
	}
	for i, w := range want {
		if !strings.EqualFold(got[i], w) {
			return false
		}
	}
	return true
}
