package transcode

import (
	"fmt"
	"strings"
)

// Policy selects what happens to each malformed byte group.
type Policy int

const (
	// Replace substitutes every error group with a single U+FFFD.
	Replace Policy = iota
	// Drop removes error groups from the output.
	Drop
)

func (p Policy) String() string {
	switch p {
	case Replace:
		return "replace"
	case Drop:
		return "drop"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy accepts "replace", "skip" or "drop" (any case).
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "replace":
		return Replace, nil
	case "skip", "drop":
		return Drop, nil
	}
	return Replace, fmt.Errorf("transcode: unknown policy %q (want replace, skip or drop)", s)
}

// mustValid panics on a Policy outside the declared constants.
func (p Policy) mustValid() {
	if p != Replace && p != Drop {
		panic("transcode: invalid " + p.String())
	}
}
