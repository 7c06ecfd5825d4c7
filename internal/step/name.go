package step

import (
	"strconv"
	"strings"
)

// uniqueChildName returns a name that no child other than ignore is
// using, incrementing a trailing number on the candidate until it is
// free.
func (s *Step) uniqueChildName(name string, ignore *Step) string {
	if name == "" {
		name = "New Step"
	}
	for s.childNameTaken(name, ignore) {
		name = incrementName(name)
	}
	return name
}

func (s *Step) childNameTaken(name string, ignore *Step) bool {
	for _, c := range s.children {
		if c != ignore && c.name == name {
			return true
		}
	}
	return false
}

// incrementName bumps the trailing number of a name, appending " 1"
// when there is none.
func incrementName(name string) string {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	digits := name[i:]
	if digits == "" {
		return name + " 1"
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return name + " 1"
	}
	next := strconv.Itoa(n + 1)
	// keep zero padding when the incremented number still fits
	if len(next) < len(digits) && strings.HasPrefix(digits, "0") {
		next = strings.Repeat("0", len(digits)-len(next)) + next
	}
	return name[:i] + next
}
