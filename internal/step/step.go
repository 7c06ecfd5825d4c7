package step

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/planforge/internal/action"
)

var (
	// ErrLeafChildren is returned when adding children to an action step.
	ErrLeafChildren = errors.New("action steps cannot have children")
	// ErrOwnDescendant is returned when a step would become its own
	// ancestor.
	ErrOwnDescendant = errors.New("a step cannot be its own descendant")
)

// Step is one node of the blueprint tree. Group steps organize children;
// action steps carry an action proxy and are always leaves.
type Step struct {
	name     string
	parent   *Step
	children []*Step
	action   *action.Proxy
	disabled bool

	// validation errors recorded by the last plan compile, not serialized
	validateResults []error
}

// New creates a group step.
func New(name string) *Step {
	return &Step{name: name}
}

// NewAction creates an action step for a proxy. When the name is empty
// the proxy's display name is used.
func NewAction(name string, proxy *action.Proxy) *Step {
	if name == "" && proxy != nil {
		name = proxy.DisplayName()
	}
	return &Step{name: name, action: proxy}
}

// Name returns the step name.
func (s *Step) Name() string { return s.name }

// SetName renames the step, adjusting the name as needed to stay unique
// among its siblings. The resulting name is returned.
func (s *Step) SetName(name string) string {
	if name == "" {
		name = s.defaultName()
	}
	if s.parent != nil {
		name = s.parent.uniqueChildName(name, s)
	}
	s.name = name
	return s.name
}

func (s *Step) defaultName() string {
	if s.action != nil {
		return s.action.DisplayName()
	}
	return "New Step"
}

// Action returns the action proxy, nil for group steps.
func (s *Step) Action() *action.Proxy { return s.action }

// IsAction reports whether this step carries an action.
func (s *Step) IsAction() bool { return s.action != nil }

// CanHaveChildren reports whether children may be added.
func (s *Step) CanHaveChildren() bool { return s.action == nil }

// Parent returns the parent step, nil for a root.
func (s *Step) Parent() *Step { return s.parent }

// IsRoot reports whether this step has no parent.
func (s *Step) IsRoot() bool { return s.parent == nil }

// Root returns the topmost ancestor of this step.
func (s *Step) Root() *Step {
	r := s
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// NumChildren returns the number of children.
func (s *Step) NumChildren() int { return len(s.children) }

// Child returns the child at an index.
func (s *Step) Child(index int) (*Step, bool) {
	if index < 0 || index >= len(s.children) {
		return nil, false
	}
	return s.children[index], true
}

// Children returns a copy of the child list.
func (s *Step) Children() []*Step {
	return append([]*Step(nil), s.children...)
}

// IndexInParent returns this step's position among its siblings, -1 for
// a root.
func (s *Step) IndexInParent() int {
	if s.parent == nil {
		return -1
	}
	for i, c := range s.parent.children {
		if c == s {
			return i
		}
	}
	return -1
}

// AddChild appends a child, detaching it from any previous parent. The
// child is renamed if a sibling already uses its name.
func (s *Step) AddChild(child *Step) error {
	return s.InsertChild(len(s.children), child)
}

// AddChildren appends several children, stopping at the first failure.
func (s *Step) AddChildren(children ...*Step) error {
	for _, c := range children {
		if err := s.AddChild(c); err != nil {
			return err
		}
	}
	return nil
}

// InsertChild inserts a child at an index, detaching it from any
// previous parent. The child is renamed if a sibling already uses its
// name.
func (s *Step) InsertChild(index int, child *Step) error {
	if !s.CanHaveChildren() {
		return fmt.Errorf("%w: %s", ErrLeafChildren, s.FullPath())
	}
	if child == s || child.contains(s) {
		return ErrOwnDescendant
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	if index < 0 {
		index = 0
	}
	if index > len(s.children) {
		index = len(s.children)
	}
	child.name = s.uniqueChildName(child.name, nil)
	child.parent = s
	s.children = append(s.children, nil)
	copy(s.children[index+1:], s.children[index:])
	s.children[index] = child
	return nil
}

// contains reports whether other is in the subtree rooted at s.
func (s *Step) contains(other *Step) bool {
	for p := other; p != nil; p = p.parent {
		if p == s {
			return true
		}
	}
	return false
}

// RemoveChild detaches a direct child, reporting whether it was found.
func (s *Step) RemoveChild(child *Step) bool {
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// RemoveChildAt detaches the child at an index; out of range indices are
// ignored.
func (s *Step) RemoveChildAt(index int) {
	if index < 0 || index >= len(s.children) {
		return
	}
	child := s.children[index]
	s.children = append(s.children[:index], s.children[index+1:]...)
	child.parent = nil
}

// SetParent moves this step under a new parent, or detaches it when the
// parent is nil.
func (s *Step) SetParent(parent *Step) error {
	if parent == nil {
		if s.parent != nil {
			s.parent.RemoveChild(s)
		}
		return nil
	}
	return parent.AddChild(s)
}

// ChildByName returns the direct child with a name.
func (s *Step) ChildByName(name string) (*Step, bool) {
	for _, c := range s.children {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// ChildByPath resolves a slash-joined path relative to this step. The
// empty path resolves to the step itself.
func (s *Step) ChildByPath(path string) (*Step, bool) {
	cur := s
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		next, ok := cur.ChildByName(part)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// FullPath returns the slash-joined path from the root to this step. The
// root itself has an empty path.
func (s *Step) FullPath() string {
	if s.parent == nil {
		return ""
	}
	parts := []string{}
	for p := s; p.parent != nil; p = p.parent {
		parts = append(parts, p.name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// IsDisabled reports whether this step itself is disabled.
func (s *Step) IsDisabled() bool { return s.disabled }

// SetDisabled enables or disables this step and, implicitly, its whole
// subtree.
func (s *Step) SetDisabled(disabled bool) { s.disabled = disabled }

// IsDisabledInHierarchy reports whether this step or any of its
// ancestors is disabled.
func (s *Step) IsDisabledInHierarchy() bool {
	for p := s; p != nil; p = p.parent {
		if p.disabled {
			return true
		}
	}
	return false
}

// Walk visits the subtree depth first, parents before children.
func (s *Step) Walk(visit func(*Step)) {
	visit(s)
	for _, c := range s.children {
		c.Walk(visit)
	}
}

// WalkEnabled visits the subtree depth first, skipping disabled steps
// and everything below them.
func (s *Step) WalkEnabled(visit func(*Step)) {
	if s.disabled {
		return
	}
	visit(s)
	for _, c := range s.children {
		c.WalkEnabled(visit)
	}
}

// AddValidateError records a validation error from a plan compile.
func (s *Step) AddValidateError(err error) {
	s.validateResults = append(s.validateResults, err)
}

// ClearValidateResults discards recorded validation errors.
func (s *Step) ClearValidateResults() { s.validateResults = nil }

// ValidateResults returns the validation errors recorded by the last
// plan compile.
func (s *Step) ValidateResults() []error {
	return append([]error(nil), s.validateResults...)
}

// HasValidateErrors reports whether the last plan compile recorded any
// errors on this step.
func (s *Step) HasValidateErrors() bool { return len(s.validateResults) > 0 }

// HasWarnings reports whether this step or any descendant carries an
// action with invalid attribute values.
func (s *Step) HasWarnings() bool {
	warn := false
	s.Walk(func(st *Step) {
		if st.action != nil && st.action.HasWarnings() {
			warn = true
		}
	})
	return warn
}

// TopmostSteps filters a step list down to the steps that have no
// ancestor also in the list. Order is preserved.
func TopmostSteps(steps []*Step) []*Step {
	set := make(map[*Step]bool, len(steps))
	for _, s := range steps {
		set[s] = true
	}
	out := make([]*Step, 0, len(steps))
	for _, s := range steps {
		covered := false
		for p := s.parent; p != nil; p = p.parent {
			if set[p] {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, s)
		}
	}
	return out
}
