package step

import (
	"fmt"

	"github.com/vk/planforge/internal/action"
)

// Serialize returns the document form of this step and its subtree.
func (s *Step) Serialize() map[string]any {
	doc := map[string]any{"name": s.name}
	if s.disabled {
		doc["isDisabled"] = true
	}
	if s.action != nil {
		doc["action"] = s.action.Serialize()
	}
	if len(s.children) > 0 {
		children := make([]map[string]any, 0, len(s.children))
		for _, c := range s.children {
			children = append(children, c.Serialize())
		}
		doc["children"] = children
	}
	return doc
}

// Deserialize rebuilds a step tree from its document form, resolving
// action ids against a registry.
func Deserialize(reg *action.Registry, doc map[string]any) (*Step, error) {
	name, _ := doc["name"].(string)
	s := New(name)
	s.disabled, _ = doc["isDisabled"].(bool)

	if rawAction, ok := doc["action"].(map[string]any); ok {
		proxy := action.NewProxy(reg, "")
		if err := proxy.Deserialize(rawAction); err != nil {
			return nil, fmt.Errorf("step %q: %w", name, err)
		}
		s.action = proxy
	}

	for _, raw := range childDocs(doc["children"]) {
		child, err := Deserialize(reg, raw)
		if err != nil {
			return nil, err
		}
		if err := s.AddChild(child); err != nil {
			return nil, fmt.Errorf("step %q: %w", name, err)
		}
	}
	return s, nil
}

func childDocs(raw any) []map[string]any {
	switch t := raw.(type) {
	case []map[string]any:
		return t
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, e := range t {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}
