package models

import "strings"

// CategoryTree is the three level major > mid > leaf hierarchy served by
// /api/categories/tree, keyed by category code at every level.
type CategoryTree map[string]MajorCategory

type MajorCategory struct {
	Title    string                 `json:"title"`
	Children map[string]MidCategory `json:"children"`
}

type MidCategory struct {
	Title    string            `json:"title"`
	Children map[string]string `json:"children"`
}

type CategoryTreeResponse struct {
	Tree CategoryTree `json:"tree"`
}

// Locate returns the major and mid codes owning leafCode.
func (t CategoryTree) Locate(leafCode string) (major, mid string, ok bool) {
	for majorCode, majorNode := range t {
		for midCode, midNode := range majorNode.Children {
			if _, found := midNode.Children[leafCode]; found {
				return majorCode, midCode, true
			}
		}
	}

	return "", "", false
}

// Path renders "Major > Mid > Leaf" for a leaf code.
func (t CategoryTree) Path(leafCode string) (string, bool) {
	majorCode, midCode, ok := t.Locate(leafCode)
	if !ok {
		return "", false
	}

	major := t[majorCode]
	mid := major.Children[midCode]

	return strings.Join([]string{major.Title, mid.Title, mid.Children[leafCode]}, " > "), true
}
