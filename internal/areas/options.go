// Package areas turns the flat PARA area list into hierarchical select options.
package areas

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"navd/internal/model"
	"navd/internal/navigation"
)

// PathSeparator joins ancestor names in an option label.
const PathSeparator = " / "

type node struct {
	area     model.Area
	seq      int
	children []*node
}

// BuildAreaOptions orders areas depth-first, parents before children, and
// labels each with its ancestor path. Siblings are ordered by explicit order,
// then by name. Areas with a missing or unknown parent are roots. Every area is
// emitted exactly once; areas trapped in a parent cycle are promoted to roots.
func BuildAreaOptions(raw []*model.Area) []model.AreaOption {
	nodes := make(map[string]*node, len(raw))
	var all []*node
	for _, a := range raw {
		if a == nil {
			continue
		}
		id := strings.TrimSpace(a.ID)
		if id == "" {
			continue
		}
		if _, dup := nodes[id]; dup {
			continue
		}
		n := &node{area: *a, seq: len(all)}
		n.area.ID = id
		nodes[id] = n
		all = append(all, n)
	}

	var roots []*node
	for _, n := range all {
		parent, ok := nodes[parentID(n.area)]
		if !ok || parent == n {
			roots = append(roots, n)
			continue
		}
		parent.children = append(parent.children, n)
	}

	options := make([]model.AreaOption, 0, len(all))
	visited := make(map[string]bool, len(all))

	var walk func(n *node, prefix string, depth int)
	walk = func(n *node, prefix string, depth int) {
		if visited[n.area.ID] {
			return
		}
		visited[n.area.ID] = true

		label := displayName(n.area)
		if prefix != "" {
			label = prefix + PathSeparator + label
		}
		options = append(options, model.AreaOption{Value: n.area.ID, Label: label, Depth: depth})

		sortNodes(n.children)
		for _, child := range n.children {
			walk(child, label, depth+1)
		}
	}

	sortNodes(roots)
	for _, root := range roots {
		walk(root, "", 0)
	}

	// Whatever is left only hangs off a cycle.
	var stranded []*node
	for _, n := range all {
		if !visited[n.area.ID] {
			stranded = append(stranded, n)
		}
	}
	sortNodes(stranded)
	for _, n := range stranded {
		walk(n, "", 0)
	}
	return options
}

func parentID(a model.Area) string {
	if a.ParentID == nil {
		return ""
	}
	return strings.TrimSpace(*a.ParentID)
}

func displayName(a model.Area) string {
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	return a.ID
}

func sortNodes(nodes []*node) {
	slices.SortStableFunc(nodes, func(a, b *node) int {
		ao, aok := areaOrder(a.area)
		bo, bok := areaOrder(b.area)
		switch {
		case aok && !bok:
			return -1
		case !aok && bok:
			return 1
		case aok && bok:
			if c := cmp.Compare(ao, bo); c != 0 {
				return c
			}
		}
		if c := navigation.CompareLabels(displayName(a.area), displayName(b.area)); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
}

func areaOrder(a model.Area) (float64, bool) {
	if a.Order == nil || math.IsNaN(*a.Order) || math.IsInf(*a.Order, 0) {
		return 0, false
	}
	return *a.Order, true
}
