package navigation

import (
	"cmp"
	"slices"

	"navd/internal/model"
)

// rank is the resolved display order of a module or category. Entries with an
// explicit order come first, ascending; the rest follow in first-seen order.
type rank struct {
	explicit bool
	order    float64
	seq      int
}

func compareRank(a, b rank) int {
	if a.explicit != b.explicit {
		if a.explicit {
			return -1
		}
		return 1
	}
	if a.explicit {
		if c := cmp.Compare(a.order, b.order); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.seq, b.seq)
}

type categoryBucket struct {
	def   model.CategoryDefinition
	rank  rank
	items []model.NavigationItem
}

type moduleBucket struct {
	id         string
	label      string
	rank       rank
	categories map[string]*categoryBucket
	order      []*categoryBucket
}

func (m *moduleBucket) category(id string) *categoryBucket {
	if b, ok := m.categories[id]; ok {
		return b
	}
	b := &categoryBucket{
		def: model.CategoryDefinition{
			ID:       id,
			ModuleID: m.id,
			Label:    labelFor(id, ""),
		},
		rank: rank{seq: len(m.order)},
	}
	m.categories[id] = b
	m.order = append(m.order, b)
	return b
}

type grouper struct {
	modules map[string]*moduleBucket
	order   []*moduleBucket
}

func (g *grouper) module(id string) *moduleBucket {
	if m, ok := g.modules[id]; ok {
		return m
	}
	m := &moduleBucket{
		id:         id,
		label:      labelFor(id, ""),
		rank:       rank{seq: len(g.order)},
		categories: make(map[string]*categoryBucket),
	}
	g.modules[id] = m
	g.order = append(g.order, m)
	return m
}

// GroupByModule partitions items by module, then by category, and orders
// every level: modules and categories by explicit order with undeclared ones
// last in first-seen order, items by Compare.
//
// Every non-nil item lands in exactly one category section. Declared
// categories without items are omitted, and so are modules left without any
// category section. Modules referenced by items or categories but never
// declared get a fallback group labelled with their id.
func GroupByModule(items []*model.NavigationItem, modules []*model.ModuleDefinition, categories []*model.CategoryDefinition) []model.SidebarModuleGroup {
	g := &grouper{modules: make(map[string]*moduleBucket)}

	for _, def := range NormalizeModules(modules) {
		m := g.module(def.ID)
		m.label = def.Label
		m.rank.explicit = true
		m.rank.order = *def.Order
	}

	for _, def := range NormalizeCategories(categories) {
		b := g.module(def.ModuleID).category(def.ID)
		b.def = def
		if def.Order != nil {
			b.rank.explicit = true
			b.rank.order = *def.Order
		}
	}

	for _, item := range NormalizeItems(items) {
		b := g.module(item.ModuleID()).category(item.CategoryID())
		b.items = append(b.items, item)
	}

	slices.SortStableFunc(g.order, func(a, b *moduleBucket) int {
		return compareRank(a.rank, b.rank)
	})

	c := acquireCollator()
	defer releaseCollator(c)

	groups := make([]model.SidebarModuleGroup, 0, len(g.order))
	for _, m := range g.order {
		slices.SortStableFunc(m.order, func(a, b *categoryBucket) int {
			return compareRank(a.rank, b.rank)
		})

		sections := make([]model.CategorySection, 0, len(m.order))
		for _, b := range m.order {
			if len(b.items) == 0 {
				continue
			}
			slices.SortStableFunc(b.items, func(x, y model.NavigationItem) int {
				return compareWith(c, x, y)
			})
			sections = append(sections, model.CategorySection{
				Category: b.def,
				Items:    b.items,
			})
		}
		if len(sections) == 0 {
			continue
		}
		groups = append(groups, model.SidebarModuleGroup{
			ID:         m.id,
			Label:      m.label,
			Categories: sections,
		})
	}
	return groups
}
