package navigation

import (
	"math"
	"strings"

	"navd/internal/model"
)

// NormalizeItems drops nil entries and assigns the general sentinel to items
// whose module or category is missing or blank. The result shares no pointers
// with the input.
func NormalizeItems(raw []*model.NavigationItem) []model.NavigationItem {
	items := make([]model.NavigationItem, 0, len(raw))
	for _, item := range raw {
		if item == nil {
			continue
		}
		n := *item
		n.Module = ptr(normalizeID(item.Module))
		n.Category = ptr(normalizeID(item.Category))
		n.Href = clonePtr(item.Href)
		n.SectionOrder = clonePtr(item.SectionOrder)
		n.Icon = clonePtr(item.Icon)
		items = append(items, n)
	}
	return items
}

// NormalizeModules keeps modules with a non-blank id and a finite order. The
// first definition of an id wins. When no "general" module is declared one is
// synthesized with an order after every declared module.
func NormalizeModules(raw []*model.ModuleDefinition) []model.ModuleDefinition {
	modules := make([]model.ModuleDefinition, 0, len(raw)+1)
	seen := make(map[string]struct{}, len(raw))
	maxOrder, ordered := 0.0, false

	for _, m := range raw {
		if m == nil || !isFinite(m.Order) {
			continue
		}
		id := strings.TrimSpace(m.ID)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		order := *m.Order
		if !ordered || order > maxOrder {
			maxOrder, ordered = order, true
		}
		modules = append(modules, model.ModuleDefinition{
			ID:    id,
			Label: labelFor(id, m.Label),
			Order: &order,
		})
	}

	if _, ok := seen[model.DefaultID]; !ok {
		order := 0.0
		if ordered {
			order = maxOrder + 1
		}
		modules = append(modules, model.ModuleDefinition{
			ID:    model.DefaultID,
			Label: model.DefaultLabel,
			Order: &order,
		})
	}
	return modules
}

// NormalizeCategories keeps categories with a non-blank id. A blank module id
// becomes the general sentinel and a non-finite order is dropped, which sorts
// the category after explicitly ordered ones. Duplicate (module, id) pairs keep
// the first definition.
func NormalizeCategories(raw []*model.CategoryDefinition) []model.CategoryDefinition {
	categories := make([]model.CategoryDefinition, 0, len(raw))
	seen := make(map[categoryKey]struct{}, len(raw))

	for _, c := range raw {
		if c == nil {
			continue
		}
		id := strings.TrimSpace(c.ID)
		if id == "" {
			continue
		}
		moduleID := normalizeID(&c.ModuleID)
		key := categoryKey{module: moduleID, category: id}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		var order *float64
		if isFinite(c.Order) {
			order = ptr(*c.Order)
		}
		categories = append(categories, model.CategoryDefinition{
			ID:       id,
			ModuleID: moduleID,
			Label:    labelFor(id, c.Label),
			Order:    order,
		})
	}
	return categories
}

type categoryKey struct {
	module   string
	category string
}

func normalizeID(id *string) string {
	if id == nil {
		return model.DefaultID
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return model.DefaultID
	}
	return trimmed
}

// labelFor falls back to the id itself, or the neutral default for "general".
func labelFor(id, label string) string {
	if strings.TrimSpace(label) != "" {
		return label
	}
	if id == model.DefaultID {
		return model.DefaultLabel
	}
	return id
}

func isFinite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

func ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	return ptr(*v)
}
