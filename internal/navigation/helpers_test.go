package navigation

import "navd/internal/model"

func f(v float64) *float64 { return &v }

func s(v string) *string { return &v }

func keys(items []model.NavigationItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Key)
	}
	return out
}

func groupIDs(groups []model.SidebarModuleGroup) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.ID)
	}
	return out
}

func categoryIDs(group model.SidebarModuleGroup) []string {
	out := make([]string, 0, len(group.Categories))
	for _, c := range group.Categories {
		out = append(out, c.Category.ID)
	}
	return out
}
