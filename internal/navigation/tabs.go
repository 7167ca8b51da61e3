package navigation

import (
	"net/url"
	"strings"

	"navd/internal/model"
)

// ResolveModuleTabs builds the tab strip for one module. The requested module
// is used when present in groups, otherwise the first group. Each non-empty
// category section yields at most one tab; tabs sharing an href collapse into
// the first one.
func ResolveModuleTabs(moduleID string, groups []model.SidebarModuleGroup, currentPath string) []model.ModuleTabItem {
	tabs := []model.ModuleTabItem{}
	if len(groups) == 0 {
		return tabs
	}

	group := groups[0]
	for _, g := range groups {
		if g.ID == moduleID {
			group = g
			break
		}
	}

	seen := make(map[string]struct{}, len(group.Categories))
	for _, section := range group.Categories {
		if len(section.Items) == 0 {
			continue
		}
		href := sectionHref(group.ID, section)
		if _, dup := seen[href]; dup {
			continue
		}
		seen[href] = struct{}{}

		tabs = append(tabs, model.ModuleTabItem{
			Key:        group.ID + ":" + section.Category.ID,
			CategoryID: section.Category.ID,
			Label:      section.Category.Label,
			Href:       href,
			Active:     IsActivePath(currentPath, href),
			Hidden:     allHidden(section.Items),
		})
	}
	return tabs
}

// IsActivePath reports whether currentPath is href itself or lies below it.
func IsActivePath(currentPath, href string) bool {
	return currentPath == href || strings.HasPrefix(currentPath, href+"/")
}

// sectionHref prefers a visible enabled item, then any item with an href, then
// a path built from the module and category ids.
func sectionHref(moduleID string, section model.CategorySection) string {
	for _, item := range section.Items {
		if href := strings.TrimSpace(item.HrefValue()); href != "" && !item.Hidden && !item.Disabled {
			return href
		}
	}
	for _, item := range section.Items {
		if href := strings.TrimSpace(item.HrefValue()); href != "" {
			return href
		}
	}
	return FallbackPath(moduleID, section.Category.ID)
}

// FallbackPath joins path segments into a rooted URL path. Leading slashes are
// stripped from every segment, each part is escaped and duplicate slashes
// collapse.
func FallbackPath(segments ...string) string {
	var parts []string
	for _, segment := range segments {
		for _, part := range strings.Split(strings.TrimLeft(segment, "/"), "/") {
			if part == "" {
				continue
			}
			parts = append(parts, url.PathEscape(part))
		}
	}
	return "/" + strings.Join(parts, "/")
}

func allHidden(items []model.NavigationItem) bool {
	for _, item := range items {
		if !item.Hidden {
			return false
		}
	}
	return true
}
