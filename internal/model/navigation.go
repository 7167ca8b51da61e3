package model

// DefaultID is the sentinel module and category id assigned to entries with
// missing or blank classification.
const DefaultID = "general"

// DefaultLabel is the display label of the synthesized "general" module and category.
const DefaultLabel = "Общие"

// NavigationItem represents a single navigable destination in the sidebar.
// Nullable fields mirror the backend payload, where any of them may be absent.
type NavigationItem struct {
	Key          string   `json:"key"`                // Unique identifier, stable across renders
	Label        string   `json:"label"`              // Display text (Russian locale)
	Href         *string  `json:"href"`               // Target URL, nil for label-only entries
	Module       *string  `json:"module"`             // Owning module id
	Category     *string  `json:"category"`           // Owning category id within the module
	SectionOrder *float64 `json:"section_order"`      // Coarse ordering key, nil means no preference
	Position     float64  `json:"position"`           // Fine ordering key under SectionOrder
	Hidden       bool     `json:"hidden"`             // Hidden by the user, still kept in the tree
	Disabled     bool     `json:"disabled,omitempty"` // Never picked as a tab href candidate
	Icon         *string  `json:"icon,omitempty"`     // Cosmetic icon identifier
}

// ModuleID returns the module id, or "" when unset.
func (i NavigationItem) ModuleID() string {
	if i.Module == nil {
		return ""
	}
	return *i.Module
}

// CategoryID returns the category id, or "" when unset.
func (i NavigationItem) CategoryID() string {
	if i.Category == nil {
		return ""
	}
	return *i.Category
}

// HrefValue returns the target URL, or "" for label-only entries.
func (i NavigationItem) HrefValue() string {
	if i.Href == nil {
		return ""
	}
	return *i.Href
}

// ModuleDefinition describes a top-level navigation module.
type ModuleDefinition struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Order *float64 `json:"order"` // Must be finite for the module to be a valid grouping target
}

// CategoryDefinition describes a second-level grouping owned by one module.
type CategoryDefinition struct {
	ID       string   `json:"id"`
	ModuleID string   `json:"module_id"`
	Label    string   `json:"label"`
	Order    *float64 `json:"order"` // nil or non-finite sorts after explicitly ordered categories
}

// CategorySection is one ordered category bucket inside a module group.
type CategorySection struct {
	Category CategoryDefinition `json:"category"`
	Items    []NavigationItem   `json:"items"`
}

// SidebarModuleGroup is a derived view: one module with its ordered category sections.
// It is rebuilt on every grouping call.
type SidebarModuleGroup struct {
	ID         string            `json:"id"`
	Label      string            `json:"label"`
	Categories []CategorySection `json:"categories"`
}

// ModuleTabItem is the descriptor of one tab in a module's top bar.
type ModuleTabItem struct {
	Key        string `json:"key"`
	CategoryID string `json:"category_id"`
	Label      string `json:"label"`
	Href       string `json:"href"`
	Active     bool   `json:"active"`
	Hidden     bool   `json:"hidden"`
}

// SidebarPayload is the raw response of the backend sidebar endpoint.
// Nil elements are allowed and are skipped during normalization.
type SidebarPayload struct {
	Items      []*NavigationItem     `json:"items"`
	Modules    []*ModuleDefinition   `json:"modules"`
	Categories []*CategoryDefinition `json:"categories"`
	Areas      []*Area               `json:"areas,omitempty"`
}
