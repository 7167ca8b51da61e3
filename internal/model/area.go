package model

// Area represents a PARA area of responsibility. Areas nest through ParentID.
type Area struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	ParentID *string  `json:"parent_id"`
	Order    *float64 `json:"order,omitempty"`
}

// AreaOption is a select-box entry built from the area hierarchy.
type AreaOption struct {
	Value string `json:"value"` // Area id
	Label string `json:"label"` // Ancestor path joined with " / "
	Depth int    `json:"depth"` // 0 for roots
}
