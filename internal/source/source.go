// Package source obtains the raw sidebar payload from the backend REST API or
// from a local file.
package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"navd/internal/model"
)

var (
	// ErrUpstream wraps every failure to obtain a payload from the backend.
	ErrUpstream = errors.New("upstream unavailable")

	// ErrNoSource is returned when neither a URL nor a file is configured.
	ErrNoSource = errors.New("no navigation source configured")
)

// Source provides the current sidebar payload. Returned payloads must be
// treated as read-only: cached sources hand the same value to every caller.
type Source interface {
	Fetch(ctx context.Context) (*model.SidebarPayload, error)
}

// DecodePayload parses a sidebar payload without trusting its shape. Only
// syntactically invalid JSON is an error. A collection that is missing or not
// an array decodes as empty, null elements are kept as nil (the navigation
// core skips them) and elements that are not JSON objects are dropped. Inside
// an object every field is coerced on its own, so one mistyped field never
// loses the whole record. A payload wrapped in a top-level "data" object is
// unwrapped.
func DecodePayload(data []byte) (*model.SidebarPayload, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("decode sidebar payload: invalid JSON")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &model.SidebarPayload{}, nil
	}

	if inner, ok := raw["data"]; ok && !hasAny(raw, "items", "modules", "categories") {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(inner, &wrapped); err == nil {
			raw = wrapped
		}
	}

	return &model.SidebarPayload{
		Items:      decodeList(raw["items"], decodeItem),
		Modules:    decodeList(raw["modules"], decodeModule),
		Categories: decodeList(raw["categories"], decodeCategory),
		Areas:      decodeList(raw["areas"], decodeArea),
	}, nil
}

func hasAny(raw map[string]json.RawMessage, keys ...string) bool {
	for _, k := range keys {
		if _, ok := raw[k]; ok {
			return true
		}
	}
	return false
}

var jsonNull = []byte("null")

func decodeList[T any](raw json.RawMessage, decode func(fields) *T) []*T {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return []*T{}
	}

	out := make([]*T, 0, len(elems))
	for _, elem := range elems {
		if bytes.Equal(bytes.TrimSpace(elem), jsonNull) {
			out = append(out, nil)
			continue
		}
		var obj fields
		if err := json.Unmarshal(elem, &obj); err != nil || obj == nil {
			continue
		}
		out = append(out, decode(obj))
	}
	return out
}

func decodeItem(f fields) *model.NavigationItem {
	return &model.NavigationItem{
		Key:          f.str("key"),
		Label:        f.str("label"),
		Href:         f.strPtr("href"),
		Module:       f.strPtr("module"),
		Category:     f.strPtr("category"),
		SectionOrder: f.numPtr("section_order"),
		Position:     f.num("position"),
		Hidden:       f.boolean("hidden"),
		Disabled:     f.boolean("disabled"),
		Icon:         f.strPtr("icon"),
	}
}

func decodeModule(f fields) *model.ModuleDefinition {
	return &model.ModuleDefinition{
		ID:    f.str("id"),
		Label: f.str("label"),
		Order: f.numPtr("order"),
	}
}

func decodeCategory(f fields) *model.CategoryDefinition {
	return &model.CategoryDefinition{
		ID:       f.str("id"),
		ModuleID: f.str("module_id"),
		Label:    f.str("label"),
		Order:    f.numPtr("order"),
	}
}

func decodeArea(f fields) *model.Area {
	return &model.Area{
		ID:       f.str("id"),
		Name:     f.str("name"),
		ParentID: f.strPtr("parent_id"),
		Order:    f.numPtr("order"),
	}
}

// fields is one JSON object, coerced field by field.
type fields map[string]json.RawMessage

func (f fields) value(key string) (any, json.RawMessage) {
	raw, ok := f[key]
	if !ok {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, nil
	}
	return v, raw
}

// strPtr accepts strings and numbers (ids sent as numbers keep their literal
// text); anything else is nil.
func (f fields) strPtr(key string) *string {
	v, raw := f.value(key)
	switch v := v.(type) {
	case string:
		return &v
	case float64:
		s := strings.TrimSpace(string(raw))
		return &s
	}
	return nil
}

func (f fields) str(key string) string {
	if s := f.strPtr(key); s != nil {
		return *s
	}
	return ""
}

// numPtr accepts numbers and finite numeric strings; anything else is nil.
func (f fields) numPtr(key string) *float64 {
	v, _ := f.value(key)
	switch v := v.(type) {
	case float64:
		return &v
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil
		}
		return &n
	}
	return nil
}

func (f fields) num(key string) float64 {
	if n := f.numPtr(key); n != nil {
		return *n
	}
	return 0
}

// boolean accepts booleans, strconv.ParseBool strings and numbers (non-zero is
// true); anything else is false.
func (f fields) boolean(key string) bool {
	v, _ := f.value(key)
	switch v := v.(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	case float64:
		return v != 0
	}
	return false
}
