package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"navd/internal/model"
)

// FileSource reads the payload from a JSON or YAML file. The format follows
// the file extension; anything other than .yaml/.yml is read as JSON.
type FileSource struct {
	Path string
}

func (s *FileSource) Fetch(ctx context.Context) (*model.SidebarPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read navigation file %s: %w", s.Path, err)
	}
	return ParseFile(s.Path, data)
}

// ParseFile decodes file contents according to the extension of name.
func ParseFile(name string, data []byte) (*model.SidebarPayload, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		if doc == nil {
			return &model.SidebarPayload{}, nil
		}
		asJSON, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert %s to JSON: %w", name, err)
		}
		return DecodePayload(asJSON)
	default:
		payload, err := DecodePayload(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		return payload, nil
	}
}
