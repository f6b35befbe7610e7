// Package classfile reads class snapshots from JSON or YAML files and checks
// them against the class schema before they reach the session.
package classfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/AdiDevClick/teachboard/internal/model"
)

// ErrInvalidSnapshot is returned when a document does not match the class
// schema.
var ErrInvalidSnapshot = errors.New("invalid class snapshot")

//go:embed class.schema.json
var schemaJSON []byte

const schemaURL = "schema://class.schema.json"

var compiled = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parse class schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("add class schema: %w", err)
	}
	return c.Compile(schemaURL)
})

// Load reads a .json, .yaml or .yml class file. It also returns the raw file
// content so callers can hash it.
func Load(path string) (*model.ClassSnapshot, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	snap, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, data, nil
}

// Parse decodes and validates a class document. ext selects the format and
// may be given with or without the leading dot.
func Parse(data []byte, ext string) (*model.ClassSnapshot, error) {
	doc, err := toJSON(data, strings.TrimPrefix(strings.ToLower(ext), "."))
	if err != nil {
		return nil, err
	}

	schema, err := compiled()
	if err != nil {
		return nil, err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if err := schema.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	var snap model.ClassSnapshot
	if err := json.Unmarshal(doc, &snap); err != nil {
		return nil, fmt.Errorf("decode class: %w", err)
	}
	return &snap, nil
}

// toJSON returns the document as JSON. YAML goes through a generic value so
// both formats are validated by the same schema.
func toJSON(data []byte, format string) ([]byte, error) {
	switch format {
	case "json":
		return data, nil
	case "yaml", "yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported class file format %q", format)
	}
}
