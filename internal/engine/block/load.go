package block

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed catalog.schema.json
var catalogSchema []byte

const catalogSchemaURL = "catalog.schema.json"

type fileEntry struct {
	ID    int        `json:"id"`
	Name  string     `json:"name"`
	Atlas [2]float32 `json:"atlas"`
}

type file struct {
	Blocks []fileEntry `json:"blocks"`
}

func compileSchema() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(catalogSchemaURL, bytes.NewReader(catalogSchema)); err != nil {
		return nil, err
	}
	return c.Compile(catalogSchemaURL)
}

// Parse decodes a JSON catalog document, validating it against the catalog schema.
func Parse(data []byte) (*Catalog, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	entries := make([]Entry, 0, len(f.Blocks))
	for _, b := range f.Blocks {
		entries = append(entries, Entry{
			ID:     ID(b.ID),
			Name:   b.Name,
			Offset: AtlasOffset{U: b.Atlas[0], V: b.Atlas[1]},
		})
	}
	return NewCatalog(entries)
}

// LoadFile reads a catalog from path. An empty path yields the default catalog.
func LoadFile(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}
