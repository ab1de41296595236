package textcatalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const catalogSchemaURL = "https://soknadpdf.local/schemas/catalog.schema.json"

//go:embed schema/catalog.schema.json
var catalogSchemaJSON []byte

var catalogSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(catalogSchemaURL, bytes.NewReader(catalogSchemaJSON)); err != nil {
		return nil, fmt.Errorf("catalog schema load failed: %w", err)
	}
	compiled, err := c.Compile(catalogSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("catalog schema compile failed: %w", err)
	}
	return compiled, nil
})

// validateStructure checks the raw catalog against the embedded schema.
func validateStructure(data []byte) error {
	schema, err := catalogSchema()
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	return schema.Validate(doc)
}
