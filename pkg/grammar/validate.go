package grammar

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed catalog.schema.json
var catalogSchema string

const catalogSchemaURL = "schema://dashgram/node-types.schema.json"

// ErrCatalogInvalid is wrapped by every catalog validation failure.
var ErrCatalogInvalid = errors.New("invalid node-type catalog")

//nolint:gochecknoglobals // Compiled once, read-only afterwards.
var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	errSchema      error
)

// CatalogSchema returns the JSON Schema published for the catalog.
func CatalogSchema() []byte {
	return []byte(catalogSchema)
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(catalogSchemaURL, bytes.NewReader([]byte(catalogSchema))); err != nil {
			errSchema = fmt.Errorf("loading catalog schema: %w", err)
			return
		}
		compiledSchema, errSchema = compiler.Compile(catalogSchemaURL)
	})
	return compiledSchema, errSchema
}

// ValidateCatalog checks a JSON-encoded catalog against the published schema
// and verifies that every type reference names an entry of the catalog.
func ValidateCatalog(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrCatalogInvalid, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrCatalogInvalid, err)
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return fmt.Errorf("%w: %w", ErrCatalogInvalid, err)
	}
	return checkReferences(cat)
}

func checkReferences(cat Catalog) error {
	check := func(owner string, ref TypeRef) error {
		entry, ok := cat[ref.Type]
		if !ok {
			return fmt.Errorf("%w: %s references unknown type %q", ErrCatalogInvalid, owner, ref.Type)
		}
		if entry.Named != ref.Named {
			return fmt.Errorf("%w: %s references %q with named=%t", ErrCatalogInvalid, owner, ref.Type, ref.Named)
		}
		return nil
	}

	for _, name := range cat.Names() {
		entry := cat[name]
		if entry.Type != name {
			return fmt.Errorf("%w: entry %q has type %q", ErrCatalogInvalid, name, entry.Type)
		}
		for _, ref := range entry.Subtypes {
			if err := check(name, ref); err != nil {
				return err
			}
		}
		for field, info := range entry.Fields {
			for _, ref := range info.Types {
				if err := check(name+"."+field, ref); err != nil {
					return err
				}
			}
		}
		if entry.Children != nil {
			for _, ref := range entry.Children.Types {
				if err := check(name, ref); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
