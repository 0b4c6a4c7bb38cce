package jsonstore

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/todomvc/internal/model"
)

// Read-only JSON seed for the todo store. The file is loaded once at
// startup and never written back.

//go:embed seed.schema.json
var seedSchema string

const schemaURL = "https://github.com/idilsaglam/todomvc/seed.schema.json"

var ErrDuplicateID = errors.New("duplicate todo id")

// ValidationError lists every schema violation found in a seed file.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid seed %s: %s", e.Path, strings.Join(e.Issues, "; "))
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, strings.NewReader(seedSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
})

// Load reads and validates a seed file.
func Load(path string) (model.Todos, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Decode(path, b)
}

// Decode validates b against the seed schema and decodes it. path is only
// used in error messages.
func Decode(path string, b []byte) (model.Todos, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return nil, &ValidationError{Path: path, Issues: collect(ve)}
		}
		return nil, fmt.Errorf("validate: %w", err)
	}

	var todos model.Todos
	if err := json.Unmarshal(b, &todos); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	seen := make(map[int64]bool, len(todos))
	for _, t := range todos {
		if seen[t.ID] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, t.ID)
		}
		seen[t.ID] = true
	}
	return todos, nil
}

func collect(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{loc + ": " + ve.Message}
	}
	var out []string
	for _, c := range ve.Causes {
		out = append(out, collect(c)...)
	}
	return out
}
