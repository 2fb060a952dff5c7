package storage

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const DefaultJSONPath = "todos.json"

//go:embed todos.schema.json
var todosSchemaSource string

var todosSchema = jsonschema.MustCompileString("todos.schema.json", todosSchemaSource)

// SchemaError points at the first value of a todos file that does not match
// the schema.
type SchemaError struct {
	Path string
	Err  error
}

func (e *SchemaError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// JSONFile keeps the todos as a single JSON object keyed by id.
type JSONFile struct {
	Path string
}

func (f JSONFile) Name() string {
	return "json"
}

func (f JSONFile) Load() (map[int]Task, error) {
	data, err := os.ReadFile(f.path())
	if err != nil {
		return nil, fmt.Errorf("read todo file: %w", err)
	}
	if err := validateTodos(data); err != nil {
		return nil, fmt.Errorf("parse todo file %s: %w", f.path(), err)
	}
	todos := make(map[int]Task)
	if err := json.Unmarshal(data, &todos); err != nil {
		return nil, fmt.Errorf("parse todo file %s: %w", f.path(), err)
	}
	return todos, nil
}

func (f JSONFile) Save(todos map[int]Task) error {
	if todos == nil {
		todos = map[int]Task{}
	}
	data, err := json.Marshal(todos)
	if err != nil {
		return fmt.Errorf("marshal todo file: %w", err)
	}
	if err := os.WriteFile(f.path(), data, 0o644); err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}
	return nil
}

func (f JSONFile) path() string {
	if f.Path == "" {
		return DefaultJSONPath
	}
	return f.Path
}

func validateTodos(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	if err := todosSchema.Validate(doc); err != nil {
		return firstSchemaError(err)
	}
	return nil
}

func firstSchemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return &SchemaError{
		Path: pointerToPath(ve.InstanceLocation),
		Err:  errors.New(ve.Message),
	}
}

// pointerToPath turns "/3/title" into "[3].title".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
