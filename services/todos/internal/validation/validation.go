// Package validation проверяет тела запросов по JSON Schema до того,
// как данные попадут в сервис.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// maxBodyBytes ограничивает размер тела запроса
const maxBodyBytes = 1 << 20

var ErrInvalidBody = errors.New("invalid request body")

const createTodoSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "title": {"type": "string", "minLength": 1}
  },
  "required": ["title"]
}`

const updateTodoSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "title": {"type": "string"},
    "completed": {"type": "boolean"}
  }
}`

// Validator хранит скомпилированные схемы, безопасен для конкурентного использования
type Validator struct {
	create *jsonschema.Schema
	update *jsonschema.Schema
}

func New() (*Validator, error) {
	create, err := compile("create_todo.json", createTodoSchema)
	if err != nil {
		return nil, err
	}
	update, err := compile("update_todo.json", updateTodoSchema)
	if err != nil {
		return nil, err
	}
	return &Validator{create: create, update: update}, nil
}

func compile(url, source string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, strings.NewReader(source)); err != nil {
		return nil, fmt.Errorf("add schema %s: %w", url, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", url, err)
	}
	return schema, nil
}

// DecodeCreate проверяет тело POST /todos и раскладывает его в dst
func (v *Validator) DecodeCreate(r io.Reader, dst any) error {
	return decode(v.create, r, dst)
}

// DecodeUpdate проверяет тело PUT /todos/{id} и раскладывает его в dst
func (v *Validator) DecodeUpdate(r io.Reader, dst any) error {
	return decode(v.update, r, dst)
}

func decode(schema *jsonschema.Schema, r io.Reader, dst any) error {
	data, err := io.ReadAll(io.LimitReader(r, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if len(data) > maxBodyBytes {
		return fmt.Errorf("%w: body exceeds %d bytes", ErrInvalidBody, maxBodyBytes)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidBody, describe(err))
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return nil
}

// describe возвращает первую конкретную ошибку схемы в виде "/path: message"
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	leaf := firstLeaf(ve)
	location := leaf.InstanceLocation
	if location == "" {
		location = "/"
	}
	return location + ": " + leaf.Message
}

func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
