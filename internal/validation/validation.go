// Package validation checks todo payloads against JSON schemas before they
// reach the service or leave the client.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jaekwang-park/todo-list/internal/model"
)

// MaxInputLength bounds the text of a single todo.
const MaxInputLength = 500

// EmptyInputMessage is shown when a todo has no text.
const EmptyInputMessage = "todo can't be empty"

const todoSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"input": {"type": "string", "minLength": 1, "maxLength": 500, "pattern": "\\S"},
		"done": {"type": "boolean"}
	},
	"required": ["input"]
}`

const idsSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "array",
	"minItems": 1,
	"items": {"type": "string", "minLength": 1}
}`

const orderSchemaJSON = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"order": {"type": "integer", "minimum": 0}
		},
		"required": ["id", "order"]
	}
}`

var (
	todoSchema  = jsonschema.MustCompileString("todo.json", todoSchemaJSON)
	idsSchema   = jsonschema.MustCompileString("ids.json", idsSchemaJSON)
	orderSchema = jsonschema.MustCompileString("order.json", orderSchemaJSON)
)

// FieldError is a single schema violation.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Errors collects every violation found in one payload.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Input trims the text of a todo and validates what is left.
func Input(input string) (string, error) {
	text := strings.TrimSpace(input)
	if err := validate(todoSchema, map[string]any{"input": text}); err != nil {
		return "", err
	}
	return text, nil
}

// IDs validates a non-empty list of non-empty ids.
func IDs(ids []string) error {
	items := make([]any, len(ids))
	for i, id := range ids {
		items[i] = id
	}
	return validate(idsSchema, items)
}

// Order validates a non-empty list of id/position pairs.
func Order(pairs []model.OrderPair) error {
	items := make([]any, len(pairs))
	for i, p := range pairs {
		items[i] = map[string]any{
			"id":    p.ID,
			"order": json.Number(strconv.Itoa(p.Order)),
		}
	}
	return validate(orderSchema, items)
}

func validate(schema *jsonschema.Schema, v any) error {
	err := schema.Validate(v)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("schema validation: %w", err)
	}

	var out Errors
	collect(&out, ve)
	if len(out) == 0 {
		out = append(out, FieldError{Message: ve.Message})
	}
	return out
}

func collect(out *Errors, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		*out = append(*out, FieldError{
			Field:   fieldName(ve.InstanceLocation),
			Message: message(ve),
		})
		return
	}
	for _, cause := range ve.Causes {
		collect(out, cause)
	}
}

func message(ve *jsonschema.ValidationError) string {
	if strings.HasSuffix(ve.InstanceLocation, "/input") {
		kw := ve.KeywordLocation
		if strings.HasSuffix(kw, "/minLength") || strings.HasSuffix(kw, "/pattern") {
			return EmptyInputMessage
		}
	}
	return ve.Message
}

func fieldName(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	return strings.ReplaceAll(ptr, "/", ".")
}
