package session

import (
	"encoding"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/invopop/jsonschema"
	validator "github.com/santhosh-tekuri/jsonschema/v5"
)

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

var (
	schemaOnce     sync.Once
	schemaDocument []byte
	sessionSchema  *validator.Schema
	schemaErr      error
)

// SessionSchema returns the JSON schema of PersistedSessionData
func SessionSchema() ([]byte, error) {
	schemaOnce.Do(compileSchema)
	return schemaDocument, schemaErr
}

// ValidateDocument checks a stored session document against the session schema
func ValidateDocument(doc []byte) error {
	schemaOnce.Do(compileSchema)
	if schemaErr != nil {
		return schemaErr
	}

	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("failed to parse session document: %w", err)
	}
	if err := sessionSchema.Validate(v); err != nil {
		return fmt.Errorf("invalid session document: %w", err)
	}
	return nil
}

func compileSchema() {
	reflector := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		Mapper:         textTypes,
	}
	schema := reflector.Reflect(&PersistedSessionData{})
	schema.Version = ""
	schema.Title = "Sokoban Session"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		schemaErr = fmt.Errorf("failed to marshal session schema: %w", err)
		return
	}
	compiled, err := validator.CompileString("session.json", string(data))
	if err != nil {
		schemaErr = fmt.Errorf("failed to compile session schema: %w", err)
		return
	}
	schemaDocument = data
	sessionSchema = compiled
}

// textTypes describes types that serialize through MarshalText as strings
func textTypes(t reflect.Type) *jsonschema.Schema {
	if t.Implements(textMarshalerType) {
		return &jsonschema.Schema{Type: "string"}
	}
	return nil
}
