// Package schemas provides JSON Schema validation for candidate profiles and
// job requirements arriving from external collaborators. Schemas are stored
// as JSON files and embedded at compile time.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Schema file names.
const (
	CandidateProfileSchema = "candidate_profile.schema.json"
	JobRequirementsSchema  = "job_requirements.schema.json"
)

// cache stores compiled schemas to avoid repeated parsing
var (
	cache   = make(map[string]*gojsonschema.Schema)
	cacheMu sync.RWMutex
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Name    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Name, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// ValidateCandidateProfile validates a raw candidate profile document.
func ValidateCandidateProfile(document []byte) error {
	return Validate(CandidateProfileSchema, document)
}

// ValidateJobRequirements validates a raw job requirements document.
func ValidateJobRequirements(document []byte) error {
	return Validate(JobRequirementsSchema, document)
}

// Validate checks a JSON document against a named embedded schema.
func Validate(schemaName string, document []byte) error {
	schema, err := loadSchema(schemaName)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("failed to validate document: %w", err)
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// loadSchema compiles an embedded schema, caching the result.
func loadSchema(name string) (*gojsonschema.Schema, error) {
	cacheMu.RLock()
	schema, ok := cache[name]
	cacheMu.RUnlock()
	if ok {
		return schema, nil
	}

	data, err := schemaFiles.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Message: "schema file not embedded", Cause: err}
	}

	schema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Name: name, Message: "schema failed to compile", Cause: err}
	}

	cacheMu.Lock()
	cache[name] = schema
	cacheMu.Unlock()

	return schema, nil
}
