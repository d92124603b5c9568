// Package importer turns a resume JSON document from disk or an editor into
// a draft, after checking it against the embedded resume schema.
package importer

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/zadnan82/newcv-sub002/internal/apperror"
	"github.com/zadnan82/newcv-sub002/internal/model"
)

//go:embed resume.schema.json
var schemaJSON []byte

var schema = mustLoadSchema()

func mustLoadSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("importer: loading embedded schema: %v", err))
	}
	return s
}

// FieldError is one schema violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("resume document is invalid:")
	for _, fe := range e.Errors {
		fmt.Fprintf(&sb, "\n  %s: %s", fe.Field, fe.Message)
	}
	return sb.String()
}

// Unwrap lets errors.Is match apperror.ErrValidation.
func (e *ValidationError) Unwrap() error {
	return apperror.ErrValidation
}

// Validate checks raw against the resume schema.
func Validate(raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return apperror.ValidationFailed("document", fmt.Sprintf("not valid JSON: %v", err))
	}
	if result.Valid() {
		return nil
	}
	ve := &ValidationError{}
	for _, re := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{Field: re.Field(), Message: re.Description()})
	}
	return ve
}

// Import validates raw and decodes it as a local draft. Any server identity
// in the document is dropped: an imported resume is saved as a new one.
func Import(raw []byte) (*model.Resume, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}

	// The schema allows numeric ids, the draft shape does not; both are
	// replaced anyway.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, apperror.ValidationFailed("document", err.Error())
	}
	delete(fields, "id")
	delete(fields, "server_id")
	stripped, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("importer: re-encoding document: %w", err)
	}

	var r model.Resume
	if err := json.Unmarshal(stripped, &r); err != nil {
		return nil, apperror.ValidationFailed("document", err.Error())
	}
	r.ID = model.NewLocalID()
	r.EnsureCollections()
	if r.Template == "" {
		r.Template = r.Customization.Template
	}
	return &r, nil
}
