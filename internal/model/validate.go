package model

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"resume-renderer/internal/domain"
)

//go:embed resume.schema.json
var schemaJSON []byte

var resumeSchema = mustSchema()

func mustSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("compile resume schema: %v", err))
	}
	return s
}

// ErrMalformedBody is returned when the body is not JSON at all.
var ErrMalformedBody = errors.New("malformed request body")

// ValidationError lists every schema or field failure of one request.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "schema validation failed: " + strings.Join(e.Details, "; ")
}

func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidResume
}

func fieldError(field string, err error) error {
	return &ValidationError{Details: []string{field + ": " + err.Error()}}
}

// Validate checks body against the embedded resume schema.
func Validate(body []byte) error {
	if !json.Valid(body) {
		return ErrMalformedBody
	}
	res, err := resumeSchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if res.Valid() {
		return nil
	}
	ve := &ValidationError{}
	for _, e := range res.Errors() {
		ve.Details = append(ve.Details, e.String())
	}
	return ve
}

// Decode validates body and converts it to a domain resume.
func Decode(body []byte) (*domain.Resume, error) {
	if err := Validate(body); err != nil {
		return nil, err
	}
	var req Resume
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	return req.ToDomain()
}
