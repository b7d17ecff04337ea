package report

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var (
	schemaLoader = gojsonschema.NewStringLoader(schemaJSON)
	validate     = newValidator()
)

// FieldError is a single shape or invariant violation at a field path.
type FieldError struct {
	Field   string
	Message string
}

// MalformedResponseError is returned when a success payload does not match
// the report shape or breaks one of its invariants.
type MalformedResponseError struct {
	Fields []FieldError
	Cause  error
}

func (e *MalformedResponseError) Error() string {
	var sb strings.Builder
	sb.WriteString("malformed analysis response")
	for i, f := range e.Fields {
		if i == 0 {
			sb.WriteString(": ")
		} else {
			sb.WriteString("; ")
		}
		sb.WriteString(f.Field)
		sb.WriteString(": ")
		sb.WriteString(f.Message)
	}
	if len(e.Fields) == 0 && e.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// Decode turns a success payload into a Report. The payload is checked
// against the embedded schema first, decoded, and then checked for the
// invariants the views rely on.
func Decode(data []byte) (*Report, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedResponseError{
			Fields: []FieldError{{Field: "(root)", Message: "body is not valid JSON"}},
			Cause:  err,
		}
	}

	if err := checkSchema(raw); err != nil {
		return nil, err
	}

	var r Report
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &r,
	})
	if err != nil {
		return nil, fmt.Errorf("create report decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, &MalformedResponseError{
			Fields: []FieldError{{Field: "(root)", Message: "cannot decode report"}},
			Cause:  err,
		}
	}

	if err := Check(&r); err != nil {
		return nil, err
	}

	return &r, nil
}

// Check verifies the invariants of an already decoded report.
func Check(r *Report) error {
	if r == nil {
		return &MalformedResponseError{Fields: []FieldError{{Field: "(root)", Message: "report is empty"}}}
	}

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate report: %w", err)
	}

	malformed := &MalformedResponseError{
		Fields: make([]FieldError, 0, len(verrs)),
		Cause:  err,
	}
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Report.")
		message := "failed " + fe.Tag()
		if fe.Param() != "" {
			message += "=" + fe.Param()
		}
		malformed.Fields = append(malformed.Fields, FieldError{Field: field, Message: message})
	}

	return malformed
}

func checkSchema(raw any) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(raw))
	if err != nil {
		return &MalformedResponseError{
			Fields: []FieldError{{Field: "(root)", Message: "schema validation failed during load"}},
			Cause:  err,
		}
	}

	if result.Valid() {
		return nil
	}

	malformed := &MalformedResponseError{
		Fields: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		malformed.Fields = append(malformed.Fields, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return malformed
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
