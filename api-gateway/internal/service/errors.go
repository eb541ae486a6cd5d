package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrSubmissionNotFound = errors.New("submission not found")

// ValidationError: поле запроса -> нарушенное правило.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func newValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldName(fe.Field())] = describeTag(fe.Tag())
	}
	return &ValidationError{Fields: fields}
}

// fieldName приводит имя поля к виду из формы: StudentName -> studentName, Content -> file.
func fieldName(field string) string {
	if field == "Content" {
		return "file"
	}
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func describeTag(tag string) string {
	switch tag {
	case "notblank":
		return "is required"
	case "min":
		return "must not be empty"
	default:
		return "failed on " + tag
	}
}
