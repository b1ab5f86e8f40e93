package model

import (
	"sort"
	"strings"
)

const (
	FieldTitle      = "title"
	FieldCategories = "categories"
	FieldContent    = "content"
)

// Errors maps a field name to the message shown next to it.
// An empty Errors means the field set may be submitted.
type Errors map[string]string

// Valid reports whether no field failed validation.
func (e Errors) Valid() bool { return len(e) == 0 }

// Fields returns the failing field names in a stable order.
func (e Errors) Fields() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every field of a new post is present.
// Whitespace-only values count as missing.
func Validate(f Fields) Errors {
	errs := Errors{}

	if strings.TrimSpace(f.Title) == "" {
		errs[FieldTitle] = "Enter a title"
	}
	if strings.TrimSpace(f.Categories) == "" {
		errs[FieldCategories] = "Enter some categories"
	}
	if strings.TrimSpace(f.Content) == "" {
		errs[FieldContent] = "Enter some content please"
	}

	return errs
}
