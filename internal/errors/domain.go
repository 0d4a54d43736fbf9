package errors

import (
	"fmt"
	"strings"
)

// SyntaxError reports source the parser front-end rejected.
type SyntaxError struct {
	*BaseError
	Snippet string // offending source text, trimmed
}

// NewSyntaxError creates a syntax error at the given position.
func NewSyntaxError(file string, line, column int, snippet string) *SyntaxError {
	snippet = strings.TrimSpace(snippet)
	if len(snippet) > 60 {
		snippet = snippet[:57] + "..."
	}
	msg := "invalid syntax"
	if snippet != "" {
		msg = fmt.Sprintf("invalid syntax near %q", snippet)
	}
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, msg).
			WithLocation(SourceLocation{File: file, Line: line, Column: column}),
		Snippet: snippet,
	}
}

// ConfigurationError reports project code or configuration the rewriting
// stages cannot interpret: unknown injected types, unregistered or duplicate
// services, bad config values.
type ConfigurationError struct {
	*BaseError
	Subject string // the type, service id or config key at fault
}

// NewConfigurationError creates a configuration error about subject.
func NewConfigurationError(subject, message string) *ConfigurationError {
	return &ConfigurationError{
		BaseError: New(ConfigurationErrorCode, message).WithContext("subject", subject),
		Subject:   subject,
	}
}

// NewUnresolvedTypeError reports an annotated constructor or handler
// parameter whose type is neither request-scoped nor an imported service.
func NewUnresolvedTypeError(typeName, file string) *ConfigurationError {
	err := NewConfigurationError(typeName, fmt.Sprintf("cannot inject parameter of type '%s'", typeName))
	err.WithFile(file).WithSuggestions(
		fmt.Sprintf("Import '%s' as a default import from a service module", typeName),
		"Add the type to the request-scoped table in splice.toml",
		"Remove the type annotation to receive the value positionally",
	)
	return err
}

// NewUnregisteredServiceError reports a reference to a service id that was
// never registered.
func NewUnregisteredServiceError(id, file string) *ConfigurationError {
	err := NewConfigurationError(id, fmt.Sprintf("service '%s' is not registered", id))
	err.WithFile(file).WithSuggestions(
		"Check the id against the service.json descriptors",
		"Declare the service before referencing it with refTo",
	)
	return err
}

// NewDuplicateServiceError reports a second registration under an id that
// is already taken.
func NewDuplicateServiceError(id, existing string) *ConfigurationError {
	err := NewConfigurationError(id, fmt.Sprintf("service '%s' is already setup as '%s'", id, existing))
	err.WithContext("existing", existing).WithSuggestions(
		"Use refTo to point at the existing instance instead of registering it twice",
	)
	return err
}

// CardinalityError reports a route module with the wrong number of route
// definitions.
type CardinalityError struct {
	*BaseError
	Count int
}

// NewRouteCardinalityError creates the error for a front module holding
// count definitions where exactly one is required.
func NewRouteCardinalityError(file string, count int) *CardinalityError {
	msg := "no route definition found"
	if count > 1 {
		msg = fmt.Sprintf("%d route definitions found, only one is allowed per page", count)
	}
	return &CardinalityError{
		BaseError: New(CardinalityErrorCode, msg).
			WithFile(file).
			WithContext("count", count).
			WithSuggestions("Declare exactly one Router.page(...) call in each page module"),
		Count: count,
	}
}

// GlobCollisionError reports two glob matches that generate the same
// identifier.
type GlobCollisionError struct {
	*BaseError
	Identifier    string
	First, Second string
}

// NewGlobCollisionError creates a collision error naming both files.
func NewGlobCollisionError(ident, first, second string) *GlobCollisionError {
	return &GlobCollisionError{
		BaseError: Newf(GlobCollisionErrorCode, "files '%s' and '%s' both map to identifier '%s'", first, second, ident).
			WithContext("identifier", ident).
			WithSuggestions("Rename one of the files so their wildcard captures differ"),
		Identifier: ident,
		First:      first,
		Second:     second,
	}
}

// PipelineError reports stages assembled in an order that leaves a
// required condition unmet.
type PipelineError struct {
	*BaseError
	Stage   string
	Missing []string
}

// NewPipelineOrderError creates the error for stage, whose requirements in
// missing are not provided by any earlier stage.
func NewPipelineOrderError(stage string, missing []string) *PipelineError {
	return &PipelineError{
		BaseError: Newf(PipelineErrorCode, "stage '%s' requires %s, which no earlier stage provides", stage, strings.Join(missing, ", ")).
			WithContext("stage", stage),
		Stage:   stage,
		Missing: missing,
	}
}
