package errors

import (
	stderrors "errors"
	"fmt"
)

// Is and As forward to the standard library so callers need a single
// errors import.
func Is(err, target error) bool     { return stderrors.Is(err, target) }
func As(err error, target any) bool { return stderrors.As(err, target) }

// WrapParseError wraps a failure to read or parse a source file
func WrapParseError(file string, cause error) *SyntaxError {
	return &SyntaxError{
		BaseError: Wrap(SyntaxErrorCode, "failed to parse", cause).WithFile(file),
	}
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s template '%s'", operation, templateName)
	return Wrap(TemplateErrorCode, message, cause).
		WithContext("template", templateName)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *ConfigurationError {
	err := &ConfigurationError{
		BaseError: Wrap(ConfigurationErrorCode, fmt.Sprintf("failed to %s %s", operation, configType), cause),
		Subject:   configType,
	}
	err.WithContext("operation", operation)
	return err
}
