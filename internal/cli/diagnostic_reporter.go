package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/toyz/splice/internal/errors"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter writing to stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
		out:     os.Stderr,
	}
}

// SetOutput redirects the report.
func (r *DiagnosticReporter) SetOutput(w io.Writer) {
	r.out = w
}

// ReportWarning provides user-friendly warning reporting
func (r *DiagnosticReporter) ReportWarning(message string, suggestions ...string) {
	orange := color.New(color.FgYellow, color.Bold)
	orange.Fprint(r.out, "! ")
	fmt.Fprintf(r.out, "%s\n", message)
	if r.verbose {
		for _, s := range suggestions {
			fmt.Fprintf(r.out, "  - %s\n", s)
		}
	}
}

// ReportError renders err with its location, context and suggestions. All
// entries of a collected error set are reported in turn.
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(r.out, "\nERROR: Build Failed\n")
	fmt.Fprintf(r.out, "===================\n\n")

	var multi *errors.MultipleErrors
	var spliceErr errors.SpliceError
	switch {
	case errors.As(err, &multi):
		summary := errors.Summarize(multi.Errors)
		fmt.Fprintf(r.out, "%d problems (%s)\n\n", summary.Total, summary)
		for i, e := range multi.Errors {
			fmt.Fprintf(r.out, "[%d/%d] ", i+1, len(multi.Errors))
			r.reportSpliceError(e)
		}
	case errors.As(err, &spliceErr):
		r.reportSpliceError(spliceErr)
	default:
		r.reportBasicError(err)
	}

	fmt.Fprintf(r.out, "\n")
}

func (r *DiagnosticReporter) reportSpliceError(err errors.SpliceError) {
	r.printErrorHeader(err.ErrorCode())

	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())

	if ctx := err.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}
	if hints := err.Suggestions(); len(hints) > 0 {
		r.printSuggestions(hints)
	}
	r.printAdditionalHelp(err.ErrorCode())

	if r.verbose {
		r.printVerboseDebuggingInfo(err)
	}
}

// reportBasicError reports a basic error without rich context
func (r *DiagnosticReporter) reportBasicError(err error) {
	fmt.Fprintf(r.out, "Message: %s\n\n", err.Error())

	errorMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errorMsg, "splice.toml"):
		fmt.Fprintf(r.out, "This appears to be a configuration issue.\n")
		fmt.Fprintf(r.out, "Common solutions:\n")
		fmt.Fprintf(r.out, "  - Check splice.toml for unknown keys\n")
		fmt.Fprintf(r.out, "  - Pass the configuration file explicitly with --config\n\n")
	case strings.Contains(errorMsg, "permission denied"):
		fmt.Fprintf(r.out, "This appears to be a file system issue.\n")
		fmt.Fprintf(r.out, "Common solutions:\n")
		fmt.Fprintf(r.out, "  - Make sure the output directory is writable\n\n")
	}
}

func (r *DiagnosticReporter) printErrorHeader(code errors.ErrorCode) {
	var errorTypeStr string

	switch code {
	case errors.SyntaxErrorCode:
		errorTypeStr = "Syntax Error"
	case errors.ConfigurationErrorCode:
		errorTypeStr = "Configuration Error"
	case errors.CardinalityErrorCode:
		errorTypeStr = "Route Cardinality Error"
	case errors.GlobCollisionErrorCode:
		errorTypeStr = "Glob Collision Error"
	case errors.PipelineErrorCode:
		errorTypeStr = "Pipeline Order Error"
	case errors.FileSystemErrorCode:
		errorTypeStr = "File System Error"
	case errors.TemplateErrorCode:
		errorTypeStr = "Template Error"
	default:
		errorTypeStr = "Unknown Error"
	}

	fmt.Fprintf(r.out, "Type: %s\n", errorTypeStr)
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("-", len(errorTypeStr)+6))
}

// printContext prints the important keys first, the rest sorted.
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	fmt.Fprintf(r.out, "Context:\n")

	importantKeys := []string{"subject", "stage", "identifier", "count"}
	printed := make(map[string]bool)

	for _, key := range importantKeys {
		if value, exists := context[key]; exists {
			fmt.Fprintf(r.out, "   %s: %v\n", r.formatContextKey(key), value)
			printed[key] = true
		}
	}

	rest := make([]string, 0, len(context))
	for key := range context {
		if !printed[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		fmt.Fprintf(r.out, "   %s: %v\n", r.formatContextKey(key), context[key])
	}

	fmt.Fprintf(r.out, "\n")
}

// formatContextKey formats context keys to be more readable
func (r *DiagnosticReporter) formatContextKey(key string) string {
	switch key {
	case "subject":
		return "Subject"
	case "count":
		return "Definitions"
	case "existing":
		return "Registered As"
	default:
		parts := strings.Split(key, "_")
		for i, part := range parts {
			if len(part) > 0 {
				parts[i] = strings.ToUpper(part[:1]) + part[1:]
			}
		}
		return strings.Join(parts, " ")
	}
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.out, "Suggestions:\n")

	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.out, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.out, "      %s\n", line)
			}
		}
	}

	fmt.Fprintf(r.out, "\n")
}

// printAdditionalHelp prints additional help based on error code
func (r *DiagnosticReporter) printAdditionalHelp(code errors.ErrorCode) {
	switch code {
	case errors.CardinalityErrorCode:
		fmt.Fprintf(r.out, "Route Module Requirements:\n")
		fmt.Fprintf(r.out, "  - A page module declares exactly one Router.page(...) or Router.error(...)\n")
		fmt.Fprintf(r.out, "  - Split additional pages into their own files\n\n")

	case errors.GlobCollisionErrorCode:
		fmt.Fprintf(r.out, "Glob Import Requirements:\n")
		fmt.Fprintf(r.out, "  - Every match must produce a distinct identifier\n")
		fmt.Fprintf(r.out, "  - Identifiers are built from the wildcard captures of the pattern\n\n")

	case errors.ConfigurationErrorCode:
		fmt.Fprintf(r.out, "Service Requirements:\n")
		fmt.Fprintf(r.out, "  - Every service id needs a service.json descriptor in a search dir\n")
		fmt.Fprintf(r.out, "  - Injected constructor parameters must be services or request-scoped types\n\n")
	}

	fmt.Fprintf(r.out, "For more help:\n")
	fmt.Fprintf(r.out, "  - Run with --verbose for more detailed output\n")
}

func (r *DiagnosticReporter) printVerboseDebuggingInfo(err errors.SpliceError) {
	fmt.Fprintf(r.out, "\nVerbose Debug Information:\n")
	fmt.Fprintf(r.out, "  Error Code: %s (%d)\n", err.ErrorCode(), int(err.ErrorCode()))
	if loc := err.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "  Location: %s\n", loc)
	}

	cause := err.Unwrap()
	if cause != nil {
		fmt.Fprintf(r.out, "  Error Chain:\n")
		level := 1
		for cause != nil {
			fmt.Fprintf(r.out, "    %d. %s\n", level, cause.Error())
			unwrapper, ok := cause.(interface{ Unwrap() error })
			if !ok {
				break
			}
			cause = unwrapper.Unwrap()
			level++
		}
	}

	fmt.Fprintf(r.out, "\n")
}

// Debug prints debug information when verbose mode is enabled
func (r *DiagnosticReporter) Debug(format string, args ...interface{}) {
	if r.verbose {
		fmt.Fprintf(r.out, "[DEBUG] "+format+"\n", args...)
	}
}

// ReportSuccess reports a finished build. Paths are shown relative to root.
func (r *DiagnosticReporter) ReportSuccess(summary *BuildSummary, root string) {
	fmt.Fprintf(r.out, "\nBuild Completed Successfully!\n")
	fmt.Fprintf(r.out, "=============================\n\n")

	fmt.Fprintf(r.out, "Discovered %s\n", pluralize(summary.Sources, "source file"))
	if summary.Services > 0 {
		fmt.Fprintf(r.out, "Composed %s\n", pluralize(summary.Services, "service"))
	}
	for _, pass := range summary.Passes {
		fmt.Fprintf(r.out, "%s pass: rewrote %s, %d written, %d unchanged\n",
			pass.Side, pluralize(pass.Files, "file"), len(pass.Written), pass.Unchanged)
		if r.verbose {
			stages := make([]string, 0, len(pass.Counts))
			for stage := range pass.Counts {
				stages = append(stages, stage)
			}
			sort.Strings(stages)
			for _, stage := range stages {
				fmt.Fprintf(r.out, "  %s: %d\n", stage, pass.Counts[stage])
			}
		}
	}

	if len(summary.Generated) > 0 {
		fmt.Fprintf(r.out, "\nGenerated files:\n")
		for _, file := range summary.Generated {
			if rel, err := filepath.Rel(root, file); err == nil {
				file = filepath.ToSlash(rel)
			}
			fmt.Fprintf(r.out, "  - %s\n", file)
		}
	}
	fmt.Fprintf(r.out, "\nFinished in %s\n", summary.Duration.Round(time.Millisecond))
}
