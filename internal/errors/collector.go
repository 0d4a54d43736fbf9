package errors

import (
	"fmt"
	"sort"
	"strings"
)

// Collector gathers the per-file failures of a compilation pass up to a
// maximum, so a single run can report more than the first problem.
type Collector struct {
	*MultipleErrors
	maxErrors int
}

// NewCollector creates a collector keeping at most maxErrors entries.
func NewCollector(maxErrors int) *Collector {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &Collector{MultipleErrors: NewMultipleErrors(), maxErrors: maxErrors}
}

// Collect records err, converting plain errors into UnknownErrorCode
// entries attributed to file. It returns false once the collector is full.
func (c *Collector) Collect(file string, err error) bool {
	if err == nil {
		return true
	}
	if c.Count() >= c.maxErrors {
		return false
	}
	var se SpliceError
	if !As(err, &se) {
		se = Wrap(UnknownErrorCode, "failed", err).WithFile(file)
	}
	c.Add(se)
	return true
}

// Err returns nil, the single error, or the whole collection.
func (c *Collector) Err() error {
	switch c.Count() {
	case 0:
		return nil
	case 1:
		return c.Errors[0]
	}
	return c.MultipleErrors
}

// Summary counts errors per code for the end-of-build report.
type Summary struct {
	Counts map[ErrorCode]int
	Total  int
}

// Summarize builds the per-code counts of errs.
func Summarize(errs []SpliceError) Summary {
	s := Summary{Counts: make(map[ErrorCode]int), Total: len(errs)}
	for _, err := range errs {
		s.Counts[err.ErrorCode()]++
	}
	return s
}

// String returns a formatted summary of errors
func (s Summary) String() string {
	if s.Total == 0 {
		return "No errors found"
	}
	codes := make([]ErrorCode, 0, len(s.Counts))
	for code := range s.Counts {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	parts := make([]string, len(codes))
	for i, code := range codes {
		parts[i] = fmt.Sprintf("%d %s", s.Counts[code], code)
	}
	return fmt.Sprintf("Found %d total error(s): %s", s.Total, strings.Join(parts, ", "))
}
