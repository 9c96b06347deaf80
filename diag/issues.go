// Package diag defines the error taxonomy of the converter and the non-fatal
// warnings it collects while degrading lossy constructs.
package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeRecursionLimit      = "recursion_limit"
	CodeUnresolvedReference = "unresolved_reference"
	CodeDependencyCycle     = "dependency_cycle"
	CodeDuplicateDefinition = "duplicate_definition"
)

// Issue is a single non-fatal finding.
type Issue struct {
	Path    string // JSON Pointer into the input document.
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

func (i Issue) String() string {
	if i.Path == "" {
		return fmt.Sprintf("%s: %s", i.Code, i.Message)
	}
	return fmt.Sprintf("%s at %s: %s", i.Code, i.Path, i.Message)
}

// Issues is a list of findings that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s at %s", iss[i].Code, iss[i].Path)
	}
	if len(iss) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(iss))
	}
	return b.String()
}

// HasCode reports whether any issue carries code.
func (iss Issues) HasCode(code string) bool {
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// AsIssues extracts Issues from an error using errors.As.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
