// Package sanitize validates model-generated SQL before it reaches the
// database. It is the enforcement point for the read-only contract: anything
// that is not provably a single, comment-free SELECT is rejected.
package sanitize

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrSQLMissing         = errors.New("no SQL statement to validate")
	ErrNotASelect         = errors.New("only SELECT queries are allowed")
	ErrMultipleStatements = errors.New("multiple SQL statements are not allowed")
	ErrForbiddenOperation = errors.New("query contains a forbidden operation")
	ErrCommentsNotAllowed = errors.New("SQL comments are not allowed")
)

// forbiddenOps matches any write or DDL keyword as a whole word, anywhere in
// the statement. This intentionally also fires inside identifiers quoted as
// string content; a false positive there is the accepted cost of never
// letting one of these through in a subquery or CTE.
var forbiddenOps = regexp.MustCompile(
	`\b(insert|update|delete|alter|drop|truncate|create|grant|revoke|comment|copy|call)\b`)

var selectPrefix = regexp.MustCompile(`^select\b`)

// Rule names a sanitizer rejection for metrics and logs.
func Rule(err error) string {
	switch {
	case errors.Is(err, ErrSQLMissing):
		return "sql_missing"
	case errors.Is(err, ErrNotASelect):
		return "not_a_select"
	case errors.Is(err, ErrMultipleStatements):
		return "multiple_statements"
	case errors.Is(err, ErrForbiddenOperation):
		return "forbidden_operation"
	case errors.Is(err, ErrCommentsNotAllowed):
		return "comments_not_allowed"
	default:
		return "unknown"
	}
}

// Sanitize validates raw as a single read-only SELECT and returns it with
// surrounding whitespace and one trailing semicolon removed. Rules run in a
// fixed order and the first violation wins. The function is pure; callers may
// hand its output directly to the executor.
func Sanitize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrSQLMissing
	}

	lowered := strings.ToLower(trimmed)
	if !selectPrefix.MatchString(lowered) {
		return "", ErrNotASelect
	}

	fragments := 0
	for _, fragment := range strings.Split(trimmed, ";") {
		if strings.TrimSpace(fragment) != "" {
			fragments++
		}
	}
	if fragments > 1 {
		return "", ErrMultipleStatements
	}

	if match := forbiddenOps.FindString(lowered); match != "" {
		return "", fmt.Errorf("%w: %s", ErrForbiddenOperation, match)
	}

	if strings.Contains(lowered, "--") || strings.Contains(lowered, "/*") {
		return "", ErrCommentsNotAllowed
	}

	return strings.TrimSpace(strings.TrimSuffix(trimmed, ";")), nil
}
