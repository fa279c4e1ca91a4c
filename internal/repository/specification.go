package repository

import (
	"fmt"
	"strings"
)

// BookFilter is the closed set of searchable book fields. A zero-value field
// contributes no predicate; all predicates are AND-combined. The zero filter
// matches every book.
type BookFilter struct {
	Author string
	Title  string
	ISBN   string
}

// IsZero reports whether no field is set.
func (f BookFilter) IsZero() bool {
	return f.Author == "" && f.Title == "" && f.ISBN == ""
}

// Predicate renders the filter as a SQL condition with placeholders starting
// at startIndex. It returns the condition text (without a WHERE keyword) and
// its arguments; both are empty for the zero filter.
func (f BookFilter) Predicate(startIndex int) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argIndex := startIndex

	if f.Author != "" {
		conditions = append(conditions, fmt.Sprintf("author = $%d", argIndex))
		args = append(args, f.Author)
		argIndex++
	}
	if f.Title != "" {
		conditions = append(conditions, fmt.Sprintf("title = $%d", argIndex))
		args = append(args, f.Title)
		argIndex++
	}
	if f.ISBN != "" {
		conditions = append(conditions, fmt.Sprintf("isbn = $%d", argIndex))
		args = append(args, f.ISBN)
		argIndex++
	}

	return strings.Join(conditions, " AND "), args
}
