package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestBookFilterZeroValue(t *testing.T) {
	var filter BookFilter

	if !filter.IsZero() {
		t.Error("Zero filter should report IsZero")
	}

	condition, args := filter.Predicate(1)
	if condition != "" {
		t.Errorf("Zero filter condition = %q, want empty", condition)
	}
	if len(args) != 0 {
		t.Errorf("Zero filter args = %v, want none", args)
	}
}

func TestBookFilterSingleField(t *testing.T) {
	tests := []struct {
		name      string
		filter    BookFilter
		condition string
		arg       string
	}{
		{"author only", BookFilter{Author: "Donovan"}, "author = $1", "Donovan"},
		{"title only", BookFilter{Title: "The Go Programming Language"}, "title = $1", "The Go Programming Language"},
		{"isbn only", BookFilter{ISBN: "978-0134190440"}, "isbn = $1", "978-0134190440"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			condition, args := tt.filter.Predicate(1)
			if condition != tt.condition {
				t.Errorf("Condition = %q, want %q", condition, tt.condition)
			}
			if len(args) != 1 || args[0] != tt.arg {
				t.Errorf("Args = %v, want [%s]", args, tt.arg)
			}
		})
	}
}

func TestBookFilterCombinesWithAnd(t *testing.T) {
	filter := BookFilter{
		Author: "Donovan",
		Title:  "The Go Programming Language",
		ISBN:   "978-0134190440",
	}

	condition, args := filter.Predicate(1)

	want := "author = $1 AND title = $2 AND isbn = $3"
	if condition != want {
		t.Errorf("Condition = %q, want %q", condition, want)
	}
	if len(args) != 3 {
		t.Fatalf("Args = %v, want 3 values", args)
	}
	if args[0] != "Donovan" || args[1] != "The Go Programming Language" || args[2] != "978-0134190440" {
		t.Errorf("Args in wrong order: %v", args)
	}
}

func TestBookFilterPlaceholderStartIndex(t *testing.T) {
	filter := BookFilter{Author: "Donovan", ISBN: "978-0134190440"}

	// Pagination args occupy the leading placeholders
	condition, args := filter.Predicate(3)

	want := "author = $3 AND isbn = $4"
	if condition != want {
		t.Errorf("Condition = %q, want %q", condition, want)
	}
	if len(args) != 2 {
		t.Errorf("Args = %v, want 2 values", args)
	}
}

func TestProperty_BookFilterPlaceholdersMatchArgs(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("placeholder count and numbering always match the args", prop.ForAll(
		func(author, title, isbn string, startIndex int) bool {
			filter := BookFilter{Author: author, Title: title, ISBN: isbn}
			condition, args := filter.Predicate(startIndex)

			// One placeholder per set field, numbered consecutively from startIndex
			for i := range args {
				placeholder := fmt.Sprintf("$%d", startIndex+i)
				if !strings.Contains(condition, placeholder) {
					t.Logf("FAIL: Condition %q missing placeholder %s", condition, placeholder)
					return false
				}
			}

			if strings.Count(condition, "$") != len(args) {
				t.Logf("FAIL: Condition %q has %d placeholders for %d args", condition, strings.Count(condition, "$"), len(args))
				return false
			}

			if filter.IsZero() != (condition == "" && len(args) == 0) {
				t.Logf("FAIL: IsZero disagrees with Predicate output")
				return false
			}

			return true
		},
		gen.OneConstOf("", "Donovan", "Kernighan"),
		gen.OneConstOf("", "The Go Programming Language"),
		gen.OneConstOf("", "978-0134190440"),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
