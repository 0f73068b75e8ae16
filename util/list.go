// Package util provides utility functions for the backend.
//
//revive:disable-next-line:var-naming
package util

import (
	"fmt"
	"strings"
)

// ListSeparator joins list fields at the backend boundary
const ListSeparator = ", "

// SplitList breaks a comma joined backend string into trimmed, non-empty tokens.
// The result is never nil.
func SplitList(joined string) []string {
	out := []string{}
	for _, tok := range strings.Split(joined, ",") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// JoinList is the inverse of SplitList for comma-free tokens
func JoinList(items []string) string {
	return strings.Join(items, ListSeparator)
}

// CheckListItems rejects tokens that would not survive a JoinList/SplitList round trip
func CheckListItems(field string, items []string) error {
	for _, item := range items {
		if strings.Contains(item, ",") {
			return fmt.Errorf("%s entry %q must not contain a comma", field, item)
		}
		if strings.TrimSpace(item) != item || item == "" {
			return fmt.Errorf("%s entry %q must be non-empty without surrounding whitespace", field, item)
		}
	}
	return nil
}
