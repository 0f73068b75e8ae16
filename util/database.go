// Package util provides utility functions for the backend.
//
//revive:disable-next-line:var-naming
package util

import "strings"

// MaxKeyLength is the longest document key ArangoDB accepts
const MaxKeyLength = 254

const keyPunctuation = "_-:.@()+,=;$!*'%"

// ValidKey reports whether key can be an ArangoDB document key. Record ids arrive from URL
// paths, so anything else cannot name a stored document.
func ValidKey(key string) bool {
	if key == "" || len(key) > MaxKeyLength {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case strings.ContainsRune(keyPunctuation, r):
		default:
			return false
		}
	}
	return true
}
