package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"TLS 1.2", "SSH"}, SplitList("TLS 1.2, SSH"))
	assert.Equal(t, []string{"a", "b"}, SplitList(" a ,, b ,"))
	assert.Equal(t, []string{}, SplitList(""))
	assert.NotNil(t, SplitList("   "))
}

func TestJoinList(t *testing.T) {
	assert.Equal(t, "TLS 1.2, SSH", JoinList([]string{"TLS 1.2", "SSH"}))
	assert.Equal(t, "", JoinList(nil))

	items := []string{"RSA-2048", "ECDSA P-256", "AES-128"}
	assert.Equal(t, items, SplitList(JoinList(items)))
}

func TestCheckListItems(t *testing.T) {
	assert.NoError(t, CheckListItems("affected_protocols", []string{"TLS 1.2", "SSH"}))
	assert.Error(t, CheckListItems("affected_protocols", []string{"TLS 1.2, SSH"}))
	assert.Error(t, CheckListItems("affected_protocols", []string{" SSH"}))
	assert.Error(t, CheckListItems("affected_protocols", []string{""}))
}

func TestValidKey(t *testing.T) {
	assert.True(t, ValidKey("0f8fad5b-d9cb-469f-a165-70867728950e"))
	assert.True(t, ValidKey("legacy_key:1"))
	assert.False(t, ValidKey(""))
	assert.False(t, ValidKey("has space"))
	assert.False(t, ValidKey("a/b"))
	assert.False(t, ValidKey(strings.Repeat("k", MaxKeyLength+1)))
}

func TestInitLogger(t *testing.T) {
	assert.NotNil(t, InitLogger("debug"))
	assert.NotNil(t, InitLogger("not-a-level"))
}

func TestSeverityRating(t *testing.T) {
	tests := map[float64]string{
		0:    "none",
		0.1:  "low",
		3.9:  "low",
		4.0:  "medium",
		6.9:  "medium",
		7.0:  "high",
		8.9:  "high",
		9.0:  "critical",
		10.0: "critical",
	}
	for score, want := range tests {
		assert.Equal(t, want, SeverityRating(score), "score %v", score)
	}
}
