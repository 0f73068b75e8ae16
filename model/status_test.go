package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusBijection(t *testing.T) {
	tests := []struct {
		status Status
		entry  EntryStatus
	}{
		{StatusPending, EntryPending},
		{StatusUnderReview, EntryInReview},
		{StatusVerified, EntryPublished},
	}
	require.Len(t, Statuses, len(tests))

	for i, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.status, Statuses[i], "workflow order")
			assert.True(t, tt.status.Valid())
			assert.True(t, tt.entry.Valid())

			entry, err := tt.status.Entry()
			require.NoError(t, err)
			assert.Equal(t, tt.entry, entry)

			status, err := tt.entry.Status()
			require.NoError(t, err)
			assert.Equal(t, tt.status, status)

			parsed, err := ParseStatus(string(tt.status))
			require.NoError(t, err)
			assert.Equal(t, tt.status, parsed)

			parsed, err = ParseStatus(" " + string(tt.entry) + " ")
			require.NoError(t, err)
			assert.Equal(t, tt.status, parsed)
		})
	}
}

func TestNoFourthStatus(t *testing.T) {
	for _, raw := range []string{"", "archived", "Withdrawn", "Verified", "published", "under_review"} {
		assert.False(t, Status(raw).Valid(), raw)
		assert.False(t, EntryStatus(raw).Valid(), raw)

		_, err := Status(raw).Entry()
		assert.Error(t, err, raw)
		_, err = EntryStatus(raw).Status()
		assert.Error(t, err, raw)
		_, err = ParseStatus(raw)
		assert.Error(t, err, raw)
	}
}
