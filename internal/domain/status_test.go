package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{
			name:     "no wishes means incomplete",
			statuses: nil,
			want:     StatusIncomplete,
		},
		{
			name:     "single incomplete wish",
			statuses: []Status{StatusIncomplete},
			want:     StatusIncomplete,
		},
		{
			name:     "rejected ranks below incomplete",
			statuses: []Status{StatusRejected, StatusIncomplete},
			want:     StatusIncomplete,
		},
		{
			name:     "selected wins over rejected and incomplete",
			statuses: []Status{StatusSelected, StatusRejected, StatusIncomplete},
			want:     StatusSelected,
		},
		{
			name:     "confirmed wins over everything",
			statuses: []Status{StatusPending, StatusConfirmed, StatusAccepted},
			want:     StatusConfirmed,
		},
		{
			name:     "all rejected stays rejected",
			statuses: []Status{StatusRejected, StatusRejected},
			want:     StatusRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateStatus(tt.statuses))
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, raw := range []string{"incomplete", "pending", "rejected", "selected", "accepted", "confirmed"} {
		status, err := ParseStatus(raw)

		require.NoError(t, err)
		assert.Equal(t, Status(raw), status)
	}

	_, err := ParseStatus("approved")
	assert.Error(t, err)

	_, err = ParseStatus("")
	assert.Error(t, err)
}

func TestStatusLocks(t *testing.T) {
	assert.False(t, StatusIncomplete.Locks())
	assert.False(t, StatusRejected.Locks())

	assert.True(t, StatusPending.Locks())
	assert.True(t, StatusSelected.Locks())
	assert.True(t, StatusAccepted.Locks())
	assert.True(t, StatusConfirmed.Locks())
}

func TestApplicantStatus(t *testing.T) {
	applicant := Applicant{
		Wishes: []Wish{
			{Status: StatusSelected},
			{Status: StatusRejected},
			{Status: StatusIncomplete},
		},
	}

	assert.Equal(t, StatusSelected, applicant.Status())
	assert.True(t, applicant.IsLocked())
	assert.True(t, applicant.HasRejectedWishes())
}

func TestApplicantIsLocked(t *testing.T) {
	unlocked := Applicant{
		Wishes: []Wish{
			{Status: StatusIncomplete},
			{Status: StatusRejected},
		},
	}
	assert.False(t, unlocked.IsLocked())
	assert.Equal(t, StatusIncomplete, unlocked.Status())

	empty := Applicant{}
	assert.False(t, empty.IsLocked())
	assert.Equal(t, StatusIncomplete, empty.Status())
}
