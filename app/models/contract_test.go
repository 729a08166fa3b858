package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestContractIsRunning(t *testing.T) {
	c := &Contract{
		Status:    ContractStatusActive,
		StartDate: date(2026, time.January, 1),
		EndDate:   date(2026, time.December, 31),
	}

	assert.True(t, c.IsRunning(date(2026, time.June, 15)))
	assert.True(t, c.IsRunning(date(2026, time.January, 1)))
	assert.False(t, c.IsRunning(date(2025, time.December, 31)))
	assert.False(t, c.IsRunning(date(2027, time.January, 1)))

	c.Status = ContractStatusDraft
	assert.False(t, c.IsRunning(date(2026, time.June, 15)))
}

func TestContractDurationMonths(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"full year", date(2026, time.January, 1), date(2027, time.January, 1), 12},
		{"partial month rounds up", date(2026, time.January, 1), date(2026, time.January, 15), 1},
		{"six and a half months", date(2026, time.January, 1), date(2026, time.July, 20), 7},
		{"end before start", date(2026, time.June, 1), date(2026, time.January, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Contract{StartDate: tt.start, EndDate: tt.end}
			assert.Equal(t, tt.want, c.DurationMonths())
		})
	}
}

func TestBillboardDimensions(t *testing.T) {
	b := &Billboard{WidthM: 4, HeightM: 3}
	assert.Equal(t, "4.00 x 3.00 m", b.Dimensions())

	empty := &Billboard{}
	assert.Equal(t, "", empty.Dimensions())
}

func TestBillboardLocationLine(t *testing.T) {
	assert.Equal(t, "Hauptstr. 1, Berlin", (&Billboard{Address: "Hauptstr. 1", City: "Berlin"}).LocationLine())
	assert.Equal(t, "Hauptstr. 1", (&Billboard{Address: "Hauptstr. 1"}).LocationLine())
	assert.Equal(t, "Berlin", (&Billboard{City: "Berlin"}).LocationLine())
}

func TestInvitationIsOpen(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-1 * time.Hour)
	accepted := time.Now()

	assert.True(t, (&Invitation{ExpiresAt: future}).IsOpen())
	assert.False(t, (&Invitation{ExpiresAt: past}).IsOpen())
	assert.False(t, (&Invitation{ExpiresAt: future, AcceptedAt: &accepted}).IsOpen())
}
