package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseChecklist_DefaultsMissingKeysToFalse(t *testing.T) {
	c := ParseChecklist(`{"test_drive": true, "unknown_key": true}`)
	require.True(t, c["test_drive"])
	require.False(t, c["vehicle_received"])
	_, hasUnknown := c["unknown_key"]
	require.False(t, hasUnknown)
	require.Len(t, c, len(ChecklistKeys))
}

func TestParseChecklist_MalformedYieldsAllFalse(t *testing.T) {
	c := ParseChecklist("not json")
	for _, k := range ChecklistKeys {
		require.False(t, c[k])
	}
}

func TestJob_RowRoundTrip(t *testing.T) {
	km := int64(123456)
	closed := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	j := Job{
		ID:         "0c5f9e1a-7c4e-4b8a-9f27-3a8c2d1e0b4f",
		Title:      "Service",
		Plate:      "ZH 1234",
		Status:     JobStatusDone,
		Important:  true,
		OdometerKM: &km,
		Checklist:  Checklist{"test_drive": true},
		CreatedAt:  time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		ClosedAt:   &closed,
	}

	got := JobFromRow(j.Row())
	require.Equal(t, j.ID, got.ID)
	require.Equal(t, j.Status, got.Status)
	require.True(t, got.Done())
	require.NotNil(t, got.OdometerKM)
	require.Equal(t, km, *got.OdometerKM)
	require.True(t, got.Checklist["test_drive"])
	require.NotNil(t, got.ClosedAt)
	require.Equal(t, closed, *got.ClosedAt)
}

func TestTimeEntry_RunningIsNilEnd(t *testing.T) {
	e := TimeEntry{ID: "e1", JobID: "j1", Worker: "Marco", Start: time.Now().UTC()}
	require.True(t, e.Running())

	got := TimeEntryFromRow(e.Row())
	require.True(t, got.Running())

	end := e.Start.Add(30 * time.Minute)
	e.End = &end
	got = TimeEntryFromRow(e.Row())
	require.False(t, got.Running())
}

func TestItemsTotal(t *testing.T) {
	items := []Item{
		{Qty: 2, UnitPrice: 50},
		{Qty: 1.5, UnitPrice: 100},
	}
	require.InDelta(t, 250.0, ItemsTotal(items), 1e-9)
}
