package timeline

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

func testTrip() model.Trip {
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	return model.Trip{
		ID:             uuid.New(),
		Origin:         "Puerto Montt",
		Destination:    "Chiloé",
		ScheduledStart: start,
		ScheduledEnd:   start.Add(6 * time.Hour),
		Status:         model.TripInProgress,
	}
}

func TestBuild_ChronologicalOrder(t *testing.T) {
	trip := testTrip()
	base := trip.ScheduledStart

	events := []model.TripEvent{
		{ID: uuid.New(), TripID: trip.ID, Kind: "checkpoint", Timestamp: base.Add(2 * time.Hour)},
		{ID: uuid.New(), TripID: trip.ID, Kind: "stop", Timestamp: base.Add(30 * time.Minute)},
	}
	fuel := []model.FuelLoad{
		{ID: uuid.New(), Liters: 40, PricePerLiter: 1.2, TotalCost: 48, Timestamp: base.Add(time.Hour)},
	}
	checklists := []ChecklistContext{
		{ChecklistID: uuid.New(), Name: "pre-trip brakes", CompletedAt: base.Add(-time.Hour), CompletedItems: 5, TotalItems: 5, CompliancePercentage: 100},
	}

	entries := Build(trip, events, fuel, checklists)
	require.NotEmpty(t, entries)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.Before(entries[i-1].Timestamp),
			"entry %d out of order", i)
	}
}

func TestBuild_MilestonesAlwaysIncludeScheduledStart(t *testing.T) {
	trip := testTrip()

	entries := Build(trip, nil, nil, nil)
	require.Len(t, entries, 1)
	assert.Equal(t, KindStatus, entries[0].Kind)
	assert.Equal(t, "Scheduled start", entries[0].Title)
	assert.Equal(t, "Puerto Montt → Chiloé", entries[0].Details)
	assert.Equal(t, trip.ID, entries[0].SourceRef)
}

func TestBuild_ActualMilestonesWhenPresent(t *testing.T) {
	trip := testTrip()
	started := trip.ScheduledStart.Add(15 * time.Minute)
	ended := trip.ScheduledEnd.Add(time.Hour)
	trip.ActualStart = &started
	trip.ActualEnd = &ended

	entries := Build(trip, nil, nil, nil)
	require.Len(t, entries, 3)
	assert.Equal(t, "Scheduled start", entries[0].Title)
	assert.Equal(t, "Trip started", entries[1].Title)
	assert.Equal(t, "Trip ended", entries[2].Title)
}

func TestBuild_FuelDetailFormatting(t *testing.T) {
	trip := testTrip()
	fuel := []model.FuelLoad{
		{ID: uuid.New(), Liters: 42.5, PricePerLiter: 1.35, TotalCost: 57.375, Timestamp: trip.ScheduledStart.Add(time.Hour)},
	}

	entries := Build(trip, nil, fuel, nil)
	var found bool
	for _, entry := range entries {
		if entry.Kind == KindFuel {
			found = true
			assert.Equal(t, "42.5L @ 1.35/L — total 57.375", entry.Details)
		}
	}
	assert.True(t, found)
}

func TestBuild_ChecklistWindowFilter(t *testing.T) {
	trip := testTrip()

	inside := ChecklistContext{
		ChecklistID: uuid.New(),
		Name:        "inside",
		CompletedAt: trip.ScheduledStart.Add(-ChecklistWindow),
	}
	before := ChecklistContext{
		ChecklistID: uuid.New(),
		Name:        "too early",
		CompletedAt: trip.ScheduledStart.Add(-ChecklistWindow - time.Minute),
	}
	after := ChecklistContext{
		ChecklistID: uuid.New(),
		Name:        "too late",
		CompletedAt: trip.ScheduledEnd.Add(ChecklistWindow + time.Minute),
	}

	entries := Build(trip, nil, nil, []ChecklistContext{inside, before, after})
	var names []string
	for _, entry := range entries {
		if entry.Kind == KindChecklist {
			names = append(names, entry.Title)
		}
	}
	assert.Equal(t, []string{"inside"}, names)
}

func TestBuild_ChecklistWindowExtendsToActualEnd(t *testing.T) {
	trip := testTrip()
	late := trip.ScheduledEnd.Add(10 * time.Hour)
	trip.ActualEnd = &late

	post := ChecklistContext{
		ChecklistID: uuid.New(),
		Name:        "post-trip wash",
		CompletedAt: late.Add(ChecklistWindow - time.Minute),
	}

	entries := Build(trip, nil, nil, []ChecklistContext{post})
	var found bool
	for _, entry := range entries {
		if entry.Kind == KindChecklist {
			found = true
		}
	}
	assert.True(t, found)
}

func TestBuild_TiesKeepEmissionOrder(t *testing.T) {
	trip := testTrip()
	at := trip.ScheduledStart

	events := []model.TripEvent{
		{ID: uuid.New(), Kind: "departure", Timestamp: at},
	}
	fuel := []model.FuelLoad{
		{ID: uuid.New(), Liters: 10, Timestamp: at},
	}
	checklists := []ChecklistContext{
		{ChecklistID: uuid.New(), Name: "pre-trip", CompletedAt: at},
	}

	entries := Build(trip, events, fuel, checklists)
	require.Len(t, entries, 4)
	assert.Equal(t, KindEvent, entries[0].Kind)
	assert.Equal(t, KindFuel, entries[1].Kind)
	assert.Equal(t, KindChecklist, entries[2].Kind)
	assert.Equal(t, KindStatus, entries[3].Kind)
}

func TestBuild_Deterministic(t *testing.T) {
	trip := testTrip()
	events := []model.TripEvent{
		{ID: uuid.New(), Kind: "stop", Location: "Pargua", Timestamp: trip.ScheduledStart.Add(time.Hour)},
	}

	first := Build(trip, events, nil, nil)
	second := Build(trip, events, nil, nil)
	assert.Equal(t, first, second)
}

func TestBuild_EventDetails(t *testing.T) {
	trip := testTrip()
	events := []model.TripEvent{
		{ID: uuid.New(), Kind: "incident", Description: "flat tire", Location: "Ruta 5", Timestamp: trip.ScheduledStart},
		{ID: uuid.New(), Kind: "stop", Location: "Pargua", Timestamp: trip.ScheduledStart},
		{ID: uuid.New(), Kind: "note", Description: "light rain", Timestamp: trip.ScheduledStart},
	}

	entries := Build(trip, events, nil, nil)
	assert.Equal(t, "flat tire (Ruta 5)", entries[0].Details)
	assert.Equal(t, "Pargua", entries[1].Details)
	assert.Equal(t, "light rain", entries[2].Details)
}
