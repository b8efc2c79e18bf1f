// Package timeline reconstructs a unified, chronologically ordered trace
// of a trip from its independent event sources: manual trip events, fuel
// loads, checklist completions and status milestones.
package timeline

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

type EntryKind string

const (
	KindEvent     EntryKind = "event"
	KindFuel      EntryKind = "fuel"
	KindChecklist EntryKind = "checklist"
	KindStatus    EntryKind = "status"
)

// ChecklistWindow is the correlation window around the trip's scheduled
// boundaries within which a checklist completion is attributed to the
// trip. There is no foreign key between checklist completions and trips;
// this join is a deliberate best-effort heuristic and false positives or
// negatives near the boundary are accepted.
const ChecklistWindow = 12 * time.Hour

// Entry is one chronologically placed fact about a trip.
type Entry struct {
	Kind      EntryKind `json:"kind"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	Title     string    `json:"title"`
	Details   string    `json:"details"`
	SourceRef uuid.UUID `json:"source_ref"`
}

// ChecklistContext is a completed checklist as seen by the timeline: which
// definition, when the last item was answered, and how compliant it came
// out.
type ChecklistContext struct {
	ChecklistID          uuid.UUID
	Name                 string
	CompletedAt          time.Time
	CompletedItems       int
	TotalItems           int
	CompliancePercentage int
}

// Build merges the trip's sources into one ordered trace. Pure projection:
// inputs are never mutated and identical inputs produce identical output.
//
// Entries sharing a timestamp keep the emission order: events, then fuel
// loads, then checklists, then milestones (stable sort, no secondary key).
func Build(
	trip model.Trip,
	events []model.TripEvent,
	fuelLoads []model.FuelLoad,
	checklists []ChecklistContext,
) []Entry {
	entries := make([]Entry, 0, len(events)+len(fuelLoads)+len(checklists)+3)

	for _, event := range events {
		entries = append(entries, Entry{
			Kind:      KindEvent,
			Category:  event.Kind,
			Timestamp: event.Timestamp,
			Title:     event.Kind,
			Details:   eventDetails(event),
			SourceRef: event.ID,
		})
	}

	for _, load := range fuelLoads {
		entries = append(entries, Entry{
			Kind:      KindFuel,
			Category:  "fuel_load",
			Timestamp: load.Timestamp,
			Title:     "Fuel load",
			Details: fmt.Sprintf("%sL @ %s/L — total %s",
				formatAmount(load.Liters),
				formatAmount(load.PricePerLiter),
				formatAmount(load.TotalCost)),
			SourceRef: load.ID,
		})
	}

	lower, upper := checklistBounds(trip)
	for _, ctx := range checklists {
		if ctx.CompletedAt.Before(lower) || ctx.CompletedAt.After(upper) {
			continue
		}
		entries = append(entries, Entry{
			Kind:      KindChecklist,
			Category:  "checklist",
			Timestamp: ctx.CompletedAt,
			Title:     ctx.Name,
			Details: fmt.Sprintf("%d/%d items, %d%% compliant",
				ctx.CompletedItems, ctx.TotalItems, ctx.CompliancePercentage),
			SourceRef: ctx.ChecklistID,
		})
	}

	entries = append(entries, Entry{
		Kind:      KindStatus,
		Category:  "milestone",
		Timestamp: trip.ScheduledStart,
		Title:     "Scheduled start",
		Details:   fmt.Sprintf("%s → %s", trip.Origin, trip.Destination),
		SourceRef: trip.ID,
	})
	if trip.ActualStart != nil {
		entries = append(entries, Entry{
			Kind:      KindStatus,
			Category:  "milestone",
			Timestamp: *trip.ActualStart,
			Title:     "Trip started",
			SourceRef: trip.ID,
		})
	}
	if trip.ActualEnd != nil {
		entries = append(entries, Entry{
			Kind:      KindStatus,
			Category:  "milestone",
			Timestamp: *trip.ActualEnd,
			Title:     "Trip ended",
			SourceRef: trip.ID,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.Before(entries[j].Timestamp)
	})
	return entries
}

func checklistBounds(trip model.Trip) (time.Time, time.Time) {
	end := trip.ScheduledEnd
	if trip.ActualEnd != nil && trip.ActualEnd.After(end) {
		end = *trip.ActualEnd
	}
	return trip.ScheduledStart.Add(-ChecklistWindow), end.Add(ChecklistWindow)
}

func eventDetails(event model.TripEvent) string {
	if event.Location != "" && event.Description != "" {
		return event.Description + " (" + event.Location + ")"
	}
	if event.Location != "" {
		return event.Location
	}
	return event.Description
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
