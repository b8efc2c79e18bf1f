package checklist

import (
	"math"

	"github.com/google/uuid"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

// ComplianceSummary is the per-checklist progress and compliance picture
// for one trip.
type ComplianceSummary struct {
	ChecklistID          uuid.UUID `json:"checklist_id"`
	TotalItems           int       `json:"total_items"`
	CompletedItems       int       `json:"completed_items"`
	CompliantItems       int       `json:"compliant_items"`
	PendingReview        int       `json:"pending_review"`
	CompletionPercentage int       `json:"completion_percentage"`
	CompliancePercentage int       `json:"compliance_percentage"`
}

// Summarize groups a trip's responses by owning checklist and computes the
// compliance statistics per checklist. The denominator comes from the
// authoritative item lists, so unanswered items count toward completion.
//
// Compliance per response: an explicit verdict wins; else a boolean value
// speaks for itself; else the response counts as compliant. Free-text and
// numeric answers carry no inherent pass/fail semantics, and absence of an
// explicit negative signal is not non-compliance.
func Summarize(
	tripID uuid.UUID,
	responses []model.ChecklistResponse,
	itemsByChecklist map[uuid.UUID][]model.ChecklistItemDefinition,
) map[uuid.UUID]ComplianceSummary {
	itemOwner := make(map[uuid.UUID]uuid.UUID)
	for checklistID, items := range itemsByChecklist {
		for _, item := range items {
			itemOwner[item.ID] = checklistID
		}
	}

	summaries := make(map[uuid.UUID]ComplianceSummary, len(itemsByChecklist))
	for checklistID, items := range itemsByChecklist {
		summaries[checklistID] = ComplianceSummary{
			ChecklistID: checklistID,
			TotalItems:  len(items),
		}
	}

	for _, resp := range responses {
		if resp.TripID != tripID || resp.DeletedAt != nil {
			continue
		}
		checklistID, owned := itemOwner[resp.ItemID]
		if !owned {
			continue
		}
		summary := summaries[checklistID]
		summary.CompletedItems++
		if isCompliant(resp) {
			summary.CompliantItems++
		}
		if resp.ReviewStatus == model.ReviewPending {
			summary.PendingReview++
		}
		summaries[checklistID] = summary
	}

	for checklistID, summary := range summaries {
		if summary.TotalItems == 0 {
			// Vacuously complete.
			summary.CompletionPercentage = 100
		} else {
			summary.CompletionPercentage = roundPercent(summary.CompletedItems, summary.TotalItems)
		}
		if summary.CompletedItems > 0 {
			summary.CompliancePercentage = roundPercent(summary.CompliantItems, summary.CompletedItems)
		}
		summaries[checklistID] = summary
	}

	return summaries
}

func isCompliant(resp model.ChecklistResponse) bool {
	if resp.Compliant != nil {
		return *resp.Compliant
	}
	if resp.ValueBool != nil {
		return *resp.ValueBool
	}
	return true
}

// roundPercent is round-half-up to the nearest integer percentage.
func roundPercent(part, whole int) int {
	return int(math.Floor(float64(part)/float64(whole)*100 + 0.5))
}
