package checklist

import (
	"sort"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

// ResolveApplicable selects the active definitions that apply to a trip in
// the given phase, for the given cargo and vehicle categories. A "general"
// cargo category and an "all" vehicle category on the definition act as
// wildcards. Results are sorted by name ascending so display order and
// aggregation keying stay deterministic.
//
// Two active versions of the same definition both match; no deduplication
// by name happens here.
func ResolveApplicable(
	phase model.ChecklistPhase,
	cargo model.CargoCategory,
	vehicle model.VehicleCategory,
	catalog []model.ChecklistDefinition,
) []model.ChecklistDefinition {
	matched := make([]model.ChecklistDefinition, 0, len(catalog))
	for _, def := range catalog {
		if matches(def, phase, cargo, vehicle) {
			matched = append(matched, def)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})
	return matched
}

// ResolveMandatory is ResolveApplicable narrowed to mandatory definitions.
// Used to compute the blocking requirements before a trip may leave the
// scheduled status.
func ResolveMandatory(
	phase model.ChecklistPhase,
	cargo model.CargoCategory,
	vehicle model.VehicleCategory,
	catalog []model.ChecklistDefinition,
) []model.ChecklistDefinition {
	applicable := ResolveApplicable(phase, cargo, vehicle, catalog)
	mandatory := applicable[:0:0]
	for _, def := range applicable {
		if def.Mandatory {
			mandatory = append(mandatory, def)
		}
	}
	return mandatory
}

func matches(
	def model.ChecklistDefinition,
	phase model.ChecklistPhase,
	cargo model.CargoCategory,
	vehicle model.VehicleCategory,
) bool {
	if !def.Active || def.Phase != phase {
		return false
	}
	if def.CargoCategory != model.CargoGeneral && def.CargoCategory != cargo {
		return false
	}
	if def.VehicleCategory != model.VehicleAll && def.VehicleCategory != vehicle {
		return false
	}
	return true
}
