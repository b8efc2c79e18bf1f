package checklist

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SebastianInformatico/COTRAQ-sub000/internal/model"
)

func def(name string, phase model.ChecklistPhase, cargo model.CargoCategory, vehicle model.VehicleCategory, mandatory bool) model.ChecklistDefinition {
	return model.ChecklistDefinition{
		ID:              uuid.New(),
		Name:            name,
		Phase:           phase,
		CargoCategory:   cargo,
		VehicleCategory: vehicle,
		Mandatory:       mandatory,
		Active:          true,
		Version:         1,
	}
}

func TestResolveApplicable_FiltersPhaseCargoVehicle(t *testing.T) {
	catalog := []model.ChecklistDefinition{
		def("brakes", model.PhasePreTrip, model.CargoGeneral, model.VehicleAll, true),
		def("cold-chain", model.PhasePreTrip, model.CargoMussels, model.VehicleRefrigerated, true),
		def("feed-silo", model.PhasePreTrip, model.CargoFeed, model.VehicleAll, false),
		def("unload", model.PhasePostTrip, model.CargoGeneral, model.VehicleAll, true),
	}

	matched := ResolveApplicable(model.PhasePreTrip, model.CargoMussels, model.VehicleRefrigerated, catalog)
	require.Len(t, matched, 2)
	assert.Equal(t, "brakes", matched[0].Name)
	assert.Equal(t, "cold-chain", matched[1].Name)
}

func TestResolveApplicable_WildcardsMatchEverything(t *testing.T) {
	catalog := []model.ChecklistDefinition{
		def("universal", model.PhaseSafety, model.CargoGeneral, model.VehicleAll, false),
	}

	for _, cargo := range []model.CargoCategory{model.CargoFeed, model.CargoMussels, model.CargoFinishedProduct, model.CargoGeneral} {
		matched := ResolveApplicable(model.PhaseSafety, cargo, model.VehicleTank, catalog)
		assert.Len(t, matched, 1, "cargo %s", cargo)
	}
}

func TestResolveApplicable_SpecificCargoDoesNotMatchOtherCargo(t *testing.T) {
	catalog := []model.ChecklistDefinition{
		def("feed-only", model.PhasePreTrip, model.CargoFeed, model.VehicleAll, true),
	}

	matched := ResolveApplicable(model.PhasePreTrip, model.CargoMussels, model.VehicleTruck, catalog)
	assert.Empty(t, matched)
}

func TestResolveApplicable_SkipsInactive(t *testing.T) {
	inactive := def("retired", model.PhasePreTrip, model.CargoGeneral, model.VehicleAll, true)
	inactive.Active = false
	catalog := []model.ChecklistDefinition{inactive}

	assert.Empty(t, ResolveApplicable(model.PhasePreTrip, model.CargoGeneral, model.VehicleTruck, catalog))
}

func TestResolveApplicable_SortedByName(t *testing.T) {
	catalog := []model.ChecklistDefinition{
		def("zeta", model.PhasePreTrip, model.CargoGeneral, model.VehicleAll, false),
		def("alpha", model.PhasePreTrip, model.CargoGeneral, model.VehicleAll, false),
		def("mid", model.PhasePreTrip, model.CargoGeneral, model.VehicleAll, false),
	}

	matched := ResolveApplicable(model.PhasePreTrip, model.CargoGeneral, model.VehicleVan, catalog)
	require.Len(t, matched, 3)
	assert.Equal(t, "alpha", matched[0].Name)
	assert.Equal(t, "mid", matched[1].Name)
	assert.Equal(t, "zeta", matched[2].Name)
}

func TestResolveApplicable_KeepsBothActiveVersions(t *testing.T) {
	v1 := def("tires", model.PhasePreTrip, model.CargoGeneral, model.VehicleAll, true)
	v2 := def("tires", model.PhasePreTrip, model.CargoGeneral, model.VehicleAll, true)
	v2.Version = 2
	catalog := []model.ChecklistDefinition{v1, v2}

	matched := ResolveApplicable(model.PhasePreTrip, model.CargoGeneral, model.VehicleTruck, catalog)
	assert.Len(t, matched, 2)
}

func TestResolveMandatory(t *testing.T) {
	catalog := []model.ChecklistDefinition{
		def("brakes", model.PhasePreTrip, model.CargoGeneral, model.VehicleAll, true),
		def("radio-check", model.PhasePreTrip, model.CargoGeneral, model.VehicleAll, false),
	}

	mandatory := ResolveMandatory(model.PhasePreTrip, model.CargoFeed, model.VehicleTruck, catalog)
	require.Len(t, mandatory, 1)
	assert.Equal(t, "brakes", mandatory[0].Name)
}
