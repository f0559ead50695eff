package constraint

import "github.com/solverforge/constraintcore/model"

// resolveMargin, resolveSolref and resolveSolimp implement spec.md §9's override
// semantics: when Option.EnableOverride is set, every row — regardless of which element
// it was built from — adopts the option's margin/solref/solimp uniformly. Every
// instantiator calls these during row construction; params.go assembles parameters from
// the already-resolved rowSpec values, so the override carries through to assembly.
func resolveMargin(o model.Option, elementMargin float64) float64 {
	if o.Override() {
		return o.OverrideMargin
	}
	return elementMargin
}

func resolveSolref(o model.Option, elementSolref model.Solref) model.Solref {
	if o.Override() {
		return model.Solref(o.OverrideSolref)
	}
	return elementSolref
}

func resolveSolimp(o model.Option, elementSolimp model.Solimp) model.Solimp {
	if o.Override() {
		return model.Solimp(o.OverrideSolimp)
	}
	return elementSolimp
}
