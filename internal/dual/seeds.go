package dual

// Seeding builds the input duals for an evaluation scope. All seeds
// from one call share a single VarSet allocation, so arithmetic among
// them classifies as VarsSameRef and never reconciles.

// SeedFirstOrder returns one first-order dual per identifier, seeded
// with the matching value and a unit partial for its own variable.
// len(values) must equal len(ids).
func SeedFirstOrder(ids []string, values []float64) (map[string]*Dual, error) {
	vars, err := NewVarSet(ids)
	if err != nil {
		return nil, err
	}
	if len(values) != vars.Len() {
		return nil, newGradSizeError(len(values), vars.Len())
	}
	seeds := make(map[string]*Dual, len(ids))
	for i, id := range ids {
		seeds[id] = seedDualAt(values[i], vars, i)
	}
	return seeds, nil
}

// SeedSecondOrder is SeedFirstOrder for second-order duals: unit
// partials, zero Hessians, one shared VarSet.
func SeedSecondOrder(ids []string, values []float64) (map[string]*Dual2, error) {
	vars, err := NewVarSet(ids)
	if err != nil {
		return nil, err
	}
	if len(values) != vars.Len() {
		return nil, newGradSizeError(len(values), vars.Len())
	}
	seeds := make(map[string]*Dual2, len(ids))
	for i, id := range ids {
		seeds[id] = seedDual2At(values[i], vars, i)
	}
	return seeds, nil
}
