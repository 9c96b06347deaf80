package avro

var simpleTypes = []string{Null, Boolean, Int, Long, Float, Double, Bytes, String}

func simpleUnion() []Schema {
	out := make([]Schema, 0, len(simpleTypes)+2)
	for _, name := range simpleTypes {
		out = append(out, Prim(name))
	}
	return out
}

// Generic returns the fallback type used where a JSON Schema fragment has no
// usable shape: every primitive plus an array and a map whose elements are
// again primitives or one more level of array and map of primitives.
func Generic() *Union {
	l2 := append(simpleUnion(),
		&Array{Items: &Union{Types: simpleUnion()}},
		&Map{Values: &Union{Types: simpleUnion()}},
	)
	l1 := append(simpleUnion(),
		&Array{Items: &Union{Types: l2}},
		&Map{Values: &Union{Types: cloneTypes(l2)}},
	)
	return &Union{Types: l1}
}

func cloneTypes(ts []Schema) []Schema {
	out := make([]Schema, len(ts))
	for i, t := range ts {
		out[i] = Clone(t)
	}
	return out
}
