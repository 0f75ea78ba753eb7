package schemair

// InferNullability walks n top-down, deriving Nullable from each enclosing
// object's Required set. It must run after collapse (see DESIGN.md and
// spec.md §9): collapse's object-merge recomputes Required from the union
// of both sides, and nullability has to be re-derived from that merged
// set, not the pre-collapse one.
//
// Under forceNullable every object field is nullable regardless of
// Required.
func InferNullability(n *Node, forceNullable bool) {
	if n == nil {
		return
	}

	switch n.Kind {
	case KindNull:
		n.Nullable = true

	case KindObject:
		for key, child := range n.Fields {
			if forceNullable {
				child.Nullable = true
			} else {
				child.Nullable = !n.Required[key]
			}

			InferNullability(child, forceNullable)
		}

	case KindArray:
		InferNullability(n.Items, forceNullable)

	case KindTuple:
		for _, child := range n.Tuple {
			InferNullability(child, forceNullable)
		}

	case KindMap:
		InferNullability(n.MapValue, forceNullable)
	}
}
