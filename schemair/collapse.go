package schemair

// CollapseTree walks n, collapsing every Union node found anywhere in the
// tree (object fields, array items, tuple elements, map values, and n
// itself) into a single non-union node. It returns the replacement for n
// itself (which differs from n only when n.Kind == KindUnion).
//
// Name inference must run after CollapseTree, not before: collapse
// rewrites tree shape (merging object fields, flattening unions), so names
// assigned beforehand would describe a tree that no longer exists. See
// spec.md §9.
func CollapseTree(n *Node) (*Node, error) {
	if n == nil {
		return nil, nil
	}

	switch n.Kind {
	case KindObject:
		for key, child := range n.Fields {
			collapsed, err := CollapseTree(child)
			if err != nil {
				return nil, err
			}

			n.Fields[key] = collapsed
		}

		return n, nil

	case KindArray:
		collapsed, err := CollapseTree(n.Items)
		if err != nil {
			return nil, err
		}

		n.Items = collapsed

		return n, nil

	case KindTuple:
		for i, item := range n.Tuple {
			collapsed, err := CollapseTree(item)
			if err != nil {
				return nil, err
			}

			n.Tuple[i] = collapsed
		}

		return n, nil

	case KindMap:
		collapsed, err := CollapseTree(n.MapValue)
		if err != nil {
			return nil, err
		}

		n.MapValue = collapsed

		return n, nil

	case KindUnion:
		branches := make([]*Node, len(n.Union))

		for i, b := range n.Union {
			collapsed, err := CollapseTree(b)
			if err != nil {
				return nil, err
			}

			branches[i] = collapsed
		}

		return Collapse(branches)

	default:
		return n, nil
	}
}

// Collapse reduces an ordered list of branch IR nodes to a single
// non-union node: the structural merge of the intermediate schema's core
// algorithm (spec.md §4.E). branches is assumed already union-free
// (CollapseTree guarantees this by collapsing each branch before calling
// Collapse); a raw nested Union branch is still flattened defensively so
// Collapse is safe to call directly, e.g. from tests exercising the
// testable properties in spec.md §8.
func Collapse(branches []*Node) (*Node, error) {
	if len(branches) == 0 {
		return nil, ErrEmptyUnion
	}

	isNull := false

	var flattened []*Node

	for _, b := range branches {
		if b.IsNull() {
			isNull = true
			continue
		}

		if b.IsUnion() {
			c, err := Collapse(b.Union)
			if err != nil {
				return nil, err
			}

			if c.IsNull() {
				isNull = true
				continue
			}

			if c.Nullable {
				isNull = true
			}

			c.Name = b.Name
			c.Namespace = b.Namespace
			flattened = append(flattened, c)

			continue
		}

		flattened = append(flattened, b)
	}

	if len(flattened) == 0 {
		return NewNull(), nil
	}

	if len(flattened) == 1 {
		out := flattened[0]
		out.Nullable = isNull

		return out, nil
	}

	nullable := isNull
	for _, b := range flattened {
		if b.Nullable {
			nullable = true
		}
	}

	merged, err := structuralMerge(flattened)
	if err != nil {
		return nil, err
	}

	merged.Nullable = nullable
	merged.Name = ""
	merged.Namespace = ""

	InferNullability(merged, false)

	return merged, nil
}

// structuralMerge dispatches the union's surviving, non-null branches to
// the matching fold: all-atoms, all-objects, all-maps, all-arrays, or
// (falling back) Atom(JSON) for any other mix.
func structuralMerge(branches []*Node) (*Node, error) {
	allAtoms, allObjects, allArrays, allMaps := true, true, true, true

	for _, b := range branches {
		allAtoms = allAtoms && b.IsAtom()
		allObjects = allObjects && b.IsObject()
		allArrays = allArrays && b.IsArray()
		allMaps = allMaps && b.IsMap()
	}

	switch {
	case allAtoms:
		return mergeAtoms(branches), nil
	case allObjects:
		return mergeObjects(branches)
	case allMaps:
		return mergeMaps(branches)
	case allArrays:
		return mergeArrays(branches)
	default:
		return NewAtom(AtomJSON), nil
	}
}

// atomJoin folds two atom kinds per the lattice in spec.md §4.E: equal
// kinds are idempotent, Integer/Number widen to Number, every other
// disagreement goes to the JSON top.
func atomJoin(a, b AtomKind) AtomKind {
	if a == b {
		return a
	}

	if (a == AtomInteger && b == AtomNumber) || (a == AtomNumber && b == AtomInteger) {
		return AtomNumber
	}

	return AtomJSON
}

func mergeAtoms(branches []*Node) *Node {
	result := branches[0].Atom
	for _, b := range branches[1:] {
		result = atomJoin(result, b.Atom)
	}

	return NewAtom(result)
}

// mergeObjects unions the field sets, recursively collapsing the IRs of
// any field present on more than one side, and unions the required sets.
// A merged field resolving to Atom(JSON) makes the whole object
// "inconsistent" and the merge yields Atom(JSON) instead (invariant 6).
func mergeObjects(branches []*Node) (*Node, error) {
	fieldBranches := map[string][]*Node{}
	required := map[string]bool{}

	for _, b := range branches {
		for key, child := range b.Fields {
			fieldBranches[key] = append(fieldBranches[key], child)
		}

		for key, req := range b.Required {
			if req {
				required[key] = true
			}
		}
	}

	fields := map[string]*Node{}

	for key, list := range fieldBranches {
		var merged *Node

		if len(list) == 1 {
			merged = list[0]
		} else {
			var err error

			merged, err = Collapse(list)
			if err != nil {
				return nil, err
			}
		}

		fields[key] = merged
	}

	for _, f := range fields {
		if f.IsAtom() && f.Atom == AtomJSON {
			return NewAtom(AtomJSON), nil
		}
	}

	return NewObject(fields, required), nil
}

func mergeMaps(branches []*Node) (*Node, error) {
	values := make([]*Node, len(branches))
	for i, b := range branches {
		values[i] = b.MapValue
	}

	merged, err := Collapse(values)
	if err != nil {
		return nil, err
	}

	return NewMap(merged), nil
}

func mergeArrays(branches []*Node) (*Node, error) {
	items := make([]*Node, len(branches))
	for i, b := range branches {
		items[i] = b.Items
	}

	merged, err := Collapse(items)
	if err != nil {
		return nil, err
	}

	return NewArray(merged), nil
}
