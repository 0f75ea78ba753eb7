package schemair

// InferNames walks the tree top-down from n, assigning Name and Namespace
// to every reachable descendant. n itself is expected to already carry the
// name it should be known by (the lowering entry points set it to "root"
// before calling); the namespace for n's own children starts at n's
// current name.
//
// Positional names: object children take their key; an array's element is
// named "items"; a map's value is named "value" (the key side is implicit
// and unnamed); a tuple's elements are named positionally by the caller
// during lowering, not here; a union's branches are each named
// "__union__".
//
// When normalizeCase is set, every object key is passed through
// ToSnakeCase before it is assigned as a name; the fixed positional names
// ("items", "value", "__union__") are assigned as they are.
func InferNames(n *Node, normalizeCase bool) {
	if n == nil {
		return
	}

	inferNamesHelper(n, n.Name, normalizeCase)
}

func inferNamesHelper(n *Node, namespace string, normalizeCase bool) {
	switch n.Kind {
	case KindObject:
		for key, child := range n.Fields {
			name := key
			if normalizeCase {
				name = ToSnakeCase(name)
			}

			child.Name = name
			child.Namespace = namespace
			inferNamesHelper(child, fullyQualifiedName(namespace, name), normalizeCase)
		}

	case KindArray:
		if n.Items != nil {
			n.Items.Name = "items"
			n.Items.Namespace = namespace
			inferNamesHelper(n.Items, fullyQualifiedName(namespace, "items"), normalizeCase)
		}

	case KindTuple:
		for _, child := range n.Tuple {
			child.Namespace = namespace
			inferNamesHelper(child, namespace, normalizeCase)
		}

	case KindMap:
		if n.MapValue != nil {
			n.MapValue.Name = "value"
			n.MapValue.Namespace = namespace
			inferNamesHelper(n.MapValue, fullyQualifiedName(namespace, "value"), normalizeCase)
		}

	case KindUnion:
		for _, branch := range n.Union {
			branch.Name = "__union__"
			branch.Namespace = namespace
			inferNamesHelper(branch, fullyQualifiedName(namespace, "__union__"), normalizeCase)
		}
	}
}

// FullyQualifiedName returns n's diagnostic name, namespace + "." + name
// with the leading separator dropped when namespace is empty.
func FullyQualifiedName(n *Node) string {
	if n == nil {
		return ""
	}

	return fullyQualifiedName(n.Namespace, n.Name)
}
