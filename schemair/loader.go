package schemair

import (
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
)

// Load lifts a structural-schema document into the IR (component F,
// spec.md §4.F). The returned node is the sole node in the tree with
// IsRoot set; collapse, name inference, and nullability inference are
// applied to it afterward, once, by the lowering entry points — Load
// itself never invokes them.
func Load(s *jsonschema.Schema, ctx Context) *Node {
	n := loadSchema(s, ctx)
	n.IsRoot = true

	return n
}

func loadSchema(s *jsonschema.Schema, ctx Context) *Node {
	if s == nil {
		return NewAtom(AtomJSON)
	}

	var n *Node

	switch {
	case len(s.OneOf) > 0:
		n = loadUnionOfSchemas(s.OneOf, ctx)
	case len(s.AnyOf) > 0:
		n = loadUnionOfSchemas(s.AnyOf, ctx)
	case len(s.Types) > 0:
		n = loadUnionOfTypeNames(s.Types, s.Format)
	case s.Type == "object" || (s.Type == "" && isObjectLike(s)):
		n = loadObjectLike(s, ctx)
	case s.Type == "array":
		n = loadArray(s, ctx)
	case s.Type != "":
		n = loadAtom(s.Type, s.Format)
	default:
		n = NewAtom(AtomJSON)
	}

	n.Title = s.Title
	n.Description = s.Description

	return n
}

// isObjectLike reports whether an untyped schema should still be treated
// as an object, based on it carrying object-only keywords.
func isObjectLike(s *jsonschema.Schema) bool {
	return len(s.Properties) > 0 || len(s.PatternProperties) > 0 || s.AdditionalProperties != nil
}

func loadAtom(typeName, format string) *Node {
	switch typeName {
	case "null":
		return NewNull()
	case "boolean":
		return NewAtom(AtomBoolean)
	case "integer":
		return NewAtom(AtomInteger)
	case "number":
		return NewAtom(AtomNumber)
	case "string":
		switch format {
		case "date-time":
			return NewAtom(AtomDatetime)
		case "bytes":
			return NewAtom(AtomBytes)
		default:
			return NewAtom(AtomString)
		}
	default:
		return NewAtom(AtomJSON)
	}
}

func loadUnionOfTypeNames(names []string, format string) *Node {
	items := make([]*Node, len(names))
	for i, name := range names {
		items[i] = loadAtom(name, format)
	}

	return unionOrSingle(items)
}

func loadUnionOfSchemas(schemas []*jsonschema.Schema, ctx Context) *Node {
	items := make([]*Node, len(schemas))
	for i, sub := range schemas {
		items[i] = loadSchema(sub, ctx)
	}

	return unionOrSingle(items)
}

func unionOrSingle(items []*Node) *Node {
	if len(items) == 1 {
		return items[0]
	}

	return NewUnion(items)
}

// loadObjectLike dispatches an object-typed schema to Object or Map
// depending on which of properties/additionalProperties/patternProperties
// it carries (spec.md §4.F).
func loadObjectLike(s *jsonschema.Schema, ctx Context) *Node {
	switch {
	case len(s.Properties) > 0:
		return loadObject(s, ctx)
	case len(s.PatternProperties) > 0 || isConstrainedSchema(s.AdditionalProperties):
		return loadMap(s, ctx)
	default:
		return NewObject(nil, nil)
	}
}

// isConstrainedSchema reports whether s is present and neither the
// default-true nor the explicit-false schema — i.e. it actually
// constrains a value's shape.
func isConstrainedSchema(s *jsonschema.Schema) bool {
	return s != nil && !isTrueSchema(s) && !isFalseSchema(s)
}

func loadObject(s *jsonschema.Schema, ctx Context) *Node {
	fields := make(map[string]*Node, len(s.Properties))

	for key, sub := range s.Properties {
		name := key
		if ctx.NormalizeCase {
			name = ToSnakeCase(name)
		}

		fields[name] = loadSchema(sub, ctx)
	}

	required := make(map[string]bool, len(s.Required))

	for _, key := range s.Required {
		if ctx.NormalizeCase {
			key = ToSnakeCase(key)
		}

		required[key] = true
	}

	return NewObject(fields, required)
}

// loadMap builds a Map node whose value is the union of the
// additionalProperties schema (when it actually constrains a value) and
// any patternProperties schemas. If additionalProperties is false and
// patternProperties has exactly one schema, that schema alone is the map
// value — isConstrainedSchema already excludes the false schema from the
// candidate list, so this falls out of the general case without a special
// branch.
func loadMap(s *jsonschema.Schema, ctx Context) *Node {
	var candidates []*Node

	if isConstrainedSchema(s.AdditionalProperties) {
		candidates = append(candidates, loadSchema(s.AdditionalProperties, ctx))
	}

	keys := make([]string, 0, len(s.PatternProperties))
	for k := range s.PatternProperties {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		candidates = append(candidates, loadSchema(s.PatternProperties[k], ctx))
	}

	if len(candidates) == 0 {
		candidates = []*Node{NewAtom(AtomJSON)}
	}

	return NewMap(unionOrSingle(candidates))
}

// loadArray builds an Array or Tuple node. A positional `prefixItems` list
// becomes a Tuple under TupleStruct, else a single Array element type that
// is the collapsed union of the positional schemas. A numeric MaxItems
// greater than the positional list's length pads the remainder with a
// nullable Integer atom (spec.md §9 Open Question (a): observed-in-
// fixtures behavior, preserved as-is rather than justified from first
// principles).
func loadArray(s *jsonschema.Schema, ctx Context) *Node {
	if len(s.PrefixItems) > 0 {
		items := make([]*Node, len(s.PrefixItems))
		for i, sub := range s.PrefixItems {
			items[i] = loadSchema(sub, ctx)
		}

		if s.MaxItems != nil && *s.MaxItems > len(items) {
			for len(items) < *s.MaxItems {
				pad := NewAtom(AtomInteger)
				pad.Nullable = true
				items = append(items, pad)
			}
		}

		if ctx.TupleStruct {
			return NewTuple(items)
		}

		return NewArray(unionOrSingle(items))
	}

	return NewArray(loadSchema(s.Items, ctx))
}
