package schemair

import (
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
)

// maxDescriptionRunes bounds a Column's Description, matching the target
// dialect's own field-comment length limit (spec.md §4.H).
const maxDescriptionRunes = 1024

// Column is one field of a table-oriented (BigQuery-style) schema,
// spec.md §4.H. A RECORD column carries its own nested Fields.
type Column struct {
	Name        string
	Type        string // BOOL, INT64, FLOAT64, STRING, TIMESTAMP, BYTES, RECORD
	Mode        string // REPEATED, NULLABLE, REQUIRED
	Description string
	Fields      []*Column // meaningful only when Type == "RECORD"
}

// ConvertTableSchema lowers a structural-schema document to a column
// list (spec.md §4.H), sharing the same pre-pass as ConvertRecordSchema
// (§9): collapse, then name inference from a root named "root", then
// nullability inference.
func ConvertTableSchema(input *jsonschema.Schema, ctx Context) ([]*Column, error) {
	tree := Load(input, ctx)

	tree, err := CollapseTree(tree)
	if err != nil {
		return nil, err
	}

	tree.Name = "root"

	InferNames(tree, ctx.NormalizeCase)
	InferNullability(tree, ctx.ForceNullable)

	if tree.IsObject() {
		cols, err := lowerColumnObjectFields(tree, ctx)
		if err != nil {
			return nil, err
		}

		// An object with no surviving fields falls through to the root
		// column, where the resolve policy handles it as an empty object.
		if len(cols) > 0 {
			return cols, nil
		}
	}

	col, err := lowerColumn(tree, "root", ctx)
	if err != nil {
		return nil, err
	}

	return []*Column{col}, nil
}

// lowerColumn builds the column for n under the given name, combining
// the node's own mode and description with the type/fields produced by
// lowerColumnShape.
func lowerColumn(n *Node, name string, ctx Context) (*Column, error) {
	typ, fields, err := lowerColumnShape(n, ctx)
	if err != nil {
		return nil, err
	}

	return &Column{
		Name:        name,
		Type:        typ,
		Mode:        columnMode(n),
		Description: columnDescription(n),
		Fields:      fields,
	}, nil
}

// columnMode derives mode straight from the node's own kind/nullability,
// independent of where in the tree the node sits (spec.md §4.H): REPEATED
// for array/map, NULLABLE for null-or-nullable, REQUIRED otherwise.
func columnMode(n *Node) string {
	switch {
	case n.IsArray() || n.IsMap():
		return "REPEATED"
	case n.IsNull() || n.Nullable:
		return "NULLABLE"
	default:
		return "REQUIRED"
	}
}

func columnDescription(n *Node) string {
	switch {
	case n.Title != "" && n.Description != "":
		return truncateRunes(n.Title+" - "+n.Description, maxDescriptionRunes)
	case n.Title != "":
		return truncateRunes(n.Title, maxDescriptionRunes)
	default:
		return truncateRunes(n.Description, maxDescriptionRunes)
	}
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}

	return string(r[:max])
}

// lowerColumnShape computes the type and, for RECORD columns, the nested
// fields of n, leaving mode/name/description to the caller. Splitting
// shape from mode lets an array forcibly apply REPEATED mode to its
// element's shape without inheriting the element's own mode.
func lowerColumnShape(n *Node, ctx Context) (string, []*Column, error) {
	fqn := FullyQualifiedName(n)

	switch n.Kind {
	case KindNull:
		return resolveColumnType(ctx, fqn, ErrUntypedValue)

	case KindAtom:
		if n.Atom == AtomJSON {
			return resolveColumnType(ctx, fqn, ErrUntypedValue)
		}

		return atomColumnType(n.Atom), nil, nil

	case KindObject:
		fields, err := lowerColumnObjectFields(n, ctx)
		if err != nil {
			return "", nil, err
		}

		if len(fields) == 0 {
			return resolveColumnType(ctx, fqn, ErrEmptyObject)
		}

		return "RECORD", fields, nil

	case KindTuple:
		return lowerColumnTuple(n, ctx, fqn)

	case KindArray:
		return lowerColumnArray(n, ctx)

	case KindMap:
		return lowerColumnMap(n, ctx, fqn)

	default:
		return "", nil, newStructuralError(fqn, ErrUntypedValue)
	}
}

func resolveColumnType(ctx Context, fqn string, reason error) (string, []*Column, error) {
	resolved, err := ctx.resolve(fqn, reason, func() any { return "STRING" })
	if err != nil {
		return "", nil, err
	}

	return resolved.(string), nil, nil
}

func atomColumnType(atom AtomKind) string {
	switch atom {
	case AtomBoolean:
		return "BOOL"
	case AtomInteger:
		return "INT64"
	case AtomNumber:
		return "FLOAT64"
	case AtomDatetime:
		return "TIMESTAMP"
	case AtomBytes:
		return "BYTES"
	default: // AtomString
		return "STRING"
	}
}

// lowerColumnObjectFields lowers an object's fields, sorted
// lexicographically by name. A field whose child is Dropped is elided
// rather than failing the whole object.
func lowerColumnObjectFields(n *Node, ctx Context) ([]*Column, error) {
	keys := make([]string, 0, len(n.Fields))
	for k := range n.Fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var fields []*Column

	for _, key := range keys {
		col, err := lowerColumn(n.Fields[key], key, ctx)
		if err != nil {
			continue
		}

		fields = append(fields, col)
	}

	return fields, nil
}

func lowerColumnTuple(n *Node, ctx Context, fqn string) (string, []*Column, error) {
	if len(n.Tuple) == 0 {
		return resolveColumnType(ctx, fqn, ErrEmptyObject)
	}

	fields := make([]*Column, len(n.Tuple))

	for i, child := range n.Tuple {
		col, err := lowerColumn(child, tupleFieldName(i), ctx)
		if err != nil {
			return "", nil, err
		}

		fields[i] = col
	}

	return "RECORD", fields, nil
}

// lowerColumnArray applies the array-of-array "list" wrapper (same
// workaround as record-schema lowering) and otherwise inlines the
// element's own shape, letting the caller's columnMode force REPEATED.
func lowerColumnArray(n *Node, ctx Context) (string, []*Column, error) {
	if n.Items.IsArray() {
		inner, err := lowerColumn(n.Items, "list", ctx)
		if err != nil {
			return "", nil, err
		}

		return "RECORD", []*Column{inner}, nil
	}

	return lowerColumnShape(n.Items, ctx)
}

// lowerColumnMap lowers to a repeated {key, value} record. Unlike
// record-schema lowering, a Dropped value here is recoverable: when
// AllowMapsWithoutValue is set the map becomes a key-only record,
// preserving the map node's own title/description rather than the
// dropped value's (spec.md §9).
func lowerColumnMap(n *Node, ctx Context, fqn string) (string, []*Column, error) {
	keyCol := &Column{Name: "key", Type: "STRING", Mode: "REQUIRED"}

	valueCol, err := lowerColumn(n.MapValue, "value", ctx)
	if err != nil {
		if ctx.AllowMapsWithoutValue {
			return "RECORD", []*Column{keyCol}, nil
		}

		return "", nil, newStructuralError(fqn, ErrMapValueDropped)
	}

	return "RECORD", []*Column{keyCol, valueCol}, nil
}
