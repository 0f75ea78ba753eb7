package schemair

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
)

// RecordKind identifies which shape a [RecordType] takes in the emitted
// record-schema (Avro-style) output tree.
type RecordKind string

const (
	RecordKindPrimitive RecordKind = "primitive"
	RecordKindRecord    RecordKind = "record"
	RecordKindArray     RecordKind = "array"
	RecordKindMap       RecordKind = "map"
	RecordKindUnion     RecordKind = "union"
)

// RecordType is the Go binding of the recursive tagged-record document
// emitted by record-schema lowering (spec.md §4.G). It implements
// [json.Marshaler] so ConvertRecordSchema's result can be serialized
// straight to the "generic JSON value tree" the public contract (§6)
// promises, without an intermediate map[string]any representation.
type RecordType struct {
	Kind      RecordKind
	Primitive string // meaningful only when Kind == RecordKindPrimitive
	Name      string
	Namespace string
	Doc       string
	Fields    []*RecordField // meaningful only when Kind == RecordKindRecord
	Items     *RecordType    // meaningful only when Kind == RecordKindArray
	Values    *RecordType    // meaningful only when Kind == RecordKindMap
	Union     []*RecordType  // meaningful only when Kind == RecordKindUnion
}

// RecordField is one field of a RecordKindRecord.
type RecordField struct {
	Name       string
	Doc        string
	Type       *RecordType
	HasDefault bool // true emits "default": null
}

func primitiveRecord(name string) *RecordType {
	return &RecordType{Kind: RecordKindPrimitive, Primitive: name}
}

func (t *RecordType) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case RecordKindPrimitive:
		return json.Marshal(t.Primitive)

	case RecordKindRecord:
		obj := map[string]any{"type": "record", "name": t.Name}
		if t.Namespace != "" {
			obj["namespace"] = t.Namespace
		}

		if t.Doc != "" {
			obj["doc"] = t.Doc
		}

		fields := make([]map[string]any, 0, len(t.Fields))

		for _, f := range t.Fields {
			fo := map[string]any{"name": f.Name, "type": f.Type}
			if f.Doc != "" {
				fo["doc"] = f.Doc
			}

			if f.HasDefault {
				fo["default"] = nil
			}

			fields = append(fields, fo)
		}

		obj["fields"] = fields

		return json.Marshal(obj)

	case RecordKindArray:
		return json.Marshal(map[string]any{"type": "array", "items": t.Items})

	case RecordKindMap:
		return json.Marshal(map[string]any{"type": "map", "values": t.Values})

	case RecordKindUnion:
		return json.Marshal(t.Union)

	default:
		return json.Marshal(nil)
	}
}

// unnamedSentinel names a record that reached lowering with no name
// assigned, matching the reference implementation's own fallback.
const unnamedSentinel = "__UNNAMED__"

// ConvertRecordSchema lowers a structural-schema document to a
// record-oriented (Avro-style) schema, per spec.md §4.G. It is one of the
// two pure public entry points (§6): Load, then the mandated
// collapse → infer-names → infer-nullability pipeline from the root
// (§9), then the per-node mapping.
func ConvertRecordSchema(input *jsonschema.Schema, ctx Context) (*RecordType, error) {
	tree := Load(input, ctx)

	tree, err := CollapseTree(tree)
	if err != nil {
		return nil, err
	}

	tree.Name = "root"

	InferNames(tree, ctx.NormalizeCase)
	InferNullability(tree, ctx.ForceNullable)

	return lowerRecordNode(tree, ctx)
}

// lowerRecordNode lowers a single (already normalized) IR node, wrapping
// the result in a two-branch [null, T] union whenever the node is
// nullable and not itself Null (spec.md §4.G, testable property 7).
func lowerRecordNode(n *Node, ctx Context) (*RecordType, error) {
	fqn := FullyQualifiedName(n)

	core, err := lowerRecordCore(n, ctx, fqn)
	if err != nil {
		return nil, err
	}

	if n.Nullable && !n.IsNull() {
		return &RecordType{Kind: RecordKindUnion, Union: []*RecordType{primitiveRecord("null"), core}}, nil
	}

	return core, nil
}

func lowerRecordCore(n *Node, ctx Context, fqn string) (*RecordType, error) {
	switch n.Kind {
	case KindNull:
		return primitiveRecord("null"), nil

	case KindAtom:
		return lowerRecordAtom(n.Atom, ctx, fqn)

	case KindObject:
		return lowerRecordObject(n, ctx, fqn)

	case KindTuple:
		return lowerRecordTuple(n, ctx, fqn)

	case KindArray:
		return lowerRecordArray(n, ctx, fqn)

	case KindMap:
		return lowerRecordMap(n, ctx, fqn)

	default:
		return nil, newStructuralError(fqn, ErrUntypedValue)
	}
}

func lowerRecordAtom(atom AtomKind, ctx Context, fqn string) (*RecordType, error) {
	switch atom {
	case AtomBoolean:
		return primitiveRecord("boolean"), nil
	case AtomInteger:
		return primitiveRecord("long"), nil
	case AtomNumber:
		return primitiveRecord("double"), nil
	case AtomString, AtomDatetime:
		return primitiveRecord("string"), nil
	case AtomBytes:
		return primitiveRecord("bytes"), nil
	default: // AtomJSON
		resolved, err := ctx.resolve(fqn, ErrUntypedValue, func() any { return primitiveRecord("string") })
		if err != nil {
			return nil, err
		}

		return resolved.(*RecordType), nil
	}
}

func recordName(n *Node) string {
	if n.Name == "" {
		return unnamedSentinel
	}

	return sanitizeAvroIdentifier(n.Name)
}

// sanitizeAvroIdentifier rewrites name into a valid Avro identifier
// (`[A-Za-z_][A-Za-z0-9_]*`), independent of whether NormalizeCase is on:
// every character outside `[A-Za-z0-9_]` becomes `_`, and a name that
// still starts with a digit after that gets a leading `_`. This always
// applies in record-schema lowering (spec.md §9) — table-schema column
// names have no equivalent restriction, so table.go has no counterpart.
func sanitizeAvroIdentifier(name string) string {
	if name == "" {
		return name
	}

	runes := []rune(name)
	for i, r := range runes {
		if r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			continue
		}

		runes[i] = '_'
	}

	if runes[0] >= '0' && runes[0] <= '9' {
		return "_" + string(runes)
	}

	return string(runes)
}

func lowerRecordObject(n *Node, ctx Context, fqn string) (*RecordType, error) {
	keys := make([]string, 0, len(n.Fields))
	for k := range n.Fields {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	fields := make([]*RecordField, 0, len(keys))

	for _, key := range keys {
		child := n.Fields[key]

		t, err := lowerRecordNode(child, ctx)
		if err != nil {
			// Drop: elide this field from the record.
			continue
		}

		fields = append(fields, &RecordField{
			Name:       sanitizeAvroIdentifier(key),
			Doc:        child.Description,
			Type:       t,
			HasDefault: child.Nullable,
		})
	}

	if len(fields) == 0 {
		resolved, err := ctx.resolve(fqn, ErrEmptyObject, func() any { return primitiveRecord("string") })
		if err != nil {
			return nil, err
		}

		return resolved.(*RecordType), nil
	}

	return &RecordType{
		Kind:      RecordKindRecord,
		Name:      recordName(n),
		Namespace: n.Namespace,
		Doc:       n.Description,
		Fields:    fields,
	}, nil
}

func lowerRecordTuple(n *Node, ctx Context, fqn string) (*RecordType, error) {
	if len(n.Tuple) == 0 {
		resolved, err := ctx.resolve(fqn, ErrEmptyObject, func() any { return primitiveRecord("string") })
		if err != nil {
			return nil, err
		}

		return resolved.(*RecordType), nil
	}

	fields := make([]*RecordField, len(n.Tuple))

	for i, child := range n.Tuple {
		t, err := lowerRecordNode(child, ctx)
		if err != nil {
			// A positional element cannot be elided without breaking the
			// tuple's shape, so Drop fails the whole tuple.
			return nil, err
		}

		fields[i] = &RecordField{
			Name:       tupleFieldName(i),
			Doc:        child.Description,
			Type:       t,
			HasDefault: child.Nullable,
		}
	}

	return &RecordType{
		Kind:      RecordKindRecord,
		Name:      recordName(n),
		Namespace: n.Namespace,
		Doc:       n.Description,
		Fields:    fields,
	}, nil
}

func tupleFieldName(i int) string {
	return "f" + strconv.Itoa(i) + "_"
}

func lowerRecordArray(n *Node, ctx Context, fqn string) (*RecordType, error) {
	if n.Items.IsArray() {
		inner, err := lowerRecordNode(n.Items, ctx)
		if err != nil {
			return nil, err
		}

		wrapped := &RecordType{
			Kind:      RecordKindRecord,
			Name:      recordName(n),
			Namespace: n.Namespace,
			Fields: []*RecordField{
				{Name: "list", Type: inner},
			},
		}

		return &RecordType{Kind: RecordKindArray, Items: wrapped}, nil
	}

	elem, err := lowerRecordNode(n.Items, ctx)
	if err != nil {
		return nil, err
	}

	return &RecordType{Kind: RecordKindArray, Items: elem}, nil
}

// lowerRecordMap never honors AllowMapsWithoutValue: Avro's map type
// always carries a value type, so a dropped map value is a structural
// error here regardless of that option (the asymmetry against
// table-schema lowering is intentional, see DESIGN.md and SPEC_FULL.md
// §9).
func lowerRecordMap(n *Node, ctx Context, fqn string) (*RecordType, error) {
	value, err := lowerRecordNode(n.MapValue, ctx)
	if err != nil {
		return nil, newStructuralError(fqn, ErrMapValueDropped)
	}

	return &RecordType{Kind: RecordKindMap, Values: value}, nil
}

