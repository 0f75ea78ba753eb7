package schemair

// Kind identifies which variant of the intermediate schema a [Node] is.
//
// Go has no sum-type construct, so Node carries every variant's fields on
// one struct guarded by Kind, the way [jsonschema.Schema] and the teacher
// package's own schema types dispatch on a string/slice discriminator
// instead of a type hierarchy.
type Kind string

const (
	KindNull   Kind = "null"
	KindAtom   Kind = "atom"
	KindObject Kind = "object"
	KindArray  Kind = "array"
	KindTuple  Kind = "tuple"
	KindMap    Kind = "map"
	KindUnion  Kind = "union"
)

// AtomKind is a leaf scalar type in the IR lattice.
type AtomKind string

const (
	AtomBoolean  AtomKind = "boolean"
	AtomInteger  AtomKind = "integer"
	AtomNumber   AtomKind = "number"
	AtomString   AtomKind = "string"
	AtomDatetime AtomKind = "datetime"
	AtomBytes    AtomKind = "bytes"
	// AtomJSON is the catch-all denoting "unresolved structure".
	AtomJSON AtomKind = "json"
)

// Node is a single node of the intermediate typed schema (the "IR").
//
// Nodes are owned exclusively by their parent: Union, Map, Array and
// Tuple each own their children outright, there are no back-edges, and
// the tree is built once by the loader (F) and mutated in place only by
// name inference (C), nullability inference (D) and collapse (E) when
// invoked from the root. Lowering (G, H) reads a Node tree and produces a
// fresh output tree; it never mutates or retains the IR.
type Node struct {
	Kind Kind

	// Atom is meaningful only when Kind == KindAtom.
	Atom AtomKind

	// Fields and Required are meaningful only when Kind == KindObject.
	Fields   map[string]*Node
	Required map[string]bool

	// Items is meaningful only when Kind == KindArray.
	Items *Node

	// Tuple is meaningful only when Kind == KindTuple.
	Tuple []*Node

	// MapValue is meaningful only when Kind == KindMap. The key side of a
	// Map is always Atom(String) and is not represented as a child node.
	MapValue *Node

	// Union is meaningful only when Kind == KindUnion.
	Union []*Node

	Name      string
	Namespace string
	Nullable  bool
	IsRoot    bool

	Title       string
	Description string
}

func (n *Node) IsNull() bool   { return n != nil && n.Kind == KindNull }
func (n *Node) IsAtom() bool   { return n != nil && n.Kind == KindAtom }
func (n *Node) IsObject() bool { return n != nil && n.Kind == KindObject }
func (n *Node) IsArray() bool  { return n != nil && n.Kind == KindArray }
func (n *Node) IsTuple() bool  { return n != nil && n.Kind == KindTuple }
func (n *Node) IsMap() bool    { return n != nil && n.Kind == KindMap }
func (n *Node) IsUnion() bool  { return n != nil && n.Kind == KindUnion }

// NewNull returns a new Null node.
func NewNull() *Node {
	return &Node{Kind: KindNull, Nullable: true}
}

// NewAtom returns a new Atom node of the given kind.
func NewAtom(k AtomKind) *Node {
	return &Node{Kind: KindAtom, Atom: k}
}

// NewObject returns a new Object node. required may be nil.
func NewObject(fields map[string]*Node, required map[string]bool) *Node {
	if fields == nil {
		fields = map[string]*Node{}
	}

	return &Node{Kind: KindObject, Fields: fields, Required: required}
}

// NewArray returns a new Array node with the given element type.
func NewArray(items *Node) *Node {
	return &Node{Kind: KindArray, Items: items}
}

// NewTuple returns a new Tuple node with the given positional element types.
func NewTuple(items []*Node) *Node {
	return &Node{Kind: KindTuple, Tuple: items}
}

// NewMap returns a new Map node. The key side is always Atom(String); only
// value varies.
func NewMap(value *Node) *Node {
	return &Node{Kind: KindMap, MapValue: value}
}

// NewUnion returns a new Union node over the given branches.
func NewUnion(items []*Node) *Node {
	return &Node{Kind: KindUnion, Union: items}
}

// fullyQualifiedName joins namespace and name the way diagnostics in the
// record-schema and table-schema lowerers identify a node, e.g. "a.b.c".
func fullyQualifiedName(namespace, name string) string {
	switch {
	case namespace == "":
		return name
	case name == "":
		return namespace
	default:
		return namespace + "." + name
	}
}
