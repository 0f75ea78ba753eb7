// Package schemair transpiles a structural JSON-Schema-like dialect into
// either a record-oriented (Avro-style) or a table-oriented (BigQuery-style)
// schema, via a shared intermediate representation (the "IR").
//
// The goal is a single, reconcilable notion of "what shape does this data
// have" that can be projected into either serialization format without
// writing two independent type-inference passes. Ambiguity is resolved
// the same way regardless of the output dialect: a configurable policy
// decides what happens to a node the target dialect cannot represent.
//
// # Pipeline
//
// Converting a schema runs five stages in sequence:
//
//  1. Load (component F) lifts a *jsonschema.Schema into an IR [Node]
//     tree. Object-typed schemas become Object or Map nodes depending on
//     which of properties/additionalProperties/patternProperties they
//     carry; array-typed schemas become Array or Tuple; oneOf/anyOf and
//     multi-valued type become Union.
//
//  2. Collapse (component E, [CollapseTree]) reduces every Union node in
//     the tree to a single non-union node: null branches are absorbed,
//     nested unions are flattened, and the remaining branches are
//     structurally merged by a lattice fold (atoms), field union
//     (objects), or recursive collapse (maps, arrays).
//
//  3. Name inference (component C, [InferNames]) assigns a Name and
//     dotted Namespace to every node from its position in the tree:
//     object field keys, "items" for array elements, "value" for map
//     values, "__union__" for surviving union branches.
//
//  4. Nullability inference (component D, [InferNullability]) derives
//     Nullable from each enclosing object's Required set. It runs once
//     from the root after collapse and name inference; Collapse also runs
//     it on each merged node, since collapse recomputes Required as a
//     union.
//
//  5. Lowering (component G, [ConvertRecordSchema], or component H,
//     [ConvertTableSchema]) walks the normalized IR and emits the output
//     tree, applying the [Context]'s resolve policy wherever a node
//     (Atom(JSON), an empty object, a dropped map value) cannot be
//     represented directly.
//
// # Resolve Policy
//
// [Context.ResolveMethod] controls what happens at a node lowering
// cannot represent: [ResolveCast] substitutes a string type and logs a
// warning, [ResolveDrop] fails the node so its parent can elide the
// field/element/value, and [ResolvePanic] aborts the conversion with a
// panic carrying a [*StructuralError] — intended to be recovered at the
// CLI boundary, never inside library code.
//
// # Basic Usage
//
//	ctx := schemair.NewContext(schemair.WithNormalizeCase(true))
//	rec, err := schemair.ConvertRecordSchema(input, ctx)
//
//	cols, err := schemair.ConvertTableSchema(input, ctx)
//
// # Config-Based Usage
//
//	cfg := schemair.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	_ = cfg.RegisterCompletions(rootCmd)
//
//	ctx, err := cfg.NewContext()
//	rec, err := schemair.ConvertRecordSchema(input, ctx)
package schemair
