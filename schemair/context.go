package schemair

import (
	"errors"
	"fmt"
	"log/slog"
)

// ResolveMethod controls how lowering handles a node it cannot represent in
// the target dialect: an Atom(JSON), an empty object, or (depending on
// AllowMapsWithoutValue) a map whose value was dropped.
type ResolveMethod string

const (
	// ResolveCast substitutes Atom(String)/STRING and logs a warning.
	ResolveCast ResolveMethod = "cast"
	// ResolveDrop fails the current node; the parent elides the field,
	// array element, or map value.
	ResolveDrop ResolveMethod = "drop"
	// ResolvePanic aborts the transformation immediately.
	ResolvePanic ResolveMethod = "panic"
)

// Context carries the options that parameterize lowering. It is a plain
// struct, not a builder, so it satisfies the external contract of
// ConvertRecordSchema/ConvertTableSchema literally: a value passed in by
// the caller. Use NewContext for the teacher's functional-options
// ergonomics when constructing one from Go code, or Config when bridging
// from CLI flags.
type Context struct {
	// ResolveMethod selects how untypable nodes are handled. The zero
	// value is ResolveCast.
	ResolveMethod ResolveMethod
	// NormalizeCase snake-cases every identifier encountered by the
	// loader and assigned by name inference.
	NormalizeCase bool
	// ForceNullable makes every object field nullable regardless of the
	// enclosing object's required set.
	ForceNullable bool
	// TupleStruct lifts positional `items` lists to IR Tuple instead of
	// collapsing them to a single Array element type.
	TupleStruct bool
	// AllowMapsWithoutValue permits a Drop of a map's value to yield a
	// key-only record in table-schema lowering, instead of failing.
	// Record-schema lowering never honors this: Avro's map type always
	// carries a value type, so a dropped map value is always an error
	// there (see DESIGN.md).
	AllowMapsWithoutValue bool

	// logger receives Cast warnings. Defaults to slog.Default() when nil.
	logger *slog.Logger
}

func (c Context) resolveMethod() ResolveMethod {
	if c.ResolveMethod == "" {
		return ResolveCast
	}

	return c.ResolveMethod
}

func (c Context) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}

	return slog.Default()
}

// Option configures a Context, following the functional-options idiom the
// teacher package uses for its own Generator.
type Option func(*Context)

// WithResolveMethod sets the resolve policy.
func WithResolveMethod(m ResolveMethod) Option {
	return func(c *Context) { c.ResolveMethod = m }
}

// WithNormalizeCase enables snake-case normalization of identifiers.
func WithNormalizeCase(v bool) Option {
	return func(c *Context) { c.NormalizeCase = v }
}

// WithForceNullable enables the force-nullable mode.
func WithForceNullable(v bool) Option {
	return func(c *Context) { c.ForceNullable = v }
}

// WithTupleStruct enables lifting positional items lists to IR Tuple.
func WithTupleStruct(v bool) Option {
	return func(c *Context) { c.TupleStruct = v }
}

// WithAllowMapsWithoutValue enables the table-schema key-only-record
// fallback for a dropped map value.
func WithAllowMapsWithoutValue(v bool) Option {
	return func(c *Context) { c.AllowMapsWithoutValue = v }
}

// WithLogger sets the logger that receives Cast-resolution warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) { c.logger = l }
}

// NewContext builds a Context from functional options, defaulting to
// ResolveCast and every boolean mode off.
func NewContext(opts ...Option) Context {
	var c Context
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Sentinel errors for the three structural-error call sites. Lowering
// wraps them in a [StructuralError] to attach the fully-qualified name;
// test with errors.Is against these regardless of which name is attached.
var (
	// ErrEmptyUnion is a contract violation: collapse was given zero
	// branches.
	ErrEmptyUnion = errors.New("collapse: empty union")
	// ErrEmptyObject indicates an object with neither properties nor
	// additional/pattern properties.
	ErrEmptyObject = errors.New("empty object")
	// ErrUntypedValue indicates an Atom(JSON) or otherwise untypable node
	// reached lowering under a policy that does not recover it.
	ErrUntypedValue = errors.New("untyped value")
	// ErrMapValueDropped indicates a map's value was dropped and the
	// target dialect/options combination does not permit a key-only
	// record.
	ErrMapValueDropped = errors.New("map value cannot be dropped")
	// ErrInvalidOption indicates a Config field failed validation before
	// a Context could be built from it.
	ErrInvalidOption = errors.New("invalid option")
)

// StructuralError reports a structural error at a specific node, carrying
// its fully-qualified name for diagnostics.
type StructuralError struct {
	FullyQualifiedName string
	Err                error
}

func (e *StructuralError) Error() string {
	if e.FullyQualifiedName == "" {
		return e.Err.Error()
	}

	return fmt.Sprintf("%s: %s", e.FullyQualifiedName, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

func newStructuralError(fqn string, err error) *StructuralError {
	return &StructuralError{FullyQualifiedName: fqn, Err: err}
}

// resolve applies the Context's resolve policy to a structural error found
// at the node identified by fqn. It returns the Cast fallback (with a
// logged warning) and a nil error when the policy recovers locally, or a
// non-nil error (for Drop) when the caller must elide the node, or panics
// (for Panic).
//
// cast is invoked to build the recovered value (e.g. an Atom(String) in
// record lowering, "STRING" in table lowering) only once the policy has
// decided to recover.
func (c Context) resolve(fqn string, err error, cast func() any) (any, error) {
	structural := newStructuralError(fqn, err)

	switch c.resolveMethod() {
	case ResolveCast:
		c.log().Warn("casting untypable node to string", "name", fqn, "reason", err)

		return cast(), nil
	case ResolvePanic:
		panic(structural)
	case ResolveDrop:
		fallthrough
	default:
		return nil, structural
	}
}
