package schemair

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for lowering configuration, allowing callers
// to customize flag names while keeping sensible defaults.
type Flags struct {
	ResolveMethod         string
	NormalizeCase         string
	ForceNullable         string
	TupleStruct           string
	AllowMapsWithoutValue string
}

// Config holds CLI flag values bound to a future [Context].
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewContext] to build the [Context]
// the conversion entry points take.
type Config struct {
	Flags                 Flags
	ResolveMethod         string
	NormalizeCase         bool
	ForceNullable         bool
	TupleStruct           bool
	AllowMapsWithoutValue bool
}

// NewConfig returns a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		ResolveMethod:         "resolve",
		NormalizeCase:         "normalize-case",
		ForceNullable:         "force-nullable",
		TupleStruct:           "tuple-struct",
		AllowMapsWithoutValue: "allow-maps-without-value",
	}

	return &Config{Flags: f}
}

// RegisterFlags adds lowering flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.ResolveMethod, c.Flags.ResolveMethod, "r", string(ResolveCast),
		"how to handle an untypable node: cast, drop, or panic")
	flags.BoolVar(&c.NormalizeCase, c.Flags.NormalizeCase, false,
		"snake-case every identifier")
	flags.BoolVar(&c.ForceNullable, c.Flags.ForceNullable, false,
		"make every object field nullable regardless of required")
	flags.BoolVar(&c.TupleStruct, c.Flags.TupleStruct, false,
		"lift positional items lists to a tuple instead of a single array element type")
	flags.BoolVar(&c.AllowMapsWithoutValue, c.Flags.AllowMapsWithoutValue, false,
		"permit a key-only record when a map's value is dropped (table-schema only)")
}

// RegisterCompletions registers shell completions for lowering flags on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.ResolveMethod,
		cobra.FixedCompletions(
			[]string{string(ResolveCast), string(ResolveDrop), string(ResolvePanic)},
			cobra.ShellCompDirectiveNoFileComp,
		))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.ResolveMethod, err)
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, flag := range []string{
		c.Flags.NormalizeCase,
		c.Flags.ForceNullable,
		c.Flags.TupleStruct,
		c.Flags.AllowMapsWithoutValue,
	} {
		if regErr := cmd.RegisterFlagCompletionFunc(flag, noFileComp); regErr != nil {
			return fmt.Errorf("registering %s completion: %w", flag, regErr)
		}
	}

	return nil
}

// NewContext builds the [Context] for this [Config], validating
// ResolveMethod.
func (c *Config) NewContext() (Context, error) {
	method := ResolveMethod(c.ResolveMethod)

	switch method {
	case ResolveCast, ResolveDrop, ResolvePanic:
	default:
		return Context{}, fmt.Errorf("%w: unknown resolve method %q", ErrInvalidOption, c.ResolveMethod)
	}

	return NewContext(
		WithResolveMethod(method),
		WithNormalizeCase(c.NormalizeCase),
		WithForceNullable(c.ForceNullable),
		WithTupleStruct(c.TupleStruct),
		WithAllowMapsWithoutValue(c.AllowMapsWithoutValue),
	), nil
}
