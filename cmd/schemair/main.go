// Package main provides the CLI entry point for schemair, a tool that
// lowers a structural JSON-Schema-like document to a record-oriented
// (Avro-style) or table-oriented (BigQuery-style) schema.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	goyaml "github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"

	"github.com/jschmidtnz/schemair/log"
	"github.com/jschmidtnz/schemair/profile"
	"github.com/jschmidtnz/schemair/schemair"
	"github.com/jschmidtnz/schemair/version"
)

// ErrReadInput, ErrWriteOutput, and ErrUnknownTarget are fatal CLI-boundary
// errors, mirroring the teacher's own sentinel style for I/O failures.
var (
	ErrReadInput     = errors.New("reading input")
	ErrWriteOutput   = errors.New("writing output")
	ErrUnknownTarget = errors.New("unknown target dialect")
)

func main() {
	schemaCfg := schemair.NewConfig()
	logCfg := log.NewConfig()
	profileCfg := profile.NewConfig()

	var (
		target string
		output string
	)

	rootCmd := &cobra.Command{
		Use:   "schemair [flags] <schema.yaml|schema.json|->",
		Short: "Lower a structural schema to a record or table schema",
		Long: `schemair ingests a structural JSON-Schema-like document and emits either a
record-oriented (Avro-style) or table-oriented (BigQuery-style) schema,
via a shared intermediate representation.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(runParams{
				schemaCfg:  schemaCfg,
				logCfg:     logCfg,
				profileCfg: profileCfg,
				target:     target,
				output:     output,
				input:      args[0],
			})
		},
	}

	rootCmd.Flags().StringVarP(&target, "target", "t", "record",
		"output dialect: record or table")
	rootCmd.Flags().StringVarP(&output, "output", "o", "-",
		"output file path (- for stdout)")

	schemaCfg.RegisterFlags(rootCmd.Flags())
	logCfg.RegisterFlags(rootCmd.Flags())
	profileCfg.RegisterFlags(rootCmd.Flags())

	rootCmd.Version = version.Version

	for _, completionErr := range []error{
		schemaCfg.RegisterCompletions(rootCmd),
		logCfg.RegisterCompletions(rootCmd),
		profileCfg.RegisterCompletions(rootCmd),
		rootCmd.RegisterFlagCompletionFunc("target",
			cobra.FixedCompletions([]string{"record", "table"}, cobra.ShellCompDirectiveNoFileComp)),
	} {
		if completionErr != nil {
			fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

type runParams struct {
	schemaCfg  *schemair.Config
	logCfg     *log.Config
	profileCfg *profile.Config
	target     string
	output     string
	input      string
}

func run(p runParams) error {
	pub := log.NewPublisher()
	sub := pub.Subscribe()

	var warnings atomic.Int64

	counted := make(chan struct{})

	go func() {
		defer close(counted)

		for range sub.C() {
			warnings.Add(1)
		}
	}()

	handler, err := p.logCfg.NewHandler(io.MultiWriter(os.Stderr, pub))
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(handler))

	prof := p.profileCfg.NewProfiler()
	if err := prof.Start(); err != nil {
		return err
	}

	defer func() {
		if stopErr := prof.Stop(); stopErr != nil {
			fmt.Fprintf(os.Stderr, "stop profiling: %v\n", stopErr)
		}
	}()

	ctx, err := p.schemaCfg.NewContext()
	if err != nil {
		return err
	}

	data, err := readInput(p.input)
	if err != nil {
		return err
	}

	schema, err := schemair.ParseInputBytes(goyaml.Unmarshal, data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	out, err := convert(p.target, schema, ctx)
	if err != nil {
		return err
	}

	if err := writeOutput(p.output, out); err != nil {
		return err
	}

	// Closing the publisher closes every subscription's channel, letting
	// the counting goroutine above finish and report a final tally.
	if err := pub.Close(); err != nil {
		return err
	}

	<-counted

	if n := warnings.Load(); n > 0 {
		fmt.Fprintf(os.Stderr, "%d field(s) cast to string\n", n)
	}

	return nil
}

func convert(target string, schema *jsonschema.Schema, ctx schemair.Context) (out []byte, err error) {
	// Under the panic resolve method the library aborts with a panic
	// carrying a *schemair.StructuralError; report it as an ordinary error.
	defer func() {
		if r := recover(); r != nil {
			structural, ok := r.(*schemair.StructuralError)
			if !ok {
				panic(r)
			}

			out, err = nil, structural
		}
	}()

	switch target {
	case "record":
		rec, err := schemair.ConvertRecordSchema(schema, ctx)
		if err != nil {
			return nil, err
		}

		return json.MarshalIndent(rec, "", "  ")
	case "table":
		cols, err := schemair.ConvertTableSchema(schema, ctx)
		if err != nil {
			return nil, err
		}

		return json.MarshalIndent(cols, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: stdin: %w", ErrReadInput, err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadInput, err)
	}

	return data, nil
}

func writeOutput(path string, data []byte) error {
	data = append(data, '\n')

	if path == "" || path == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteOutput, err)
		}

		return nil
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return nil
}
