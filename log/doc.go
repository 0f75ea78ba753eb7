// Package log provides structured logging handler construction for use with
// [log/slog].
//
// It supports two output formats ([FormatJSON], [FormatLogfmt]) selected by
// string, as CLI flags typically carry. Use [CreateHandler] to build a
// handler directly from a [slog.Level] and [Format], or [Config] for CLI
// flag integration via [github.com/spf13/pflag] and shell completion
// support via [github.com/spf13/cobra].
//
// Typical usage creates a [Config], registers flags, then builds a handler
// at startup:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	slog.SetDefault(slog.New(handler))
//
// A [Publisher] fans out log output to multiple subscribers. The CLI
// driver tees its handler's writer through one to count warnings logged
// during a schema conversion's Cast resolutions, then prints a summary
// once the conversion finishes:
//
//	pub := log.NewPublisher()
//	w := io.MultiWriter(os.Stderr, pub)
//	handler := log.CreateHandler(w, slog.LevelWarn, log.FormatLogfmt)
//	logger := slog.New(handler)
//
//	sub := pub.Subscribe()
//	go func() {
//	    for range sub.C() {
//	        // count entries.
//	    }
//	}()
package log
