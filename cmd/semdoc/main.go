// Package main provides the semdoc binary entry point.
// Semdoc extracts concepts from documents and maintains a queryable
// knowledge graph of what your documents discuss.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semdoc"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &appOptions{}

	cmd := &cobra.Command{
		Use:   "semdoc",
		Short: "Document knowledge graph",
		Long: `Semdoc extracts concepts from documents and maintains a queryable
knowledge graph of what your documents discuss.

It provides:
- Concept extraction from markdown, conversations, and plain text
- A local graph store for concept and document relationships
- An HTTP API and MCP server for queries and submission

Extraction runs against a span-labeling service; everything else is local.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&opts.storePath, "store", "", "Graph store path (overrides config)")
	pf.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		processCmd(opts),
		batchCmd(opts),
		watchCmd(opts),
		fetchCmd(opts),
		relatedCmd(opts),
		cooccurCmd(opts),
		statsCmd(opts),
		exportCmd(opts),
		clearCmd(opts),
		serveCmd(opts),
		ingestCmd(opts),
		mcpCmd(opts),
	)

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// setupLogging configures the default slog logger from the log level flag.
func setupLogging(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

func printBanner() {
	fmt.Println("╔═══════════════════════════════════════════════╗")
	fmt.Println("║             Semdoc v" + Version + "                      ║")
	fmt.Println("║      Document Knowledge Graph                 ║")
	fmt.Println("╚═══════════════════════════════════════════════╝")
}
