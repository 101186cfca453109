package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/semdoc/pipeline"
	"github.com/c360studio/semdoc/webfetch"
)

func processCmd(opts *appOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "process <file>...",
		Short: "Extract concepts from files and store them in the graph",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			store, err := app.openStore(false)
			if err != nil {
				return err
			}
			defer store.Close()

			processor := app.newProcessor(store)

			ctx, cancel := signalContext()
			defer cancel()

			var failed int
			for _, path := range args {
				res, err := processor.ProcessFile(ctx, path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s: %v\n", path, err)
					failed++
					continue
				}
				printResult(res)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}
}

func batchCmd(opts *appOptions) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "batch <glob>",
		Short: "Process every file matching a glob pattern",
		Long: `Process every file matching a glob pattern, for example:

  semdoc batch 'notes/**/*.md'

Patterns support ** for recursive matching. Failures are logged and
skipped; the batch continues.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			store, err := app.openStore(false)
			if err != nil {
				return err
			}
			defer store.Close()

			processor := app.newProcessor(store)

			ctx, cancel := signalContext()
			defer cancel()

			res, err := processor.Batch(ctx, args[0], workers)
			if err != nil {
				return err
			}

			fmt.Printf("Processed %d of %d files (%d failed)\n", res.Processed, res.Matched, res.Failed)
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", pipeline.DefaultWorkers, "Number of concurrent workers")
	return cmd
}

func watchCmd(opts *appOptions) *cobra.Command {
	var (
		debounce   time.Duration
		extensions []string
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Watch a directory and process files as they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			store, err := app.openStore(false)
			if err != nil {
				return err
			}
			defer store.Close()

			processor := app.newProcessor(store)

			watchCfg := pipeline.DefaultWatchConfig()
			if debounce > 0 {
				watchCfg.DebounceDelay = debounce
			}
			if len(extensions) > 0 {
				watchCfg.FileExtensions = extensions
			}

			ctx, cancel := signalContext()
			defer cancel()

			fmt.Printf("Watching %s (ctrl-c to stop)\n", args[0])
			return processor.Watch(ctx, args[0], watchCfg)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "Delay before processing changed files (default 500ms)")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "File extensions to watch (default .md,.txt)")
	return cmd
}

func fetchCmd(opts *appOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch a web page, convert it to markdown, and store it in the graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			store, err := app.openStore(false)
			if err != nil {
				return err
			}
			defer store.Close()

			processor := app.newProcessor(store)
			client := webfetch.New(webfetch.WithLogger(app.logger))

			ctx, cancel := signalContext()
			defer cancel()

			doc, err := client.Document(ctx, args[0])
			if err != nil {
				return fmt.Errorf("fetch %s: %w", args[0], err)
			}

			res, err := processor.Process(ctx, doc.Markdown, doc.Name, doc.URL)
			if err != nil {
				return err
			}
			printResult(res)
			return nil
		},
	}
}
