package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/vocabulary/semdoc"
)

func relatedCmd(opts *appOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "related <concept>",
		Short: "Find documents that discuss a concept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			store, err := app.openStore(true)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := signalContext()
			defer cancel()

			res, err := store.Query(ctx, graph.Query{
				Kind:    graph.QueryDocumentsForConcept,
				Concept: args[0],
				Limit:   limit,
			})
			if err != nil {
				return err
			}

			if len(res.Bindings) == 0 {
				fmt.Printf("No documents discuss %q\n", args[0])
				return nil
			}

			fmt.Printf("Documents discussing %q (%d results, %s):\n\n", args[0], res.Count, res.Elapsed)
			for _, b := range res.Bindings {
				id := strings.TrimPrefix(b["doc"], semdoc.DocumentNamespace)
				line := "  " + id
				if b["title"] != "" {
					line += "  " + b["title"]
				}
				if b["confidence"] != "" {
					line += "  confidence=" + b["confidence"]
				}
				if b["domain"] != "" {
					line += "  domain=" + b["domain"]
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", graph.DefaultLimit, "Maximum number of documents")
	return cmd
}

func cooccurCmd(opts *appOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "cooccur <concept>",
		Short: "Find concepts that appear near a concept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			store, err := app.openStore(true)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := signalContext()
			defer cancel()

			res, err := store.Query(ctx, graph.Query{
				Kind:    graph.QueryCoOccurring,
				Concept: args[0],
				Limit:   limit,
			})
			if err != nil {
				return err
			}

			if len(res.Bindings) == 0 {
				fmt.Printf("No concepts co-occur with %q\n", args[0])
				return nil
			}

			fmt.Printf("Concepts co-occurring with %q (%d results, %s):\n\n", args[0], res.Count, res.Elapsed)
			for _, b := range res.Bindings {
				fmt.Printf("  %s (%s documents)\n", b["related_concept"], b["frequency"])
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", graph.DefaultLimit, "Maximum number of concepts")
	return cmd
}

func statsCmd(opts *appOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show document and concept counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			store, err := app.openStore(true)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := signalContext()
			defer cancel()

			stats, err := store.Stats(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Store: %s\n\n", app.cfg.Store.Path)
			fmt.Printf("  Documents:     %d\n", stats.TotalDocuments)
			fmt.Printf("  Concepts:      %d\n", stats.TotalConcepts)
			fmt.Printf("  Conversations: %d\n", stats.Conversations)
			fmt.Printf("  Markdown docs: %d\n", stats.MarkdownDocs)
			return nil
		},
	}
}

func exportCmd(opts *appOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <document-id>",
		Short: "Export a document and its concepts as Turtle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			store, err := app.openStore(true)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := signalContext()
			defer cancel()

			turtle, ok, err := store.ExportSubgraph(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("document %q: %w", args[0], graph.ErrNotFound)
			}

			if output != "" {
				if err := os.WriteFile(output, []byte(turtle), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				fmt.Printf("Wrote %s\n", output)
				return nil
			}

			fmt.Print(turtle)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write Turtle to a file instead of stdout")
	return cmd
}

func clearCmd(opts *appOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all statements and reload the core ontology",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			if !yes {
				fmt.Printf("This deletes all data in %s. Continue? [y/N] ", app.cfg.Store.Path)
				scanner := bufio.NewScanner(os.Stdin)
				if !scanner.Scan() {
					return nil
				}
				answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
				if answer != "y" && answer != "yes" {
					fmt.Println("Aborted")
					return nil
				}
			}

			store, err := app.openStore(false)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := signalContext()
			defer cancel()

			if err := store.Clear(ctx); err != nil {
				return err
			}

			fmt.Println("Graph cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}
