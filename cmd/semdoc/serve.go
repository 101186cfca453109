package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/mcpserver"
	"github.com/c360studio/semdoc/queue"
	"github.com/c360studio/semdoc/server"
)

func serveCmd(opts *appOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Long: `Serve the HTTP API over a read-only view of the graph.

Document submissions are published to NATS for the ingest worker; run
"semdoc ingest" alongside to process them. Without NATS the API still
serves queries, with submission disabled.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			printBanner()

			store, err := app.openStore(true)
			if err != nil {
				return err
			}
			defer store.Close()

			srvOpts := []server.Option{
				server.WithVersion(Version),
				server.WithLogger(app.logger),
			}
			if pub, err := app.connectPublisher(); err != nil {
				app.logger.Warn("NATS unavailable, document submission disabled", "error", err)
			} else {
				defer pub.Close()
				srvOpts = append(srvOpts, server.WithPublisher(pub))
			}

			if addr == "" {
				addr = app.cfg.Server.Addr
			}

			ctx, cancel := signalContext()
			defer cancel()

			return server.New(store, srvOpts...).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

func ingestCmd(opts *appOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Run the ingest worker that processes queued submissions",
		Long: `Run the worker that consumes document submissions from NATS and
writes them to the graph. Exactly one ingest worker owns the store's
write lock; "semdoc serve" and "semdoc mcp --queue" publish to it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			printBanner()

			store, err := app.openStore(false)
			if err != nil {
				return err
			}
			defer store.Close()

			processor := app.newProcessor(store)

			consumer, err := queue.NewConsumer(app.cfg.NATS.URL, app.logger)
			if err != nil {
				return fmt.Errorf("connect to NATS at %s: %w", app.cfg.NATS.URL, err)
			}
			defer consumer.Close()

			ctx, cancel := signalContext()
			defer cancel()

			return consumer.Run(ctx, func(ctx context.Context, sub queue.Submission) error {
				res, err := processor.Process(ctx, sub.Content, sub.Name, "")
				if err != nil {
					return fmt.Errorf("process submission %s: %w", sub.ID, err)
				}
				app.logger.Info("processed submission",
					"submission_id", sub.ID,
					"document_id", res.DocumentID,
					"source", sub.Source,
					"concepts", res.Concepts)
				return nil
			})
		},
	}
}

func mcpCmd(opts *appOptions) *cobra.Command {
	var useQueue bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve MCP tools over stdio",
		Long: `Serve MCP tools over stdio for clients such as Claude Desktop.

By default the server owns the graph store and processes submissions
in-process. With --queue it opens the store read-only and publishes
submissions to NATS instead, for running alongside "semdoc ingest".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(opts)
			if err != nil {
				return err
			}

			// No banner here: stdout carries the MCP protocol.
			var (
				store   *graph.Store
				srvOpts = []mcpserver.Option{mcpserver.WithLogger(app.logger)}
			)
			if useQueue {
				store, err = app.openStore(true)
				if err != nil {
					return err
				}
				pub, err := app.connectPublisher()
				if err != nil {
					return err
				}
				defer pub.Close()
				srvOpts = append(srvOpts, mcpserver.WithPublisher(pub))
			} else {
				store, err = app.openStore(false)
				if err != nil {
					return err
				}
				srvOpts = append(srvOpts, mcpserver.WithProcessor(app.newProcessor(store)))
			}
			defer store.Close()

			srv, err := mcpserver.New(store, Version, srvOpts...)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			return srv.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&useQueue, "queue", false, "Publish submissions to NATS instead of processing in-process")
	return cmd
}
