package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sizemap/pkg/cache"
	"github.com/matzehuels/sizemap/pkg/pipeline"
	"github.com/matzehuels/sizemap/pkg/server"
	"github.com/matzehuels/sizemap/pkg/session"
)

// shutdownTimeout bounds how long in-flight requests may run after an
// interrupt.
const shutdownTimeout = 5 * time.Second

type serveOpts struct {
	addr        string
	sessionTTL  time.Duration
	sessionsDir string
}

// serveCommand creates the serve command, which runs the browser viewer.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file...]",
		Short: "Serve the interactive treemap viewer",
		Long: `Serve the interactive treemap viewer over HTTP.

Tree files given as arguments are loaded up front and a viewer link is printed
for each. More trees can be uploaded with POST /api/trees. Viewer sessions
keep their zoom address and survive a restart when --sessions-dir is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				opts.addr = c.Config.Serve.Addr
			}
			if !cmd.Flags().Changed("session-ttl") {
				opts.sessionTTL = c.Config.Serve.SessionTTL.Duration
			}
			if !cmd.Flags().Changed("sessions-dir") {
				opts.sessionsDir = c.Config.Serve.SessionsDir
			}
			return c.runServe(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().DurationVar(&opts.sessionTTL, "session-ttl", session.DefaultTTL, "idle lifetime of a viewer session")
	cmd.Flags().StringVar(&opts.sessionsDir, "sessions-dir", "", "persist sessions in this directory")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, files []string, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	runner, cleanup, err := c.serveRunner(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	defer runner.Close()

	var store session.Store = session.NewMemoryStore()
	if opts.sessionsDir != "" {
		fs, err := session.NewFileStore(opts.sessionsDir)
		if err != nil {
			return err
		}
		store = fs
	}

	var links []string
	for _, path := range files {
		data, err := readInput(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		root, hash, err := runner.Load(ctx, pipeline.Options{Input: data, InputName: path})
		if err != nil {
			return err
		}
		printSuccess("Loaded %s", StyleHighlight.Render(root.Name()))
		printStats(root.Count(), len(root.Leaves()), false)
		links = append(links, fmt.Sprintf("http://%s/?tree=%s", opts.addr, hash))
	}

	srv := server.New(server.Config{
		Runner:     runner,
		Store:      store,
		SessionTTL: opts.sessionTTL,
		Logger:     logger,
	})
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	srv.Start(ctx, 0)

	httpSrv := &http.Server{
		Addr:              opts.addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- httpSrv.ListenAndServe() }()

	printNewline()
	printKeyValue("Listening", opts.addr)
	if opts.sessionsDir != "" {
		printKeyValue("Sessions", opts.sessionsDir)
	}
	for _, link := range links {
		printLink(link)
	}
	if len(links) == 0 {
		printNextStep("Upload a tree", fmt.Sprintf("curl --data-binary @tree.json http://%s/api/trees", opts.addr))
	}

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	return httpSrv.Shutdown(shutdownCtx)
}

// serveRunner returns a runner for the server. Sessions restore their trees
// from the cache, so a disabled cache is replaced by a temporary file cache
// that is removed by the returned cleanup.
func (c *CLI) serveRunner(ctx context.Context) (*pipeline.Runner, func(), error) {
	if c.Config.Cache.Backend != cacheBackendNone {
		r, err := c.newRunner(ctx, false)
		return r, func() {}, err
	}
	dir, err := os.MkdirTemp("", appName+"-serve-")
	if err != nil {
		return nil, nil, err
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		os.RemoveAll(dir)
		return nil, nil, err
	}
	return pipeline.NewRunner(fc, nil, c.Logger), func() { os.RemoveAll(dir) }, nil
}
