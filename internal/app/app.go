// Package app wires the canvas sync server together: the document store,
// the WebSocket broadcast bridge, the MCP automation surface, and the
// design-source importer.
package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"canvas/internal/batch"
	"canvas/internal/bridge"
	"canvas/internal/importer"
	mcpserver "canvas/internal/mcp"
	"canvas/internal/store"
)

// Options configures startup behavior.
type Options struct {
	// Addr is the listen address for the WebSocket endpoint.
	Addr string
	// ImportPath, when set, is imported once at startup.
	ImportPath string
	// ImportWatch re-imports ImportPath whenever the file changes.
	ImportWatch bool
	// ImportSchedule re-imports ImportPath on a cron schedule
	// (e.g. "@every 30s").
	ImportSchedule string
}

// App holds the wired components.
type App struct {
	Store      *store.Store
	Bridge     *bridge.Bridge
	Translator *batch.Translator
	Importer   *importer.Importer
	MCP        *mcpserver.Server

	opts Options
}

// New wires all components with an empty document.
func New(opts Options) *App {
	st := store.New()
	im := importer.New(st)
	tr := batch.New(st, nil)

	a := &App{
		Store:      st,
		Bridge:     bridge.New(st),
		Translator: tr,
		Importer:   im,
		opts:       opts,
	}
	a.MCP = mcpserver.New(mcpserver.Deps{
		Store:      st,
		Translator: tr,
		Importer:   im,
	})
	return a
}

// Start performs the configured initial import and arms the import
// triggers. Trigger failures are fatal; a failed one-shot import only logs,
// so a missing file does not prevent serving an empty canvas.
func (a *App) Start() error {
	if a.opts.ImportPath == "" {
		return nil
	}
	if _, err := a.Importer.ImportFile(a.opts.ImportPath); err != nil {
		log.Printf("[App] initial import skipped: %v", err)
	}
	if a.opts.ImportWatch {
		if err := a.Importer.WatchFile(a.opts.ImportPath); err != nil {
			return err
		}
	}
	if a.opts.ImportSchedule != "" {
		if err := a.Importer.Schedule(a.opts.ImportSchedule, a.opts.ImportPath); err != nil {
			return err
		}
	}
	return nil
}

// ServeHTTP runs the WebSocket endpoint until ctx is cancelled.
func (a *App) ServeHTTP(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", a.Bridge.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: a.opts.Addr, Handler: mux}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[App] listening on %s", a.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// ServeMCP runs the MCP server on stdin/stdout.
func (a *App) ServeMCP() error {
	return a.MCP.ServeStdio()
}

// Close releases the importer and the bridge.
func (a *App) Close() {
	if err := a.Importer.Close(); err != nil {
		log.Printf("[App] importer close: %v", err)
	}
	a.Bridge.Close()
}
