package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"canvas/internal/app"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:4100", "listen address for the WebSocket endpoint")
	mcpMode := flag.Bool("mcp", false, "also serve MCP on stdin/stdout")
	importPath := flag.String("import", "", "document JSON file to import at startup")
	importWatch := flag.Bool("import-watch", false, "re-import the document file whenever it changes")
	importSchedule := flag.String("import-schedule", "", `cron schedule for re-importing the document file (e.g. "@every 30s")`)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := app.New(app.Options{
		Addr:           *addr,
		ImportPath:     *importPath,
		ImportWatch:    *importWatch,
		ImportSchedule: *importSchedule,
	})
	defer a.Close()

	if err := a.Start(); err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	if *mcpMode {
		// Stdio MCP owns the foreground; the WebSocket endpoint serves
		// the interactive client alongside it.
		go func() {
			if err := a.ServeHTTP(ctx); err != nil {
				log.Printf("[App] http server: %v", err)
			}
		}()
		if err := a.ServeMCP(); err != nil {
			log.Fatalf("MCP server error: %v", err)
		}
		return
	}

	if err := a.ServeHTTP(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
