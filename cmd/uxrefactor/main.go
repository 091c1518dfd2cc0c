// Command uxrefactor analyzes web UIs for contrast, spacing, component and
// design-principle problems and proposes revised markup.
//
// Usage:
//
//	uxrefactor -url https://example.com        # analyze a page, print a report
//	uxrefactor -file page.html [-watch]        # analyze local markup, optionally on every save
//	uxrefactor -serve                          # HTML screens + JSON API
//	uxrefactor -mcp                            # MCP tools over stdio
//	uxrefactor -history                        # list recent analyses
//	uxrefactor -principles [-category name]    # print the design principle catalog
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/uxrefactor/assistant"
	"github.com/hazyhaar/uxrefactor/dbopen"
	"github.com/hazyhaar/uxrefactor/pipeline"
)

var version = "dev"

type options struct {
	configPath string
	url        string
	file       string
	profileID  string
	level      string
	dbPath     string
	listen     string
	category   string
	asJSON     bool
	serve      bool
	watch      bool
	mcp        bool
	history    bool
	principles bool
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "path to uxrefactor.yaml")
	flag.StringVar(&o.url, "url", "", "analyze a page by URL")
	flag.StringVar(&o.file, "file", "", "analyze a local HTML file")
	flag.StringVar(&o.profileID, "profile", "", "brand profile ID (default profile when empty)")
	flag.StringVar(&o.level, "level", "", "capture level: http, headless or auto (overrides config)")
	flag.StringVar(&o.dbPath, "db", "", "SQLite database path (overrides config)")
	flag.StringVar(&o.listen, "listen", "", "listen address for -serve (overrides config)")
	flag.StringVar(&o.category, "category", "", "principle category for -principles")
	flag.BoolVar(&o.asJSON, "json", false, "print analyses as JSON instead of Markdown")
	flag.BoolVar(&o.serve, "serve", false, "serve the HTML screens and JSON API")
	flag.BoolVar(&o.watch, "watch", false, "with -file, re-analyze on every change")
	flag.BoolVar(&o.mcp, "mcp", false, "serve MCP tools over stdio")
	flag.BoolVar(&o.history, "history", false, "list recent analyses")
	flag.BoolVar(&o.principles, "principles", false, "print the design principle catalog")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, o); err != nil {
		logger.Error("uxrefactor: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, o options) error {
	if o.principles {
		return printPrinciples(o.category)
	}
	if o.url == "" && o.file == "" && !o.serve && !o.mcp && !o.history {
		fmt.Fprintln(os.Stderr, "usage: uxrefactor -url <url> | -file <page.html> [-watch] | -serve | -mcp | -history | -principles")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := assistant.LoadConfig(o.configPath)
	if err != nil {
		return err
	}
	if o.level != "" {
		cfg.Level = o.level
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}
	if o.listen != "" {
		cfg.Listen = o.listen
	}

	db, err := dbopen.Open(cfg.DBPath, dbopen.WithMkdirAll())
	if err != nil {
		return err
	}
	defer db.Close()

	a, err := assistant.New(db, cfg, assistant.WithLogger(logger))
	if err != nil {
		return err
	}
	defer a.Close()

	switch {
	case o.history:
		return printHistory(ctx, a, cfg.HistoryLimit)
	case o.mcp:
		logger.Info("uxrefactor: serving MCP over stdio")
		return a.NewMCPServer(version).Run(ctx, &mcp.StdioTransport{})
	case o.serve:
		return serve(ctx, logger, a, cfg.Listen)
	case o.file != "" && o.watch:
		return watchFile(ctx, logger, o.file, func() error {
			return analyzeFile(ctx, a, o)
		})
	case o.file != "":
		return analyzeFile(ctx, a, o)
	default:
		an, err := a.AnalyzeURL(ctx, o.url, o.profileID)
		if err != nil {
			return err
		}
		return printAnalysis(an, o.asJSON)
	}
}

func analyzeFile(ctx context.Context, a *assistant.Assistant, o options) error {
	data, err := os.ReadFile(o.file)
	if err != nil {
		return err
	}
	an, err := a.AnalyzeHTML(ctx, "file://"+o.file, string(data), o.profileID)
	if err != nil {
		return err
	}
	return printAnalysis(an, o.asJSON)
}

func printAnalysis(an *pipeline.Analysis, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(an)
	}
	md, err := assistant.Report(an)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, md)
	return err
}

func serve(ctx context.Context, logger *slog.Logger, a *assistant.Assistant, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("uxrefactor: server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("uxrefactor: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
