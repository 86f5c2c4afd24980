// File path: cmd/cobolscope/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nicodishanthj/cobolscope/internal/analyzer"
	"github.com/nicodishanthj/cobolscope/internal/api"
	"github.com/nicodishanthj/cobolscope/internal/catalog"
	"github.com/nicodishanthj/cobolscope/internal/common"
	"github.com/nicodishanthj/cobolscope/internal/graph"
	"github.com/nicodishanthj/cobolscope/internal/memory"
	"github.com/nicodishanthj/cobolscope/internal/report"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Debug("cobolscope: .env file not loaded", "error", err)
	} else {
		logger.Info("cobolscope: environment loaded from .env")
	}

	dir := flag.String("dir", "", "directory of COBOL sources to analyze")
	project := flag.String("project", "default", "project identifier for persisted runs")
	storePath := flag.String("store", defaultStorePath(), "directory for JSONL snapshots")
	catalogPath := flag.String("catalog", "", "path to the SQLite catalog database (empty disables)")
	reportOut := flag.String("report", "", "write a markdown report to this path")
	jsonOut := flag.String("json", "", "write a JSON report to this path")
	dotOut := flag.String("dot", "", "write a Graphviz DOT export to this path")
	workers := flag.Int("workers", 0, "number of concurrent file extractions (0 uses default)")
	addr := flag.String("addr", "", "listen address for the HTTP API (empty disables)")
	flag.Parse()

	if *dir == "" && *addr == "" {
		fmt.Fprintln(os.Stderr, "usage: cobolscope -dir <sources> [-report out.md] [-json out.json] [-dot out.dot] [-addr :8082]")
		os.Exit(2)
	}

	store, err := memory.NewStore(*storePath)
	if err != nil {
		logger.Error("cobolscope: snapshot store unavailable", "error", err)
		fmt.Println("store error:", err)
		os.Exit(1)
	}

	var cat *catalog.Store
	if trimmed := strings.TrimSpace(*catalogPath); trimmed != "" {
		cat, err = catalog.Open(trimmed)
		if err != nil {
			logger.Error("cobolscope: catalog unavailable", "error", err)
			fmt.Println("catalog error:", err)
			os.Exit(1)
		}
		defer cat.Close()
	}

	if *dir != "" {
		if err := runAnalysis(ctx, *dir, *project, *workers, store, cat, *reportOut, *jsonOut, *dotOut); err != nil {
			logger.Error("cobolscope: analysis failed", "error", err)
			fmt.Println("analysis error:", err)
			os.Exit(1)
		}
	}

	if *addr != "" {
		server, err := api.NewServer(store, cat)
		if err != nil {
			logger.Error("cobolscope: server init failed", "error", err)
			fmt.Println("server error:", err)
			os.Exit(1)
		}
		logger.Info("cobolscope: listening", "addr", *addr)
		if err := http.ListenAndServe(*addr, server); err != nil {
			logger.Error("cobolscope: server stopped", "error", err)
			fmt.Println("server error:", err)
			os.Exit(1)
		}
	}
}

func runAnalysis(ctx context.Context, dir, project string, workers int, store *memory.Store, cat *catalog.Store, reportOut, jsonOut, dotOut string) error {
	logger := common.Logger()

	var opts []analyzer.BatchOption
	if workers > 0 {
		opts = append(opts, analyzer.WithWorkers(workers))
	}
	batch := analyzer.NewBatch(opts...)
	result, err := batch.AnalyzeDir(ctx, dir)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", dir, err)
	}
	for _, failure := range result.Failures {
		logger.Warn("cobolscope: file skipped", "error", failure)
	}

	g := graph.Build(result.Programs)
	cycles := g.Cycles()
	stats := g.Stats()
	logger.Info("cobolscope: analysis complete",
		"programs", stats.ProgramNodes, "files", stats.FileNodes,
		"calls", stats.CallEdges, "cycles", len(cycles))
	for _, cycle := range cycles {
		fmt.Println("cycle:", cycle.String())
	}

	if err := store.ReplacePrograms(ctx, project, result.Programs); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	if cat != nil {
		if err := cat.SaveRun(ctx, project, result.Programs, g, cycles); err != nil {
			return fmt.Errorf("persist catalog: %w", err)
		}
	}

	batchReport := report.BuildBatchReport(result, g, cycles)
	if reportOut != "" {
		if err := os.WriteFile(reportOut, []byte(report.RenderMarkdown(batchReport)), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info("cobolscope: report written", "path", reportOut)
	}
	if jsonOut != "" {
		data, err := report.RenderJSON(batchReport)
		if err != nil {
			return fmt.Errorf("render json: %w", err)
		}
		if err := os.WriteFile(jsonOut, data, 0o644); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
		logger.Info("cobolscope: json written", "path", jsonOut)
	}
	if dotOut != "" {
		if err := os.WriteFile(dotOut, []byte(report.RenderDOT(g)), 0o644); err != nil {
			return fmt.Errorf("write dot: %w", err)
		}
		logger.Info("cobolscope: dot written", "path", dotOut)
	}
	return nil
}

func defaultStorePath() string {
	if env := strings.TrimSpace(os.Getenv("COBOLSCOPE_STORE")); env != "" {
		return env
	}
	return filepath.Join(".", "cobolscope-data")
}
