// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package batch

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"skryi/internal/core"
	"skryi/internal/documents"
	"skryi/internal/paths"
)

// Config holds configuration for a folder run
type Config struct {
	Dir       string
	Recursive bool
	// Workers bounds concurrent documents; 0 means one per CPU
	Workers int
	// Template is copied for every document with FilePath filled in
	Template core.AnonymizeConfig
}

// FileResult is the outcome of one document
type FileResult struct {
	Path   string
	Result *core.AnonymizeResult
	Err    error
}

// Stats summarizes a folder run
type Stats struct {
	TotalFiles     int           `json:"total_files"`
	ProcessedFiles int           `json:"processed_files"`
	FailedFiles    int           `json:"failed_files"`
	PersonsFound   int           `json:"persons_found"`
	EntitiesTotal  int           `json:"entities_total"`
	TotalDuration  time.Duration `json:"total_duration_ns"`
	WorkerCount    int           `json:"worker_count"`
}

// ProgressCallback is called when a file is completed
type ProgressCallback func(completed, total int, currentFile string)

// Discover lists the supported documents under dir in lexical order,
// skipping our own outputs and editor lock files
func Discover(dir string, recursive bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if documents.Supported(path) && !paths.IsOutputOrTemp(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run anonymizes every document in the folder, each in its own session.
// A failed document is recorded in its FileResult and does not stop the
// others. Cancelling ctx stops scheduling further documents; the returned
// error is then the context error.
func Run(ctx context.Context, cfg Config, progress ProgressCallback) ([]FileResult, *Stats, error) {
	start := time.Now()
	finish := cfg.Template.Observer.StartTiming("batch", "process_folder", cfg.Dir)

	files, err := Discover(cfg.Dir, cfg.Recursive)
	if err != nil {
		finish(false, map[string]interface{}{"error": err.Error()})
		return nil, nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]FileResult, len(files))
	var (
		mu        sync.Mutex
		completed int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		i, path := i, path
		g.Go(func() error {
			job := cfg.Template
			job.FilePath = path
			res, err := core.AnonymizeFile(gctx, job)
			results[i] = FileResult{Path: path, Result: res, Err: err}

			if progress != nil {
				mu.Lock()
				completed++
				progress(completed, len(files), path)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	stats := &Stats{TotalFiles: len(files), WorkerCount: workers}
	for i := range results {
		r := &results[i]
		if r.Path == "" {
			// never scheduled
			r.Path = files[i]
			r.Err = ctx.Err()
		}
		if r.Err != nil {
			stats.FailedFiles++
			continue
		}
		stats.ProcessedFiles++
		stats.PersonsFound += r.Result.PersonsFound
		stats.EntitiesTotal += r.Result.EntitiesTotal
	}
	stats.TotalDuration = time.Since(start)

	finish(ctx.Err() == nil, map[string]interface{}{
		"total_files":     stats.TotalFiles,
		"processed_files": stats.ProcessedFiles,
		"failed_files":    stats.FailedFiles,
		"match_count":     stats.EntitiesTotal,
		"worker_count":    workers,
	})
	return results, stats, ctx.Err()
}
