// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"skryi/internal/documents"
	"skryi/internal/formatters"
	"skryi/internal/metrics"
	"skryi/internal/observability"
	"skryi/internal/paths"

	// Map formatters register themselves
	_ "skryi/internal/formatters/json"
	_ "skryi/internal/formatters/text"
	_ "skryi/internal/formatters/yaml"
)

const component = "anonymizer"

// AnonymizeConfig holds configuration for one document run
type AnonymizeConfig struct {
	FilePath   string
	OutputDir  string   // empty writes next to the input
	MapFormats []string // json, txt, yaml; empty means json and txt
	Redact     bool     // write sensitive originals as ***REDACTED***

	Engine   *Engine
	Observer *observability.StandardObserver
	Metrics  *metrics.Metrics
}

// AnonymizeResult describes the files written for one document
type AnonymizeResult struct {
	Source        string
	Output        string
	Maps          map[string]string // format -> path
	PersonsFound  int
	EntitiesTotal int
	Merged        int
	Pruned        int
	Counts        map[string]int
	Duration      time.Duration
}

// MapPath returns the written map of the given format, or ""
func (r *AnonymizeResult) MapPath(format string) string {
	if r == nil {
		return ""
	}
	return r.Maps[format]
}

// AnonymizeFile reads a document, tags every unit, settles person identities
// against the whole text and writes the anonymized document plus its maps.
func AnonymizeFile(ctx context.Context, cfg AnonymizeConfig) (result *AnonymizeResult, err error) {
	start := time.Now()
	finish := cfg.Observer.StartTiming(component, "anonymize_file", cfg.FilePath)
	defer func() {
		status := metrics.StatusOK
		meta := map[string]interface{}{}
		if err != nil {
			status = metrics.StatusFailed
			meta["error"] = err.Error()
		} else {
			meta["match_count"] = result.EntitiesTotal
			meta["persons"] = result.PersonsFound
		}
		cfg.Metrics.ObserveDocument(status, time.Since(start))
		finish(err == nil, meta)
	}()

	if cfg.Engine == nil {
		return nil, fmt.Errorf("anonymize %s: no engine", cfg.FilePath)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tracer := cfg.Observer.Tracer()

	done := tracer.StartStep(component, "open", cfg.FilePath)
	doc, err := documents.Open(cfg.FilePath)
	if err != nil {
		done(false, err.Error())
		return nil, err
	}
	units := doc.Units()
	done(true, fmt.Sprintf("%s, %d units", doc.Format(), len(units)))

	session := NewSession(cfg.Engine, WithTracer(tracer))
	tagged := make([]string, len(units))
	for i, u := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tagged[i] = session.RecognizeAndTag(u)
	}

	final := session.Finalize(strings.Join(units, "\n"))
	tracer.LogMetric(component, "persons_merged", final.Merged)
	tracer.LogMetric(component, "persons_pruned", final.Pruned)
	for i, t := range tagged {
		if err := doc.SetText(i, final.Apply(t)); err != nil {
			return nil, fmt.Errorf("rewriting %s: %w", cfg.FilePath, err)
		}
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	result = &AnonymizeResult{
		Source:        cfg.FilePath,
		Output:        paths.AnonPath(cfg.OutputDir, cfg.FilePath, doc.OutputExt()),
		Maps:          make(map[string]string),
		PersonsFound:  final.PersonsFound(),
		EntitiesTotal: final.EntitiesTotal(),
		Merged:        final.Merged,
		Pruned:        final.Pruned,
		Counts:        session.Counts(),
	}
	if err := doc.Save(result.Output); err != nil {
		return nil, err
	}

	m := &formatters.Map{
		GeneratedAt: time.Now(),
		RunID:       cfg.Observer.RunID(),
		SourceFile:  filepath.Base(cfg.FilePath),
		Rows:        final.Entries(),
	}
	if err := writeMaps(m, cfg, result); err != nil {
		return nil, err
	}

	cfg.Metrics.AddEntities(result.Counts)
	cfg.Metrics.AddFinalize(final.Merged, final.Pruned)
	result.Duration = time.Since(start)
	return result, nil
}

func writeMaps(m *formatters.Map, cfg AnonymizeConfig, result *AnonymizeResult) error {
	formats := cfg.MapFormats
	if len(formats) == 0 {
		formats = []string{"json", "txt"}
	}
	opts := formatters.FormatterOptions{Redact: cfg.Redact, NoColor: true}
	for _, format := range formats {
		content, err := formatters.Export(format, m, opts)
		if err != nil {
			return err
		}
		path := paths.MapPath(cfg.OutputDir, cfg.FilePath, format)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			return fmt.Errorf("failed to write %s map: %w", format, err)
		}
		result.Maps[format] = path
	}
	return nil
}
