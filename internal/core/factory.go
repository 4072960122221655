// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"

	"skryi/internal/classifier"
	"skryi/internal/config"
	"skryi/internal/morphology"
	"skryi/internal/names"
	"skryi/internal/observability"
	"skryi/internal/rules"
)

// Engine holds the read-only resources shared by every document of a run:
// the rule table, the names dictionary, the morphology engine and the
// person classifier. It is safe for concurrent sessions.
type Engine struct {
	Rules      *rules.Table
	Names      names.Lookup
	Morphology *morphology.Engine
	Classifier *classifier.Classifier
}

// BuildEngine constructs the shared resources from configuration. Pass nil
// for cfg to use the defaults. A names dictionary that fails to load is
// logged and replaced by an empty one; every other failure is returned.
func BuildEngine(cfg *config.Config, observer *observability.StandardObserver) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	var (
		table *rules.Table
		err   error
	)
	if cfg.Rules.File != "" {
		table, err = rules.LoadFile(cfg.Rules.File)
	} else {
		table, err = rules.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rule table: %w", err)
	}
	if err := table.Enable(cfg.Rules.Enabled...); err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	if err := table.Disable(cfg.Rules.Disabled...); err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}

	dict, err := names.Load(cfg.Defaults.NamesFile)
	if err != nil {
		observer.Warn("names", "names dictionary unavailable, continuing without first names", err)
	}

	var gazetteer *classifier.Gazetteer
	if cfg.Classifier.Gazetteer != "" {
		gazetteer, err = classifier.LoadGazetteer(cfg.Classifier.Gazetteer)
		if err != nil {
			return nil, err
		}
	}

	morph := morphology.New(dict, morphology.WithPolicy(cfg.Morphology))
	return &Engine{
		Rules:      table,
		Names:      dict,
		Morphology: morph,
		Classifier: classifier.New(dict, gazetteer,
			classifier.WithStopwords(cfg.Classifier.ExtraStopwords...),
			classifier.WithCompanyMarkers(cfg.Classifier.ExtraCompanyMarkers...),
			classifier.WithNominative(morph.NominativeOfFirst),
		),
	}, nil
}
