// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StandardObserver implements observability for all components
type StandardObserver struct {
	level         ObservabilityLevel
	logger        zerolog.Logger
	runID         string
	DebugObserver *DebugObserver // Reference to debug observer when in debug mode
}

type ObservabilityLevel int

const (
	ObservabilityOff     ObservabilityLevel = 0
	ObservabilityMetrics ObservabilityLevel = 1
	ObservabilityDebug   ObservabilityLevel = 2
)

// ParseLevel maps "off", "metrics" and "debug" to a level; anything else is
// metrics.
func ParseLevel(s string) ObservabilityLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none", "quiet":
		return ObservabilityOff
	case "debug", "trace":
		return ObservabilityDebug
	default:
		return ObservabilityMetrics
	}
}

// NewStandardObserver creates observability component writing JSON lines
func NewStandardObserver(level ObservabilityLevel, writer io.Writer) *StandardObserver {
	return newObserver(level, zerolog.New(writer))
}

// NewConsoleObserver writes human readable lines instead of JSON
func NewConsoleObserver(level ObservabilityLevel, writer io.Writer, noColor bool) *StandardObserver {
	return newObserver(level, zerolog.New(zerolog.ConsoleWriter{Out: writer, NoColor: noColor, TimeFormat: time.Kitchen}))
}

func newObserver(level ObservabilityLevel, base zerolog.Logger) *StandardObserver {
	runID := uuid.NewString()
	zl := zerolog.InfoLevel
	switch level {
	case ObservabilityOff:
		zl = zerolog.Disabled
	case ObservabilityDebug:
		zl = zerolog.DebugLevel
	}
	return &StandardObserver{
		level:  level,
		runID:  runID,
		logger: base.Level(zl).With().Timestamp().Str("run_id", runID).Logger(),
	}
}

// Level returns the configured observability level
func (o *StandardObserver) Level() ObservabilityLevel {
	if o == nil {
		return ObservabilityOff
	}
	return o.level
}

// RunID identifies one CLI invocation across all log records
func (o *StandardObserver) RunID() string {
	if o == nil {
		return ""
	}
	return o.runID
}

// Logger exposes the underlying logger for ad-hoc warnings. A nil observer
// yields a disabled logger.
func (o *StandardObserver) Logger() *zerolog.Logger {
	if o == nil {
		l := zerolog.Nop()
		return &l
	}
	return &o.logger
}

// Warn records a degraded-but-continuing condition
func (o *StandardObserver) Warn(component, message string, err error) {
	if o == nil || o.level == ObservabilityOff {
		return
	}
	o.logger.Warn().Str("component", component).Err(err).Msg(message)
}

// StartTiming returns a function to complete timing
func (o *StandardObserver) StartTiming(component, operation, filePath string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		if o == nil {
			return
		}
		duration := time.Since(start)

		data := StandardObservabilityData{
			Component:  component,
			Operation:  operation,
			FilePath:   filePath,
			DurationMs: duration.Milliseconds(),
			Success:    success,
			Metadata:   metadata,
		}
		if n, ok := metadata["match_count"].(int); ok {
			data.MatchCount = n
		}
		if errMsg, ok := metadata["error"].(string); ok {
			data.Error = errMsg
		}

		o.LogOperation(data)
	}
}

// LogOperation logs operation data. Metadata is only written in debug mode.
func (o *StandardObserver) LogOperation(data StandardObservabilityData) {
	if o == nil || o.level == ObservabilityOff {
		return
	}

	data.RequestID = "req-" + uuid.NewString()

	event := o.logger.Info()
	if !data.Success {
		event = o.logger.Warn()
	}
	event = event.
		Str("component", data.Component).
		Str("operation", data.Operation).
		Str("request_id", data.RequestID).
		Int64("duration_ms", data.DurationMs).
		Bool("success", data.Success)
	if data.FilePath != "" {
		event = event.Str("file_path", data.FilePath)
	}
	if data.Error != "" {
		event = event.Str("error", data.Error)
	}
	if data.ContentLength > 0 {
		event = event.Int("content_length", data.ContentLength)
	}
	if data.MatchCount > 0 {
		event = event.Int("match_count", data.MatchCount)
	}
	if o.level == ObservabilityDebug && len(data.Metadata) > 0 {
		event = event.Interface("metadata", data.Metadata)
	}
	event.Msg("operation")
}

// StandardObservabilityData for all components
type StandardObservabilityData struct {
	Component     string                 `json:"component"`
	Operation     string                 `json:"operation"`
	RequestID     string                 `json:"request_id"`
	FilePath      string                 `json:"file_path,omitempty"`
	DurationMs    int64                  `json:"duration_ms,omitempty"`
	Success       bool                   `json:"success"`
	Error         string                 `json:"error,omitempty"`
	ContentLength int                    `json:"content_length,omitempty"`
	MatchCount    int                    `json:"match_count,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}
