// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// DebugObserver provides detailed step-by-step debugging
type DebugObserver struct {
	*StandardObserver
	mu     sync.Mutex
	writer io.Writer
	indent int
}

// NewDebugObserver creates a debug observer with step-by-step logging.
// Structured records and step traces share the writer.
func NewDebugObserver(writer io.Writer) *DebugObserver {
	d := &DebugObserver{
		StandardObserver: NewStandardObserver(ObservabilityDebug, writer),
		writer:           writer,
	}
	d.StandardObserver.DebugObserver = d
	return d
}

// StartStep begins a processing step with indentation
func (d *DebugObserver) StartStep(component, step, filePath string) func(success bool, details string) {
	if d == nil {
		return func(bool, string) {}
	}
	start := time.Now()

	d.mu.Lock()
	fmt.Fprintf(d.writer, "%s> %s: %s (%s)\n", strings.Repeat("  ", d.indent), component, step, filePath)
	d.indent++
	d.mu.Unlock()

	return func(success bool, details string) {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.indent--
		indentStr := strings.Repeat("  ", d.indent)
		status := "completed"
		if !success {
			status = "failed"
		}
		fmt.Fprintf(d.writer, "%s< %s: %s %s (%dms) %s\n",
			indentStr, component, step, status, time.Since(start).Milliseconds(), details)
	}
}

// LogDetail logs a detail within the current step
func (d *DebugObserver) LogDetail(component, detail string) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.writer, "%s   - %s: %s\n", strings.Repeat("  ", d.indent), component, detail)
}

// LogMetric logs a metric value
func (d *DebugObserver) LogMetric(component, metric string, value interface{}) {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.writer, "%s   # %s: %s = %v\n", strings.Repeat("  ", d.indent), component, metric, value)
}
