// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

// Tracer is the step-level tracing surface used by the processing pipeline
type Tracer interface {
	StartStep(component, step, filePath string) func(success bool, details string)
	LogDetail(component, detail string)
	LogMetric(component, metric string, value interface{})
}

type noopTracer struct{}

// NopTracer returns a tracer that discards everything
func NopTracer() Tracer { return noopTracer{} }

func (noopTracer) StartStep(string, string, string) func(bool, string) { return func(bool, string) {} }
func (noopTracer) LogDetail(string, string)                           {}
func (noopTracer) LogMetric(string, string, interface{})              {}

// Tracer returns the debug observer when one is attached, otherwise a tracer
// that discards everything.
func (o *StandardObserver) Tracer() Tracer {
	if o == nil || o.DebugObserver == nil {
		return noopTracer{}
	}
	return o.DebugObserver
}
