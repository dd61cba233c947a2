// Copyright 2026 The gff Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package gff

import (
	"io"
	"log/slog"
)

// DefaultOptionalLabels lists labels that Lookup reports as absent instead of
// failing.  Older placeable blueprints have no OnClick field.
var DefaultOptionalLabels = []string{"OnClick"}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Option configures a Document.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	optionalLabels labelSet
}

// WithLogger sets an optional logger for the document to use for debug
// output and warnings.  If not provided, no logging output will be produced.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithOptionalLabels replaces DefaultOptionalLabels for this document.
func WithOptionalLabels(labels ...string) Option {
	return func(opts *options) {
		opts.optionalLabels = newLabelSet(labels)
	}
}

func newOptions(opts []Option) options {
	var o options
	o.logger = discardLogger
	o.optionalLabels = newLabelSet(DefaultOptionalLabels)
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (d *Document) log() *slog.Logger {
	if d.logger == nil {
		return discardLogger
	}
	return d.logger
}

// Logger returns the logger the document was created with.
func (d *Document) Logger() *slog.Logger {
	return d.log()
}
