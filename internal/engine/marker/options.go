package marker

import (
	"github.com/dshills/spanbuf/internal/engine/notify"
	"github.com/dshills/spanbuf/internal/logging"
)

// Option configures a Buffer.
type Option func(*Buffer)

// WithLogger sets the logger for the buffer and its dispatcher.
func WithLogger(l *logging.Logger) Option {
	return func(b *Buffer) {
		b.log = logging.OrNop(l).WithComponent("marker")
		b.dispOpts = append(b.dispOpts, notify.WithLogger(l))
	}
}

// WithPanicHandler sets how panicking observers are reported.
func WithPanicHandler(h notify.PanicHandler) Option {
	return func(b *Buffer) {
		b.dispOpts = append(b.dispOpts, notify.WithPanicHandler(h))
	}
}

// WithMaxDepth bounds splice nesting. Zero means unbounded.
func WithMaxDepth(depth int) Option {
	return func(b *Buffer) {
		if depth >= 0 {
			b.maxDepth = depth
		}
	}
}

// WithParagraphSeparators replaces the default separator set ('\n').
func WithParagraphSeparators(seps ...rune) Option {
	return func(b *Buffer) {
		if len(seps) > 0 {
			b.paragraphSeps = append([]rune(nil), seps...)
		}
	}
}

// WithFilters installs input filters, applied in order on every splice.
func WithFilters(filters ...Filter) Option {
	return func(b *Buffer) {
		b.filters = append(b.filters, filters...)
	}
}
