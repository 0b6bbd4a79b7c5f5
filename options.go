package jsonx

import (
	"github.com/polyglotsoft/jsonx/internal/tagutil"
)

// Options configures serialization and typed mapping.
type Options struct {
	// TimeLayout is the Go layout used for time.Time fields with no
	// per-field format tag.
	TimeLayout string
}

// Option mutates Options.
type Option interface {
	apply(*Options)
}

type optionFn func(*Options)

func (o optionFn) apply(opts *Options) { o(opts) }

// WithTimeLayout overrides the default "2006-01-02 15:04:05" layout.
func WithTimeLayout(layout string) Option {
	return optionFn(func(o *Options) { o.TimeLayout = layout })
}

// WithDateFormat is WithTimeLayout for java.text style patterns, e.g.
// "yyyy-MM-dd HH:mm:ss".
func WithDateFormat(dateFormat string) Option {
	return optionFn(func(o *Options) {
		o.TimeLayout = tagutil.DateFormatToLayout(dateFormat)
	})
}

func resolveOptions(opts []Option) Options {
	var cfg Options
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	return cfg
}
