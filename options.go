package tonalgo

import (
	"log/slog"

	"github.com/hupe1980/tonalgo/bsp"
	"github.com/hupe1980/tonalgo/index"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	tree             *bsp.Tree
	presets          *index.PresetTable
	indexOptions     []func(o *index.Options)
	serialBuild      bool
}

// Option configures Engine constructor behavior.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := tonalgo.NewJSONLogger(slog.LevelInfo)
//	eng, _ := tonalgo.New(source, tonalgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations.
//
// Example with BasicMetricsCollector:
//
//	metrics := &tonalgo.BasicMetricsCollector{}
//	eng, _ := tonalgo.New(source, tonalgo.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithTree replaces the default two-level tonal-region tree.
func WithTree(tree *bsp.Tree) Option {
	return func(o *options) {
		o.tree = tree
	}
}

// WithPresets replaces the default similarity preset table
// (Tonal, Atonal, Balanced).
func WithPresets(presets *index.PresetTable) Option {
	return func(o *options) {
		o.presets = presets
	}
}

// WithIndexOptions forwards extra configuration to the underlying index.
func WithIndexOptions(optFns ...func(o *index.Options)) Option {
	return func(o *options) {
		o.indexOptions = append(o.indexOptions, optFns...)
	}
}

// WithSerialBuild disables concurrent partition computation in the embedding
// builder. Output vectors are identical either way.
func WithSerialBuild() Option {
	return func(o *options) {
		o.serialBuild = true
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
