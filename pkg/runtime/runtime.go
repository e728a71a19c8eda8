// Package runtime provides the explicit runtime handle spec.md §9's first
// design note calls for: "Replace hidden globals with an explicit runtime
// handle threaded through init and input_set. The registries become owned
// by that handle; operators receive a borrowed view." Everything that was
// process-wide mutable state in original_source — the label table, the
// datatype table, the tuple allocator — lives on one Runtime instance
// instead, so multiple graphs can coexist in one process without
// colliding.
//
// Adapted from the teacher's internal/engine package: the same
// Config{Options, Logger} constructor shape, atomic.Bool closed flag, and
// CompareAndSwap-guarded Close, repurposed from coordinating a storage
// engine's index/storage/compaction subsystems to coordinating the
// dataflow core's label/datatype/tuple subsystems.
package runtime

import (
	"sync"
	"sync/atomic"

	wserrors "github.com/iamNilotpal/tupleflow/pkg/errors"
	"github.com/iamNilotpal/tupleflow/pkg/freelist"
	"github.com/iamNilotpal/tupleflow/pkg/kid"
	"github.com/iamNilotpal/tupleflow/pkg/label"
	"github.com/iamNilotpal/tupleflow/pkg/options"
	"github.com/iamNilotpal/tupleflow/pkg/queue"
	"github.com/iamNilotpal/tupleflow/pkg/rbtree"
	"github.com/iamNilotpal/tupleflow/pkg/tuple"
	"github.com/iamNilotpal/tupleflow/pkg/wsdata"
	"go.uber.org/zap"
)

// Runtime owns every registry and pool a graph instance needs, and is the
// single object threaded through every kid's Init and InputSet — spec.md
// §9's "explicit runtime handle."
type Runtime struct {
	options *options.Options
	log     *zap.SugaredLogger
	closed  atomic.Bool

	labels    *label.Registry
	datatypes *wsdata.Registry
	tuples    *tuple.Store

	sourcesMu sync.Mutex
	sources   map[string]kid.SourceFunc
}

// Config configures a new Runtime.
type Config struct {
	Options *options.Options
	Logger  *zap.SugaredLogger
}

// New constructs a Runtime with its label registry, datatype registry, and
// tuple store wired together, in that order — mirroring the teacher's
// engine.New, which brings up its least-dependent subsystem first.
func New(config *Config) (*Runtime, error) {
	if config == nil {
		return nil, wserrors.NewRequiredFieldError("Config")
	}

	opts := config.Options
	if opts == nil {
		defaults := options.NewDefaultOptionsFromEnv()
		opts = &defaults
	}

	log := config.Logger
	if log == nil {
		return nil, wserrors.NewRequiredFieldError("Logger")
	}

	labels, err := label.New(&label.Config{Logger: log, Ceiling: opts.LabelIndexCeiling})
	if err != nil {
		return nil, err
	}

	datatypes, err := wsdata.NewRegistry(&wsdata.RegistryConfig{Logger: log})
	if err != nil {
		return nil, err
	}

	tuples, err := tuple.NewStore(tuple.Config{
		Registry:  datatypes,
		Backend:   freelist.Backend(opts.FreeListBackend),
		BlockSize: opts.FreeListBlockSize,
		SmallCap:  opts.SmallBucket.Capacity,
		MediumCap: opts.MediumBucket.Capacity,
		LargeCap:  opts.LargeBucket.Capacity,
		Ceiling:   opts.TupleCeiling,
	})
	if err != nil {
		return nil, err
	}

	return &Runtime{
		options:   opts,
		log:       log,
		labels:    labels,
		datatypes: datatypes,
		tuples:    tuples,
		sources:   make(map[string]kid.SourceFunc),
	}, nil
}

// TypeTable returns the registry view passed to a kid's Init/InputSet.
func (r *Runtime) TypeTable() *kid.TypeTable {
	return &kid.TypeTable{Labels: r.labels, Datatypes: r.datatypes}
}

// SourceView returns a SourceView a kid's Init can use to register itself
// as a graph source.
func (r *Runtime) SourceView() *kid.SourceView {
	return kid.NewSourceView(r.registerSource)
}

func (r *Runtime) registerSource(name string, fn kid.SourceFunc) {
	r.sourcesMu.Lock()
	defer r.sourcesMu.Unlock()
	r.sources[name] = fn
}

// Source returns the source function registered under name, if any.
func (r *Runtime) Source(name string) (kid.SourceFunc, bool) {
	r.sourcesMu.Lock()
	defer r.sourcesMu.Unlock()
	fn, ok := r.sources[name]
	return fn, ok
}

// Labels returns the runtime's label registry.
func (r *Runtime) Labels() *label.Registry { return r.labels }

// Datatypes returns the runtime's datatype registry.
func (r *Runtime) Datatypes() *wsdata.Registry { return r.datatypes }

// Tuples returns the runtime's tuple store.
func (r *Runtime) Tuples() *tuple.Store { return r.tuples }

// Options returns the runtime's resolved configuration.
func (r *Runtime) Options() *options.Options { return r.options }

// NewQueue constructs an edge queue sized per the runtime's configured
// defaults, for the cross-thread hand-offs spec.md §4.7 describes.
func (r *Runtime) NewQueue() (*queue.Queue, error) {
	return queue.New(queue.Config{Capacity: r.options.QueueCapacity, AttemptCap: r.options.QueueAttemptCap})
}

// NewKeyIndex constructs an ordered key index (spec.md §4.9) sized per the
// runtime's configured node pool bound.
func (r *Runtime) NewKeyIndex(cmp rbtree.Comparator) (*rbtree.Tree, error) {
	return rbtree.New(rbtree.Config{Comparator: cmp, NodePoolSize: r.options.RBTreeNodePoolSize})
}

// ErrClosed is returned by Close when called on an already-closed Runtime.
var ErrClosed = wserrors.NewConfigurationError(nil, wserrors.ErrorCodeInvalidInput, "runtime already closed").
	WithField("runtime").WithRule("already_closed")

// Close marks the runtime closed. It is safe to call concurrently; only
// the first caller gets a nil error, mirroring the teacher's
// CompareAndSwap-guarded Engine.Close.
func (r *Runtime) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	r.log.Infow("runtime closed", "labels", r.labels.Len(), "datatypes", r.datatypes.Len())
	return nil
}

// Closed reports whether Close has run.
func (r *Runtime) Closed() bool {
	return r.closed.Load()
}
