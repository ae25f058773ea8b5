package embedding

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// PartitionError indicates that one partition computation failed during an
// embedding build. The whole build fails; partial embeddings are never
// returned.
//
// The original underlying error can be accessed via errors.Unwrap.
type PartitionError struct {
	Partition string
	cause     error
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("partition %q: computation failed: %v", e.Partition, e.cause)
}

func (e *PartitionError) Unwrap() error { return e.cause }

type namedPartitionFunc struct {
	name string
	fn   partitionFunc
}

// Builder composes one fixed-layout embedding per musical object from
// independently computed partitions. Partition computations are pure and
// mutually independent, so the builder dispatches them concurrently and
// joins before assembly.
//
// A Builder is immutable after construction and safe for concurrent use.
type Builder struct {
	layout *Layout
	funcs  []namedPartitionFunc
	serial bool
}

// BuilderOptions contains configuration options for a Builder.
type BuilderOptions struct {
	// Concurrent dispatches partition computations on separate goroutines.
	// Disabling it yields the same vectors with serial latency; useful for
	// debugging.
	Concurrent bool
}

// DefaultBuilderOptions contains the default Builder configuration.
var DefaultBuilderOptions = BuilderOptions{
	Concurrent: true,
}

// NewBuilder creates a Builder over the default partition layout.
func NewBuilder(optFns ...func(o *BuilderOptions)) *Builder {
	opts := DefaultBuilderOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	b := &Builder{
		layout: DefaultLayout,
		funcs: []namedPartitionFunc{
			{PartitionIdentity, computeIdentity},
			{PartitionStructure, computeStructure},
			{PartitionMorphology, computeMorphology},
			{PartitionContext, computeContext},
			{PartitionSymbolic, computeSymbolic},
			{PartitionSpectral, computeSpectral},
			{PartitionExtensions, computeExtensions},
		},
	}
	if !opts.Concurrent {
		b.serial = true
	}
	return b
}

// Layout returns the partition schema the builder produces.
func (b *Builder) Layout() *Layout { return b.layout }

// Build computes one embedding for obj. Each partition is computed into its
// own disjoint segment of the output vector; on any partition failure the
// build returns a PartitionError naming the failed partition and no
// embedding. Identical input always yields a bit-identical vector.
func (b *Builder) Build(ctx context.Context, obj Object) (Embedding, error) {
	if err := ctx.Err(); err != nil {
		return Embedding{}, err
	}

	values := make([]float32, b.layout.Dimension())

	if b.serial {
		for _, p := range b.funcs {
			if err := ctx.Err(); err != nil {
				return Embedding{}, err
			}
			seg, _ := b.layout.Slice(values, p.name)
			if err := p.fn(obj, seg); err != nil {
				return Embedding{}, &PartitionError{Partition: p.name, cause: err}
			}
		}
		return Embedding{layout: b.layout, values: values}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range b.funcs {
		p := p
		seg, _ := b.layout.Slice(values, p.name)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := p.fn(obj, seg); err != nil {
				return &PartitionError{Partition: p.name, cause: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Embedding{}, err
	}

	return Embedding{layout: b.layout, values: values}, nil
}
