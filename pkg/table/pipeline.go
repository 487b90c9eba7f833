package table

import (
	"context"

	"github.com/pkg/errors"
)

// Transform is a step that maps one Frame to another. Implementations may
// return the input frame when they have nothing to do.
type Transform interface {
	Name() string
	Apply(ctx context.Context, f *Frame) (*Frame, error)
}

// Pipeline composes a sequence of Transforms.
type Pipeline struct {
	steps []Transform
}

func NewPipeline() *Pipeline { return &Pipeline{} }

func (p *Pipeline) Add(t Transform) *Pipeline {
	p.steps = append(p.steps, t)
	return p
}

// Steps returns the names of the configured transforms.
func (p *Pipeline) Steps() []string {
	names := make([]string, len(p.steps))
	for i, t := range p.steps {
		names[i] = t.Name()
	}
	return names
}

// Run applies every step in order. The first failing step aborts the run and
// its error is returned annotated with the step name.
func (p *Pipeline) Run(ctx context.Context, f *Frame) (*Frame, error) {
	var err error
	cur := f
	for _, t := range p.steps {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		cur, err = t.Apply(ctx, cur)
		if err != nil {
			return nil, errors.WithMessage(err, t.Name())
		}
	}
	return cur, nil
}

// DropColumns removes the named columns. Names not in the frame are ignored.
type DropColumns struct{ Columns []string }

func (t *DropColumns) Name() string { return "drop" }

func (t *DropColumns) Apply(_ context.Context, f *Frame) (*Frame, error) {
	return f.Drop(t.Columns...), nil
}
