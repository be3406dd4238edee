package playground

import (
	"context"

	"go.uber.org/zap"

	"github.com/benz9527/xlist/lib/list"
	"github.com/benz9527/xlist/observability"
	"github.com/benz9527/xlist/session"
	"github.com/benz9527/xlist/xlog"
)

type playgroundErr string

func (err playgroundErr) Error() string { return string(err) }

const (
	ErrUnknownCommand playgroundErr = "unknown command, type help to list the commands"
	ErrBadArgument    playgroundErr = "bad command argument"
	ErrNotDoubly      playgroundErr = "only the doubly linked list walks forward and backward"
)

// Playground owns the one list the learner is working on. It is not
// safe for concurrent use, the REPL drives it from a single goroutine.
type Playground struct {
	engine  list.ListEngine[string]
	bound   int64
	logger  xlog.XLogger
	stats   *observability.PlaygroundStats
	session *session.Session
}

type Option func(*Playground)

func WithLogger(logger xlog.XLogger) Option {
	return func(p *Playground) {
		p.logger = logger
	}
}

func WithStats(stats *observability.PlaygroundStats) Option {
	return func(p *Playground) {
		p.stats = stats
	}
}

// WithSession records the progress of successful mutations.
func WithSession(s *session.Session) Option {
	return func(p *Playground) {
		p.session = s
	}
}

// WithTraverseBound caps the values drawn for a circular list.
func WithTraverseBound(bound int64) Option {
	return func(p *Playground) {
		p.bound = bound
	}
}

func New(variant list.Variant, opts ...Option) (*Playground, error) {
	engine, err := list.NewListEngine[string](variant)
	if err != nil {
		return nil, err
	}
	p := &Playground{engine: engine}
	for _, o := range opts {
		if o != nil {
			o(p)
		}
	}
	return p, nil
}

func (p *Playground) Variant() list.Variant {
	return p.engine.Variant()
}

func (p *Playground) values() []string {
	if p.engine.Variant() == list.Circular && p.bound > 0 {
		return p.engine.Traverse(p.bound)
	}
	return p.engine.Traverse()
}

// Snapshot returns the current state without running any operation.
func (p *Playground) Snapshot() Snapshot {
	return Snapshot{
		Variant: p.engine.Variant(),
		Values:  p.values(),
		Size:    p.engine.Len(),
		Index:   -1,
	}
}

// Render draws the current chain.
func (p *Playground) Render() string {
	return p.Snapshot().Render()
}

func (p *Playground) apply(ctx context.Context, op Op, fn func(snap *Snapshot) error) Snapshot {
	snap := Snapshot{Op: op, Index: -1}
	snap.Err = fn(&snap)
	snap.Variant = p.engine.Variant()
	snap.Size = p.engine.Len()
	if snap.Values == nil {
		snap.Values = p.values()
	}
	p.record(ctx, snap)
	return snap
}

func (p *Playground) record(ctx context.Context, snap Snapshot) {
	variant := snap.Variant.String()
	p.stats.RecordOp(ctx, variant, string(snap.Op), snap.Size, snap.Err)

	if p.logger != nil {
		fields := []zap.Field{
			zap.String("variant", variant),
			zap.String("op", string(snap.Op)),
			zap.Int64("size", snap.Size),
		}
		if snap.Err != nil {
			p.logger.InfoContext(ctx, "playground op not applicable", append(fields, zap.String("reason", snap.Err.Error()))...)
		} else {
			p.logger.DebugContext(ctx, "playground op", fields...)
		}
	}

	if p.session == nil || snap.Err != nil || !snap.Op.mutates() {
		return
	}
	if err := p.session.MarkProgress(ctx, string(snap.Op)); err != nil && p.logger != nil {
		p.logger.ErrorStackContext(ctx, err, "mark progress failed", zap.String("op", string(snap.Op)))
	}
}

// Create discards the current list and starts an empty one of variant.
func (p *Playground) Create(ctx context.Context, variant list.Variant) Snapshot {
	return p.apply(ctx, OpCreate, func(*Snapshot) error {
		engine, err := list.NewListEngine[string](variant)
		if err != nil {
			return err
		}
		p.engine = engine
		return nil
	})
}

func (p *Playground) Clear(ctx context.Context) Snapshot {
	return p.apply(ctx, OpClear, func(*Snapshot) error {
		p.engine.Clear()
		return nil
	})
}

func (p *Playground) InsertAtBeginning(ctx context.Context, v string) Snapshot {
	return p.apply(ctx, OpInsertBegin, func(*Snapshot) error {
		p.engine.InsertAtBeginning(v)
		return nil
	})
}

func (p *Playground) InsertAtEnd(ctx context.Context, v string) Snapshot {
	return p.apply(ctx, OpInsertEnd, func(*Snapshot) error {
		p.engine.InsertAtEnd(v)
		return nil
	})
}

func (p *Playground) InsertAtIndex(ctx context.Context, v string, idx int64) Snapshot {
	return p.apply(ctx, OpInsertAt, func(snap *Snapshot) error {
		snap.Index = idx
		_, err := p.engine.InsertAtIndex(v, idx)
		return err
	})
}

func (p *Playground) DeleteFromBeginning(ctx context.Context) Snapshot {
	return p.apply(ctx, OpDeleteBegin, func(snap *Snapshot) (err error) {
		snap.Removed, err = p.engine.DeleteFromBeginning()
		return err
	})
}

func (p *Playground) DeleteFromEnd(ctx context.Context) Snapshot {
	return p.apply(ctx, OpDeleteEnd, func(snap *Snapshot) (err error) {
		snap.Removed, err = p.engine.DeleteFromEnd()
		return err
	})
}

func (p *Playground) DeleteByValue(ctx context.Context, v string) Snapshot {
	return p.apply(ctx, OpDeleteValue, func(snap *Snapshot) error {
		if err := p.engine.DeleteByValue(v); err != nil {
			return err
		}
		snap.Removed = v
		return nil
	})
}

func (p *Playground) Search(ctx context.Context, v string) Snapshot {
	return p.apply(ctx, OpSearch, func(snap *Snapshot) (err error) {
		snap.Index, err = p.engine.Search(v)
		if err != nil {
			snap.Index = -1
		}
		return err
	})
}

// Traverse draws at most max values, a circular list without max uses
// the configured bound.
func (p *Playground) Traverse(ctx context.Context, max ...int64) Snapshot {
	return p.apply(ctx, OpTraverse, func(snap *Snapshot) error {
		if len(max) > 0 && max[0] > 0 {
			snap.Values = p.engine.Traverse(max[0])
		} else {
			snap.Values = p.values()
		}
		return nil
	})
}

func (p *Playground) doubly() (list.DoublyListEngine[string], error) {
	dl, ok := p.engine.(list.DoublyListEngine[string])
	if !ok {
		return nil, ErrNotDoubly
	}
	return dl, nil
}

func (p *Playground) Forward(ctx context.Context) Snapshot {
	return p.apply(ctx, OpForward, func(snap *Snapshot) error {
		dl, err := p.doubly()
		if err != nil {
			return err
		}
		snap.Values = dl.TraverseForward()
		return nil
	})
}

func (p *Playground) Backward(ctx context.Context) Snapshot {
	return p.apply(ctx, OpBackward, func(snap *Snapshot) error {
		dl, err := p.doubly()
		if err != nil {
			return err
		}
		snap.Values = dl.TraverseBackward()
		return nil
	})
}

func (p *Playground) Size(ctx context.Context) Snapshot {
	return p.apply(ctx, OpSize, func(*Snapshot) error {
		return nil
	})
}
