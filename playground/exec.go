package playground

import (
	"context"
	"strconv"
	"strings"

	"github.com/benz9527/xlist/lib/list"
)

type command struct {
	usage string
	args  int
	// optional is the number of trailing args that may be left out.
	optional int
	run      func(ctx context.Context, p *Playground, args []string) Snapshot
}

var commands = map[Op]command{
	OpCreate: {usage: "create <singly|doubly|circular>", args: 1, run: func(ctx context.Context, p *Playground, args []string) Snapshot {
		variant, err := list.ParseVariant(args[0])
		if err != nil {
			return p.failed(OpCreate, err)
		}
		return p.Create(ctx, variant)
	}},
	OpClear: {usage: "clear", run: func(ctx context.Context, p *Playground, _ []string) Snapshot {
		return p.Clear(ctx)
	}},
	OpInsertBegin: {usage: "insert-begin <value>", args: 1, run: func(ctx context.Context, p *Playground, args []string) Snapshot {
		return p.InsertAtBeginning(ctx, args[0])
	}},
	OpInsertEnd: {usage: "insert-end <value>", args: 1, run: func(ctx context.Context, p *Playground, args []string) Snapshot {
		return p.InsertAtEnd(ctx, args[0])
	}},
	OpInsertAt: {usage: "insert-at <value> <index>", args: 2, run: func(ctx context.Context, p *Playground, args []string) Snapshot {
		idx, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return p.failed(OpInsertAt, ErrBadArgument)
		}
		return p.InsertAtIndex(ctx, args[0], idx)
	}},
	OpDeleteBegin: {usage: "delete-begin", run: func(ctx context.Context, p *Playground, _ []string) Snapshot {
		return p.DeleteFromBeginning(ctx)
	}},
	OpDeleteEnd: {usage: "delete-end", run: func(ctx context.Context, p *Playground, _ []string) Snapshot {
		return p.DeleteFromEnd(ctx)
	}},
	OpDeleteValue: {usage: "delete <value>", args: 1, run: func(ctx context.Context, p *Playground, args []string) Snapshot {
		return p.DeleteByValue(ctx, args[0])
	}},
	OpSearch: {usage: "search <value>", args: 1, run: func(ctx context.Context, p *Playground, args []string) Snapshot {
		return p.Search(ctx, args[0])
	}},
	OpTraverse: {usage: "traverse [max]", args: 1, optional: 1, run: func(ctx context.Context, p *Playground, args []string) Snapshot {
		if len(args) == 0 {
			return p.Traverse(ctx)
		}
		max, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || max < 0 {
			return p.failed(OpTraverse, ErrBadArgument)
		}
		return p.Traverse(ctx, max)
	}},
	OpForward: {usage: "forward", run: func(ctx context.Context, p *Playground, _ []string) Snapshot {
		return p.Forward(ctx)
	}},
	OpBackward: {usage: "backward", run: func(ctx context.Context, p *Playground, _ []string) Snapshot {
		return p.Backward(ctx)
	}},
	OpSize: {usage: "size", run: func(ctx context.Context, p *Playground, _ []string) Snapshot {
		return p.Size(ctx)
	}},
}

// Usage lists the accepted commands in a stable order.
func Usage() []string {
	order := []Op{
		OpCreate, OpInsertBegin, OpInsertEnd, OpInsertAt,
		OpDeleteBegin, OpDeleteEnd, OpDeleteValue,
		OpSearch, OpTraverse, OpForward, OpBackward, OpSize, OpClear,
	}
	usage := make([]string, 0, len(order))
	for _, op := range order {
		usage = append(usage, commands[op].usage)
	}
	return usage
}

func (p *Playground) failed(op Op, err error) Snapshot {
	snap := p.Snapshot()
	snap.Op = op
	snap.Err = err
	return snap
}

// Exec parses one command line such as "insert-at 9 2" and applies it.
// Parse failures are reported in the snapshot like any other failure.
func (p *Playground) Exec(ctx context.Context, line string) Snapshot {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return p.failed("", ErrUnknownCommand)
	}
	op := Op(strings.ToLower(fields[0]))
	cmd, ok := commands[op]
	if !ok {
		return p.failed(op, ErrUnknownCommand)
	}
	args := fields[1:]
	if len(args) > cmd.args || len(args) < cmd.args-cmd.optional {
		return p.failed(op, ErrBadArgument)
	}
	return cmd.run(ctx, p, args)
}
