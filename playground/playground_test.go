package playground

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/benz9527/xlist/lib/list"
	"github.com/benz9527/xlist/observability"
	"github.com/benz9527/xlist/session"
	"github.com/benz9527/xlist/xlog"
)

func TestPlayground_Scenarios(t *testing.T) {
	ctx := context.Background()
	p, err := New(list.Singly)
	require.NoError(t, err)

	// A
	for _, v := range []string{"10", "20", "30"} {
		snap := p.InsertAtEnd(ctx, v)
		require.True(t, snap.OK())
	}
	snap := p.Traverse(ctx)
	require.Equal(t, []string{"10", "20", "30"}, snap.Values)
	require.Equal(t, int64(3), snap.Size)
	require.Equal(t, "[10] -> [20] -> [30] -> nil", snap.Render())

	// B
	snap = p.DeleteFromBeginning(ctx)
	require.NoError(t, snap.Err)
	require.Equal(t, "10", snap.Removed)
	require.Equal(t, []string{"20", "30"}, snap.Values)
	require.Equal(t, "removed 10, size=2", snap.Message())

	// F
	snap = p.InsertAtIndex(ctx, "99", 5)
	require.ErrorIs(t, snap.Err, list.ErrOutOfRange)
	require.Equal(t, []string{"20", "30"}, snap.Values)
	require.Equal(t, "index 5 is out of range, valid positions are [0, 2]", snap.Message())

	// C
	snap = p.Create(ctx, list.Doubly)
	require.True(t, snap.OK())
	require.Equal(t, "(empty)", snap.Render())
	for _, v := range []string{"1", "2", "3"} {
		p.InsertAtEnd(ctx, v)
	}
	require.Equal(t, []string{"1", "2", "3"}, p.Forward(ctx).Values)
	require.Equal(t, []string{"3", "2", "1"}, p.Backward(ctx).Values)
	require.Equal(t, "nil <- [1] <-> [2] <-> [3] -> nil", p.Render())

	// D
	p.Create(ctx, list.Circular)
	for _, v := range []string{"10", "20", "30"} {
		p.InsertAtEnd(ctx, v)
	}
	snap = p.Traverse(ctx, 20)
	require.Equal(t, []string{"10", "20", "30"}, snap.Values)
	require.Equal(t, "[10] -> [20] -> [30] -> (head)", snap.Render())
	require.ErrorIs(t, p.Forward(ctx).Err, ErrNotDoubly)

	// E
	p.Clear(ctx)
	snap = p.DeleteFromBeginning(ctx)
	require.ErrorIs(t, snap.Err, list.ErrEmptyCollection)
	require.Equal(t, list.Circular, snap.Variant)
	require.Zero(t, snap.Size)
	require.Empty(t, snap.Values)
}

func TestPlayground_SearchAndDelete(t *testing.T) {
	ctx := context.Background()
	p, err := New(list.Doubly)
	require.NoError(t, err)
	p.InsertAtBeginning(ctx, "b")
	p.InsertAtBeginning(ctx, "a")
	p.InsertAtEnd(ctx, "c")

	snap := p.Search(ctx, "c")
	require.NoError(t, snap.Err)
	require.Equal(t, int64(2), snap.Index)
	require.Equal(t, "found at index 2", snap.Message())

	snap = p.Search(ctx, "z")
	require.ErrorIs(t, snap.Err, list.ErrValueNotFound)
	require.Equal(t, int64(-1), snap.Index)

	snap = p.DeleteByValue(ctx, "b")
	require.NoError(t, snap.Err)
	require.Equal(t, "b", snap.Removed)
	require.Equal(t, []string{"a", "c"}, snap.Values)

	snap = p.DeleteFromEnd(ctx)
	require.Equal(t, "c", snap.Removed)
	require.Equal(t, "size=1", p.Size(ctx).Message())
}

func TestPlayground_CircularBound(t *testing.T) {
	ctx := context.Background()
	p, err := New(list.Circular, WithTraverseBound(2))
	require.NoError(t, err)
	for _, v := range []string{"x", "y", "z"} {
		p.InsertAtEnd(ctx, v)
	}
	snap := p.Size(ctx)
	require.Equal(t, int64(3), snap.Size)
	require.Equal(t, []string{"x", "y"}, snap.Values)
	require.Equal(t, "[x] -> [y] -> ...", snap.Render())
	snap = p.Traverse(ctx, 3)
	require.Equal(t, []string{"x", "y", "z"}, snap.Values)
	require.Equal(t, "[x] -> [y] -> [z] -> (head)", snap.Render())
}

func TestSnapshot_RenderTruncated(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		variant list.Variant
		want    string
	}{
		{variant: list.Singly, want: "[a] -> [b] -> ..."},
		{variant: list.Doubly, want: "nil <- [a] <-> [b] <-> ..."},
		{variant: list.Circular, want: "[a] -> [b] -> ..."},
	} {
		t.Run(tc.variant.String(), func(t *testing.T) {
			p, err := New(tc.variant)
			require.NoError(t, err)
			for _, v := range []string{"a", "b", "c"} {
				p.InsertAtEnd(ctx, v)
			}
			require.Equal(t, tc.want, p.Traverse(ctx, 2).Render())
			require.NotContains(t, p.Traverse(ctx).Render(), "...")
		})
	}
}

func TestPlayground_Exec(t *testing.T) {
	ctx := context.Background()
	p, err := New(list.Singly)
	require.NoError(t, err)

	testcases := []struct {
		line   string
		values []string
		err    error
	}{
		{line: "create doubly", values: []string{}},
		{line: "insert-begin 5", values: []string{"5"}},
		{line: "insert-end 7", values: []string{"5", "7"}},
		{line: "  INSERT-AT   9   1 ", values: []string{"5", "9", "7"}},
		{line: "insert-at 9 x", values: []string{"5", "9", "7"}, err: ErrBadArgument},
		{line: "insert-at 9 4", values: []string{"5", "9", "7"}, err: list.ErrOutOfRange},
		{line: "backward", values: []string{"7", "9", "5"}},
		{line: "traverse 2", values: []string{"5", "9"}},
		{line: "traverse -1", values: []string{"5", "9", "7"}, err: ErrBadArgument},
		{line: "traverse 1 2", values: []string{"5", "9", "7"}, err: ErrBadArgument},
		{line: "delete 9", values: []string{"5", "7"}},
		{line: "delete 9", values: []string{"5", "7"}, err: list.ErrValueNotFound},
		{line: "search 7", values: []string{"5", "7"}},
		{line: "delete-begin", values: []string{"7"}},
		{line: "delete-end", values: []string{}},
		{line: "delete-end", values: []string{}, err: list.ErrEmptyCollection},
		{line: "insert-end", values: []string{}, err: ErrBadArgument},
		{line: "reverse", values: []string{}, err: ErrUnknownCommand},
		{line: "", values: []string{}, err: ErrUnknownCommand},
		{line: "create skip", values: []string{}, err: list.ErrUnknownVariant},
		{line: "create circular", values: []string{}},
		{line: "insert-end 1", values: []string{"1"}},
		{line: "size", values: []string{"1"}},
		{line: "clear", values: []string{}},
	}
	for _, tc := range testcases {
		t.Run(tc.line, func(t *testing.T) {
			snap := p.Exec(ctx, tc.line)
			if tc.err != nil {
				require.ErrorIs(t, snap.Err, tc.err)
			} else {
				require.NoError(t, snap.Err)
			}
			if len(tc.values) == 0 {
				require.Empty(t, snap.Values)
			} else {
				require.Equal(t, tc.values, snap.Values)
			}
		})
	}
	require.Equal(t, list.Circular, p.Variant())
	require.Len(t, Usage(), len(commands))
}

func TestPlayground_ProgressLogsAndMetrics(t *testing.T) {
	ctx := context.WithValue(context.Background(), xlog.ContextKey("sid"), "s-42")

	buf := &bytes.Buffer{}
	logger := xlog.NewXLogger(
		xlog.WithXLoggerLevel(xlog.LogLevelDebug),
		xlog.WithXLoggerWriter(buf),
		xlog.WithXLoggerContextFieldExtract("sid"),
	)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	sess, err := session.Open(ctx, session.NewMemoryStore())
	require.NoError(t, err)

	p, err := New(list.Singly,
		WithLogger(logger),
		WithStats(observability.NewPlaygroundStats(mp.Meter("test"))),
		WithSession(sess),
	)
	require.NoError(t, err)

	p.InsertAtEnd(ctx, "1")
	p.InsertAtEnd(ctx, "2")
	p.Search(ctx, "2")
	p.DeleteFromEnd(ctx)
	p.DeleteFromEnd(ctx)
	p.DeleteFromEnd(ctx)

	progress, err := sess.Progress(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"delete-end", "insert-end"}, progress)

	out := buf.String()
	require.Contains(t, out, `"sid":"s-42"`)
	require.Contains(t, out, `"op":"insert-end"`)
	require.Contains(t, out, "playground op not applicable")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	ops, failures := int64(0), int64(0)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				switch m.Name {
				case "playground.ops":
					ops += dp.Value
				case "playground.op.failures":
					v, _ := dp.Attributes.Value(attribute.Key("op"))
					require.Equal(t, "delete-end", v.AsString())
					failures += dp.Value
				}
			}
		}
	}
	require.Equal(t, int64(6), ops)
	require.Equal(t, int64(1), failures)

	require.NoError(t, sess.Close(ctx))
	// Progress marking failures are logged, never fatal.
	snap := p.InsertAtEnd(ctx, "3")
	require.NoError(t, snap.Err)
	require.Contains(t, buf.String(), "mark progress failed")
}
