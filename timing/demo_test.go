package timing

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xlist/lib/list"
	"github.com/benz9527/xlist/xlog"
)

func TestDemo_Run(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := xlog.NewXLogger(xlog.WithXLoggerWriter(buf), xlog.WithXLoggerLevel(xlog.LogLevelInfo))
	demo := NewDemo(
		WithDemoSizes(64, 0, 8, -1),
		WithDemoWorkers(2),
		WithDemoLogger(logger),
	)
	reports, err := demo.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, 6)

	expected := []struct {
		variant list.Variant
		size    int
	}{
		{list.Singly, 8}, {list.Singly, 64},
		{list.Doubly, 8}, {list.Doubly, 64},
		{list.Circular, 8}, {list.Circular, 64},
	}
	for i, e := range expected {
		require.Equal(t, e.variant, reports[i].Variant)
		require.Equal(t, e.size, reports[i].Size)
	}

	out := &bytes.Buffer{}
	require.NoError(t, WriteTable(out, reports))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	require.True(t, strings.HasPrefix(lines[0], "VARIANT"))
	require.True(t, strings.HasPrefix(lines[1], "singly"))
	require.True(t, strings.HasPrefix(lines[6], "circular"))
}

func TestDemo_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	demo := NewDemo(WithDemoSizes(4096), WithDemoVariants(list.Doubly))
	reports, err := demo.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, reports)
}

func TestHumanBytes(t *testing.T) {
	require.Equal(t, "-", humanBytes(0))
	require.Equal(t, "512 B", humanBytes(512))
	require.Equal(t, "1.5 KiB", humanBytes(1536))
	require.Equal(t, "2.0 MiB", humanBytes(2<<20))
}
