package timing

import (
	"context"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xlist/lib/infra"
	"github.com/benz9527/xlist/lib/list"
	"github.com/benz9527/xlist/xlog"
)

var DefaultSizes = []int{100, 1_000, 10_000}

// Report is one measured row. RSS is the process resident set size
// right after the row was measured, zero if it could not be sampled.
type Report struct {
	Variant     list.Variant
	Size        int
	InsertAtEnd time.Duration
	Search      time.Duration
	RSS         uint64
}

type Demo struct {
	sizes    []int
	variants []list.Variant
	workers  int
	logger   xlog.XLogger
	proc     *process.Process
}

type DemoOption func(*Demo)

func WithDemoSizes(sizes ...int) DemoOption {
	return func(d *Demo) {
		valid := make([]int, 0, len(sizes))
		for _, size := range sizes {
			if size > 0 {
				valid = append(valid, size)
			}
		}
		if len(valid) > 0 {
			d.sizes = valid
		}
	}
}

func WithDemoVariants(variants ...list.Variant) DemoOption {
	return func(d *Demo) {
		if len(variants) > 0 {
			d.variants = variants
		}
	}
}

// WithDemoWorkers sets the pool size, each variant takes one worker.
func WithDemoWorkers(workers int) DemoOption {
	return func(d *Demo) {
		if workers > 0 {
			d.workers = workers
		}
	}
}

func WithDemoLogger(logger xlog.XLogger) DemoOption {
	return func(d *Demo) {
		d.logger = logger
	}
}

func NewDemo(opts ...DemoOption) *Demo {
	d := &Demo{
		sizes:    DefaultSizes,
		variants: list.Variants(),
		workers:  len(list.Variants()),
	}
	for _, o := range opts {
		if o != nil {
			o(d)
		}
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		d.proc = proc
	}
	return d
}

func (d *Demo) rss() uint64 {
	if d.proc == nil {
		return 0
	}
	mem, err := d.proc.MemoryInfo()
	if err != nil || mem == nil {
		return 0
	}
	return mem.RSS
}

// measure fills a fresh list with size values, then searches the last
// one, which is the worst case of every variant.
func (d *Demo) measure(ctx context.Context, variant list.Variant, size int) (Report, error) {
	engine, err := list.NewListEngine[int](variant)
	if err != nil {
		return Report{}, err
	}
	report := Report{Variant: variant, Size: size}

	begin := time.Now()
	for i := 0; i < size; i++ {
		if i&1023 == 0 && ctx.Err() != nil {
			return Report{}, ctx.Err()
		}
		engine.InsertAtEnd(i)
	}
	report.InsertAtEnd = time.Since(begin)

	begin = time.Now()
	idx, err := engine.Search(size - 1)
	report.Search = time.Since(begin)
	if err != nil {
		return Report{}, err
	}
	if idx != int64(size-1) {
		return Report{}, infra.NewErrorStack("[timing] " + variant.String() + " search returned index " + strconv.FormatInt(idx, 10))
	}
	report.RSS = d.rss()
	return report, nil
}

// Run measures every variant in its own pool task and returns the rows
// sorted by variant then size.
func (d *Demo) Run(ctx context.Context) ([]Report, error) {
	poolOpts := []ants.Option{ants.WithPreAlloc(true)}
	if d.logger != nil {
		poolOpts = append(poolOpts, ants.WithLogger(xlog.NewAntsXLogger(d.logger)))
	}
	pool, err := ants.NewPool(d.workers, poolOpts...)
	if err != nil {
		return nil, infra.WrapErrorStackWithMessage(err, "[timing] new worker pool")
	}
	defer pool.Release()

	var (
		wg      sync.WaitGroup
		lock    sync.Mutex
		reports = make([]Report, 0, len(d.variants)*len(d.sizes))
		merr    error
	)
	for _, variant := range d.variants {
		variant := variant
		wg.Add(1)
		if err = pool.Submit(func() {
			defer wg.Done()
			for _, size := range d.sizes {
				report, err := d.measure(ctx, variant, size)
				lock.Lock()
				if err != nil {
					merr = multierr.Append(merr, err)
				} else {
					reports = append(reports, report)
				}
				lock.Unlock()
				if err != nil {
					return
				}
				if d.logger != nil {
					d.logger.DebugContext(ctx, "timing measured",
						zap.String("variant", variant.String()),
						zap.Int("size", size),
						zap.Duration("insertAtEnd", report.InsertAtEnd),
						zap.Duration("search", report.Search),
					)
				}
			}
		}); err != nil {
			wg.Done()
			lock.Lock()
			merr = multierr.Append(merr, err)
			lock.Unlock()
		}
	}
	wg.Wait()

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].Variant != reports[j].Variant {
			return reports[i].Variant < reports[j].Variant
		}
		return reports[i].Size < reports[j].Size
	})
	if merr != nil {
		return reports, infra.WrapErrorStackWithMessage(merr, "[timing] demo")
	}
	return reports, nil
}
