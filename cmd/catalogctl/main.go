// Command catalogctl prints the product table in a terminal and manages the
// warmup queue.
//
// Usage:
//
//	catalogctl [flags]              render the catalog table
//	catalogctl warmup [-reason r]   enqueue a catalog warmup
//	catalogctl queue                show default queue depth
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/odyssey-erp/catalogview/internal/catalog"
	"github.com/odyssey-erp/catalogview/internal/table"
	"github.com/odyssey-erp/catalogview/internal/termview"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		slog.Default().Error("catalogctl", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "warmup":
			return runWarmup(ctx, args[1:], out)
		case "queue":
			return runQueue(ctx, args[1:], out)
		}
	}
	return runTable(ctx, args, out)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

type tableFlags struct {
	url      string
	timeout  time.Duration
	preset   string
	page     int
	size     int
	sort     string
	dir      string
	search   string
	filters  filterFlag
	foldCase bool
	noColor  bool
	width    int
}

// filterFlag collects repeated -f column=pattern flags.
type filterFlag map[string]string

func (f filterFlag) String() string {
	parts := make([]string, 0, len(f))
	for k, v := range f {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (f filterFlag) Set(value string) error {
	column, pattern, ok := strings.Cut(value, "=")
	if !ok || strings.TrimSpace(column) == "" {
		return fmt.Errorf("filter must be column=pattern, got %q", value)
	}
	f[strings.TrimSpace(column)] = pattern
	return nil
}

func runTable(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("catalogctl", flag.ContinueOnError)
	opts := tableFlags{filters: filterFlag{}}
	fs.StringVar(&opts.url, "url", envOr("CATALOG_URL", "https://dummyjson.com/products"), "catalog endpoint")
	fs.DurationVar(&opts.timeout, "timeout", 10*time.Second, "fetch timeout")
	fs.StringVar(&opts.preset, "preset", "", "TOML preset with page_size, page, sort, direction, search and [filters]")
	fs.IntVar(&opts.page, "page", 0, "1-based page number (overrides preset)")
	fs.IntVar(&opts.size, "size", 0, "rows per page (overrides preset)")
	fs.StringVar(&opts.sort, "sort", "", "column to sort by (overrides preset)")
	fs.StringVar(&opts.dir, "dir", "", "sort direction: asc or desc")
	fs.StringVar(&opts.search, "q", "", "global search pattern (overrides preset)")
	fs.Var(opts.filters, "f", "column filter column=pattern, repeatable")
	fs.BoolVar(&opts.foldCase, "fold-case", false, "case-insensitive filters")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable colours")
	fs.IntVar(&opts.width, "width", 32, "maximum cell width")
	if err := fs.Parse(args); err != nil {
		return err
	}

	preset := termview.Preset{}
	if opts.preset != "" {
		loaded, err := termview.LoadPreset(opts.preset)
		if err != nil {
			return err
		}
		preset = loaded
	}
	mergeFlags(&preset, opts)

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()
	products, err := catalog.NewClient(opts.url, opts.timeout).Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch catalog: %w", err)
	}

	tableOpts := table.DefaultOptions()
	tableOpts.FoldCase = opts.foldCase
	state := table.New(products, nil, tableOpts)
	state.Apply(preset.Params())

	return termview.Render(out, state, termview.Options{MaxCellWidth: opts.width, NoColor: opts.noColor})
}

// mergeFlags lets explicit flags win over preset values.
func mergeFlags(preset *termview.Preset, opts tableFlags) {
	if opts.page > 0 {
		preset.Page = opts.page
	}
	if opts.size > 0 {
		preset.PageSize = opts.size
	}
	if opts.sort != "" {
		preset.Sort = opts.sort
		preset.Direction = opts.dir
	} else if opts.dir != "" {
		preset.Direction = opts.dir
	}
	if opts.search != "" {
		preset.Search = opts.search
	}
	if len(opts.filters) > 0 {
		if preset.Filters == nil {
			preset.Filters = make(map[string]string, len(opts.filters))
		}
		for k, v := range opts.filters {
			preset.Filters[k] = v
		}
	}
}

func redisFlag(fs *flag.FlagSet) *string {
	return fs.String("redis", envOr("REDIS_ADDR", "127.0.0.1:6379"), "redis address")
}

func runWarmup(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("warmup", flag.ContinueOnError)
	addr := redisFlag(fs)
	reason := fs.String("reason", "manual", "reason recorded on the task")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cli := NewJobsCLI(*addr)
	defer cli.Close()

	info, err := cli.TriggerWarmup(ctx, *reason)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		fmt.Fprintln(out, "warmup already queued")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "enqueued %s on %s (id %s)\n", info.Type, info.Queue, info.ID)
	return nil
}

func runQueue(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("queue", flag.ContinueOnError)
	addr := redisFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cli := NewJobsCLI(*addr)
	defer cli.Close()

	stats, err := cli.InspectQueue(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "queue=%s pending=%d active=%d scheduled=%d retry=%d failed=%d\n",
		stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry, stats.Failed)
	return nil
}
