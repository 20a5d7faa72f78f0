package scan

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	gnet "github.com/shirou/gopsutil/v3/net"

	"portdash/internal/netcheck"
)

const (
	defaultProbeTimeout = time.Second
	defaultCPUWindow    = 100 * time.Millisecond
	defaultWorkers      = 8
)

// Options tunes a Scanner. Zero values fall back to defaults.
type Options struct {
	// ProbeTimeout bounds each external reachability probe.
	ProbeTimeout time.Duration
	// EchoURL is the address-echo endpoint used to learn the public address.
	EchoURL string
	// EchoTimeout bounds the public address lookup.
	EchoTimeout time.Duration
	// CPUWindow is the blocking interval a CPU sample is measured over.
	CPUWindow time.Duration
	// Workers bounds how many listeners are enriched concurrently.
	Workers int
	// Logger receives degraded-mode warnings. Defaults to log.Default().
	Logger *log.Logger
}

// Scanner builds point-in-time snapshots of listening services. Each
// snapshot is recomputed from live OS state; a Scanner holds no state
// between calls and is safe for concurrent use.
type Scanner struct {
	probeTimeout time.Duration
	cpuWindow    time.Duration
	workers      int
	logger       *log.Logger

	connections   func(ctx context.Context) ([]gnet.ConnectionStat, error)
	openProcess   func(pid int32) (Proc, error)
	publicAddr    func(ctx context.Context) string
	probe         func(ctx context.Context, host string, port uint32, timeout time.Duration) bool
	resolveModule func(ctx context.Context, interpreter, module string) string
}

// New returns a Scanner backed by the OS process and socket tables.
func New(opts Options) *Scanner {
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = defaultProbeTimeout
	}
	if opts.EchoURL == "" {
		opts.EchoURL = netcheck.DefaultEchoURL
	}
	if opts.EchoTimeout <= 0 {
		opts.EchoTimeout = netcheck.DefaultEchoTimeout
	}
	if opts.CPUWindow <= 0 {
		opts.CPUWindow = defaultCPUWindow
	}
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	return &Scanner{
		probeTimeout: opts.ProbeTimeout,
		cpuWindow:    opts.CPUWindow,
		workers:      opts.Workers,
		logger:       opts.Logger,
		connections: func(ctx context.Context) ([]gnet.ConnectionStat, error) {
			return gnet.ConnectionsWithContext(ctx, "inet")
		},
		openProcess: openGopsProc,
		publicAddr: func(ctx context.Context) string {
			return netcheck.PublicAddr(ctx, opts.EchoURL, opts.EchoTimeout)
		},
		probe:         netcheck.Probe,
		resolveModule: resolveModuleWithInterpreter,
	}
}

// Snapshot enumerates listeners and enriches each one into a ServiceRecord,
// sorted ascending by port. Listeners whose owning process vanished or
// denied access are silently excluded. The public address is resolved once
// per snapshot; when it cannot be resolved, no probes run and every record
// reports Reachable=false. The returned error covers only socket-table
// enumeration failure.
func (s *Scanner) Snapshot(ctx context.Context) ([]ServiceRecord, error) {
	public := s.publicAddr(ctx)
	if public == "" {
		s.logger.Debug("public address unresolved, skipping reachability probes")
	}

	listeners, err := s.listeners(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		records = make([]ServiceRecord, 0, len(listeners))
		sem     = make(chan struct{}, s.workers)
	)
	for _, ln := range listeners {
		wg.Add(1)
		go func(ln listener) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rec, ok := s.enrich(ctx, ln, public)
			if !ok {
				return
			}
			mu.Lock()
			records = append(records, rec)
			mu.Unlock()
		}(ln)
	}
	wg.Wait()

	sort.Slice(records, func(i, j int) bool { return records[i].Port < records[j].Port })
	return records, nil
}

// enrich resolves one listener into a ServiceRecord. Any process-read
// failure drops the listener; reachability and path failures only degrade
// their fields.
func (s *Scanner) enrich(ctx context.Context, ln listener, public string) (ServiceRecord, bool) {
	p, err := s.openProcess(ln.PID)
	if err != nil {
		return ServiceRecord{}, false
	}

	base, err := p.Name(ctx)
	if err != nil {
		return ServiceRecord{}, false
	}

	name := base
	if args, err := p.CmdlineSlice(ctx); err == nil {
		name = displayName(base, args)
	}

	created, err := p.CreateTime(ctx)
	if err != nil {
		return ServiceRecord{}, false
	}
	cpu, err := p.CPUPercent(ctx, s.cpuWindow)
	if err != nil {
		return ServiceRecord{}, false
	}
	rss, err := p.MemoryRSS(ctx)
	if err != nil {
		return ServiceRecord{}, false
	}

	reachable := false
	if public != "" {
		reachable = s.probe(ctx, public, ln.Port, s.probeTimeout)
	}

	return ServiceRecord{
		PID:        ln.PID,
		Name:       name,
		Port:       ln.Port,
		Protocol:   ln.Protocol,
		Uptime:     time.Since(time.UnixMilli(created)),
		CPUPercent: cpu,
		MemoryMB:   float64(rss) / (1024 * 1024),
		Reachable:  reachable,
		Path:       s.artifactPath(ctx, p, base),
	}, true
}
