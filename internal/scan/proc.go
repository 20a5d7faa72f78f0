package scan

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// Proc is the slice of process introspection the pipeline needs. Every
// method may fail at any time: the process can exit or deny access between
// enumeration and enrichment, and callers degrade accordingly.
type Proc interface {
	Name(ctx context.Context) (string, error)
	CmdlineSlice(ctx context.Context) ([]string, error)
	Exe(ctx context.Context) (string, error)
	Cwd(ctx context.Context) (string, error)
	CreateTime(ctx context.Context) (int64, error)
	CPUPercent(ctx context.Context, window time.Duration) (float64, error)
	MemoryRSS(ctx context.Context) (uint64, error)
}

type gopsProc struct {
	p *process.Process
}

func openGopsProc(pid int32) (Proc, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return nil, err
	}
	return gopsProc{p: p}, nil
}

func (g gopsProc) Name(ctx context.Context) (string, error) {
	return g.p.NameWithContext(ctx)
}

func (g gopsProc) CmdlineSlice(ctx context.Context) ([]string, error) {
	return g.p.CmdlineSliceWithContext(ctx)
}

func (g gopsProc) Exe(ctx context.Context) (string, error) {
	return g.p.ExeWithContext(ctx)
}

func (g gopsProc) Cwd(ctx context.Context) (string, error) {
	return g.p.CwdWithContext(ctx)
}

func (g gopsProc) CreateTime(ctx context.Context) (int64, error) {
	return g.p.CreateTimeWithContext(ctx)
}

func (g gopsProc) CPUPercent(ctx context.Context, window time.Duration) (float64, error) {
	return g.p.PercentWithContext(ctx, window)
}

func (g gopsProc) MemoryRSS(ctx context.Context) (uint64, error) {
	mi, err := g.p.MemoryInfoWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return mi.RSS, nil
}
