package scan

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	gnet "github.com/shirou/gopsutil/v3/net"
)

// newTestScanner returns a Scanner with every external dependency stubbed
// to a safe no-op; tests override the pieces they exercise.
func newTestScanner() *Scanner {
	s := New(Options{Logger: log.New(io.Discard)})
	s.connections = func(context.Context) ([]gnet.ConnectionStat, error) { return nil, nil }
	s.openProcess = func(int32) (Proc, error) { return nil, errors.New("no such process") }
	s.publicAddr = func(context.Context) string { return "" }
	s.probe = func(context.Context, string, uint32, time.Duration) bool { return false }
	s.resolveModule = func(context.Context, string, string) string { return "" }
	return s
}

func runningProc(args ...string) *fakeProc {
	name := "proc"
	if len(args) > 0 {
		name = args[0]
	}
	return &fakeProc{
		name:    name,
		args:    args,
		exe:     "/usr/bin/" + name,
		created: time.Now().Add(-time.Hour).UnixMilli(),
		cpu:     1.5,
		rss:     32 * 1024 * 1024,
	}
}

func TestSnapshotSkipsVanishedProcess(t *testing.T) {
	s := newTestScanner()
	s.connections = func(context.Context) ([]gnet.ConnectionStat, error) {
		return []gnet.ConnectionStat{
			tcpListener(8080, 100),
			udpListener(5353, 200),
		}, nil
	}
	s.openProcess = func(pid int32) (Proc, error) {
		if pid == 200 {
			return nil, errors.New("process no longer exists")
		}
		p := runningProc("python", "-m", "http.server")
		p.name = "python3"
		return p, nil
	}

	records, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Port != 8080 || rec.Protocol != ProtocolTCP {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Name != "http.server" {
		t.Fatalf("expected module display name, got %q", rec.Name)
	}
}

func TestSnapshotSortedByPort(t *testing.T) {
	s := newTestScanner()
	s.connections = func(context.Context) ([]gnet.ConnectionStat, error) {
		return []gnet.ConnectionStat{
			tcpListener(9090, 1),
			tcpListener(80, 2),
			tcpListener(8080, 3),
		}, nil
	}
	s.openProcess = func(int32) (Proc, error) { return runningProc("nginx"), nil }

	records, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i-1].Port > records[i].Port {
			t.Fatalf("records not sorted by port: %d before %d", records[i-1].Port, records[i].Port)
		}
	}
}

func TestSnapshotNoProbesWithoutPublicAddress(t *testing.T) {
	s := newTestScanner()
	s.connections = func(context.Context) ([]gnet.ConnectionStat, error) {
		return []gnet.ConnectionStat{tcpListener(8080, 1)}, nil
	}
	s.openProcess = func(int32) (Proc, error) { return runningProc("nginx"), nil }
	s.probe = func(context.Context, string, uint32, time.Duration) bool {
		t.Error("probe must not run when the public address is unknown")
		return true
	}

	records, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Reachable {
		t.Fatalf("expected one unreachable record, got %+v", records)
	}
}

func TestSnapshotProbesAgainstPublicAddress(t *testing.T) {
	s := newTestScanner()
	s.connections = func(context.Context) ([]gnet.ConnectionStat, error) {
		return []gnet.ConnectionStat{
			tcpListener(8080, 1),
			tcpListener(9090, 2),
		}, nil
	}
	s.openProcess = func(int32) (Proc, error) { return runningProc("nginx"), nil }
	s.publicAddr = func(context.Context) string { return "203.0.113.7" }
	s.probe = func(_ context.Context, host string, port uint32, _ time.Duration) bool {
		if host != "203.0.113.7" {
			t.Errorf("probe aimed at %q, want the public address", host)
		}
		return port == 8080
	}

	records, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if !records[0].Reachable || records[1].Reachable {
		t.Fatalf("expected only port 8080 reachable, got %+v", records)
	}
}

func TestSnapshotEnumerationFailure(t *testing.T) {
	s := newTestScanner()
	boom := errors.New("socket table unavailable")
	s.connections = func(context.Context) ([]gnet.ConnectionStat, error) { return nil, boom }

	if _, err := s.Snapshot(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected enumeration error, got %v", err)
	}
}

func TestSnapshotRecordFields(t *testing.T) {
	s := newTestScanner()
	s.connections = func(context.Context) ([]gnet.ConnectionStat, error) {
		return []gnet.ConnectionStat{tcpListener(8080, 42)}, nil
	}
	p := runningProc("nginx")
	p.created = time.Now().Add(-90 * time.Second).UnixMilli()
	p.rss = 64 * 1024 * 1024
	s.openProcess = func(int32) (Proc, error) { return p, nil }

	records, err := s.Snapshot(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	rec := records[0]
	if rec.PID != 42 {
		t.Fatalf("expected pid 42, got %d", rec.PID)
	}
	if rec.MemoryMB != 64 {
		t.Fatalf("expected 64 MB, got %f", rec.MemoryMB)
	}
	if rec.Uptime < 90*time.Second || rec.Uptime > 2*time.Minute {
		t.Fatalf("implausible uptime %v", rec.Uptime)
	}
	if rec.Path != "/usr/bin/nginx" {
		t.Fatalf("expected exe fallback path, got %q", rec.Path)
	}
}

func TestUptimeString(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00:00"},
		{2*time.Hour + 3*time.Minute + 4*time.Second, "2:03:04"},
		{26*time.Hour + 5*time.Minute, "1d 2:05:00"},
		{-time.Minute, "0:00:00"},
	}
	for _, c := range cases {
		got := ServiceRecord{Uptime: c.d}.UptimeString()
		if got != c.want {
			t.Errorf("UptimeString(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}
