package scan

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// runtimeRule describes how to recover the running artifact from the
// command line of a known interpreted runtime. The table is the single
// source of truth for both name and path derivation; adding a runtime
// means adding a row, not touching the algorithms below.
type runtimeRule struct {
	marker     string // executable base name to match, lower case
	prefix     bool   // marker matches as a prefix (python3.12) vs exactly
	moduleFlag string // "run as module" flag, empty if the runtime has none
	renames    bool   // whether the display name shows the script/module
}

var runtimeRules = []runtimeRule{
	{marker: "python", prefix: true, moduleFlag: "-m", renames: true},
	{marker: "node", prefix: false, renames: false},
}

func matchRuntime(base string) (runtimeRule, bool) {
	lower := strings.ToLower(base)
	for _, rule := range runtimeRules {
		if rule.prefix && strings.HasPrefix(lower, rule.marker) {
			return rule, true
		}
		if !rule.prefix && lower == rule.marker {
			return rule, true
		}
	}
	return runtimeRule{}, false
}

// displayName derives a human-friendly label for a process. For interpreter
// processes it shows the script or module being executed instead of the
// interpreter itself; everything else keeps its own base name. args may be
// nil when the command line could not be read.
func displayName(base string, args []string) string {
	rule, ok := matchRuntime(base)
	if !ok || !rule.renames || len(args) < 2 {
		return base
	}
	if rule.moduleFlag != "" && args[1] == rule.moduleFlag {
		if len(args) > 2 {
			return args[2]
		}
		return base
	}
	return filepath.Base(args[1])
}

// artifactPath derives a best-effort filesystem path to the running
// script, module or executable. Every failure degrades to a weaker signal:
// executable path, then working directory, then empty string. A module run
// that cannot be resolved yields the raw module name, which is
// informational rather than a verified path.
func (s *Scanner) artifactPath(ctx context.Context, p Proc, base string) string {
	args, err := p.CmdlineSlice(ctx)
	if err != nil {
		return fallbackCwd(ctx, p)
	}
	if len(args) == 0 {
		exe, err := p.Exe(ctx)
		if err != nil {
			return fallbackCwd(ctx, p)
		}
		return exe
	}

	if rule, ok := matchRuntime(base); ok && len(args) > 1 {
		if rule.moduleFlag != "" && args[1] == rule.moduleFlag && len(args) > 2 {
			if path := s.resolveModule(ctx, args[0], args[2]); path != "" {
				return path
			}
			return args[2]
		}
		if isFile(args[1]) {
			return absPath(args[1])
		}
	}

	// Fall back to the first existing regular file on the command line.
	for _, arg := range args[1:] {
		if isFile(arg) {
			return absPath(arg)
		}
	}

	exe, err := p.Exe(ctx)
	if err != nil {
		return fallbackCwd(ctx, p)
	}
	return exe
}

func fallbackCwd(ctx context.Context, p Proc) string {
	cwd, err := p.Cwd(ctx)
	if err != nil {
		return ""
	}
	return cwd
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

const moduleResolveTimeout = 2 * time.Second

// Asks the interpreter that runs the module where the module lives. This is
// the only reliable resolver: module search paths depend on the
// interpreter's own environment, not ours.
const resolveSnippet = "import importlib.util, os, sys\n" +
	"spec = importlib.util.find_spec(sys.argv[1])\n" +
	"print(os.path.abspath(spec.origin) if spec and spec.origin else '')"

// resolveModuleWithInterpreter maps a module name to its source file by
// shelling out to the interpreter, bounded by a short deadline. Returns ""
// on any failure.
func resolveModuleWithInterpreter(ctx context.Context, interpreter, module string) string {
	if interpreter == "" || module == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, moduleResolveTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, interpreter, "-c", resolveSnippet, module).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
