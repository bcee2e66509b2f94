package process

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/go-ps"
	"github.com/moby/patternmatcher"
)

// maxParentDepth bounds the walk up the parent chain.
const maxParentDepth = 32

// knownTools are folded from executable names so a signature like
// "claude*" still reports the tool as "claude".
var knownTools = []string{"claude", "gemini", "codex"}

// hostApps maps lower-cased executable names of terminals and IDEs to the
// hint reported to the focuser.
var hostApps = map[string]string{
	"iterm2":      "iTerm2",
	"iterm":       "iTerm2",
	"terminal":    "Terminal",
	"warp":        "Warp",
	"stable":      "Warp",
	"alacritty":   "Alacritty",
	"kitty":       "kitty",
	"wezterm":     "WezTerm",
	"wezterm-gui": "WezTerm",
	"ghostty":     "ghostty",
	"cursor":      "Cursor",
	"code":        "Code",
	"electron":    "Code",
}

// Observation is one running CLI process.
type Observation struct {
	Tool     string `json:"tool"`
	PID      int    `json:"pid"`
	Cwd      string `json:"cwd,omitempty"`
	HostHint string `json:"host_hint,omitempty"`
}

// Sampler lists the process table and picks out CLI processes.
type Sampler struct {
	matcher *patternmatcher.PatternMatcher
	list    func() ([]ps.Process, error)
	cwd     func(pid int) string
}

// NewSampler compiles the executable-name signatures.
func NewSampler(signatures []string) (*Sampler, error) {
	patterns := make([]string, 0, len(signatures))
	for _, s := range signatures {
		patterns = append(patterns, strings.ToLower(s))
	}
	pm, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, fmt.Errorf("invalid process signature: %w", err)
	}
	return &Sampler{
		matcher: pm,
		list:    ps.Processes,
		cwd:     ProcessCwd,
	}, nil
}

// Sample returns the CLI processes currently running, ordered by PID.
func (s *Sampler) Sample() ([]Observation, error) {
	procs, err := s.list()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	byPID := make(map[int]ps.Process, len(procs))
	for _, p := range procs {
		byPID[p.Pid()] = p
	}

	var out []Observation
	for _, p := range procs {
		exe := strings.ToLower(p.Executable())
		if exe == "" {
			continue
		}
		ok, err := s.matcher.MatchesOrParentMatches(exe)
		if err != nil || !ok {
			continue
		}
		// A CLI's own helper children share its name; report the outermost one.
		if parent, ok := byPID[p.PPid()]; ok && strings.EqualFold(parent.Executable(), p.Executable()) {
			continue
		}
		out = append(out, Observation{
			Tool:     toolName(exe),
			PID:      p.Pid(),
			Cwd:      s.cwd(p.Pid()),
			HostHint: hostHint(p, byPID),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out, nil
}

func toolName(exe string) string {
	for _, t := range knownTools {
		if strings.Contains(exe, t) {
			return t
		}
	}
	return exe
}

// hostHint walks up the parent chain and returns the first known terminal
// or IDE, or "" when none is found.
func hostHint(p ps.Process, byPID map[int]ps.Process) string {
	seen := make(map[int]bool)
	cur := p
	for i := 0; i < maxParentDepth; i++ {
		parent, ok := byPID[cur.PPid()]
		if !ok || seen[parent.Pid()] {
			return ""
		}
		seen[parent.Pid()] = true
		if hint := matchHost(parent.Executable()); hint != "" {
			return hint
		}
		cur = parent
	}
	return ""
}

func matchHost(exe string) string {
	name := strings.ToLower(exe)
	if hint, ok := hostApps[name]; ok {
		return hint
	}
	// macOS helper processes, e.g. "Code Helper (Renderer)" or "Cursor Helper".
	if i := strings.Index(name, " helper"); i > 0 {
		if hint, ok := hostApps[name[:i]]; ok {
			return hint
		}
	}
	return ""
}

// Alive reports whether any observation matches the pid when it is known.
// Without a pid it matches the tool, and also the cwd when both sides have
// one, so a surviving process only keeps its own project's session alive.
func Alive(observations []Observation, tool, cwd string, pid int) bool {
	for _, o := range observations {
		if pid > 0 {
			if o.PID == pid {
				return true
			}
			continue
		}
		if o.Tool != tool {
			continue
		}
		if cwd == "" || o.Cwd == "" || filepath.Clean(o.Cwd) == filepath.Clean(cwd) {
			return true
		}
	}
	if pid > 0 {
		return IsProcessAlive(pid)
	}
	return false
}
