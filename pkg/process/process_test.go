package process

import (
	"fmt"
	"os"
	"testing"

	"github.com/mitchellh/go-ps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProc struct {
	pid, ppid int
	exe       string
}

func (p fakeProc) Pid() int           { return p.pid }
func (p fakeProc) PPid() int          { return p.ppid }
func (p fakeProc) Executable() string { return p.exe }

func testSampler(t *testing.T, procs []ps.Process, listErr error) *Sampler {
	t.Helper()
	s, err := NewSampler([]string{"claude", "gemini", "codex*"})
	require.NoError(t, err)
	s.list = func() ([]ps.Process, error) { return procs, listErr }
	s.cwd = func(pid int) string { return fmt.Sprintf("/work/%d", pid) }
	return s
}

func TestSample(t *testing.T) {
	procs := []ps.Process{
		fakeProc{1, 0, "launchd"},
		fakeProc{100, 1, "iTerm2"},
		fakeProc{110, 100, "zsh"},
		fakeProc{120, 110, "claude"},
		fakeProc{121, 120, "claude"},
		fakeProc{200, 1, "Code Helper (Plugin)"},
		fakeProc{210, 200, "bash"},
		fakeProc{220, 210, "codex-cli"},
		fakeProc{300, 1, "vim"},
		fakeProc{400, 999, "Gemini"},
	}
	obs, err := testSampler(t, procs, nil).Sample()
	require.NoError(t, err)

	assert.Equal(t, []Observation{
		{Tool: "claude", PID: 120, Cwd: "/work/120", HostHint: "iTerm2"},
		{Tool: "codex", PID: 220, Cwd: "/work/220", HostHint: "Code"},
		{Tool: "gemini", PID: 400, Cwd: "/work/400"},
	}, obs)
}

func TestSampleListError(t *testing.T) {
	_, err := testSampler(t, nil, fmt.Errorf("boom")).Sample()
	assert.Error(t, err)
}

func TestHostHintCycle(t *testing.T) {
	a := fakeProc{10, 11, "claude"}
	b := fakeProc{11, 10, "zsh"}
	byPID := map[int]ps.Process{10: a, 11: b}
	assert.Equal(t, "", hostHint(a, byPID))
}

func TestAlive(t *testing.T) {
	obs := []Observation{{Tool: "claude", PID: 120}}
	assert.True(t, Alive(obs, "claude", "", 120))
	assert.True(t, Alive(obs, "claude", "", 0))
	assert.False(t, Alive(obs, "gemini", "", 0))
	assert.True(t, Alive(nil, "claude", "", os.Getpid()), "falls back to signalling the pid")
}

func TestAliveMatchesCwdWithoutPID(t *testing.T) {
	obs := []Observation{{Tool: "claude", PID: 900, Cwd: "/work/web"}}

	tests := []struct {
		name string
		cwd  string
		obs  []Observation
		want bool
	}{
		{"same project", "/work/web/", obs, true},
		{"other project", "/work/api", obs, false},
		{"session without cwd", "", obs, true},
		{"observation without cwd", "/work/api", []Observation{{Tool: "claude", PID: 900}}, true},
		{"other tool same project", "/work/web", []Observation{{Tool: "gemini", Cwd: "/work/web"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Alive(tt.obs, "claude", tt.cwd, 0))
		})
	}
}

func TestIsProcessAlive(t *testing.T) {
	assert.True(t, IsProcessAlive(os.Getpid()))
	assert.False(t, IsProcessAlive(0))
	assert.False(t, IsProcessAlive(-1))
}

func TestParseLsofCwd(t *testing.T) {
	assert.Equal(t, "/Users/me/proj", parseLsofCwd("p123\nfcwd\nn/Users/me/proj\n"))
	assert.Equal(t, "", parseLsofCwd("p123\n"))
}

func TestInvalidSignature(t *testing.T) {
	_, err := NewSampler([]string{"[claude"})
	assert.Error(t, err)
}
