package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mattjoyce/ucikit/internal/config"
	"github.com/mattjoyce/ucikit/internal/events"
)

func captureOutputWithExitCode(t *testing.T, run func() int) (int, string, string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe stdout failed: %v", err)
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe stderr failed: %v", err)
	}

	os.Stdout = stdoutW
	os.Stderr = stderrW

	var stdoutBytes, stderrBytes []byte
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); stdoutBytes, _ = io.ReadAll(stdoutR) }()
	go func() { defer wg.Done(); stderrBytes, _ = io.ReadAll(stderrR) }()

	code := run()

	_ = stdoutW.Close()
	_ = stderrW.Close()
	wg.Wait()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	_ = stdoutR.Close()
	_ = stderrR.Close()

	return code, string(stdoutBytes), string(stderrBytes)
}

func setVersionMetadataForTest(t *testing.T, v, commit, built string) {
	t.Helper()

	origVersion := version
	origCommit := gitCommit
	origBuildDate := buildDate

	version = v
	gitCommit = commit
	buildDate = built

	t.Cleanup(func() {
		version = origVersion
		gitCommit = origCommit
		buildDate = origBuildDate
	})
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"UCIKIT_CONFIG", "UCIKIT_LOG_LEVEL", "UCIKIT_LOG_FORMAT", "UCIKIT_ENGINE_NAME"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ucikit.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

type syncBuffer struct {
	mu sync.Mutex
	sb strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

// script feeds lines to the session. When waitFor is set it holds back end
// of input until out contains that text, so asynchronous searches finish.
type script struct {
	lines   []string
	out     *syncBuffer
	waitFor string
}

func (s *script) ReadLine() (string, error) {
	if len(s.lines) > 0 {
		line := s.lines[0]
		s.lines = s.lines[1:]
		return line, nil
	}
	if s.waitFor != "" {
		deadline := time.Now().Add(10 * time.Second)
		for !strings.Contains(s.out.String(), s.waitFor) && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
	}
	return "", io.EOF
}

func runScript(t *testing.T, cfg *config.Config, waitFor string, lines ...string) (int, []int, string, string) {
	t.Helper()
	stdout, stderr := &syncBuffer{}, &syncBuffer{}
	var mu sync.Mutex
	var exits []int
	exit := func(c int) {
		mu.Lock()
		defer mu.Unlock()
		exits = append(exits, c)
	}
	code := serve(cfg, &script{lines: lines, out: stdout, waitFor: waitFor}, stdout, stderr, exit)
	mu.Lock()
	defer mu.Unlock()
	return code, exits, stdout.String(), stderr.String()
}

func TestServeHandshake(t *testing.T) {
	code, exits, out, _ := runScript(t, config.Defaults(), "", "uci", "isready", "quit", "isready")

	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if len(exits) != 1 || exits[0] != 0 {
		t.Fatalf("exit calls = %v, want [0]", exits)
	}
	for _, want := range []string{
		"id name ucikit\n",
		"id author ucikit authors\n",
		"option name Threads type spin default 1 min 1 max 1\n",
		"option name Hash type spin default 32 min 1 max 1048576\n",
		"uciok\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "readyok") != 1 {
		t.Errorf("commands after quit were handled:\n%s", out)
	}
}

func TestServeSearch(t *testing.T) {
	code, _, out, _ := runScript(t, config.Defaults(), "bestmove",
		"position startpos moves e2e4", "go depth 1")

	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out, "info depth 1 ") {
		t.Errorf("missing info line:\n%s", out)
	}
	if !strings.Contains(out, "bestmove ") {
		t.Errorf("missing bestmove:\n%s", out)
	}
}

func TestServeInputFaultsKeepRunning(t *testing.T) {
	_, exits, out, errOut := runScript(t, config.Defaults(), "",
		"xyzzy", "setoption name Hash value lots", "position fen nonsense", "isready")

	if len(exits) != 0 {
		t.Fatalf("input faults must not exit, got %v", exits)
	}
	for _, want := range []string{
		"Unknown command: xyzzy",
		"Error: Expected an integer number",
		"Error: Invalid FEN",
	} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut)
		}
	}
	if !strings.Contains(out, "readyok") {
		t.Errorf("loop stopped early:\n%s", out)
	}
}

func TestServeRejectsBadOverride(t *testing.T) {
	cfg := config.Defaults()
	cfg.Options["Hash"] = 0

	code, _, out, errOut := runScript(t, cfg, "", "uci")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "Failed to apply options: config option Hash") {
		t.Errorf("stderr = %q", errOut)
	}
	if out != "" {
		t.Errorf("no command should run, got %q", out)
	}
}

func TestServeEngineName(t *testing.T) {
	cfg := config.Defaults()
	cfg.Engine.Name = "Sparrow"
	cfg.Engine.Author = ""

	_, _, out, _ := runScript(t, cfg, "", "uci")
	if !strings.HasPrefix(out, "id name Sparrow\noption name") {
		t.Errorf("stdout = %q", out)
	}
}

func TestWatchLifecycleSeesSearch(t *testing.T) {
	hub := events.NewHub(0)
	var mu sync.Mutex
	var kinds []events.Kind
	stop := watchLifecycle(hub, func(ev events.Event) {
		mu.Lock()
		defer mu.Unlock()
		kinds = append(kinds, ev.Kind)
	})

	out := &syncBuffer{}
	sess, _, err := build(config.Defaults(), out, &syncBuffer{}, hub, func(int) {})
	if err != nil {
		t.Fatal(err)
	}
	sess.Handle("go depth 1")
	sess.Worker.WaitIdle()
	sess.Close()
	stop()

	mu.Lock()
	defer mu.Unlock()
	want := []events.Kind{events.TaskQueued, events.TaskStarted, events.TaskFinished}
	if strings.Join(kindStrings(kinds), ",") != strings.Join(kindStrings(want), ",") {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	if !strings.Contains(out.String(), "bestmove ") {
		t.Errorf("search did not finish: %q", out.String())
	}
}

func kindStrings(kinds []events.Kind) []string {
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = string(k)
	}
	return out
}

func TestRunVersionJSON(t *testing.T) {
	setVersionMetadataForTest(t, "1.2.3", "0123456789abcdef", "2026-01-02T03:04:05+10:00")

	code, stdout, stderr := captureOutputWithExitCode(t, func() int {
		return runVersion([]string{"--json"})
	})
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr)
	}

	var info versionInfo
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if info.Version != "1.2.3" || info.Commit != "0123456789ab" || info.BuildTime != "2026-01-01T17:04:05Z" {
		t.Errorf("version info = %+v", info)
	}
}

func TestRunVersionRejectsArgs(t *testing.T) {
	code, _, stderr := captureOutputWithExitCode(t, func() int {
		return runVersion([]string{"extra"})
	})
	if code != 1 || !strings.Contains(stderr, "Usage: ucikit version") {
		t.Fatalf("code = %d, stderr = %q", code, stderr)
	}
}

func TestNormalizeBuildTimeUTC(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{"", "", false},
		{"unknown", "", false},
		{"yesterday", "", false},
		{"2026-03-04T05:06:07Z", "2026-03-04T05:06:07Z", true},
		{"2026-03-04T05:06:07.123-02:00", "2026-03-04T07:06:07Z", true},
	}
	for _, tt := range tests {
		got, ok := normalizeBuildTimeUTC(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("normalizeBuildTimeUTC(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRunConfigCheck(t *testing.T) {
	clearEnv(t)

	valid := writeConfig(t, "options:\n  Hash: 64\n")
	code, stdout, stderr := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"config", "check", "--config", valid})
	})
	if code != 0 {
		t.Fatalf("valid config: code = %d, stdout = %s, stderr = %s", code, stdout, stderr)
	}
	if !strings.Contains(stdout, "Configuration valid.") || !strings.Contains(stdout, "Digest: ") {
		t.Errorf("stdout = %q", stdout)
	}

	invalid := writeConfig(t, "options:\n  Contempt: 10\n  Hash: 0\n")
	code, stdout, _ = captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"config", "check", "--config", invalid})
	})
	if code != 1 {
		t.Fatalf("invalid config: code = %d", code)
	}
	for _, want := range []string{
		"ERROR [options] options.Contempt: no such option",
		"ERROR [options] options.Hash: 0 is outside [1, 1048576]",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestRunConfigCheckJSON(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "engine:\n  name: \"\"\n")

	code, stdout, _ := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"config", "check", "--config", path, "--json"})
	})
	if code != 0 {
		t.Fatalf("code = %d", code)
	}
	var got struct {
		Valid    bool `json:"valid"`
		Warnings []struct {
			Field string `json:"field"`
		} `json:"warnings"`
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if !got.Valid || len(got.Warnings) != 1 || got.Warnings[0].Field != "engine.name" {
		t.Errorf("result = %+v", got)
	}
}

func TestRunConfigDigest(t *testing.T) {
	body := "engine:\n  name: Digest\n"
	path := writeConfig(t, body)

	code, stdout, _ := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"config", "digest", path})
	})
	if code != 0 {
		t.Fatalf("code = %d", code)
	}
	want := config.Digest([]byte(body)) + "  " + path + "\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestRunConfigShow(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "engine:\n  name: Shown\noptions:\n  Hash: 16\n")

	code, stdout, _ := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"config", "show", "--config", path})
	})
	if code != 0 {
		t.Fatalf("code = %d", code)
	}
	for _, want := range []string{"engine.name: Shown\n", "options.Hash: 16\n", "digest: "} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestRunCLIUnknownCommand(t *testing.T) {
	code, stdout, stderr := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"frobnicate"})
	})
	if code != 1 {
		t.Fatalf("code = %d", code)
	}
	if !strings.Contains(stderr, "Unknown command: frobnicate") || !strings.Contains(stdout, "Usage:") {
		t.Errorf("stdout = %q, stderr = %q", stdout, stderr)
	}
}

func TestRunConfigNounHelp(t *testing.T) {
	code, stdout, _ := captureOutputWithExitCode(t, func() int {
		return runCLI([]string{"config", "help"})
	})
	if code != 0 || !strings.Contains(stdout, "digest <file>") {
		t.Fatalf("code = %d, stdout = %q", code, stdout)
	}
}
