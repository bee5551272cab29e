//go:build !windows

package session

import (
	"bytes"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"pluginbuilder/internal/common/errs"
)

func newTestSession(t *testing.T, prelude ...string) *Session {
	t.Helper()
	s := New(Config{
		WorkDir:       t.TempDir(),
		Shell:         Shell{Program: "/bin/sh", Args: []string{"-s"}, Prelude: prelude},
		Capture:       true,
		QueueCapacity: 256,
		GracePeriod:   500 * time.Millisecond,
		Logger:        zerolog.Nop(),
	})
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// waitForLine drains the queue until a line equal to want shows up.
func waitForLine(t *testing.T, q *OutputQueue, want string) []Line {
	t.Helper()
	var seen []Line
	deadline := time.After(5 * time.Second)
	for {
		select {
		case l := <-q.C():
			seen = append(seen, l)
			if l.Text == want {
				return seen
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q; saw %+v", want, seen)
		}
	}
}

func TestStartRequiresWorkDir(t *testing.T) {
	s := New(Config{WorkDir: filepath.Join(t.TempDir(), "gone"), Shell: Shell{Program: "/bin/sh"}, Logger: zerolog.Nop()})
	if err := s.Start(); !errs.IsMissingDirectory(err) {
		t.Fatalf("expected missing directory, got %v", err)
	}
	if s.State() != StateIdle || s.PID() != 0 {
		t.Fatalf("state=%s pid=%d", s.State(), s.PID())
	}
}

func TestSendCommandCapturesOutput(t *testing.T) {
	s := newTestSession(t)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.State() != StateRunning || !s.Running() || s.ID() == "" {
		t.Fatalf("state=%s running=%v id=%q", s.State(), s.Running(), s.ID())
	}
	if err := s.SendCommand("echo hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := s.SendCommand("echo oops 1>&2"); err != nil {
		t.Fatalf("send: %v", err)
	}
	waitForLine(t, s.Output(), "hello")
	waitForLine(t, s.Output(), "oops")
}

func TestShellRunsInProjectRootWithPrelude(t *testing.T) {
	s := newTestSession(t, "PB_MARK=prepared", "export PB_MARK")
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.SendCommand(`echo "mark=$PB_MARK"`); err != nil {
		t.Fatalf("send: %v", err)
	}
	waitForLine(t, s.Output(), "mark=prepared")
	if err := s.SendCommand("pwd -P"); err != nil {
		t.Fatalf("send: %v", err)
	}
	want, err := filepath.EvalSymlinks(s.WorkDir())
	if err != nil {
		t.Fatal(err)
	}
	waitForLine(t, s.Output(), want)
}

func TestStartTwiceLeavesOneSubprocess(t *testing.T) {
	s := newTestSession(t)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	first := s.PID()
	if err := s.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	second := s.PID()
	if first == second || second == 0 {
		t.Fatalf("pids first=%d second=%d", first, second)
	}
	if err := unix.Kill(first, 0); err != unix.ESRCH {
		t.Fatalf("first subprocess still present: kill(0) err=%v", err)
	}
	if err := s.SendCommand("echo alive"); err != nil {
		t.Fatalf("send to new subprocess: %v", err)
	}
	waitForLine(t, s.Output(), "alive")
}

func TestSendCommandAfterExit(t *testing.T) {
	s := newTestSession(t)
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.SendCommand("exit 3"); err != nil {
		t.Fatalf("send: %v", err)
	}
	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("shell did not exit")
	}
	if s.State() != StateExited || s.ExitErr() == nil {
		t.Fatalf("state=%s exitErr=%v", s.State(), s.ExitErr())
	}
	errCh := make(chan error, 1)
	go func() { errCh <- s.SendCommand("echo late") }()
	select {
	case err := <-errCh:
		if !errs.IsNotRunning(err) {
			t.Fatalf("expected not running, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("SendCommand hung after exit")
	}
}

func TestSendCommandWhenIdle(t *testing.T) {
	s := newTestSession(t)
	if err := s.SendCommand("echo x"); !errs.IsNotRunning(err) {
		t.Fatalf("expected not running, got %v", err)
	}
}

func TestCloseIsIdempotentAndJoinsReader(t *testing.T) {
	s := newTestSession(t)
	if err := s.Close(); err != nil {
		t.Fatalf("close never-started: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.mu.Lock()
	readerDone := s.readerDone
	s.mu.Unlock()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	select {
	case <-readerDone:
	default:
		t.Fatalf("reader still running after Close returned")
	}
	if s.State() != StateIdle || s.PID() != 0 {
		t.Fatalf("state=%s pid=%d", s.State(), s.PID())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestCloseKillsProcessIgnoringTerm(t *testing.T) {
	s := newTestSession(t, "trap '' TERM")
	s.cfg.GracePeriod = 200 * time.Millisecond
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.SendCommand("sleep 30"); err != nil {
		t.Fatalf("send: %v", err)
	}
	pid := s.PID()
	start := time.Now()
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("close took %s", time.Since(start))
	}
	if err := unix.Kill(pid, 0); err != unix.ESRCH {
		t.Fatalf("subprocess survived close: %v", err)
	}
}

type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (w *syncBuffer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.b.Write(p)
}

func (w *syncBuffer) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.b.String()
}

func TestConsoleModeBypassesQueue(t *testing.T) {
	console := &syncBuffer{}
	s := New(Config{
		WorkDir: t.TempDir(),
		Shell:   Shell{Program: "/bin/sh", Args: []string{"-s"}},
		Console: console,
		Logger:  zerolog.Nop(),
	})
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	_ = s.SendCommand("echo to-console")
	_ = s.SendCommand("exit")
	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("shell did not exit")
	}
	if !strings.Contains(console.String(), "to-console") {
		t.Fatalf("console=%q", console.String())
	}
	if s.Output().Len() != 0 {
		t.Fatalf("queue should stay empty in console mode")
	}
}
