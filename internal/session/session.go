// Package session drives one long-lived interactive build shell per plugin
// project. Commands are written to the shell's stdin; its output is read by a
// single background goroutine into an OutputQueue.
//
// Lifecycle: idle -> starting -> running -> (exited) -> closing -> idle.
// At most one subprocess is live per Session; Start closes any previous one.
package session

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pluginbuilder/internal/common/errs"
	"pluginbuilder/internal/common/fsutil"
)

// State is the lifecycle state of a session.
type State string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateRunning  State = "running"
	// StateExited means the shell ended on its own but Close has not run yet.
	StateExited  State = "exited"
	StateClosing State = "closing"
)

const (
	defaultGracePeriod = 2 * time.Second
	// drainWait bounds how long Close lets the reader flush buffered output
	// after the process has exited.
	drainWait = 500 * time.Millisecond
)

// Config configures a Session.
type Config struct {
	// WorkDir is the project root. The shell always starts there.
	WorkDir string
	Shell   Shell
	// Env holds extra KEY=VALUE pairs on top of the inherited environment.
	Env []string
	// Capture routes stdout and stderr into the output queue. When false the
	// shell inherits Console (os.Stdout if nil).
	Capture       bool
	Console       io.Writer
	QueueCapacity int
	// GracePeriod is how long Close waits after asking the shell to exit
	// before killing it.
	GracePeriod time.Duration
	Logger      zerolog.Logger
}

// Session owns the build subprocess for one project.
type Session struct {
	cfg   Config
	queue *OutputQueue

	// opMu serializes Start and Close.
	opMu sync.Mutex

	mu         sync.Mutex
	state      State
	id         string
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	out        *os.File
	done       chan struct{}
	readerDone chan struct{}
	exitErr    error
	startedAt  time.Time
}

// New returns an idle session.
func New(cfg Config) *Session {
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = defaultGracePeriod
	}
	return &Session{cfg: cfg, queue: NewOutputQueue(cfg.QueueCapacity), state: StateIdle}
}

// Output returns the queue lines are captured into. It survives restarts.
func (s *Session) Output() *OutputQueue { return s.queue }

// WorkDir is the directory the shell runs in.
func (s *Session) WorkDir() string { return s.cfg.WorkDir }

// Capturing reports whether output goes to the queue.
func (s *Session) Capturing() bool { return s.cfg.Capture }

// Start spawns the shell, closing any subprocess this session already holds.
// It fails with a missing-directory error when the project root is absent.
func (s *Session) Start() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.closeLocked(); err != nil {
		s.cfg.Logger.Warn().Err(err).Msg("close previous subprocess")
	}
	if !fsutil.IsDir(s.cfg.WorkDir) {
		return errs.ErrMissingDirectory(s.cfg.WorkDir)
	}
	if s.cfg.Shell.Program == "" {
		return errors.New("session: no shell configured")
	}

	s.mu.Lock()
	s.state = StateStarting
	s.mu.Unlock()

	id := uuid.NewString()
	log := s.cfg.Logger.With().Str("session", id).Str("dir", s.cfg.WorkDir).Logger()

	cmd := exec.Command(s.cfg.Shell.Program, s.cfg.Shell.Args...)
	cmd.Dir = s.cfg.WorkDir
	cmd.Env = append(os.Environ(), s.cfg.Env...)
	cmd.SysProcAttr = sysProcAttr()

	stdin, err := cmd.StdinPipe()
	if err != nil {
		s.setIdle()
		return fmt.Errorf("stdin pipe: %w", err)
	}
	var pr, pw *os.File
	if s.cfg.Capture {
		pr, pw, err = os.Pipe()
		if err != nil {
			_ = stdin.Close()
			s.setIdle()
			return fmt.Errorf("output pipe: %w", err)
		}
		// one pipe for both streams keeps a single producer in line order
		cmd.Stdout = pw
		cmd.Stderr = pw
	} else {
		console := s.cfg.Console
		if console == nil {
			console = os.Stdout
		}
		cmd.Stdout = console
		cmd.Stderr = console
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		if pr != nil {
			_ = pr.Close()
			_ = pw.Close()
		}
		s.setIdle()
		log.Error().Err(err).Str("shell", s.cfg.Shell.Program).Msg("start subprocess")
		return fmt.Errorf("start %s: %w", s.cfg.Shell.Program, err)
	}
	if pw != nil {
		// the child holds its own copy; ours would keep the reader from seeing EOF
		_ = pw.Close()
	}

	done := make(chan struct{})
	var readerDone chan struct{}
	if pr != nil {
		readerDone = make(chan struct{})
	}

	s.mu.Lock()
	s.id = id
	s.cmd = cmd
	s.stdin = stdin
	s.out = pr
	s.done = done
	s.readerDone = readerDone
	s.exitErr = nil
	s.startedAt = time.Now()
	s.state = StateRunning
	s.mu.Unlock()

	sessionStartsTotal.Inc()
	liveSubprocesses.Inc()
	log.Info().Int("pid", cmd.Process.Pid).Bool("capture", s.cfg.Capture).Msg("subprocess started")

	go s.monitorExit(cmd, done, log)
	if pr != nil {
		go s.readOutput(pr, readerDone, log)
	}

	for _, line := range s.cfg.Shell.Prelude {
		if err := s.SendCommand(line); err != nil {
			_ = s.closeLocked()
			return fmt.Errorf("prepare environment: %w", err)
		}
	}
	return nil
}

// monitorExit is the only caller of cmd.Wait.
func (s *Session) monitorExit(cmd *exec.Cmd, done chan struct{}, log zerolog.Logger) {
	err := cmd.Wait()
	s.mu.Lock()
	if s.cmd == cmd {
		s.exitErr = err
		if s.state == StateRunning {
			s.state = StateExited
		}
	}
	s.mu.Unlock()
	close(done)
	ev := log.Debug()
	if err != nil {
		ev = log.Info().Err(err)
	}
	ev.Msg("subprocess exited")
}

// readOutput pushes every line of r onto the queue until the stream closes.
func (s *Session) readOutput(r io.Reader, readerDone chan struct{}, log zerolog.Logger) {
	defer close(readerDone)
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			s.queue.push(strings.TrimRight(line, "\r\n"))
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				log.Debug().Err(err).Msg("output reader stopped")
			}
			return
		}
	}
}

// SendCommand writes text and a newline to the shell's stdin. It returns
// once the write completes and never waits for the command itself; results
// only appear in the output queue.
func (s *Session) SendCommand(text string) error {
	s.mu.Lock()
	stdin, done, state := s.stdin, s.done, s.state
	s.mu.Unlock()

	if stdin == nil || state != StateRunning {
		commandsSentTotal.WithLabelValues("not_running").Inc()
		return errs.ErrNotRunning
	}
	select {
	case <-done:
		commandsSentTotal.WithLabelValues("not_running").Inc()
		return errs.ErrNotRunning
	default:
	}
	// StdinPipe is unbuffered, so a completed write is already flushed.
	if _, err := io.WriteString(stdin, text+"\n"); err != nil {
		commandsSentTotal.WithLabelValues("not_running").Inc()
		return fmt.Errorf("%w: %v", errs.ErrNotRunning, err)
	}
	commandsSentTotal.WithLabelValues("ok").Inc()
	s.cfg.Logger.Debug().Str("command", text).Msg("command sent")
	return nil
}

// Close shuts the subprocess down and waits for the output reader to exit.
// Closing an idle session is a no-op.
func (s *Session) Close() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.closeLocked()
}

// closeLocked requires opMu.
func (s *Session) closeLocked() error {
	s.mu.Lock()
	if s.state == StateIdle || s.cmd == nil {
		s.state = StateIdle
		s.mu.Unlock()
		return nil
	}
	s.state = StateClosing
	cmd, stdin, out, done, readerDone, id := s.cmd, s.stdin, s.out, s.done, s.readerDone, s.id
	s.mu.Unlock()

	log := s.cfg.Logger.With().Str("session", id).Logger()
	log.Info().Int("pid", cmd.Process.Pid).Msg("closing subprocess")

	_ = stdin.Close()
	var termErr error
	select {
	case <-done:
	default:
		termErr = terminate(cmd, false)
		select {
		case <-done:
		case <-time.After(s.cfg.GracePeriod):
			log.Warn().Int("pid", cmd.Process.Pid).Msg("force killing subprocess")
			termErr = terminate(cmd, true)
			<-done
		}
	}

	if readerDone != nil {
		select {
		case <-readerDone:
		case <-time.After(drainWait):
			// a grandchild still holds the write end
		}
		_ = out.Close()
		<-readerDone
	}

	s.mu.Lock()
	s.cmd = nil
	s.stdin = nil
	s.out = nil
	s.done = nil
	s.readerDone = nil
	s.state = StateIdle
	s.mu.Unlock()
	liveSubprocesses.Dec()
	log.Info().Msg("subprocess closed")
	if termErr != nil && !errors.Is(termErr, os.ErrProcessDone) {
		log.Debug().Err(termErr).Msg("terminate")
	}
	return nil
}

func (s *Session) setIdle() {
	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Running reports whether a live subprocess will accept commands.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// PID of the current subprocess, or 0.
func (s *Session) PID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil || s.cmd.Process == nil {
		return 0
	}
	return s.cmd.Process.Pid
}

// ID identifies the current subprocess run, or "" when idle.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil {
		return ""
	}
	return s.id
}

// StartedAt is when the current subprocess started.
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// ExitErr is the wait error of a subprocess that exited on its own.
func (s *Session) ExitErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exitErr
}

// Done is closed when the current subprocess exits. It returns a closed
// channel when the session is idle.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return s.done
}
