package builder

import (
	"pluginbuilder/internal/common/errs"
	"pluginbuilder/internal/config"
	"pluginbuilder/internal/session"
)

func (b *Builder) newSessionLocked(workDir string) *session.Session {
	return session.New(session.Config{
		WorkDir:       workDir,
		Shell:         b.shell,
		Capture:       b.outputTo == config.OutputQueue,
		Console:       b.opts.Console,
		QueueCapacity: b.cfg.Build.QueueCapacity,
		GracePeriod:   b.opts.GracePeriod,
		Logger:        b.log,
	})
}

func (b *Builder) startSessionLocked() error {
	if err := b.sess.Start(); err != nil {
		return err
	}
	b.publish("session_started", b.project.Name, map[string]any{"pid": b.sess.PID(), "output_to": b.outputTo})
	return nil
}

func (b *Builder) closeSessionLocked() {
	if b.sess == nil {
		return
	}
	pid := b.sess.PID()
	if err := b.sess.Close(); err != nil {
		b.log.Warn().Err(err).Msg("close session")
	}
	if pid != 0 {
		var name string
		if b.project != nil {
			name = b.project.Name
		}
		b.publish("session_closed", name, map[string]any{"pid": pid})
	}
}

// RestartSession closes any running shell and starts a new one in the
// current project's root. Captured output not yet drained is kept.
func (b *Builder) RestartSession() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	desc, err := b.currentLocked()
	if err != nil {
		return err
	}
	if b.sess == nil {
		b.sess = b.newSessionLocked(desc.Dir)
	}
	// Start closes the previous subprocess itself.
	return b.startSessionLocked()
}

// CloseSession stops the shell. Closing an idle session is a no-op.
func (b *Builder) CloseSession() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeSessionLocked()
	return nil
}

// SetOutputMode switches between capturing output and the host console, and
// restarts the session so the change takes effect.
func (b *Builder) SetOutputMode(mode string) error {
	if mode != config.OutputQueue && mode != config.OutputConsole {
		return errs.ErrUserInput("unknown output mode %q", mode)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeSessionLocked()
	b.outputTo = mode
	if b.project == nil {
		b.sess = nil
		return nil
	}
	b.sess = b.newSessionLocked(b.project.Dir)
	return b.startSessionLocked()
}

// OutputMode reports where session output currently goes.
func (b *Builder) OutputMode() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.outputTo
}

// Drain returns the captured output lines not yet read.
func (b *Builder) Drain() []session.Line {
	if q := b.Output(); q != nil {
		return q.Drain()
	}
	return nil
}

// Output returns the current session's queue, or nil without a session.
func (b *Builder) Output() *session.OutputQueue {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sess == nil {
		return nil
	}
	return b.sess.Output()
}

// SessionDone is closed when the current shell exits. It is already closed
// when there is no shell.
func (b *Builder) SessionDone() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sess == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return b.sess.Done()
}
