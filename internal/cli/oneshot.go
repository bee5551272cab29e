package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"pluginbuilder/internal/builder"
)

// streamUntilExit asks the shell to exit after the queued commands, prints
// captured output until it does, then closes the session.
func streamUntilExit(ctx context.Context, b *builder.Builder, out io.Writer, st styles) error {
	if err := b.EndSession(); err != nil {
		return err
	}
	q := b.Output()
	done := b.SessionDone()
	if q == nil {
		<-done
		return b.Close()
	}
loop:
	for {
		select {
		case l := <-q.C():
			fmt.Fprint(out, st.line(l))
		case <-done:
			break loop
		case <-ctx.Done():
			_ = b.Close()
			return ctx.Err()
		}
	}
	// Close joins the reader, so everything the shell wrote is queued after it.
	if err := b.Close(); err != nil {
		return err
	}
	for _, l := range b.Drain() {
		fmt.Fprint(out, st.line(l))
	}
	if n := q.Dropped(); n > 0 {
		fmt.Fprint(out, st.faint.Render(fmt.Sprintf("(%d lines dropped)", n))+"\n")
	}
	return nil
}

// withTimeout derives a context for one-shot commands; zero means none.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
