package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

//nolint:gochecknoglobals // frame set shared by every progress line
var spinnerFrames = []string{"|", "/", "-", "\\"}

// progress draws a one-line spinner on a terminal stream while a model
// call runs. It writes to stderr so piped stdout stays clean.
type progress struct {
	out     io.Writer
	label   string
	every   time.Duration
	cancel  context.CancelFunc
	stopped sync.WaitGroup
}

func newProgress(out io.Writer, label string) (p *progress) {
	p = &progress{
		out:   out,
		label: label,
		every: 100 * time.Millisecond,
	}
	return p
}

// run starts drawing until the returned stop function is called.
func (p *progress) run(ctx context.Context) (stop func()) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.stopped.Add(1)

	go func() {
		defer p.stopped.Done()
		tick := time.NewTicker(p.every)
		defer tick.Stop()

		for frame := 0; ; frame++ {
			fmt.Fprintf(p.out, "\r%s %s", p.label, spinnerFrames[frame%len(spinnerFrames)])
			select {
			case <-ctx.Done():
				fmt.Fprintf(p.out, "\r%s\r", strings.Repeat(" ", len(p.label)+2))
				return
			case <-tick.C:
			}
		}
	}()

	stop = func() {
		p.cancel()
		p.stopped.Wait()
	}
	return stop
}

// withSpinner runs fn behind a spinner unless verbose output is on.
func withSpinner(message string, fn func() error) (err error) {
	if getVerbose() {
		fmt.Fprintln(os.Stderr, message)
		err = fn()
		return err
	}

	stop := newProgress(os.Stderr, message).run(context.Background())
	err = fn()
	stop()
	return err
}
