package lib

import (
	"bufio"
	"os"

	"github.com/buger/goterm"
)

// progress redraws a single status line when both stdout and stderr are
// terminals, and falls back to one log line per update otherwise. goterm
// sizes the screen from stdout, hence the double check.
type progress struct {
	tty   bool
	drawn bool
}

func newProgress() *progress {
	p := &progress{tty: !Logger.disabled && IsTerminal(os.Stdout) && IsTerminal(os.Stderr)}
	if p.tty {
		goterm.Output = bufio.NewWriter(os.Stderr)
	}
	return p
}

func (p *progress) Update(msg string) {
	if !p.tty {
		Logger.Println(msg)
		return
	}
	if p.drawn {
		goterm.MoveCursorUp(1)
	}
	_, _ = goterm.Println(goterm.RESET_LINE + msg)
	goterm.Flush()
	p.drawn = true
}

func (p *progress) Done() {
	if p.tty && p.drawn {
		goterm.MoveCursorUp(1)
		_, _ = goterm.Print(goterm.RESET_LINE)
		goterm.Flush()
	}
}
