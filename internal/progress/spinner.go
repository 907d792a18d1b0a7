package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows an animated status line while a slow step runs. On a
// non-terminal it prints nothing while running and a single result line at
// the end, so piped output stays clean.
type Spinner struct {
	w       io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	message string
	s       *spinner.Spinner
}

// NewSpinner prepares a spinner for message on w.
func NewSpinner(w io.Writer, caps TerminalCapabilities, message string) *Spinner {
	return &Spinner{
		w:       w,
		caps:    caps,
		symbols: SelectSymbols(caps),
		message: message,
	}
}

// Start begins the animation on terminals.
func (sp *Spinner) Start() {
	if !sp.caps.IsTTY {
		return
	}
	sp.s = spinner.New(spinner.CharSets[sp.symbols.SpinnerSet], 100*time.Millisecond,
		spinner.WithWriter(sp.w), spinner.WithHiddenCursor(true))
	sp.s.Suffix = " " + sp.message
	sp.s.Start()
}

// Stop ends the animation and prints the outcome.
func (sp *Spinner) Stop(ok bool) {
	if sp.s != nil {
		sp.s.Stop()
		sp.s = nil
	}
	mark := sp.symbols.Checkmark
	if !ok {
		mark = sp.symbols.Failure
	}
	fmt.Fprintf(sp.w, "%s %s\n", mark, sp.message)
}
