package out

import (
	"fmt"
	"io"
)

// TerminalNotifier rings the terminal bell. It writes the BEL byte to
// the given writer, which the terminal emulator turns into an audible
// or visual cue.
type TerminalNotifier struct {
	w io.Writer
}

func NewTerminalNotifier(w io.Writer) *TerminalNotifier {
	return &TerminalNotifier{w: w}
}

func (n *TerminalNotifier) Play() {
	if n.w == nil {
		return
	}
	fmt.Fprint(n.w, "\a")
}
