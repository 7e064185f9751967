package toast

import (
	"io"

	"github.com/fatih/color"
)

// Notifier prints toast-style notifications to the terminal: green for
// success, red for errors, yellow for warnings.
type Notifier struct {
	out io.Writer
}

func New(out io.Writer) *Notifier {
	return &Notifier{out: out}
}

func (n *Notifier) Success(msg string) {
	_, _ = color.New(color.FgGreen, color.Bold).Fprintln(n.out, "✔ "+msg)
}

func (n *Notifier) Error(msg string) {
	_, _ = color.New(color.FgRed, color.Bold).Fprintln(n.out, "✖ "+msg)
}

func (n *Notifier) Warning(msg string) {
	_, _ = color.New(color.FgYellow).Fprintln(n.out, "! "+msg)
}
