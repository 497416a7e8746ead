package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Report formats f to w, emitting ANSI color only when w is a real
// terminal rather than a pipe or file.
func Report(w io.Writer, f *Fault) {
	color := false
	if file, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
	}
	if color {
		fmt.Fprintf(w, "\x1b[31merror\x1b[0m[%s] %s\n", f.RunID, f.Error())
		return
	}
	fmt.Fprintf(w, "error[%s] %s\n", f.RunID, f.Error())
}
