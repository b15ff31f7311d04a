package monitor

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gkampitakis/ciinfo"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/probelab/pingmon/internal/probe"
)

// consoleView renders a live status line per target, redrawing in place.
// It stays silent when the writer is not an interactive terminal or the
// process runs in CI.
type consoleView struct {
	out     *termenv.Output
	targets []Target
	active  bool
	drawn   bool
}

func newConsoleView(w io.Writer, targets []Target) *consoleView {
	active := false
	if f, ok := w.(*os.File); ok {
		active = isatty.IsTerminal(f.Fd()) && !ciinfo.IsCI
	}
	return &consoleView{
		out:     termenv.NewOutput(w),
		targets: targets,
		active:  active,
	}
}

// update redraws the status block with the latest results.
func (v *consoleView) update(at time.Time, results map[string]probe.Result) {
	if !v.active {
		return
	}
	if v.drawn {
		v.out.CursorUp(len(v.targets) + 1)
	}
	v.drawn = true

	v.out.ClearLine()
	fmt.Fprintf(v.out, "%s\n", at.Format(time.TimeOnly))
	for _, target := range v.targets {
		v.out.ClearLine()
		res, ok := results[target.Name]
		if !ok || res.MTU == 0 {
			fmt.Fprintf(v.out, "%s: DOWN\n", target.Name)
			continue
		}
		fmt.Fprintf(v.out, "%s: MTU %d latency %d micros\n",
			target.Name, res.MTU, res.Latency.Microseconds())
	}
}
