package telemetry

import (
	"fmt"
	"io"
	"time"

	"github.com/robinvdvleuten/kmy/output"
)

// slowOperation is the duration from which a timing is highlighted.
const slowOperation = 100 * time.Millisecond

// formatTimingTree writes root and its children as a tree:
//
//	load ledger.kmy: 125ms
//	├─ load.gunzip: 20ms
//	├─ parser.parse: 80ms
//	└─ ledger.build (120 accounts, 3400 transactions): 25ms
func formatTimingTree(w io.Writer, root *timerNode) {
	styles := output.NewStyles(w)

	_, _ = fmt.Fprintf(w, "%s: %s\n", styles.Keyword(root.name), formatDuration(root.duration()))
	for i, child := range root.children {
		formatNode(w, styles, child, "", i == len(root.children)-1)
	}
}

func formatNode(w io.Writer, styles *output.Styles, node *timerNode, prefix string, isLast bool) {
	branch, extension := "├─ ", "│  "
	if isLast {
		branch, extension = "└─ ", "   "
	}

	d := node.duration()
	_, _ = fmt.Fprintf(w, "%s%s: %s\n", styles.Dim(prefix+branch), node.name, styles.Timing(formatDuration(d), d >= slowOperation))

	for i, child := range node.children {
		formatNode(w, styles, child, prefix+extension, i == len(node.children)-1)
	}
}

func (n *timerNode) duration() time.Duration {
	if n.end.IsZero() {
		return 0
	}
	return n.end.Sub(n.start)
}

// formatDuration shows milliseconds below one second and seconds above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.2fs", float64(d)/float64(time.Second))
}
