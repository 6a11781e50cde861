package status

import (
	"sync/atomic"

	"github.com/mattn/go-runewidth"
)

// MaxLabelWidth bounds a label in status line cells, enough for a request id prefix
const MaxLabelWidth = 12

// Label is a short text value shown in the status line
// Zero value is ready to use and empty
type Label struct {
	ptr atomic.Pointer[string]
}

// Set stores val clipped to MaxLabelWidth cells
func (l *Label) Set(val string) {
	val = runewidth.Truncate(val, MaxLabelWidth, "")
	l.ptr.Store(&val)
}

// Value returns the stored text
func (l *Label) Value() string {
	if p := l.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
