package render

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/globe-explorer/location"
	"github.com/lixenwraith/globe-explorer/state"
)

const (
	listWidth   = 30
	panelWidth  = 40
	panelMargin = 1
)

// ListLayer draws the followers leaderboard while the globe is active without focus
type ListLayer struct {
	Pane *Pane
}

// Visible hides the list in Detail mode and on the dormant hero
func (l ListLayer) Visible(ctx Context) bool {
	return ctx.State.Mode == state.Active && !ctx.State.About && len(ctx.Top) > 0
}

// Render draws the list box on the right, or along the bottom on compact terminals
func (l ListLayer) Render(ctx Context, buf *Buffer) {
	w, h := buf.Size()
	box := Rect{X: w - listWidth - panelMargin, Y: 2, W: listWidth, H: h - 4}
	if ctx.Compact {
		box = Rect{X: 0, Y: h - h/3, W: w, H: h / 3}
	}
	if box.W <= 4 || box.H <= 2 {
		return
	}
	buf.Fill(box, StylePanel)
	buf.AddRegion(box, Hit{Kind: HitPane, Target: l.Pane})
	buf.Text(box.X+1, box.Y, "Top countries", StylePanel.Bold(true))

	rows := box.H - 1
	l.Pane.Layout(len(ctx.Top), rows)
	raw := ctx.State.Selection.Raw
	for i := 0; i < rows; i++ {
		idx := l.Pane.Offset() + i
		if idx >= len(ctx.Top) {
			break
		}
		loc := ctx.Top[idx]
		y := box.Y + 1 + i
		st := StylePanel
		if raw != nil && raw.ID == loc.ID {
			st = st.Reverse(true)
		}
		count := humanize.Comma(int64(loc.Followers))
		name := Truncate(fmt.Sprintf("%2d. %s", idx+1, loc.Name), box.W-runewidth.StringWidth(count)-3)
		buf.Fill(Rect{X: box.X, Y: y, W: box.W, H: 1}, st)
		buf.Text(box.X+1, y, name, st)
		buf.Text(box.X+box.W-1-runewidth.StringWidth(count), y, count, st)
		buf.AddRegion(Rect{X: box.X, Y: y, W: box.W, H: 1}, Hit{Kind: HitListItem, ID: loc.ID, Target: l.Pane})
	}
}

// DetailLayer draws the focused location's panel
type DetailLayer struct {
	Pane *Pane
}

// Visible shows the panel in Detail mode
func (l DetailLayer) Visible(ctx Context) bool {
	return ctx.State.Mode == state.Detail && ctx.State.Focused != nil && !ctx.State.About
}

// Render draws the panel on the left with a dismiss control
func (l DetailLayer) Render(ctx Context, buf *Buffer) {
	w, h := buf.Size()
	box := Rect{X: panelMargin, Y: 2, W: min(panelWidth, w-2*panelMargin), H: h - 4}
	if ctx.Compact {
		box = Rect{X: 0, Y: h - h/2, W: w, H: h / 2}
	}
	if box.W <= 6 || box.H <= 3 {
		return
	}
	buf.Fill(box, StylePanel)
	buf.AddRegion(box, Hit{Kind: HitPane, Target: l.Pane})

	f := ctx.State.Focused
	buf.Text(box.X+1, box.Y, Truncate(f.Name, box.W-5), StylePanel.Bold(true))
	buf.Text(box.X+box.W-2, box.Y, "✕", StylePanel)
	buf.AddRegion(Rect{X: box.X + box.W - 3, Y: box.Y, W: 3, H: 1}, Hit{Kind: HitButton, Action: ActionDismiss, Target: Element})

	lines := DetailLines(*f, ctx.State.Selection, ctx)
	rows := box.H - 1
	l.Pane.Layout(len(lines), rows)
	for i := 0; i < rows; i++ {
		idx := l.Pane.Offset() + i
		if idx >= len(lines) {
			break
		}
		buf.Text(box.X+1, box.Y+1+i, Truncate(lines[idx], box.W-2), StylePanel)
	}
}

// DetailLines formats the panel body for the focused location
func DetailLines(f location.Location, sel state.Selection, ctx Context) []string {
	lines := []string{
		fmt.Sprintf("%s · %s followers · %s casts", f.CountryCode, humanize.Comma(int64(f.Followers)), humanize.Comma(int64(f.Posts))),
	}
	if f.ChannelID != "" {
		lines = append(lines, "/"+f.ChannelID)
	}
	if !f.CreatedAt.IsZero() {
		lines = append(lines, "since "+humanize.RelTime(f.CreatedAt, ctx.Now, "ago", "from now"))
	}
	lines = append(lines, "")

	switch {
	case sel.Fetching:
		return append(lines, "Loading…")
	case sel.Detail == nil || sel.Detail.ID != f.ID:
		return append(lines, "No details available")
	}

	d := sel.Detail
	if len(d.TopCasters) > 0 {
		lines = append(lines, "Top casters")
		for i, c := range d.TopCasters {
			lines = append(lines, fmt.Sprintf("%d. @%s  %s", i+1, c.Username, humanize.Comma(int64(c.Casts))))
		}
		lines = append(lines, "")
	}
	if len(d.RecentCasts) > 0 {
		lines = append(lines, "Recent casts")
		for _, c := range d.RecentCasts {
			lines = append(lines, fmt.Sprintf("@%s, %s", c.Author, humanize.RelTime(c.Timestamp, ctx.Now, "ago", "from now")))
			if c.Text != "" {
				lines = append(lines, "  "+c.Text)
			}
		}
	}
	return lines
}

// StatusLayer draws the debug status line on the last row
type StatusLayer struct{}

// Visible reports whether there is a status line to draw
func (StatusLayer) Visible(ctx Context) bool {
	return ctx.Status != ""
}

// Render draws mode, source and counters
func (StatusLayer) Render(ctx Context, buf *Buffer) {
	w, h := buf.Size()
	line := fmt.Sprintf("%s · %s · %s", ctx.State.Mode, orDash(ctx.Source), ctx.Status)
	buf.Fill(Rect{X: 0, Y: h - 1, W: w, H: 1}, StyleMuted)
	buf.Text(0, h-1, Truncate(line, w), StyleMuted)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
