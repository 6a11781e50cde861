package render

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/globe-explorer/state"
)

var heroLines = []string{
	"Bringing the world onchain,",
	"a community of builders",
	"on Base",
}

// HeroLayer draws the landing copy and the explore control while the globe is dormant
type HeroLayer struct{}

// Visible hides the copy once the globe takes input
func (HeroLayer) Visible(ctx Context) bool {
	return ctx.State.Mode == state.Inactive && !ctx.State.About
}

// Render draws the copy around 40% of the hero height
func (HeroLayer) Render(ctx Context, buf *Buffer) {
	w, h := buf.Size()
	top := ctx.heroTop()
	y := top + h*2/5 - len(heroLines)

	lines := heroLines
	if !ctx.Compact && w >= runewidth.StringWidth(heroLines[0]+" "+heroLines[1]+" "+heroLines[2]) {
		lines = []string{heroLines[0] + " " + heroLines[1] + " " + heroLines[2]}
	}
	for _, line := range lines {
		buf.TextCenter(y, line, StyleTitle)
		y++
	}

	if ctx.Totals.Countries > 0 {
		y++
		buf.TextCenter(y, TotalsLine(ctx.Totals.Countries, ctx.Totals.Followers), StyleMuted)
	}

	y += 2
	button(buf, y, " Explore ", StyleButton, ActionExplore)
}

// TotalsLine is the hero's snapshot summary
func TotalsLine(countries, users int) string {
	return fmt.Sprintf("%s countries, %s users on warpcast", humanize.Comma(int64(countries)), humanize.Comma(int64(users)))
}

// button draws a centered control and registers its hit region
func button(buf *Buffer, y int, text string, style tcell.Style, a Action) {
	x := buf.TextCenter(y, text, style)
	buf.AddRegion(Rect{X: x, Y: y, W: runewidth.StringWidth(text), H: 1}, Hit{Kind: HitButton, Action: a, Target: Element})
}

// CommitLayer draws the scroll-past control at the bottom of the hero
type CommitLayer struct{}

// Render draws the control while the hero bottom is on screen
func (CommitLayer) Render(ctx Context, buf *Buffer) {
	_, h := buf.Size()
	y := ctx.heroTop() + h - 2
	if y < 0 || y >= h || ctx.State.About {
		return
	}
	button(buf, y, " ▼ Base? ", StyleGhost, ActionCommit)
}

// HeaderLayer draws the logo and the Home and About menu
type HeaderLayer struct{}

// Visible shows the menu once the globe has been activated or the about overlay is open
func (HeaderLayer) Visible(ctx Context) bool {
	return ctx.State.MenuVisible || ctx.State.About
}

// Render draws the header row
func (HeaderLayer) Render(ctx Context, buf *Buffer) {
	w, _ := buf.Size()
	buf.Fill(Rect{X: 0, Y: 0, W: w, H: 1}, StyleBase)
	buf.Text(1, 0, "◆ base", StyleTitle.Foreground(ColorPrimary))
	buf.AddRegion(Rect{X: 1, Y: 0, W: 6, H: 1}, Hit{Kind: HitButton, Action: ActionHome, Target: Element})

	sound := "♪"
	if ctx.Muted {
		sound = "♪×"
	}
	items := []struct {
		text string
		a    Action
	}{
		{"Home", ActionHome},
		{"About", ActionAbout},
		{sound, ActionMute},
	}
	x := w - 1
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		x -= runewidth.StringWidth(it.text) + 2
		n := buf.Text(x+1, 0, it.text, StyleBase)
		buf.AddRegion(Rect{X: x, Y: 0, W: n + 2, H: 1}, Hit{Kind: HitButton, Action: it.a, Target: Element})
	}
}

var aboutLines = []string{
	"About",
	"",
	"A map of the builders posting from every country.",
	"Scroll or press Explore to wake the globe,",
	"hover a country to fly there, click one in the list",
	"to open its details.",
}

// AboutLayer draws the about overlay
type AboutLayer struct{}

// Visible reports whether the overlay is open
func (AboutLayer) Visible(ctx Context) bool {
	return ctx.State.About
}

// Render draws a centered box with a close control
func (AboutLayer) Render(ctx Context, buf *Buffer) {
	w, h := buf.Size()
	bw := 4
	for _, l := range aboutLines {
		bw = max(bw, runewidth.StringWidth(l)+4)
	}
	bw = min(bw, w)
	bh := len(aboutLines) + 4
	box := Rect{X: (w - bw) / 2, Y: (h - bh) / 2, W: bw, H: bh}
	buf.Fill(box, StylePanel)
	for i, l := range aboutLines {
		st := StylePanel
		if i == 0 {
			st = st.Bold(true)
		}
		buf.Text(box.X+2, box.Y+1+i, Truncate(l, bw-4), st)
	}
	buf.AddRegion(box, Hit{Kind: HitButton, Target: Element})
	button(buf, box.Y+bh-2, " Close ", StyleButton, ActionHome)
}
