package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/globe-explorer/gesture"
	"github.com/lixenwraith/globe-explorer/location"
	"github.com/lixenwraith/globe-explorer/render"
)

const (
	// wheelRows is the page distance of one wheel notch
	wheelRows = 3
	// wheelZoom is the camera distance change per scrolled row
	wheelZoom = 0.05
	// Degrees of rotation per dragged cell, rows are twice as tall as columns
	dragLon = 2.0
	dragLat = 4.0
)

// press tracks the primary button from press to release
type press struct {
	startX, startY int
	lastX, lastY   int
	moved          bool
}

// HandleEvent applies one terminal event and returns false once the user quits
// Must run on the scheduler goroutine
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.Resize()
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	cx, cy := a.width/2, a.height/2
	page := float64(max(a.height-1, 1))

	switch ev.Key() {
	case tcell.KeyCtrlC:
		a.quit()
		return false
	case tcell.KeyEscape:
		if a.store.Focused() != nil {
			a.focus.Dismiss()
		} else {
			a.home()
		}
	case tcell.KeyUp:
		a.scroll(-1, cx, cy)
	case tcell.KeyDown:
		a.scroll(1, cx, cy)
	case tcell.KeyPgUp:
		a.scroll(-page, cx, cy)
	case tcell.KeyPgDn:
		a.scroll(page, cx, cy)
	case tcell.KeyEnter:
		a.act(render.ActionCommit)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			a.quit()
			return false
		case 'e':
			a.act(render.ActionExplore)
		case 'a':
			a.act(render.ActionAbout)
		case 'h':
			a.act(render.ActionHome)
		case 'm':
			a.act(render.ActionMute)
		case 'j':
			a.scroll(1, cx, cy)
		case 'k':
			a.scroll(-1, cx, cy)
		}
	}
	return true
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	btn := ev.Buttons()

	switch {
	case btn&tcell.WheelUp != 0:
		a.scroll(-wheelRows, x, y)
	case btn&tcell.WheelDown != 0:
		a.scroll(wheelRows, x, y)
	case btn&tcell.Button1 != 0:
		if a.press == nil {
			a.press = &press{startX: x, startY: y, lastX: x, lastY: y}
			return
		}
		dx, dy := a.press.lastX-x, a.press.lastY-y
		if dx == 0 && dy == 0 {
			return
		}
		a.press.lastX, a.press.lastY = x, y
		a.press.moved = true
		a.drag(float64(dx), float64(dy))
	default:
		if p := a.press; p != nil {
			a.press = nil
			if !p.moved {
				a.click(x, y)
			}
			return
		}
		a.hover(x, y)
	}
}

// scroll delivers a wheel step at x,y, positive dy scrolls forward
func (a *App) scroll(dy float64, x, y int) {
	hit := a.renderer.HitTest(x, y)
	a.deliver(&gesture.Event{Kind: gesture.Wheel, DeltaY: dy, Target: hit.Target}, y)
}

// drag delivers a touch move targeted at the element the press started on
func (a *App) drag(dx, dy float64) {
	hit := a.renderer.HitTest(a.press.startX, a.press.startY)
	a.deliver(&gesture.Event{Kind: gesture.TouchMove, DeltaX: dx, DeltaY: dy, Target: hit.Target}, a.press.startY)
}

// deliver routes input over the hero through the gesture listeners
// Unless a listener prevented it, the default effect scrolls the nested pane and chains to the page
func (a *App) deliver(ev *gesture.Event, y int) {
	if a.overHero(y) && a.input.Dispatch(ev) {
		return
	}
	if p, ok := ev.Target.(*render.Pane); ok && p.ScrollBy(int(ev.DeltaY)) {
		return
	}
	if a.store.ScrollBlocked() {
		return
	}
	a.page.ScrollBy(ev.DeltaY)
}

// overHero reports whether row y shows the hero section
func (a *App) overHero(y int) bool {
	return float64(y) < float64(a.height)-a.page.ScrollY()
}

func (a *App) click(x, y int) {
	hit := a.renderer.HitTest(x, y)
	switch hit.Kind {
	case render.HitButton:
		a.act(hit.Action)
	case render.HitMarker, render.HitListItem:
		if loc, ok := location.Find(a.locations, hit.ID); ok {
			a.focus.Commit(loc)
		}
	}
}

// hover feeds the marker under the pointer, or nil, to the focus debouncer
func (a *App) hover(x, y int) {
	hit := a.renderer.HitTest(x, y)
	if hit.Kind != render.HitMarker {
		a.focus.Hover(nil)
		return
	}
	if loc, ok := location.Find(a.locations, hit.ID); ok {
		a.focus.Hover(&loc)
	}
}

func (a *App) act(action render.Action) {
	a.log.Debug().Stringer("action", action).Msg("Control activated")
	switch action {
	case render.ActionExplore:
		a.gesture.Explore()
	case render.ActionHome:
		a.home()
	case render.ActionAbout:
		a.gesture.About()
	case render.ActionCommit:
		a.gesture.CommitScrollPast()
	case render.ActionDismiss:
		a.focus.Dismiss()
	case render.ActionMute:
		muted := a.opts.Player.ToggleMute()
		a.log.Info().Bool("muted", muted).Msg("Cues toggled")
	}
}

// home deactivates the globe and brings the hero back into view
func (a *App) home() {
	a.gesture.Home()
	if a.page.ScrollY() > 0 && !a.store.Scrolling() {
		a.animator.AnimateTo(0, a.cfg.Scroll.CommitDuration, nil)
	}
}
