package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"
)

// SampleRate is the speaker rate
const SampleRate = beep.SampleRate(44100)

// Options configures a Player
type Options struct {
	Enabled bool
	Volume  float64
	// Output replaces the speaker; tests pass a func that drains the streamer
	Output func(beep.Streamer)
}

// Player mixes cues into the speaker
// A player whose speaker failed to open stays silent; Play, Muted, Silent, ToggleMute and Close accept a nil player
type Player struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	output func(beep.Streamer)
	owned  bool
	volume float64
	log    zerolog.Logger

	muted  atomic.Bool
	silent atomic.Bool
	played atomic.Int64
}

// NewPlayer opens the speaker unless disabled or an Output is supplied
func NewPlayer(opts Options, log zerolog.Logger) *Player {
	p := &Player{
		mixer:  &beep.Mixer{},
		volume: clamp(opts.Volume),
		output: opts.Output,
		log:    log.With().Str("component", "audio").Logger(),
	}
	p.muted.Store(!opts.Enabled)

	if !opts.Enabled {
		p.silent.Store(true)
		return p
	}
	if p.output != nil {
		return p
	}

	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		p.log.Warn().Err(err).Msg("Speaker unavailable, cues disabled")
		p.silent.Store(true)
		return p
	}
	p.owned = true
	speaker.Play(p.mixer)
	p.output = func(s beep.Streamer) {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	}
	return p
}

// Play queues c, dropped while muted or silent
func (p *Player) Play(c Cue) {
	if p == nil || p.silent.Load() || p.muted.Load() {
		return
	}
	p.mu.Lock()
	s := c.Streamer(p.volume, SampleRate)
	out := p.output
	p.mu.Unlock()
	if s == nil || out == nil {
		return
	}
	out(s)
	p.played.Add(1)
	p.log.Debug().Stringer("cue", c).Msg("Cue played")
}

// ToggleMute flips the mute state and returns the new value
func (p *Player) ToggleMute() bool {
	if p == nil {
		return true
	}
	muted := !p.muted.Load()
	p.muted.Store(muted)
	return muted
}

// Muted reports the mute state
func (p *Player) Muted() bool { return p == nil || p.muted.Load() }

// Silent reports whether no output is available
func (p *Player) Silent() bool { return p == nil || p.silent.Load() }

// Played returns the number of cues handed to the output
func (p *Player) Played() int64 { return p.played.Load() }

// SetVolume changes the volume of subsequent cues
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	p.volume = clamp(v)
	p.mu.Unlock()
}

// Volume returns the current volume
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Close stops output and releases the speaker if this player opened it
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.silent.Store(true)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.owned {
		speaker.Clear()
		speaker.Close()
		p.owned = false
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
