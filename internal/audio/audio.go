// Package audio turns collision notifications into sound: a short pluck
// per impact over a soft pad that follows the total energy.
package audio

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
	"github.com/san-kum/ballsim/internal/physics"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	maxVoices = 32
	// impacts slower than this are silent
	minImpact = 20.0
)

type voice struct {
	freq, phase float64
	amp, decay  float64
	pan         float64
}

// Synth mixes collision voices and the pad. It has no device and is safe
// for concurrent Trigger and Render calls.
type Synth struct {
	mu     sync.Mutex
	voices []voice
	muted  bool

	// arena width used for panning
	width float64

	time         float64
	filterState  [2]float64
	delayLine    [2][]float64
	delayHead    int
	energy       float64
	energySmooth float64
}

func NewSynth(arenaWidth float64) *Synth {
	// 0.3 second delay
	delayLen := int(float64(SampleRate) * 0.3)
	if arenaWidth <= 0 {
		arenaWidth = 1
	}
	return &Synth{
		width:     arenaWidth,
		delayLine: [2][]float64{make([]float64, delayLen), make([]float64, delayLen)},
	}
}

// Trigger queues one pluck per notification. Pitch rises with impact
// speed, loudness follows it, and x position sets the pan.
func (s *Synth) Trigger(notes []physics.CollisionNotification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.muted {
		return
	}
	for _, n := range notes {
		if n.ImpactSpeed < minImpact {
			continue
		}
		base := 330.0
		if n.Kind == physics.WallContact {
			base = 220
		}
		// brighter colors ring higher
		brightness := (n.Color.R + n.Color.G + n.Color.B) / 3
		v := voice{
			freq:  base * (1 + 0.5*brightness) * (1 + math.Min(n.ImpactSpeed/2000, 1)),
			amp:   math.Min(n.ImpactSpeed/1500, 1) * 0.4,
			decay: math.Exp(-1 / (0.08 * SampleRate)),
			pan:   math.Max(0, math.Min(1, n.Position[0]/s.width)),
		}
		if len(s.voices) >= maxVoices {
			s.voices = s.voices[1:]
		}
		s.voices = append(s.voices, v)
	}
}

// SetEnergy feeds the pad. It is silent at zero energy and opens its
// filter as energy grows.
func (s *Synth) SetEnergy(e float64) {
	s.mu.Lock()
	s.energy = e
	s.mu.Unlock()
}

func (s *Synth) SetMuted(m bool) {
	s.mu.Lock()
	s.muted = m
	if m {
		s.voices = s.voices[:0]
	}
	s.mu.Unlock()
}

func (s *Synth) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Voices is the number of plucks still ringing.
func (s *Synth) Voices() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.voices)
}

// Triangle wave in [-1, 1].
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// One-pole low pass.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Render fills a stereo buffer.
func (s *Synth) Render(out [][]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// G2 D3 A3
	pad := []float64{98.00, 146.83, 220.00}
	s.energySmooth = s.energySmooth*0.995 + s.energy*0.005
	cutoff := 300.0 + math.Min(s.energySmooth/1e5, 900.0)
	dt := 1.0 / float64(SampleRate)
	padVol := 0.08 * math.Min(s.energySmooth/1e8, 1)
	if s.muted {
		padVol = 0
	}

	for i := 0; i < len(out[0]); i++ {
		l, r := 0.0, 0.0
		for j, f := range pad {
			lfo := 0.7 + 0.3*math.Sin(s.time*0.2+float64(j))
			l += triangle(s.time*f*0.999) * lfo / float64(len(pad))
			r += triangle(s.time*f*1.001) * lfo / float64(len(pad))
		}
		s.filterState[0] = lpf(l, cutoff, dt, s.filterState[0])
		s.filterState[1] = lpf(r, cutoff, dt, s.filterState[1])
		l, r = s.filterState[0]*padVol, s.filterState[1]*padVol

		kept := s.voices[:0]
		for _, v := range s.voices {
			x := math.Sin(2*math.Pi*v.phase) * v.amp
			l += x * (1 - v.pan)
			r += x * v.pan
			v.phase += v.freq * dt
			v.amp *= v.decay
			if v.amp > 1e-4 {
				kept = append(kept, v)
			}
		}
		s.voices = kept

		dl := s.delayLine[0][s.delayHead]
		dr := s.delayLine[1][s.delayHead]
		mixL := l + dl*0.3 + dr*0.1
		mixR := r + dr*0.3 + dl*0.1
		s.delayLine[0][s.delayHead] = mixL * 0.5
		s.delayLine[1][s.delayHead] = mixR * 0.5
		s.delayHead = (s.delayHead + 1) % len(s.delayLine[0])

		out[0][i] = float32(math.Max(-1, math.Min(1, mixL)))
		if len(out) > 1 {
			out[1][i] = float32(math.Max(-1, math.Min(1, mixR)))
		}
		s.time += dt
	}
}

// Processor plays a Synth on the default output device.
type Processor struct {
	*Synth
	stream *portaudio.Stream
	log    *log.Logger
	active bool
}

func NewProcessor(arenaWidth float64, logger *log.Logger) *Processor {
	if logger == nil {
		logger = log.Default()
	}
	return &Processor{Synth: NewSynth(arenaWidth), log: logger}
}

// Start opens an output-only stereo stream. On failure the processor stays
// inactive and the caller can keep running silently.
func (p *Processor) Start() error {
	if err := portaudio.Initialize(); err != nil {
		p.log.Warn("audio unavailable", "err", err)
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, p.Render)
	if err != nil {
		p.log.Warn("open audio stream", "err", err)
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		p.log.Warn("start audio stream", "err", err)
		stream.Close()
		portaudio.Terminate()
		return err
	}
	p.stream = stream
	p.active = true
	p.log.Debug("audio started", "rate", SampleRate, "buffer", BufferSize)
	return nil
}

func (p *Processor) Active() bool { return p.active }

func (p *Processor) Stop() {
	if !p.active {
		return
	}
	p.stream.Stop()
	p.stream.Close()
	portaudio.Terminate()
	p.active = false
}
