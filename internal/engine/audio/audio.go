// Package audio plays short synthesized cues when viewer operations finish.
package audio

import (
	"fmt"
	gomath "math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Manager synthesizes and plays the viewer's feedback cues.
type Manager struct {
	mu sync.RWMutex

	// State
	initialized bool
	sampleRate  beep.SampleRate

	// Settings
	enabled bool
	volume  float64 // 0.0 to 1.0

	// Mixer for concurrent cue playback
	mixer *beep.Mixer
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		enabled: true,
		volume:  0.8,
		mixer:   &beep.Mixer{},
	}
}

// Init initializes the audio system.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	m.sampleRate = DefaultSampleRate
	err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30))
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	// Start the cue mixer
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close shuts down the audio system.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	m.initialized = false
}

// IsInitialized returns whether the audio system is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SetEnabled toggles cue playback.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// Enabled returns whether cues are enabled.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// SetVolume sets the cue volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clamp(vol, 0, 1)
}

// Volume returns the cue volume.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// Success plays a short rising two-tone chirp.
func (m *Manager) Success() {
	m.playTones([]tone{
		{freq: 880, dur: 90 * time.Millisecond},
		{freq: 1320, dur: 130 * time.Millisecond},
	})
}

// Failure plays a short falling chirp.
func (m *Manager) Failure() {
	m.playTones([]tone{
		{freq: 440, dur: 120 * time.Millisecond},
		{freq: 220, dur: 180 * time.Millisecond},
	})
}

// tone is one segment of a cue.
type tone struct {
	freq float64
	dur  time.Duration
}

func (m *Manager) playTones(tones []tone) {
	m.mu.RLock()
	initialized := m.initialized
	enabled := m.enabled
	vol := m.volume
	sampleRate := m.sampleRate
	m.mu.RUnlock()

	if !initialized || !enabled || vol <= 0 {
		return
	}

	parts := make([]beep.Streamer, 0, len(tones))
	for _, tn := range tones {
		s, err := generators.SineTone(sampleRate, tn.freq)
		if err != nil {
			return
		}
		parts = append(parts, beep.Take(sampleRate.N(tn.dur), s))
	}

	// Apply volume
	volStreamer := &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   volumeToDb(vol),
		Silent:   vol <= 0,
	}

	// Add to mixer (concurrent playback)
	m.mixer.Add(volStreamer)
}

// volumeToDb converts a 0-1 volume to decibel scale.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100 // Effectively silent
	}
	// Use log scale: vol=1 -> 0dB, vol=0.5 -> -6dB, vol=0.25 -> -12dB
	return 20 * gomath.Log10(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
