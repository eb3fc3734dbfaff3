// Package audio schedules the one-shot sound effects the A/V
// System's phase machine triggers: each phase may name a sound to
// play once, the instant that phase starts. This package owns only
// playback; deciding whether a phase changed this tick is the A/V
// System's job (avsystem.TickResult.PhaseChanged).
package audio

import (
	"bytes"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/isoforge/pkg/entity"
	"github.com/opd-ai/isoforge/pkg/logging"
)

// SampleRate is the PCM sample rate every decoded sound effect must
// already be resampled to before reaching this package.
const SampleRate = 44100

// SoundSource resolves an authored sound id to its fully decoded PCM
// bytes (stereo, 16-bit little-endian signed, at SampleRate), ready
// to back a fresh player on every play.
type SoundSource interface {
	SoundBytes(soundID uint32) ([]byte, bool)
}

// System plays the sound effects A/V phase transitions trigger. It
// keeps one ebiten audio context and a small set of in-flight players,
// swept as they finish so overlapping triggers of the same effect
// don't cut each other off.
type System struct {
	context *audio.Context
	sounds  SoundSource
	log     *logrus.Entry

	active []*audio.Player
}

// New builds a System backed by a fresh ebiten audio context.
func New(sounds SoundSource, logger *logrus.Logger) *System {
	return &System{
		context: audio.NewContext(SampleRate),
		sounds:  sounds,
		log:     logging.AudioLogger(logger),
	}
}

// PlayPhaseSound plays the sound attached to av's current phase, if
// any (SoundID == 0 means the phase is silent). Call this once per
// tick where avsystem.TickResult.PhaseChanged is true, after the
// phase has already advanced.
func (s *System) PlayPhaseSound(av *entity.AVEntity) {
	if av.State.Exhausted() {
		return
	}
	soundID := av.State.CurrentPhase().SoundID
	if soundID == 0 {
		return
	}
	s.Play(soundID)
}

// Play starts an independent playback of soundID.
func (s *System) Play(soundID uint32) {
	data, ok := s.sounds.SoundBytes(soundID)
	if !ok {
		s.log.WithField("soundID", soundID).Warn("unknown sound id")
		return
	}

	player, err := s.context.NewPlayer(bytes.NewReader(data))
	if err != nil {
		s.log.WithField("soundID", soundID).WithError(err).Error("failed to create audio player")
		return
	}

	player.Play()
	s.sweep()
	s.active = append(s.active, player)
}

// sweep drops finished players from the active set so it doesn't grow
// unbounded over a long play session.
func (s *System) sweep() {
	kept := s.active[:0]
	for _, p := range s.active {
		if p.IsPlaying() {
			kept = append(kept, p)
			continue
		}
		p.Close()
	}
	s.active = kept
}

// ActiveCount reports how many sound effects are currently playing.
// Exposed for tests and diagnostics.
func (s *System) ActiveCount() int {
	return len(s.active)
}
