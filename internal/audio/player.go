// Package audio preloads and plays the alert sound.
package audio

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// ErrNoClip indicates Play was called without a successfully preloaded clip.
var ErrNoClip = errors.New("no audio clip loaded")

// Clip is a decoded sound held in memory.
type Clip struct {
	buffer *beep.Buffer
	format beep.Format
}

// Length returns the playback duration of the clip.
func (clip *Clip) Length() time.Duration {
	if clip == nil || clip.buffer == nil {
		return 0
	}
	return clip.format.SampleRate.D(clip.buffer.Len())
}

// Player owns the speaker. The speaker is initialised on first Play.
type Player struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
	initErr    error
	ready      bool
	initFn     func(beep.SampleRate, int) error
	playFn     func(...beep.Streamer)
}

// NewPlayer creates a player bound to the system speaker.
func NewPlayer() *Player {
	return &Player{
		initFn: speaker.Init,
		playFn: speaker.Play,
	}
}

// Preload decodes a WAV stream fully into memory.
func (player *Player) Preload(src io.Reader) (*Clip, error) {
	streamer, format, err := wav.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if err := streamer.Err(); err != nil {
		return nil, fmt.Errorf("read wav samples: %w", err)
	}
	return &Clip{buffer: buffer, format: format}, nil
}

// Play starts the clip and returns without waiting for it to finish.
func (player *Player) Play(clip *Clip) error {
	if clip == nil || clip.buffer == nil {
		return ErrNoClip
	}
	if err := player.ensureSpeaker(clip.format.SampleRate); err != nil {
		return err
	}

	var streamer beep.Streamer = clip.buffer.Streamer(0, clip.buffer.Len())
	if clip.format.SampleRate != player.sampleRate {
		streamer = beep.Resample(4, clip.format.SampleRate, player.sampleRate, streamer)
	}
	player.playFn(streamer)
	return nil
}

func (player *Player) ensureSpeaker(sampleRate beep.SampleRate) error {
	player.mu.Lock()
	defer player.mu.Unlock()
	if player.ready {
		return nil
	}
	if player.initErr != nil {
		return player.initErr
	}
	if err := player.initFn(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		player.initErr = fmt.Errorf("init speaker: %w", err)
		return player.initErr
	}
	player.sampleRate = sampleRate
	player.ready = true
	return nil
}

// Sound binds a player to one preloaded clip.
type Sound struct {
	Player *Player
	Clip   *Clip
}

// Play plays the bound clip.
func (sound Sound) Play() error {
	if sound.Player == nil {
		return ErrNoClip
	}
	return sound.Player.Play(sound.Clip)
}
