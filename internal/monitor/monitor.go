// Package monitor provides an optional local audio monitor that plays the
// reconstructed output levels through the default sound device.
package monitor

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"
)

// Sink consumes reconstructed output levels.
type Sink interface {
	// Write forwards one output level. Called once per sample tick.
	Write(level uint8) error

	// Close releases the sink.
	Close() error
}

// OtoSink plays output levels as signed 16-bit mono PCM.
type OtoSink struct {
	player *oto.Player
	pw     *io.PipeWriter
	buf    [2]byte
}

// NewOtoSink creates an OtoSink playing at the given sample rate.
// It blocks until the audio context is ready.
func NewOtoSink(sampleRate int) (*OtoSink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("monitor: open audio context: %w", err)
	}
	<-ready

	pr, pw := io.Pipe()
	player := ctx.NewPlayer(pr)
	player.Play()

	return &OtoSink{player: player, pw: pw}, nil
}

// Write converts the level to a centred 16-bit sample and queues it for
// playback. 128 maps to 0 (silence).
func (s *OtoSink) Write(level uint8) error {
	sample := (int16(level) - 128) << 8
	binary.LittleEndian.PutUint16(s.buf[:], uint16(sample))
	if _, err := s.pw.Write(s.buf[:]); err != nil {
		return fmt.Errorf("monitor: write sample: %w", err)
	}
	return nil
}

// Close stops playback.
func (s *OtoSink) Close() error {
	s.pw.Close()
	return s.player.Close()
}

// NoopSink discards all levels. Used when the monitor is disabled.
type NoopSink struct{}

func (NoopSink) Write(level uint8) error { return nil }
func (NoopSink) Close() error            { return nil }

// FakeSink records written levels for testing.
type FakeSink struct {
	Levels     []uint8
	Closed     bool
	WriteError error
}

// NewFakeSink creates an empty FakeSink.
func NewFakeSink() *FakeSink {
	return &FakeSink{}
}

func (f *FakeSink) Write(level uint8) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Levels = append(f.Levels, level)
	return nil
}

func (f *FakeSink) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded state.
func (f *FakeSink) Reset() {
	f.Levels = nil
	f.Closed = false
	f.WriteError = nil
}
