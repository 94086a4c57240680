// Package telemetry samples body trajectories from a running scene and exports
// them as CSV.
package telemetry

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/zeusync/rigid2d/internal/core/physics"
)

// Sample is one body's state at one tick.
type Sample struct {
	Level   string  `csv:"level"`
	Tick    uint64  `csv:"tick"`
	Time    float64 `csv:"time"`
	Index   int     `csv:"index"`
	Tag     string  `csv:"tag"`
	X       float64 `csv:"x"`
	Y       float64 `csv:"y"`
	VX      float64 `csv:"vx"`
	VY      float64 `csv:"vy"`
	Removed bool    `csv:"removed"`
}

// Recorder keeps samples of one scene, taking one every N ticks. It is not
// safe for concurrent use; give each scene its own.
type Recorder struct {
	level   string
	every   uint64
	samples []Sample
}

func NewRecorder(level string, every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{level: level, every: uint64(every)}
}

// Observe records every body of s when the scene's tick count is a multiple
// of the sampling interval. It reports whether a sample was taken.
func (r *Recorder) Observe(s *physics.Scene) bool {
	if s.Ticks()%r.every != 0 {
		return false
	}
	r.Capture(s)
	return true
}

// Capture records every body of s unconditionally.
func (r *Recorder) Capture(s *physics.Scene) {
	for i, b := range s.Bodies() {
		c, v := b.Centroid(), b.Velocity()
		r.samples = append(r.samples, Sample{
			Level:   r.level,
			Tick:    s.Ticks(),
			Time:    s.Elapsed(),
			Index:   i,
			Tag:     b.Tag().String(),
			X:       c.X,
			Y:       c.Y,
			VX:      v.X,
			VY:      v.Y,
			Removed: b.IsRemoved(),
		})
	}
}

func (r *Recorder) Samples() []Sample { return r.samples }

func (r *Recorder) Len() int { return len(r.samples) }

// WriteCSV writes samples with a header row.
func WriteCSV(w io.Writer, samples []Sample) error {
	if err := gocsv.Marshal(samples, w); err != nil {
		return fmt.Errorf("writing trajectory: %w", err)
	}
	return nil
}

// AppendCSV writes samples without a header, for appending to an existing file.
func AppendCSV(w io.Writer, samples []Sample) error {
	if err := gocsv.MarshalWithoutHeaders(samples, w); err != nil {
		return fmt.Errorf("writing trajectory: %w", err)
	}
	return nil
}

// ReadCSV parses a file produced by WriteCSV.
func ReadCSV(r io.Reader) ([]Sample, error) {
	var samples []Sample
	if err := gocsv.Unmarshal(r, &samples); err != nil {
		return nil, fmt.Errorf("reading trajectory: %w", err)
	}
	return samples, nil
}
