package physics

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes every body's tag, removal flag, centroid and velocity in
// scene order. Two scenes driven by the same inputs hash equal.
func (s *Scene) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [34]byte
	for _, b := range s.bodies {
		buf[0] = byte(b.tag)
		buf[1] = 0
		if b.removed {
			buf[1] = 1
		}
		binary.LittleEndian.PutUint64(buf[2:], math.Float64bits(b.centroid.X))
		binary.LittleEndian.PutUint64(buf[10:], math.Float64bits(b.centroid.Y))
		binary.LittleEndian.PutUint64(buf[18:], math.Float64bits(b.velocity.X))
		binary.LittleEndian.PutUint64(buf[26:], math.Float64bits(b.velocity.Y))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
