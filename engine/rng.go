package engine

// Stream is a deterministic per-category random stream with position
// tracking. Position increments with every draw, enabling save/restore.
type Stream struct {
	label string
	state uint32
	pos   int64
}

// Streams derives independent per-label streams from one seed. The same
// seed and label always reproduce the same infinite sequence; streams with
// different labels are uncorrelated for practical purposes.
type Streams struct {
	seed    uint32
	streams map[string]*Stream
}

// NewStreams creates a stream factory for the given run seed.
func NewStreams(seed uint32) *Streams {
	return &Streams{seed: seed, streams: map[string]*Stream{}}
}

// Seed returns the run seed the factory was created with.
func (f *Streams) Seed() uint32 {
	return f.seed
}

// Get returns the stream for a label, deriving it on first use.
// A stream is never reseeded mid-run.
func (f *Streams) Get(label string) *Stream {
	if s, ok := f.streams[label]; ok {
		return s
	}
	s := &Stream{label: label, state: deriveState(f.seed, label)}
	f.streams[label] = s
	return s
}

// Positions returns the current position of every derived stream,
// for save files.
func (f *Streams) Positions() map[string]int64 {
	positions := make(map[string]int64, len(f.streams))
	for label, s := range f.streams {
		positions[label] = s.pos
	}
	return positions
}

// Restore advances freshly-derived streams to the given positions.
// This reproduces the exact stream states for save/load.
func (f *Streams) Restore(positions map[string]int64) {
	for label, pos := range positions {
		s := f.Get(label)
		for s.pos < pos {
			s.Float64()
		}
	}
}

// deriveState hashes "{seed}:{label}" with a 32-bit FNV-1a fold to produce
// the initial generator state for a labeled stream.
func deriveState(seed uint32, label string) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	mix := func(b byte) {
		h ^= uint32(b)
		h *= prime32
	}
	for i := 0; i < 4; i++ {
		mix(byte(seed >> (8 * i)))
	}
	mix(':')
	for i := 0; i < len(label); i++ {
		mix(label[i])
	}
	return h
}

// Float64 returns the next value in [0, 1). The generator is a mulberry32
// variant: a 32-bit counter-based mixer with full 2^32 period.
func (s *Stream) Float64() float64 {
	s.pos++
	s.state += 0x6D2B79F5
	z := s.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	z ^= z >> 14
	return float64(z) / (1 << 32)
}

// Intn returns a random integer in [0, n). n must be positive.
func (s *Stream) Intn(n int) int {
	return int(s.Float64() * float64(n))
}

// Label returns the stream's derivation label.
func (s *Stream) Label() string {
	return s.label
}

// Position returns the number of draws made since derivation.
func (s *Stream) Position() int64 {
	return s.pos
}
