package telemetry

// TraceStats summarises the samples of one level in a trace.
type TraceStats struct {
	Level     string `yaml:"level"`
	Samples   int    `yaml:"samples"`
	Bodies    int    `yaml:"bodies"` // distinct body indices seen
	FirstTick uint64 `yaml:"first_tick"`
	LastTick  uint64 `yaml:"last_tick"`
	Removed   int    `yaml:"removed"` // samples taken while a body was marked removed
}

// Stats groups samples by level, in order of first appearance.
func Stats(samples []Sample) []TraceStats {
	var out []TraceStats
	pos := make(map[string]int)
	seen := make(map[string]map[int]struct{})
	for _, s := range samples {
		i, ok := pos[s.Level]
		if !ok {
			i = len(out)
			pos[s.Level] = i
			seen[s.Level] = make(map[int]struct{})
			out = append(out, TraceStats{Level: s.Level, FirstTick: s.Tick, LastTick: s.Tick})
		}
		st := &out[i]
		st.Samples++
		st.FirstTick = min(st.FirstTick, s.Tick)
		st.LastTick = max(st.LastTick, s.Tick)
		if s.Removed {
			st.Removed++
		}
		seen[s.Level][s.Index] = struct{}{}
		st.Bodies = len(seen[s.Level])
	}
	return out
}
