package table

// Stats is the running summary of the measurements seen for one key.
//
// A Stats value with Count == 0 is the zero observation and is the identity
// element of Merge. Any Stats stored in a Table has Count >= 1 and Min <= Max.
type Stats struct {
	Min   float64
	Max   float64
	Sum   float64
	Count int64
}

// NewStats returns the summary of the single measurement v.
func NewStats(v float64) Stats {
	return Stats{Min: v, Max: v, Sum: v, Count: 1}
}

// Add accumulates one measurement.
func (s *Stats) Add(v float64) {
	if s.Count == 0 {
		*s = NewStats(v)
		return
	}

	s.Min = min(s.Min, v)
	s.Max = max(s.Max, v)
	s.Sum += v
	s.Count++
}

// Merge combines two summaries computed over disjoint sets of measurements.
// The operation is associative and commutative; a zero Stats contributes nothing.
func (s Stats) Merge(o Stats) Stats {
	switch {
	case o.Count == 0:
		return s
	case s.Count == 0:
		return o
	}

	return Stats{
		Min:   min(s.Min, o.Min),
		Max:   max(s.Max, o.Max),
		Sum:   s.Sum + o.Sum,
		Count: s.Count + o.Count,
	}
}

// Mean returns Sum / Count, or 0 for the zero observation.
func (s Stats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}

	return s.Sum / float64(s.Count)
}
