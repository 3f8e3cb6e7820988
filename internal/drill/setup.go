package drill

// Setup is the drill configuration the user edits between runs.
type Setup struct {
	FireDuration  int
	Ticks         []float64
	BadgesVisible bool
}

func NewSetup(fireDuration int) *Setup {
	return &Setup{
		FireDuration:  fireDuration,
		BadgesVisible: true,
	}
}

// Clamp bounds the fire duration to [lo, hi].
func (s *Setup) Clamp(lo, hi int) {
	if s.FireDuration < lo {
		s.FireDuration = lo
	}
	if s.FireDuration > hi {
		s.FireDuration = hi
	}
}
