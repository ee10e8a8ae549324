package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged random draws.
// Every draw is logged at debug level with its kind, bound and result.
//
// Roller itself satisfies Source, so it can be injected anywhere a Source is expected.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs each draw to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Intn draws from the wrapped Source and logs the result.
//
// Precondition: n > 0.
func (r *Roller) Intn(n int) int {
	v := r.src.Intn(n)
	r.logger.Debug("random draw",
		zap.String("kind", "int"),
		zap.Int("bound", n),
		zap.Int("result", v),
	)
	return v
}

// Float64 draws from the wrapped Source and logs the result.
func (r *Roller) Float64() float64 {
	v := r.src.Float64()
	r.logger.Debug("random draw",
		zap.String("kind", "float"),
		zap.Float64("result", v),
	)
	return v
}

// Chance reports whether a uniform draw falls below p.
//
// Postcondition: returns false when p <= 0 and true when p >= 1.
func (r *Roller) Chance(p float64) bool {
	return r.Float64() < p
}
