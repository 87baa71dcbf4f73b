package practicesession

import (
	"time"

	"github.com/careerprep/backend/internal/domain/category"
	"github.com/careerprep/backend/internal/domain/questionbank"
)

// SessionConfig controls how a session picks its questions and ticks.
type SessionConfig struct {
	Category     *category.Category // nil = sample the head of the corpus
	SampleSize   int                // questions taken when Category is nil
	TickInterval time.Duration      // wall time per elapsed second
}

// DefaultConfig returns an unfiltered config with the default sample size
// and a one-second tick.
func DefaultConfig() SessionConfig {
	return SessionConfig{
		Category:     nil,
		SampleSize:   questionbank.DefaultSampleSize,
		TickInterval: time.Second,
	}
}
