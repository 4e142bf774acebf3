package shared

import (
	"time"

	"github.com/rs/zerolog"
)

// ResolveSeed returns the requested seed, or a time based one, and logs it so
// runs can be reproduced.
func ResolveSeed(seed *int64, logger zerolog.Logger) int64 {
	if seed != nil {
		logger.Info().Int64("seed", *seed).Msg("Using deterministic seed")
		return *seed
	}
	s := time.Now().UnixNano()
	logger.Info().Int64("seed", s).Msg("Using random seed")
	return s
}
