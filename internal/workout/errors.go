package workout

import (
	"github.com/stegangeorgiev/fitness-app/internal/errors"
)

// Errors returned to callers. They indicate a bad request or a broken catalog.
var (
	ErrUnknownWorkoutType  = errors.NewSentinel("unknown workout type")
	ErrUnknownDifficulty   = errors.NewSentinel("unknown difficulty")
	ErrNoEligibleExercises = errors.NewSentinel("no eligible exercises")
)

// Errors of the model path. Generate recovers from all of them by composing the program itself.
var (
	ErrAIUnavailable       = errors.NewSentinel("ai unavailable")
	ErrAITimeout           = errors.NewSentinel("ai timeout")
	ErrAIMalformedResponse = errors.NewSentinel("ai malformed response")
)
