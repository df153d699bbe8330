package arena

import "errors"

var (
	ErrMatchNotFound   = errors.New("match not found")
	ErrNilMatch        = errors.New("match is nil or has no id")
	ErrRoundInProgress = errors.New("round already in progress")
)
