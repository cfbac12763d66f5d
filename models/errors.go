package models

import "errors"

// ErrInvalidConfiguration marks fatal configuration problems detected before
// any processing starts: non-positive duration or bucket width, out-of-range
// weights or thresholds.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// ErrInsufficientSignal marks a match with no usable sentiment or loudness
// data at all. It is fatal for the excitement curve only; event merging can
// still succeed independently.
var ErrInsufficientSignal = errors.New("insufficient signal")
