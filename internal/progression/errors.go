package progression

import "errors"

// ErrValidation is returned when an activity report carries values
// outside their documented ranges. Reports are rejected at the engine
// boundary rather than silently clamped.
var ErrValidation = errors.New("invalid activity report")

// ErrNotFound is returned when an operation names a quest, power-up or
// leaderboard entry that is not present on the profile.
var ErrNotFound = errors.New("not found")

// ErrPrecondition is returned when an operation is structurally valid
// but the entity is in the wrong state for it (claiming an incomplete
// quest, using a spent power-up). Callers are expected to branch on it;
// it is a recoverable condition, not a programming error.
var ErrPrecondition = errors.New("precondition failed")
