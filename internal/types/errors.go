package types

import "errors"

// ErrInvalidArgument marks caller mistakes: out-of-range coordinates, unknown
// tiers, malformed snapshots.
var ErrInvalidArgument = errors.New("invalid argument")
