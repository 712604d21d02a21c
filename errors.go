package fpe

import "errors"

// ErrIllegalArgument reports a contract violation by the caller: a nil
// value, a negative integer, a key or tweak of the wrong size, or a
// message space whose bit length falls outside the supported [8, 128]
// range. SecurityFailure conditions are also re-raised as this error.
var ErrIllegalArgument = errors.New("fpe: illegal argument")

// ErrOutsideMessageSpace reports that a plaintext, ciphertext, or rank
// value is not a member of the message space it was checked against.
var ErrOutsideMessageSpace = errors.New("fpe: value outside message space")

// ErrSecurityFailure reports an internal AES configuration failure. Given
// validated inputs this should be unreachable; callers see it wrapped as
// ErrIllegalArgument, never on its own.
var ErrSecurityFailure = errors.New("fpe: security failure")

// ErrIterationLimitExceeded reports that the cycle-walking loop's bounded
// safety cap was exceeded without landing inside the message space. This
// is not part of the core FFX contract; spec.md §7 calls it
// implementation-defined, and this module adds it purely to bound
// worst-case latency for a degenerate or adversarial message space.
var ErrIterationLimitExceeded = errors.New("fpe: cycle-walking iteration limit exceeded")
