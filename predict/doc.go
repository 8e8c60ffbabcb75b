// Package predict implements the two predictive stages of the codec and their
// composition.
//
// BasePredictor fits x[t+1] ≈ W1·x[t-1] + W2·x[t] + W3·x[t]² + b and replays
// it as a strictly sequential autoregressive recurrence seeded with the first
// two samples. MirrorPredictor fits the residual left by the base stage using
// forward-built features paired with reverse-ordered targets, and applies the
// result non-recursively, which makes it safe to evaluate in parallel chunks.
// Hybrid adds both outputs.
//
// All stages treat their inputs as immutable and return freshly allocated
// slices.
package predict
