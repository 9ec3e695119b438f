// Package format is the closed lookup table mapping input file extensions to
// transcoding strategies, tag-extraction capabilities, and the external codec
// binaries each conversion requires.
//
// The format set is fixed and enumerable; there is no plugin mechanism. Use
// Resolve to turn an extension into a Spec and Spec.Plan to apply the
// fallback-decoder preference, which the registry may override (MLP and WMA
// always decode through the fallback) or reject (True-Audio never can).
package format
