// Package transcode drives one conversion job through its pipeline states:
// Validated, Decoding, Encoding, Tagging or Skipped, PostAction, Done, with
// Failed reachable from the decode and encode stages.
//
// External codec tools do the actual audio work. Depending on the resolved
// format strategy the pipeline hands the encoder the source path directly,
// pipes a native decoder's stdout into the encoder's stdin, decodes through
// the fallback decoder into a scratch file first, or re-encodes a FLAC in
// place behind a backup rename that is undone if anything after it fails.
//
// Temporary artifacts (scratch WAVs, exported tag dumps) are owned by the job
// that created them and removed on every exit path.
package transcode
