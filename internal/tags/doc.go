// Package tags rewrites codec-specific metadata dumps into the canonical
// Vorbis-comment vocabulary used by the destination FLAC files.
//
// Three raw schemas exist in the wild: colon-delimited probe output
// ("Key: Value"), equals-delimited WavPack output ("key = value"), and
// metaflac's already-canonical export ("KEY=value"). Normalize reduces all
// three to an ordered TagSet with upper-cased canonical keys while leaving
// values byte-for-byte untouched.
package tags
