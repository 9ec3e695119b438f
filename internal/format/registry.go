package format

import (
	"sort"
	"strings"

	"flacsmith/internal/services"
)

// Strategy identifies how a format's audio stream reaches the FLAC encoder.
type Strategy string

const (
	// StrategyDirect hands the source path straight to the encoder.
	StrategyDirect Strategy = "direct"
	// StrategyNativePipe pipes the native decoder's stdout into the encoder.
	StrategyNativePipe Strategy = "native-pipe"
	// StrategyFallbackTemp decodes to a scratch WAV first; the fallback
	// decoder cannot stream into the encoder.
	StrategyFallbackTemp Strategy = "fallback-temp"
	// StrategyReencode re-encodes a FLAC in place behind a backup rename.
	StrategyReencode Strategy = "reencode-in-place"
)

// TagSchema identifies the raw metadata dump shape a format's tag tool emits.
type TagSchema string

const (
	TagSchemaNone      TagSchema = ""
	TagSchemaColon     TagSchema = "colon"
	TagSchemaEquals    TagSchema = "equals"
	TagSchemaCanonical TagSchema = "canonical"
)

// External tool names shared across the registry.
const (
	EncoderBinary  = "flac"
	TagToolBinary  = "metaflac"
	FallbackBinary = "ffmpeg"
	ProbeBinary    = "ffprobe"
)

// Spec describes one supported input format. Specs are immutable; the
// registry below is the only source of them.
type Spec struct {
	Ext      string
	Name     string
	Strategy Strategy

	// DecoderBinary is the native decoder, empty when the strategy needs
	// none (Direct) or only the fallback decoder exists (MLP, WMA).
	DecoderBinary string

	SupportsTagExtraction bool
	TagSchema             TagSchema
	// TagBinary produces the raw tag dump for SupportsTagExtraction formats.
	TagBinary string

	// FallbackEligible marks formats the fallback decoder can handle.
	FallbackEligible bool
	// ForcesFallback marks formats with no native decode path at all.
	ForcesFallback bool
	// FallbackRejected marks formats where requesting the fallback decoder
	// is a hard error rather than a silent no-op.
	FallbackRejected bool

	// NeedsStreamProbe requires verifying the container really holds this
	// codec before decoding (the extension alone is ambiguous).
	NeedsStreamProbe bool
	// NeedsLosslessProbe requires verifying the embedded codec is the
	// lossless variant before any subprocess is spawned.
	NeedsLosslessProbe bool
}

var registry = map[string]Spec{
	"flac": {
		Ext:                   "flac",
		Name:                  "FLAC",
		Strategy:              StrategyReencode,
		DecoderBinary:         EncoderBinary,
		SupportsTagExtraction: true,
		TagSchema:             TagSchemaCanonical,
		TagBinary:             TagToolBinary,
	},
	"wav": {
		Ext:      "wav",
		Name:     "WAV",
		Strategy: StrategyDirect,
	},
	"ape": {
		Ext:                   "ape",
		Name:                  "Monkey's Audio",
		Strategy:              StrategyNativePipe,
		DecoderBinary:         "mac",
		SupportsTagExtraction: true,
		TagSchema:             TagSchemaColon,
		TagBinary:             ProbeBinary,
		FallbackEligible:      true,
	},
	"m4a": {
		Ext:                   "m4a",
		Name:                  "Apple Lossless",
		Strategy:              StrategyNativePipe,
		DecoderBinary:         "alac",
		SupportsTagExtraction: true,
		TagSchema:             TagSchemaColon,
		TagBinary:             ProbeBinary,
		FallbackEligible:      true,
		NeedsStreamProbe:      true,
	},
	"shn": {
		Ext:              "shn",
		Name:             "Shorten",
		Strategy:         StrategyNativePipe,
		DecoderBinary:    "shorten",
		FallbackEligible: true,
	},
	"wv": {
		Ext:                   "wv",
		Name:                  "WavPack",
		Strategy:              StrategyNativePipe,
		DecoderBinary:         "wvunpack",
		SupportsTagExtraction: true,
		TagSchema:             TagSchemaEquals,
		TagBinary:             "wvunpack",
		FallbackEligible:      true,
	},
	"tta": {
		Ext:                   "tta",
		Name:                  "True Audio",
		Strategy:              StrategyNativePipe,
		DecoderBinary:         "ttaenc",
		SupportsTagExtraction: true,
		TagSchema:             TagSchemaColon,
		TagBinary:             ProbeBinary,
		FallbackRejected:      true,
	},
	"mlp": {
		Ext:              "mlp",
		Name:             "Meridian Lossless Packing",
		Strategy:         StrategyFallbackTemp,
		FallbackEligible: true,
		ForcesFallback:   true,
	},
	"wma": {
		Ext:                "wma",
		Name:               "Windows Media Audio Lossless",
		Strategy:           StrategyFallbackTemp,
		FallbackEligible:   true,
		ForcesFallback:     true,
		NeedsLosslessProbe: true,
	},
}

// Resolve maps a file extension (with or without the leading dot, any case)
// to its format spec.
func Resolve(ext string) (Spec, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	spec, ok := registry[key]
	if !ok {
		return Spec{}, services.Wrap(services.ErrUnsupportedFormat, "resolve", "", "extension ."+key+" is not a supported lossless format", nil)
	}
	return spec, nil
}

// Extensions returns the supported extensions in sorted order.
func Extensions() []string {
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Plan resolves the caller's fallback-decoder preference against the spec.
// It returns the effective strategy and whether tags may be copied; the
// fallback decode path has no tag extraction.
func (s Spec) Plan(useFallback bool) (Strategy, bool, error) {
	if s.ForcesFallback {
		return StrategyFallbackTemp, false, nil
	}
	if useFallback {
		if s.FallbackRejected {
			return "", false, services.Wrap(services.ErrConfiguration, "resolve", "", "the fallback decoder cannot decode "+s.Name+" input", nil)
		}
		if s.FallbackEligible {
			return StrategyFallbackTemp, false, nil
		}
	}
	return s.Strategy, s.SupportsTagExtraction, nil
}

// RequiredBinaries lists the external tools a conversion of this format needs
// under the given options. The encoder is always required.
func (s Spec) RequiredBinaries(useFallback, copyTags bool) []string {
	strategy, tagsOK, err := s.Plan(useFallback)
	if err != nil {
		strategy, tagsOK = s.Strategy, false
	}

	set := map[string]struct{}{EncoderBinary: {}}
	switch strategy {
	case StrategyNativePipe, StrategyReencode:
		if s.DecoderBinary != "" {
			set[s.DecoderBinary] = struct{}{}
		}
	case StrategyFallbackTemp:
		set[FallbackBinary] = struct{}{}
	}
	if s.NeedsStreamProbe || s.NeedsLosslessProbe {
		set[ProbeBinary] = struct{}{}
	}
	if copyTags && tagsOK {
		set[TagToolBinary] = struct{}{}
		if s.TagBinary != "" {
			set[s.TagBinary] = struct{}{}
		}
	}

	bins := make([]string, 0, len(set))
	for bin := range set {
		bins = append(bins, bin)
	}
	sort.Strings(bins)
	return bins
}
