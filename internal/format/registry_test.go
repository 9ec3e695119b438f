package format

import (
	"errors"
	"slices"
	"testing"

	"flacsmith/internal/services"
)

func TestResolveSupportedExtensions(t *testing.T) {
	for _, ext := range []string{"flac", "wav", "ape", "m4a", "shn", "wv", "tta", "mlp", "wma"} {
		spec, err := Resolve(ext)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", ext, err)
		}
		if spec.Ext != ext {
			t.Fatalf("Resolve(%q) returned spec for %q", ext, spec.Ext)
		}
	}
}

func TestResolveCaseAndDotInsensitive(t *testing.T) {
	for _, ext := range []string{".FLAC", "Wv", ".Ape"} {
		if _, err := Resolve(ext); err != nil {
			t.Fatalf("Resolve(%q): %v", ext, err)
		}
	}
}

func TestResolveUnsupported(t *testing.T) {
	_, err := Resolve("mp3")
	if err == nil {
		t.Fatal("expected error for mp3")
	}
	if !errors.Is(err, services.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtensionsEnumeratesNine(t *testing.T) {
	exts := Extensions()
	if len(exts) != 9 {
		t.Fatalf("expected nine supported extensions, got %d: %v", len(exts), exts)
	}
	if !slices.IsSorted(exts) {
		t.Fatalf("expected sorted extensions, got %v", exts)
	}
}

func TestPlanNativeDefault(t *testing.T) {
	spec, _ := Resolve("wv")
	strategy, tagsOK, err := spec.Plan(false)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if strategy != StrategyNativePipe {
		t.Fatalf("expected native pipe, got %q", strategy)
	}
	if !tagsOK {
		t.Fatal("expected WavPack tag extraction to be available")
	}
}

func TestPlanFallbackDisablesTags(t *testing.T) {
	spec, _ := Resolve("ape")
	strategy, tagsOK, err := spec.Plan(true)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if strategy != StrategyFallbackTemp {
		t.Fatalf("expected fallback strategy, got %q", strategy)
	}
	if tagsOK {
		t.Fatal("fallback decode must disable tag extraction")
	}
}

func TestPlanForcedFallback(t *testing.T) {
	for _, ext := range []string{"mlp", "wma"} {
		spec, _ := Resolve(ext)
		strategy, tagsOK, err := spec.Plan(false)
		if err != nil {
			t.Fatalf("Plan(%s): %v", ext, err)
		}
		if strategy != StrategyFallbackTemp {
			t.Fatalf("%s must force the fallback strategy, got %q", ext, strategy)
		}
		if tagsOK {
			t.Fatalf("%s must disable tag copying", ext)
		}
	}
}

func TestPlanRejectsFallbackForTrueAudio(t *testing.T) {
	spec, _ := Resolve("tta")
	_, _, err := spec.Plan(true)
	if err == nil {
		t.Fatal("expected hard error requesting fallback for tta")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestPlanIgnoresFallbackForIneligible(t *testing.T) {
	// FLAC and WAV are not fallback-eligible, but requesting the fallback
	// decoder for them is not an error; the native strategy stays in effect.
	for ext, want := range map[string]Strategy{"flac": StrategyReencode, "wav": StrategyDirect} {
		spec, _ := Resolve(ext)
		strategy, _, err := spec.Plan(true)
		if err != nil {
			t.Fatalf("Plan(%s): %v", ext, err)
		}
		if strategy != want {
			t.Fatalf("expected %s to keep %q, got %q", ext, want, strategy)
		}
	}
}

func TestRequiredBinaries(t *testing.T) {
	cases := []struct {
		ext         string
		useFallback bool
		copyTags    bool
		want        []string
	}{
		{"wav", false, true, []string{"flac"}},
		{"flac", false, true, []string{"flac", "metaflac"}},
		{"wv", false, true, []string{"flac", "metaflac", "wvunpack"}},
		{"wv", false, false, []string{"flac", "wvunpack"}},
		{"wv", true, true, []string{"ffmpeg", "flac"}},
		{"ape", false, true, []string{"ffprobe", "flac", "mac", "metaflac"}},
		{"m4a", false, false, []string{"alac", "ffprobe", "flac"}},
		{"wma", false, true, []string{"ffmpeg", "ffprobe", "flac"}},
		{"mlp", false, true, []string{"ffmpeg", "flac"}},
	}
	for _, tc := range cases {
		spec, err := Resolve(tc.ext)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tc.ext, err)
		}
		got := spec.RequiredBinaries(tc.useFallback, tc.copyTags)
		if !slices.Equal(got, tc.want) {
			t.Fatalf("RequiredBinaries(%s, fallback=%v, tags=%v) = %v, want %v",
				tc.ext, tc.useFallback, tc.copyTags, got, tc.want)
		}
	}
}
