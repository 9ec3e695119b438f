package transcode

import (
	"bytes"
	"context"
	"os/exec"

	"flacsmith/internal/format"
	"flacsmith/internal/services"
	"flacsmith/internal/tags"
)

// exportRawTags produces the raw metadata dump for the job's source format.
// The probe prints its metadata report on stderr, so colon dumps capture the
// combined output.
func exportRawTags(ctx context.Context, spec format.Spec, path string) (string, error) {
	ctx = services.WithStage(ctx, "tagging")
	switch spec.TagSchema {
	case format.TagSchemaCanonical:
		out, err := runTool(ctx, spec.TagBinary, []string{"--export-tags-to=-", path}, "")
		return string(out), err
	case format.TagSchemaEquals:
		out, err := runTool(ctx, spec.TagBinary, []string{"-q", "-ss", path}, "")
		return string(out), err
	case format.TagSchemaColon:
		cmd := exec.CommandContext(ctx, spec.TagBinary, "-hide_banner", path)
		var combined bytes.Buffer
		cmd.Stdout = &combined
		cmd.Stderr = &combined
		// The probe exits non-zero in banner-only mode for some containers;
		// a dump is still present, so only a missing binary is fatal here.
		if err := cmd.Run(); err != nil && combined.Len() == 0 {
			return "", toolError("tagging", spec.TagBinary, err, &combined)
		}
		return combined.String(), nil
	}
	return "", nil
}

// importTags writes the normalized tag set into the encoded FLAC.
func importTags(ctx context.Context, output string, set tags.TagSet) error {
	ctx = services.WithStage(ctx, "tagging")
	_, err := runTool(ctx, format.TagToolBinary,
		[]string{"--import-tags-from=-", output}, set.Encode())
	return err
}
