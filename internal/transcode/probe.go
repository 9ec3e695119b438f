package transcode

import (
	"context"
	"strings"

	"flacsmith/internal/format"
	"flacsmith/internal/services"
)

// streamCodec returns the codec name of the first audio stream in path.
func streamCodec(ctx context.Context, path string) (string, error) {
	ctx = services.WithStage(ctx, "validate")
	args := []string{
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
	out, err := runTool(ctx, format.ProbeBinary, args, "")
	if err != nil {
		return "", err
	}
	codec := strings.TrimSpace(string(out))
	if codec == "" {
		return "", services.Wrap(services.ErrExternalTool, "validate", format.ProbeBinary, "no audio stream found in "+path, nil)
	}
	return codec, nil
}

// verifyALACStream confirms an .m4a container really holds ALAC audio. The
// extension is shared with lossy AAC files, which must not be converted.
func verifyALACStream(ctx context.Context, path string) error {
	codec, err := streamCodec(ctx, path)
	if err != nil {
		return err
	}
	if codec != "alac" {
		return services.Wrap(services.ErrExternalTool, "validate", "",
			path+" contains "+codec+" audio, not Apple Lossless", nil)
	}
	return nil
}

// verifyLosslessWMA confirms a .wma file embeds the lossless codec variant.
// This runs before any decode subprocess so lossy files are refused outright.
func verifyLosslessWMA(ctx context.Context, path string) error {
	codec, err := streamCodec(ctx, path)
	if err != nil {
		return err
	}
	if codec != "wmalossless" {
		return services.Wrap(services.ErrLosslessCheck, "validate", "",
			path+" contains "+codec+" audio, not WMA Lossless", nil)
	}
	return nil
}
