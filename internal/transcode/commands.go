package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"flacsmith/internal/format"
	"flacsmith/internal/services"
)

// stdinSource is the encoder's path argument when audio arrives on stdin.
const stdinSource = "-"

// encoderArgs builds the FLAC encoder invocation. source is either a file
// path or stdinSource.
func encoderArgs(output string, level int, overwrite bool, source string) []string {
	args := []string{"-s", fmt.Sprintf("-%d", level)}
	if overwrite {
		args = append(args, "-f")
	}
	return append(args, "-o", output, source)
}

// decoderArgs builds the native decoder invocation that writes a WAV stream
// to stdout. Callers must only pass specs with a native decoder.
func decoderArgs(spec format.Spec, input string) []string {
	switch spec.DecoderBinary {
	case format.EncoderBinary:
		return []string{"-dcs", input}
	case "mac":
		return []string{input, stdinSource, "-d"}
	case "alac":
		return []string{input}
	case "shorten":
		return []string{"-x", input, stdinSource}
	case "wvunpack":
		return []string{"-q", input, "-o", stdinSource}
	case "ttaenc":
		return []string{"-d", "-o", stdinSource, input}
	}
	return nil
}

// fallbackArgs builds the fallback decoder invocation producing a scratch WAV.
func fallbackArgs(input, output string) []string {
	return []string{"-v", "error", "-y", "-i", input, output}
}

// stderrExcerpt trims subprocess stderr down to the last line with content,
// which is where codec tools put the actual failure reason.
func stderrExcerpt(buf *bytes.Buffer) string {
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// toolError wraps a subprocess failure with its stderr excerpt.
func toolError(stage, binary string, err error, stderr *bytes.Buffer) error {
	msg := binary + " failed"
	if excerpt := stderrExcerpt(stderr); excerpt != "" {
		msg += ": " + excerpt
	}
	return services.Wrap(services.ErrExternalTool, stage, binary, msg, err)
}

// runTool runs a subprocess to completion, capturing stdout and keeping
// stderr for error reporting. The pipeline stage comes from the context the
// calling stage annotated.
func runTool(ctx context.Context, binary string, args []string, stdin string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	if err := cmd.Run(); err != nil {
		stage, _ := services.StageFromContext(ctx)
		return nil, toolError(stage, binary, err, &stderr)
	}
	return stdout.Bytes(), nil
}
