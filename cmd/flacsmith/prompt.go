package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"flacsmith/internal/transcode"
)

// stdinPrompt asks whether to delete the original after a successful
// conversion. Anything other than an explicit yes keeps the file.
func stdinPrompt(in io.Reader, out io.Writer) transcode.PromptFunc {
	reader := bufio.NewReader(in)
	return func(path string) (bool, error) {
		fmt.Fprintf(out, "Delete original %s? [y/N] ", path)
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}
}
