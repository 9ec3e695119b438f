package deps

import (
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"flacsmith/internal/format"
	"flacsmith/internal/services"
)

// Requirement defines an external codec tool the converter relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// descriptions maps binaries to their role, for status output.
var descriptions = map[string]string{
	format.EncoderBinary:  "FLAC encoder and decoder",
	format.TagToolBinary:  "FLAC tag export and import",
	format.FallbackBinary: "fallback decoder",
	format.ProbeBinary:    "stream codec probe",
	"mac":                 "Monkey's Audio decoder",
	"alac":                "Apple Lossless decoder",
	"shorten":             "Shorten decoder",
	"wvunpack":            "WavPack decoder and tag dump",
	"ttaenc":              "True Audio decoder",
}

// All returns the full requirement catalog, one entry per known binary.
// Everything beyond the encoder is optional at the catalog level; what a
// given run actually requires depends on the formats present in its input.
func All() []Requirement {
	names := make([]string, 0, len(descriptions))
	for name := range descriptions {
		names = append(names, name)
	}
	sort.Strings(names)

	reqs := make([]Requirement, 0, len(names))
	for _, name := range names {
		reqs = append(reqs, Requirement{
			Name:        name,
			Command:     name,
			Description: descriptions[name],
			Optional:    name != format.EncoderBinary,
		})
	}
	return reqs
}

// ForFormats builds the requirement set for the format specs actually present
// in an input list, under the given conversion options. Every entry is
// mandatory: these are the tools the batch will invoke.
func ForFormats(specs []format.Spec, useFallback, copyTags bool) []Requirement {
	seen := map[string]struct{}{}
	var names []string
	for _, spec := range specs {
		for _, bin := range spec.RequiredBinaries(useFallback, copyTags) {
			if _, ok := seen[bin]; ok {
				continue
			}
			seen[bin] = struct{}{}
			names = append(names, bin)
		}
	}
	sort.Strings(names)

	reqs := make([]Requirement, 0, len(names))
	for _, name := range names {
		reqs = append(reqs, Requirement{
			Name:        name,
			Command:     name,
			Description: descriptions[name],
		})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Verify checks the requirements and returns a missing-dependency error for
// the first unavailable mandatory tool. It runs before any job starts so a
// batch never fails halfway for a tool that was never installed.
func Verify(requirements []Requirement) error {
	for _, status := range CheckBinaries(requirements) {
		if status.Available || status.Optional {
			continue
		}
		return services.Wrap(
			services.ErrMissingDependency,
			"preflight",
			status.Command,
			status.Detail,
			nil,
		)
	}
	return nil
}
