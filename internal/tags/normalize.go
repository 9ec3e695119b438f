package tags

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"flacsmith/internal/format"
)

// Tag is one metadata field. Values keep their original bytes; only keys are
// normalized.
type Tag struct {
	Key   string
	Value string
}

// TagSet is an ordered sequence of tags. Ordering and multiplicity follow the
// raw dump; duplicate canonical keys are legal here and left to the metadata
// writer to resolve.
type TagSet []Tag

// Encode renders the set in metaflac import format, one KEY=value per line.
func (s TagSet) Encode() string {
	if len(s) == 0 {
		return ""
	}
	var b strings.Builder
	for _, tag := range s {
		b.WriteString(tag.Key)
		b.WriteByte('=')
		b.WriteString(tag.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

// aliases maps known tag names onto the canonical vocabulary. Keys not listed
// here pass through upper-cased but otherwise untouched.
var aliases = map[string]string{
	"TRACK":    "TRACKNUMBER",
	"YEAR":     "DATE",
	"COMMENT":  "DESCRIPTION",
	"COMMENTS": "DESCRIPTION",
	"DISK":     "DISCNUMBER",
}

var (
	// colonLine matches "Key: Value" probe dumps. Probe output indents and
	// column-aligns tag lines, so leading whitespace and alignment padding
	// before the colon are accepted. Headers, blank lines, and diagnostic
	// text do not fit the shape and are discarded.
	colonLine = regexp.MustCompile(`^\s*([A-Za-z][\w ./-]*?)\s*:\s(.*)$`)
	// equalsLine matches both "key = value" dumps and the canonical
	// "KEY=value" export.
	equalsLine = regexp.MustCompile(`^([A-Za-z][\w ./-]*?)\s*=(.*)$`)
	// enumeration matches values of the shape "3 of 12". Only plain ASCII
	// digit runs qualify; values with locale separators are left alone.
	enumeration = regexp.MustCompile(`^([0-9]+)\s+of\s+[0-9]+$`)
)

var upper = cases.Upper(language.Und)

// Normalize converts one raw metadata dump into a canonical TagSet. An empty
// result is not an error: a dump with no recognizable tag lines means the
// tagging stage is skipped, not that the conversion failed.
func Normalize(schema format.TagSchema, raw string) TagSet {
	var pattern *regexp.Regexp
	switch schema {
	case format.TagSchemaColon:
		pattern = colonLine
	case format.TagSchemaEquals, format.TagSchemaCanonical:
		pattern = equalsLine
	default:
		return nil
	}

	var set TagSet
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		line = strings.TrimPrefix(line, " ")
		match := pattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		key, value := match[1], match[2]
		value = strings.TrimPrefix(value, " ")
		if m := enumeration.FindStringSubmatch(value); m != nil {
			value = m[1]
		}
		set = append(set, Tag{Key: canonicalKey(key), Value: value})
	}
	return set
}

func canonicalKey(key string) string {
	key = upper.String(key)
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return key
}
