package ingest

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// SubjectKey holds the leading title line and any preamble chatter that
	// precedes the first labeled field.
	SubjectKey = "Subject"
	// CorporateEmailKey is filled directly when a bare email address appears
	// on its own line.
	CorporateEmailKey = "Corporate_Email"

	// DefaultColonCutoff is how far into a line a colon may sit and still be
	// treated as a field separator. Colons later than this are assumed to be
	// sentence punctuation.
	DefaultColonCutoff = 45
)

var (
	emailRegexp      = regexp.MustCompile(`(?i)^[\w-.]+@([\w-]+\.)+[\w-]{2,4}$`)
	enumPrefixRegexp = regexp.MustCompile(`^\s*\d+[\s.)-]+\s*`)
	nonWordRegexp    = regexp.MustCompile(`[^\w\s]`)
	spaceRunRegexp   = regexp.MustCompile(`\s+`)
)

// Closing phrases that terminate the current field. Compared after stripping
// punctuation and lowercasing.
var footerPhrases = map[string]struct{}{
	"thank you":    {},
	"thanks":       {},
	"best regards": {},
	"regards":      {},
	"kind regards": {},
}

// Extractor tokenizes one segment into a key/value field map. The zero value
// uses DefaultColonCutoff.
type Extractor struct {
	// ColonCutoff overrides DefaultColonCutoff when positive.
	ColonCutoff int
}

func NewExtractor() Extractor {
	return Extractor{ColonCutoff: DefaultColonCutoff}
}

// ExtractFields scans a segment line by line and builds its field map.
// Malformed lines are absorbed best-effort; extraction itself never fails.
// The returned warnings flag labeled keys that appeared more than once in
// the segment, which usually means two reports were not split apart.
func (e Extractor) ExtractFields(text string) (map[string]string, []string) {
	cutoff := e.ColonCutoff
	if cutoff <= 0 {
		cutoff = DefaultColonCutoff
	}

	fields := make(map[string]string)
	var warnings []string
	var currentKey string
	subjectHandled := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// Stray markdown bold markers
		if trimmed == "**" || trimmed == "***" {
			continue
		}

		// The first real line without a colon is the subject/title.
		if !subjectHandled && !strings.Contains(trimmed, ":") {
			fields[SubjectKey] = strings.ReplaceAll(trimmed, "*", "")
			subjectHandled = true
			continue
		}
		subjectHandled = true

		// A closing phrase ends the current field so trailing chatter is not
		// appended to it.
		bare := strings.TrimSpace(nonWordRegexp.ReplaceAllString(strings.ToLower(trimmed), ""))
		if _, ok := footerPhrases[bare]; ok {
			currentKey = ""
			continue
		}

		// A bare email address stands in for a missed "Corporate Email:" line.
		if emailRegexp.MatchString(trimmed) && fields[CorporateEmailKey] == "" {
			fields[CorporateEmailKey] = trimmed
			continue
		}

		if colonIndex := strings.Index(line, ":"); colonIndex > 0 && colonIndex < cutoff {
			keyPart := strings.TrimSpace(line[:colonIndex])
			valuePart := strings.TrimSpace(line[colonIndex+1:])

			keyPart = enumPrefixRegexp.ReplaceAllString(keyPart, "")
			keyPart = strings.TrimSpace(nonWordRegexp.ReplaceAllString(keyPart, ""))

			if len(keyPart) > 0 {
				currentKey = spaceRunRegexp.ReplaceAllString(keyPart, "_")
				if _, seen := fields[currentKey]; seen {
					warnings = append(warnings, fmt.Sprintf("field %q appeared twice in one segment", currentKey))
				}
				fields[currentKey] = valuePart
				continue
			}
		}

		// Continuation of the current field, or preamble folded into Subject.
		if currentKey != "" {
			if fields[currentKey] == "" {
				fields[currentKey] = trimmed
			} else {
				fields[currentKey] += "\n" + trimmed
			}
		} else {
			if fields[SubjectKey] != "" {
				fields[SubjectKey] += "\n" + trimmed
			} else {
				fields[SubjectKey] = trimmed
			}
		}
	}

	for key, value := range fields {
		fields[key] = strings.TrimSpace(value)
	}

	return fields, warnings
}
