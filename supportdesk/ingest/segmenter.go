package ingest

import (
	"regexp"
	"strings"
)

// Pasted submissions routinely concatenate several email-style reports with
// no reliable delimiter. Segmentation cuts on structural cues, in order of
// reliability: an explicit guard token, a greeting ("Good morning" etc.), or
// a sign-off footer that is immediately followed by a recognizable header
// token. Footer text is consumed by the cut; guard and greeting text stay
// with the segment they open.
var segmentCueRegexp = regexp.MustCompile(
	`(?i)--\|\|` +
		`|Good\s+(?:morning|day|afternoon|evening)` +
		`|(?:Thank you|Thanks|Best regards|Regards)[.!;]*\s*((?:Subject|Date of Request|Date|Branch Code):|\*\*)`)

// minSegmentLength filters split debris; anything this short carries no data.
const minSegmentLength = 10

// SplitLogData splits a raw submission into candidate report segments.
//
// Pieces without any "Key:" line (section titles like "**Daily CAMS
// Concern**") are held back as a pending header and prefixed onto the next
// data-bearing piece. A trailing pending header with no following data is
// dropped.
func SplitLogData(text string) []string {
	initialSegments := splitOnCues(text)

	var finalSegments []string
	var pendingHeader strings.Builder

	for _, seg := range initialSegments {
		trimmed := strings.TrimSpace(seg)
		if len(trimmed) <= minSegmentLength {
			continue
		}

		if !strings.Contains(seg, ":") ||
			(strings.HasPrefix(trimmed, "**") && strings.HasSuffix(trimmed, "**")) {
			pendingHeader.WriteString(seg)
			pendingHeader.WriteString("\n")
			continue
		}

		finalSegments = append(finalSegments, pendingHeader.String()+seg)
		pendingHeader.Reset()
	}

	return filterDataSegments(finalSegments)
}

// splitOnCues cuts the text at every segment cue. Guard and greeting matches
// are zero-width cuts (the matched text starts the next piece); footer
// matches discard the footer and start the next piece at the header token.
func splitOnCues(text string) []string {
	matches := segmentCueRegexp.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []string{text}
	}

	var pieces []string
	prev := 0
	for _, m := range matches {
		start, headerStart := m[0], m[2]
		if start < prev {
			// Cue inside a span already consumed by a previous footer cut.
			continue
		}
		pieces = append(pieces, text[prev:start])
		if headerStart >= 0 {
			// Footer cut: resume at the header token, discarding the footer.
			prev = headerStart
		} else {
			// Guard/greeting cut is zero-width; the cue text opens the next piece.
			prev = start
		}
	}
	pieces = append(pieces, text[prev:])
	return pieces
}

// filterDataSegments drops assembled segments that carry no extractable
// business content: they must contain a colon and at least one of the
// domain words below.
func filterDataSegments(segments []string) []string {
	keepWords := []string{"branch", "concern", "staff", "client", "date"}

	var kept []string
	for _, s := range segments {
		lower := strings.ToLower(s)
		if !strings.Contains(lower, ":") {
			continue
		}
		for _, w := range keepWords {
			if strings.Contains(lower, w) {
				kept = append(kept, s)
				break
			}
		}
	}
	return kept
}
