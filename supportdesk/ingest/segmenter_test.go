package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const staffAccessSegment = `Date of Request: 2026-02-10
Branch Code: B0772
Concern Category: CAMS Access
Staff Name: Maria Santos
ID Number: 12345
Remarks: none`

const reopenSegment = `Date of Request: 2026-02-11
Branch Code: B0141
Time of Request: 10:30 AM
Adjustment Point: 2026-02-09
Requested By: Branch Manager
Concern Category: Re-open
Reason: Client returned
Recommended By: Area Manager
Remarks: urgent`

func TestSplitLogDataSingleSegment(t *testing.T) {
	segments := SplitLogData(staffAccessSegment)
	require.Len(t, segments, 1)
	assert.Contains(t, segments[0], "Branch Code: B0772")
}

func TestSplitLogDataGuardToken(t *testing.T) {
	segments := SplitLogData(staffAccessSegment + "\n--||\n" + reopenSegment)
	require.Len(t, segments, 2)
	assert.Contains(t, segments[0], "B0772")
	assert.Contains(t, segments[1], "B0141")
}

func TestSplitLogDataGreetingCue(t *testing.T) {
	text := "Good morning!\n" + staffAccessSegment + "\nGood afternoon po,\n" + reopenSegment
	segments := SplitLogData(text)
	require.Len(t, segments, 2)
	// Greeting text stays with the segment it opens.
	assert.True(t, strings.HasPrefix(strings.TrimSpace(segments[0]), "Good morning"))
	assert.True(t, strings.HasPrefix(strings.TrimSpace(segments[1]), "Good afternoon"))
}

func TestSplitLogDataFooterBeforeHeader(t *testing.T) {
	text := staffAccessSegment + "\nThank you.\nDate of Request: 2026-02-11\n" +
		strings.TrimPrefix(reopenSegment, "Date of Request: 2026-02-11\n")
	segments := SplitLogData(text)
	require.Len(t, segments, 2)
	// The footer is consumed by the cut.
	assert.NotContains(t, segments[1], "Thank you")
	assert.True(t, strings.HasPrefix(segments[1], "Date of Request:"))
}

func TestSplitLogDataPendingHeader(t *testing.T) {
	text := "**Staff Access Report**\n--||\n" + staffAccessSegment
	segments := SplitLogData(text)
	require.Len(t, segments, 1)
	assert.Contains(t, segments[0], "**Staff Access Report**")
	assert.Contains(t, segments[0], "Branch Code: B0772")
}

func TestSplitLogDataDropsTrailingHeader(t *testing.T) {
	text := staffAccessSegment + "\n--||\n**Daily CAMS Concern**"
	segments := SplitLogData(text)
	require.Len(t, segments, 1)
	assert.NotContains(t, segments[0], "Daily CAMS Concern")
}

func TestSplitLogDataFiltersNonData(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"no colon", "just some words\nwith no structure at all here", 0},
		{"colon but no domain words", "greeting: hello there everyone in the office", 0},
		{"debris", "hi\n--||\nok", 0},
		{"real data", staffAccessSegment, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, SplitLogData(tt.text), tt.want)
		})
	}
}
