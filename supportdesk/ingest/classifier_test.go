package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/camsops/supportdesk-app/supportdesk/models"
)

func TestIdentifyLogType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.LogType
		ok   bool
	}{
		{
			"staff access by staff name",
			"Branch Code: B0772\nStaff Name: Maria Santos",
			models.LogTypeStaffAccess, true,
		},
		{
			"staff access by corporate email",
			"Corporate Email: msantos@example.com",
			models.LogTypeStaffAccess, true,
		},
		{
			"cams adjustment by client reference",
			"Client Reference: CR-1001\nBranch Code: B0141",
			models.LogTypeCamsAdjustment, true,
		},
		{
			"cams adjustment by balik client transfer",
			"Concern: Balik Client Transfer for B0141",
			models.LogTypeCamsAdjustment, true,
		},
		{
			"cams reopen by adjustment point",
			"Adjustment Point: 2026-02-09\nBranch Code: B0141",
			models.LogTypeCamsReopen, true,
		},
		{
			"daily concern needs corroboration",
			"Concern: slow posting\nConcerning Staff: teller",
			models.LogTypeDailyCamsConcern, true,
		},
		{
			"concern alone is not enough",
			"Concern: slow posting at the branch",
			"", false,
		},
		{
			"unclassifiable",
			"Branch Code: B0772\nRemarks: follow up",
			"", false,
		},
		{
			"case insensitive",
			"STAFF NAME: MARIA SANTOS",
			models.LogTypeStaffAccess, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IdentifyLogType(tt.text)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Rule order is part of the contract: a segment carrying keywords of several
// types lands on the most specific rule that matches.
func TestIdentifyLogTypePriority(t *testing.T) {
	text := "Staff Name: Maria Santos\nConcern: access\nDesignation: Teller"
	got, ok := IdentifyLogType(text)
	assert.True(t, ok)
	assert.Equal(t, models.LogTypeStaffAccess, got)

	text = "Client Reference: CR-1\nConcern: balance\nConcerning Staff: teller"
	got, ok = IdentifyLogType(text)
	assert.True(t, ok)
	assert.Equal(t, models.LogTypeCamsAdjustment, got)
}
