package ingest

import (
	"strings"

	"github.com/camsops/supportdesk-app/supportdesk/models"
)

// classifierRule ties a log type to the keywords that identify it. A segment
// matches when it contains every word in requires and at least one word in
// anyOf.
type classifierRule struct {
	logType  models.LogType
	requires []string
	anyOf    []string
}

// Ordered from most to least specific. The daily-concerns rule is last and
// needs a corroborating keyword because "concern" alone appears in most
// report bodies.
var classifierRules = []classifierRule{
	{
		logType: models.LogTypeStaffAccess,
		anyOf:   []string{"staff name", "id number", "corporate email", "assigned as"},
	},
	{
		logType: models.LogTypeCamsAdjustment,
		anyOf:   []string{"client reference", "client name", "name of mfo", "balik client transfer"},
	},
	{
		logType: models.LogTypeCamsReopen,
		anyOf:   []string{"adjustment point", "time of request", "requested by", "reason for reopening"},
	},
	{
		logType:  models.LogTypeDailyCamsConcern,
		requires: []string{"concern"},
		anyOf:    []string{"designation", "designated", "concerning staff"},
	},
}

// IdentifyLogType classifies a segment by its keywords. The boolean is false
// when no rule matches.
func IdentifyLogType(text string) (models.LogType, bool) {
	lowText := strings.ToLower(text)

	for _, rule := range classifierRules {
		if !containsAll(lowText, rule.requires) {
			continue
		}
		if containsAny(lowText, rule.anyOf) {
			return rule.logType, true
		}
	}

	return "", false
}

func containsAll(text string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
