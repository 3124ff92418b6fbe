package classifier

import (
	"regexp"

	"github.com/neotrasher/fitness-dashboard/pkg/types"
)

// TextRule maps a name/description pattern to a workout intent. Rules
// are evaluated in order and the first match wins, so the table encodes
// the priority between overlapping vocabularies ("easy interval
// session" is an interval workout, not an easy run).
type TextRule struct {
	Pattern *regexp.Regexp
	Type    types.WorkoutType
}

// TextRules is the ordered text-tier table. Keep this a data structure:
// the priority order is part of the contract and is tested as such.
var TextRules = []TextRule{
	{regexp.MustCompile(`(?i)interval|series|\b\d+\s*x\b|\bx\s*\d+\b`), types.WorkoutIntervals},
	{regexp.MustCompile(`(?i)tempo|threshold`), types.WorkoutTempo},
	{regexp.MustCompile(`(?i)long run|long slow|\blsd\b`), types.WorkoutLongRun},
	{regexp.MustCompile(`(?i)recovery|shakeout`), types.WorkoutRecovery},
	{regexp.MustCompile(`(?i)easy|relaxed`), types.WorkoutEasy},
	{regexp.MustCompile(`(?i)race|parkrun|competition`), types.WorkoutRace},
	{regexp.MustCompile(`(?i)fartlek`), types.WorkoutFartlek},
	{regexp.MustCompile(`(?i)hill|repeats`), types.WorkoutIntervals},
	{regexp.MustCompile(`(?i)strides|progression`), types.WorkoutTempo},
}
