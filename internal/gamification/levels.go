package gamification

import (
	"fmt"
	"strings"

	"github.com/anonto42/ideahub/backend/internal/models"
)

// Points awarded per engagement action.
const (
	LikePoints    = 2  // to the idea owner
	CommentPoints = 5  // to the commenter
	FollowPoints  = 10 // to the followed user
	SharePoints   = 3  // to the idea owner
)

// Tier is one band of the points scale, inclusive of MinPoints.
type Tier struct {
	Level     models.Level
	MinPoints int
}

// Tiers is ordered from highest to lowest so that boundaries belong to the higher tier.
var Tiers = []Tier{
	{Level: models.LevelMaster, MinPoints: 1000},
	{Level: models.LevelExpert, MinPoints: 500},
	{Level: models.LevelAdvanced, MinPoints: 200},
	{Level: models.LevelIntermediate, MinPoints: 100},
	{Level: models.LevelBeginner, MinPoints: 0},
}

// LevelFor returns the tier whose range contains points.
func LevelFor(points int) models.Level {
	for _, t := range Tiers {
		if points >= t.MinPoints {
			return t.Level
		}
	}
	return models.LevelBeginner
}

// LevelProgress describes how far a profile is from its next tier.
type LevelProgress struct {
	Level           models.Level `json:"level"`
	NextLevel       models.Level `json:"next_level,omitempty"`
	PointsToNext    int          `json:"points_to_next"`
	NextLevelPoints int          `json:"next_level_points,omitempty"`
}

// Progress returns the current tier and the distance to the next one.
// At the top tier NextLevel is empty and PointsToNext is zero.
func Progress(points int) LevelProgress {
	p := LevelProgress{Level: LevelFor(points)}
	for i := len(Tiers) - 1; i >= 0; i-- {
		if Tiers[i].MinPoints > points {
			p.NextLevel = Tiers[i].Level
			p.NextLevelPoints = Tiers[i].MinPoints
			p.PointsToNext = Tiers[i].MinPoints - points
			break
		}
	}
	return p
}

// LevelCaseSQL renders the tier table as a SQL CASE over expr. expr must
// contain exactly one placeholder; the returned count tells how many times
// its argument has to be repeated.
func LevelCaseSQL(expr string) (string, int) {
	var b strings.Builder
	b.WriteString("CASE")
	n := 0
	for _, t := range Tiers[:len(Tiers)-1] {
		fmt.Fprintf(&b, " WHEN %s >= %d THEN '%s'", expr, t.MinPoints, t.Level)
		n++
	}
	fmt.Fprintf(&b, " ELSE '%s' END", Tiers[len(Tiers)-1].Level)
	return b.String(), n
}
