// Package lineup enforces starting-lineup legality and implements the greedy
// substitution and rebuild algorithms.
package lineup

import (
	"fmt"

	"github.com/omarshaarawi/fantraxbot/internal/models"
)

const (
	maxStarters = 11

	maxGoalkeepers = 1
	minDefenders   = 3
	maxDefenders   = 5
	minMidfielders = 3
	maxMidfielders = 5
	minForwards    = 1
	maxForwards    = 3
)

// Validate reports whether toggling the given players between starter and
// reserve leaves the lineup legal. Each toggled current starter is benched and
// each toggled reserve is promoted. When relaxMinimums is set the per-position
// minimum checks are skipped, which lets the rebuild promote players one at a
// time before the minimums can possibly be met; the total cap and the
// per-position maximums are always enforced.
//
// The second return value is a human-readable reason for the first rule
// violated, empty when the toggles are legal.
func Validate(roster *models.Roster, toggles []*models.Player, relaxMinimums bool) (bool, string) {
	counts := roster.StarterCounts()

	for _, p := range toggles {
		if p.Locked {
			return false, fmt.Sprintf("Player %s is disabled from lineup changes", p.Name)
		}
		if p.Starter {
			counts[p.Position]-- // starter moves to the bench
		} else {
			counts[p.Position]++ // reserve moves to the starting lineup
		}
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total > maxStarters {
		return false, fmt.Sprintf("Must have at most %d starters", maxStarters)
	}

	if !relaxMinimums {
		if counts[models.PositionDefender] < minDefenders {
			return false, fmt.Sprintf("Must have at least %d Defenders", minDefenders)
		}
		if counts[models.PositionMidfielder] < minMidfielders {
			return false, fmt.Sprintf("Must have at least %d Midfielders", minMidfielders)
		}
		if counts[models.PositionForward] < minForwards {
			return false, fmt.Sprintf("Must have at least %d Forward", minForwards)
		}
	}

	if counts[models.PositionGoalkeeper] > maxGoalkeepers {
		return false, fmt.Sprintf("Must have at most %d Goalkeeper", maxGoalkeepers)
	}
	if counts[models.PositionDefender] > maxDefenders {
		return false, fmt.Sprintf("Must have at most %d Defenders", maxDefenders)
	}
	if counts[models.PositionMidfielder] > maxMidfielders {
		return false, fmt.Sprintf("Must have at most %d Midfielders", maxMidfielders)
	}
	if counts[models.PositionForward] > maxForwards {
		return false, fmt.Sprintf("Must have at most %d Forwards", maxForwards)
	}

	return true, ""
}
