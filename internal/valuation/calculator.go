// Package valuation computes a player's expected fantasy value for the
// current gameweek from recent scoring history and fixture difficulty.
package valuation

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/omarshaarawi/fantraxbot/internal/models"
)

var ErrTeamNotFound = errors.New("team not found in league standings")

// Calibration constants for the fixture difficulty coefficient. KStandings
// and AStandings shape the league-table mode; an alternate calibration of
// 0.8/0.4 is also reasonable and only these values should change to use it.
var (
	KOdds      = 0.3
	KStandings = 0.7
	AStandings = 1.0
)

// Score computes a player's value for the current gameweek: the mean of
// recent per-gameweek points scaled by a fixture difficulty coefficient.
// Head-to-head odds take precedence when available; otherwise relative league
// rank decides, and a team missing from the standings is an error rather than
// a silent default, since a defaulted value would corrupt ranking order.
func Score(player *models.Player, standings models.LeagueStandings, odds *models.HeadToHeadOdds) (float64, error) {
	base := averagePoints(player.RecentPoints)

	if player.Fixture == nil {
		return base, nil
	}

	if odds != nil {
		return base * oddsCoefficient(player, odds), nil
	}

	coefficient, err := standingsCoefficient(player, standings)
	if err != nil {
		return 0, err
	}
	return base * coefficient, nil
}

func averagePoints(points []float64) float64 {
	if len(points) == 0 {
		return 0.0
	}
	var sum float64
	for _, p := range points {
		sum += p
	}
	return sum / float64(len(points))
}

// standingsCoefficient scales value by relative league rank. tanh bounds the
// boost/penalty to [1-KStandings, 1+KStandings]; a team ranked well above its
// opponent (smaller rank number) gets the boost.
func standingsCoefficient(player *models.Player, standings models.LeagueStandings) (float64, error) {
	team, ok := standings[player.Team]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrTeamNotFound, player.Team)
	}
	opponent, ok := standings[player.Fixture.Opponent]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrTeamNotFound, player.Fixture.Opponent)
	}

	rankDiff := float64(team.Rank - opponent.Rank)
	totalTeams := float64(len(standings))
	return 1 + KStandings*math.Tanh(AStandings*rankDiff/(totalTeams-1)), nil
}

// oddsCoefficient scales value by the implied win probability from
// head-to-head bookmaker prices. Missing prices yield a neutral coefficient.
func oddsCoefficient(player *models.Player, odds *models.HeadToHeadOdds) float64 {
	var home bool
	switch {
	case odds.HomeTeam == player.Team:
		home = true
	case odds.AwayTeam == player.Team:
		home = false
	case player.Fixture.Home:
		home = true
	default:
		slog.Warn("Could not determine home/away side from odds record, defaulting to away",
			"team", player.Team, "home_team", odds.HomeTeam, "away_team", odds.AwayTeam)
		home = false
	}

	teamPrice, opponentPrice := odds.HomePrice, odds.AwayPrice
	if !home {
		teamPrice, opponentPrice = odds.AwayPrice, odds.HomePrice
	}
	if teamPrice == nil || opponentPrice == nil {
		slog.Debug("Head-to-head price missing, using neutral coefficient",
			"team", player.Team, "opponent", player.Fixture.Opponent)
		return 1.0
	}

	total := teamPrice.Add(*opponentPrice)
	if odds.DrawPrice != nil {
		total = total.Add(*odds.DrawPrice)
	}
	if total.IsZero() {
		return 1.0
	}

	probability := teamPrice.Div(total).InexactFloat64()
	return 1 + KOdds*(probability-0.5)*2
}
