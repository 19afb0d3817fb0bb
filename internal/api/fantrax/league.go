package fantrax

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/omarshaarawi/fantraxbot/internal/models"
)

// API maps Fantrax's table-shaped payloads into domain types. Everything
// above this layer sees only models.Roster, models.LeagueStandings, and
// friends.
type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

const (
	rosterStatusStarter = "1"
	rosterStatusReserve = "2"
)

var positionByID = map[string]models.Position{
	"704": models.PositionGoalkeeper,
	"703": models.PositionDefender,
	"702": models.PositionMidfielder,
	"701": models.PositionForward,
}

var positionIDByShortName = map[models.Position]string{
	models.PositionGoalkeeper: "704",
	models.PositionDefender:   "703",
	models.PositionMidfielder: "702",
	models.PositionForward:    "701",
}

// statusByIconID translates Fantrax status icon type IDs into gameweek
// availability flags. Icons outside this map carry no lineup signal.
var statusByIconID = map[string]models.Status{
	"12": models.StatusStarting,
	"32": models.StatusExpectedToPlay,
	"1":  models.StatusGametimeDecision,
	"34": models.StatusBenched,
	"6":  models.StatusSuspended,
	"15": models.StatusOut,
	"30": models.StatusOutForNextGame,
}

func (a *API) FetchRoster() (*models.Roster, error) {
	var data models.RosterInfoData
	err := a.client.Request("getTeamRosterInfo", map[string]any{
		"teamId": a.client.Config.TeamID,
	}, &data)
	if err != nil {
		return nil, fmt.Errorf("fetching roster: %w", err)
	}

	teamName, err := teamNameByID(data.FantasyTeams, a.client.Config.TeamID)
	if err != nil {
		return nil, err
	}
	if data.DisplayedSelections.DisplayedPeriod == 0 {
		return nil, fmt.Errorf("roster period not present in response")
	}

	roster := &models.Roster{
		TeamID:   a.client.Config.TeamID,
		TeamName: teamName,
		PeriodID: data.DisplayedSelections.DisplayedPeriod,
	}

	// Player IDs key the submit field map, so a duplicated row would
	// silently collapse there. Reject it at the door instead.
	seen := make(map[string]bool)
	for _, table := range data.Tables {
		for _, row := range table.Rows {
			if row.Scorer == nil {
				continue
			}
			player, err := mapRosterRow(row)
			if err != nil {
				return nil, fmt.Errorf("mapping roster row: %w", err)
			}
			if seen[player.ID] {
				return nil, fmt.Errorf("duplicate player id %q in roster response", player.ID)
			}
			seen[player.ID] = true
			roster.Players = append(roster.Players, player)
		}
	}

	slog.Info("Fetched roster", "team", teamName, "period", roster.PeriodID, "players", len(roster.Players))
	return roster, nil
}

func mapRosterRow(row models.RosterRow) (*models.Player, error) {
	position, ok := positionByID[row.PosID]
	if !ok {
		return nil, fmt.Errorf("unknown position id %q for player %s", row.PosID, row.Scorer.Name)
	}

	var starter bool
	switch row.StatusID {
	case rosterStatusStarter:
		starter = true
	case rosterStatusReserve:
		starter = false
	default:
		return nil, fmt.Errorf("unknown roster status id %q for player %s", row.StatusID, row.Scorer.Name)
	}

	statuses := make(models.StatusSet)
	for _, icon := range row.Scorer.Icons {
		if status, ok := statusByIconID[icon.TypeID]; ok {
			statuses[status] = true
		}
	}

	var recentPoints []float64
	for _, raw := range row.Scorer.RecentGamePoints {
		points, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue // unplayed gameweeks show as "-"
		}
		recentPoints = append(recentPoints, points)
	}

	return &models.Player{
		ID:           row.Scorer.ScorerID,
		Name:         row.Scorer.Name,
		Team:         row.Scorer.TeamName,
		Position:     position,
		Starter:      starter,
		Locked:       row.Scorer.DisableLineupChange,
		Statuses:     statuses,
		RecentPoints: recentPoints,
		Fixture:      mapFixture(row.Scorer),
	}, nil
}

// mapFixture reads the upcoming game from the scorer row. Fantrax prefixes
// away opponents with "@".
func mapFixture(scorer *models.Scorer) *models.Fixture {
	if scorer.NextOpponent == "" {
		return nil
	}

	opponent := scorer.NextOpponent
	home := true
	if strings.HasPrefix(opponent, "@") {
		opponent = strings.TrimPrefix(opponent, "@")
		home = false
	}

	var kickoff time.Time
	if scorer.NextGameDate != "" {
		parsed, err := time.Parse(time.RFC3339, scorer.NextGameDate)
		if err != nil {
			slog.Debug("Could not parse next game date", "player", scorer.Name, "date", scorer.NextGameDate)
		} else {
			kickoff = parsed
		}
	}

	return &models.Fixture{Opponent: opponent, Home: home, Kickoff: kickoff}
}

func teamNameByID(teams []models.FantasyTeam, teamID string) (string, error) {
	for _, team := range teams {
		if team.ID == teamID {
			if team.Name == "" {
				return "", fmt.Errorf("team %s has no name in response", teamID)
			}
			return team.Name, nil
		}
	}
	return "", fmt.Errorf("team %s not found in response", teamID)
}

func (a *API) FetchStandings() (models.LeagueStandings, error) {
	var data models.StandingsData
	err := a.client.Request("getStandingsSport", map[string]any{}, &data)
	if err != nil {
		return nil, fmt.Errorf("fetching standings: %w", err)
	}

	if len(data.Tables) == 0 {
		return nil, fmt.Errorf("no standings table in response")
	}

	teamNames := make(map[string]string, len(data.MiscData.Teams))
	for _, team := range data.MiscData.Teams {
		teamNames[team.ID] = team.Name
	}

	// Column order is not fixed; headers name each stat column.
	columns := make(map[string]int, len(data.MiscData.Headers))
	for i, header := range data.MiscData.Headers {
		columns[header.Name] = i
	}

	standings := make(models.LeagueStandings)
	for _, row := range data.Tables[0].Rows {
		name, ok := teamNames[row.TeamID]
		if !ok {
			return nil, fmt.Errorf("standings row references unknown team id %q", row.TeamID)
		}
		standings[name] = models.TeamRecord{
			Rank:           row.Rank,
			Played:         statInt(row.Stats, columns, "GP"),
			Wins:           statInt(row.Stats, columns, "W"),
			Losses:         statInt(row.Stats, columns, "L"),
			Draws:          statInt(row.Stats, columns, "T/OTL"),
			GoalDifference: statInt(row.Stats, columns, "GD"),
			Points:         statInt(row.Stats, columns, "Pts"),
		}
	}

	slog.Info("Fetched league standings", "teams", len(standings))
	return standings, nil
}

// statInt pulls an integer stat out of a row by header name. Fantrax sends
// stats as a positional array whose meaning comes from the header list;
// missing or non-numeric columns read as zero.
func statInt(stats []json.RawMessage, columns map[string]int, name string) int {
	i, ok := columns[name]
	if !ok || i >= len(stats) {
		return 0
	}

	var number int
	if err := json.Unmarshal(stats[i], &number); err == nil {
		return number
	}

	var text string
	if err := json.Unmarshal(stats[i], &text); err == nil {
		if parsed, err := strconv.Atoi(text); err == nil {
			return parsed
		}
	}
	return 0
}

// SubmitLineup pushes the roster's starter/reserve assignment back to
// Fantrax. The whole field map is sent in one call, so a lineup is committed
// all at once or not at all.
func (a *API) SubmitLineup(roster *models.Roster) error {
	fieldMap := make(map[string]any, len(roster.Players))
	for _, player := range roster.Players {
		statusID := rosterStatusReserve
		if player.Starter {
			statusID = rosterStatusStarter
		}
		fieldMap[player.ID] = map[string]string{
			"posId": positionIDByShortName[player.Position],
			"stId":  statusID,
		}
	}

	err := a.client.Request("confirmOrExecuteTeamRosterChanges", map[string]any{
		"rosterLimitPeriod":    roster.PeriodID,
		"fantasyTeamId":        roster.TeamID,
		"daily":                false,
		"adminMode":            false,
		"confirm":              false,
		"applyToFuturePeriods": true,
		"fieldMap":             fieldMap,
	}, nil)
	if err != nil {
		return fmt.Errorf("submitting lineup: %w", err)
	}

	slog.Info("Lineup submitted", "team", roster.TeamName, "period", roster.PeriodID)
	return nil
}
