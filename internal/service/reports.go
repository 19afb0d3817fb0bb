package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/omarshaarawi/fantraxbot/internal/lineup"
	"github.com/omarshaarawi/fantraxbot/internal/models"
)

var positionLabels = map[models.Position]string{
	models.PositionGoalkeeper: "Goalkeeper",
	models.PositionDefender:   "Defenders",
	models.PositionMidfielder: "Midfielders",
	models.PositionForward:    "Forwards",
}

// LineupReport formats the last submitted lineup for the bot.
func (m *Manager) LineupReport() (string, error) {
	roster := m.repo.Roster()
	if roster == nil {
		return "", fmt.Errorf("no roster fetched yet, try again after the next cycle")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚽️ *%s — Gameweek %d Lineup*\n\n", roster.TeamName, roster.PeriodID))

	sb.WriteString("*Starting XI:*\n")
	for _, pos := range []models.Position{models.PositionGoalkeeper, models.PositionDefender, models.PositionMidfielder, models.PositionForward} {
		starters := roster.StartersByPosition(pos)
		if len(starters) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("_%s:_\n", positionLabels[pos]))
		for _, p := range starters {
			sb.WriteString(fmt.Sprintf("▫️ %s (%s) - %.2f\n", p.Name, p.Team, p.Value))
		}
	}

	sb.WriteString("\n*Bench:*\n")
	for _, p := range roster.Reserves() {
		marker := ""
		if p.AtRisk() {
			marker = " ⚠️"
		}
		sb.WriteString(fmt.Sprintf("▫️ %s %s (%s)%s - %.2f\n", p.Position, p.Name, p.Team, marker, p.Value))
	}

	return sb.String(), nil
}

// ValueReport formats the roster ranked by computed gameweek value.
func (m *Manager) ValueReport() (string, error) {
	roster := m.repo.Roster()
	if roster == nil {
		return "", fmt.Errorf("no roster fetched yet, try again after the next cycle")
	}

	players := make([]*models.Player, len(roster.Players))
	copy(players, roster.Players)
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Value > players[j].Value
	})

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📈 *Gameweek %d Player Values*\n\n", roster.PeriodID))
	for i, p := range players {
		role := "bench"
		if p.Starter {
			role = "starting"
		}
		sb.WriteString(fmt.Sprintf("%d. %s %s (%s) - %.2f (%s)\n", i+1, p.Position, p.Name, p.Team, p.Value, role))
	}

	return sb.String(), nil
}

func (m *Manager) cycleSummary(roster *models.Roster, substitutions []lineup.Substitution) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ *Lineup submitted for %s, gameweek %d*\n\n", roster.TeamName, roster.PeriodID))

	if m.mode == ModeIncremental {
		if len(substitutions) == 0 {
			sb.WriteString("No substitutions needed this cycle.")
			return sb.String()
		}
		sb.WriteString("*Substitutions:*\n")
		for _, s := range substitutions {
			sb.WriteString(fmt.Sprintf("🔁 %s ➜ %s\n", s.Out.Name, s.In.Name))
		}
		return sb.String()
	}

	counts := roster.StarterCounts()
	sb.WriteString(fmt.Sprintf("Formation: %d-%d-%d\n", counts[models.PositionDefender], counts[models.PositionMidfielder], counts[models.PositionForward]))
	for _, pos := range []models.Position{models.PositionGoalkeeper, models.PositionDefender, models.PositionMidfielder, models.PositionForward} {
		names := roster.StartingLineup()[pos]
		if len(names) > 0 {
			sb.WriteString(fmt.Sprintf("_%s:_ %s\n", positionLabels[pos], strings.Join(names, ", ")))
		}
	}
	return sb.String()
}
