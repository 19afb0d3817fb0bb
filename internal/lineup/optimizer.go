package lineup

import (
	"log/slog"
	"sort"

	"github.com/omarshaarawi/fantraxbot/internal/models"
)

// Substitution is a committed starter/reserve swap.
type Substitution struct {
	Out *models.Player
	In  *models.Player
}

// TargetedSubstitutions replaces at-risk starters with the best available
// reserves. At-risk starters are processed weakest first so that if reserves
// run short the weakest starters are the ones replaced; reserves are tried
// strongest first. The pairing is greedy and single pass: the first reserve
// that validates is committed and an at-risk starter with no legal partner is
// left in place.
func TargetedSubstitutions(roster *models.Roster) []Substitution {
	atRisk := roster.StartersAtRisk()
	sort.SliceStable(atRisk, func(i, j int) bool {
		return atRisk[i].Value < atRisk[j].Value
	})
	slog.Info("Found starters at risk of not playing", "count", len(atRisk), "players", playerNames(atRisk))

	candidates := roster.AvailableReserves()
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Value > candidates[j].Value
	})
	slog.Info("Found reserves available to start", "count", len(candidates), "players", playerNames(candidates))

	var substitutions []Substitution
	for _, starter := range atRisk {
		matched := false
		for i, reserve := range candidates {
			ok, reason := Validate(roster, []*models.Player{starter, reserve}, false)
			if !ok {
				slog.Info("Substitution rejected", "out", starter.Name, "in", reserve.Name, "reason", reason)
				continue
			}
			starter.ChangeToReserve()
			reserve.ChangeToStarter()
			substitutions = append(substitutions, Substitution{Out: starter, In: reserve})
			candidates = append(candidates[:i], candidates[i+1:]...)
			matched = true
			slog.Info("Substitution committed", "out", starter.Name, "in", reserve.Name)
			break
		}
		if !matched {
			slog.Info("No valid substitution found for at-risk starter, leaving in lineup", "player", starter.Name)
		}
	}

	return substitutions
}

// Rebuild resets every unlocked player to reserve and refills the starting
// lineup greedily from a ranked ordering of the roster. Promotion uses relaxed
// minimum checks so the lineup can be assembled one player at a time; the hard
// position maximums and the 11-starter cap stop later promotions once a
// position is full.
//
// The minimum position counts are not re-verified after the walk. A roster
// with too few available defenders, say, can finish understaffed at that
// position; the result is still submitted.
func Rebuild(roster *models.Roster) {
	ranked := rankByStatusAndValue(roster.Players)

	slog.Info("Resetting unlocked players to reserve")
	for _, p := range roster.Players {
		if !p.Locked {
			p.ChangeToReserve()
		}
	}

	for _, p := range ranked {
		ok, reason := Validate(roster, []*models.Player{p}, true)
		if !ok {
			slog.Info("Player cannot be promoted to starter", "player", p.Name, "reason", reason)
			continue
		}
		slog.Info("Promoting player to starter", "player", p.Name, "position", p.Position, "value", p.Value)
		p.ChangeToStarter()
	}
}

// rankByStatusAndValue orders unlocked players into three tiers, each sorted
// by value descending: confirmed or expected to play, uncertain gametime
// decisions, then everyone else. A player can carry several flags at once, so
// the pessimistic checks run first: a gametime-decision flag outweighs an
// availability flag, and a benched/suspended/out flag outweighs availability
// too. Players whose statuses fit no tier are logged and ranked with the
// unavailable group.
func rankByStatusAndValue(players []*models.Player) []*models.Player {
	var available, uncertain, unavailable []*models.Player
	for _, p := range players {
		if p.Locked {
			continue
		}
		switch {
		case p.GametimeDecision():
			uncertain = append(uncertain, p)
		case p.Unavailable():
			unavailable = append(unavailable, p)
		case p.ConfirmedStarting() || p.ExpectedToPlay():
			available = append(available, p)
		default:
			slog.Error("Player has an unaccounted for status", "player", p.Name, "statuses", p.Statuses)
			unavailable = append(unavailable, p)
		}
	}

	byValueDesc := func(group []*models.Player) {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Value > group[j].Value
		})
	}
	byValueDesc(available)
	byValueDesc(uncertain)
	byValueDesc(unavailable)

	ranked := make([]*models.Player, 0, len(available)+len(uncertain)+len(unavailable))
	ranked = append(ranked, available...)
	ranked = append(ranked, uncertain...)
	ranked = append(ranked, unavailable...)
	return ranked
}

func playerNames(players []*models.Player) []string {
	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	return names
}
