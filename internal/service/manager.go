package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/omarshaarawi/fantraxbot/internal/lineup"
	"github.com/omarshaarawi/fantraxbot/internal/models"
	"github.com/omarshaarawi/fantraxbot/internal/repository/memory"
	"github.com/omarshaarawi/fantraxbot/internal/valuation"
)

// RosterSource provides the current roster with statuses, recent points, and
// upcoming fixtures resolved.
type RosterSource interface {
	FetchRoster() (*models.Roster, error)
}

type StandingsSource interface {
	FetchStandings() (models.LeagueStandings, error)
}

// OddsSource provides head-to-head prices for a set of matches. It is
// optional; without it every valuation falls back to league standings.
type OddsSource interface {
	FetchHeadToHead(matches []models.Match) ([]models.HeadToHeadOdds, error)
}

// RosterSink persists a starter/reserve assignment back to Fantrax.
type RosterSink interface {
	SubmitLineup(roster *models.Roster) error
}

// Mode selects the optimization strategy for each cycle.
type Mode string

const (
	// ModeRebuild resets and refills the whole starting lineup every cycle.
	ModeRebuild Mode = "rebuild"
	// ModeIncremental only swaps out starters that became at-risk.
	ModeIncremental Mode = "incremental"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeRebuild, ModeIncremental:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown optimize mode %q", s)
}

// Manager runs the refresh, score, optimize, submit cycle for one roster.
// Cycles are strictly sequential; the manager is the only writer of the
// roster it holds.
type Manager struct {
	rosterSource    RosterSource
	standingsSource StandingsSource
	oddsSource      OddsSource
	sink            RosterSink
	repo            *memory.Repository
	notify          func(string) error

	mode           Mode
	updateInterval time.Duration
	oddsInterval   time.Duration
	clock          clockwork.Clock
}

func NewManager(
	rosterSource RosterSource,
	standingsSource StandingsSource,
	oddsSource OddsSource,
	sink RosterSink,
	repo *memory.Repository,
	mode Mode,
	updateInterval time.Duration,
	oddsInterval time.Duration,
	notify func(string) error,
) *Manager {
	return &Manager{
		rosterSource:    rosterSource,
		standingsSource: standingsSource,
		oddsSource:      oddsSource,
		sink:            sink,
		repo:            repo,
		notify:          notify,
		mode:            mode,
		updateInterval:  updateInterval,
		oddsInterval:    oddsInterval,
		clock:           clockwork.NewRealClock(),
	}
}

// RunCycle executes one full refresh-score-optimize-submit pass. Any error
// aborts the cycle before submission; the scheduler retries on the next tick.
func (m *Manager) RunCycle() error {
	standings, err := m.standingsSource.FetchStandings()
	if err != nil {
		return fmt.Errorf("refreshing standings: %w", err)
	}

	roster, err := m.rosterSource.FetchRoster()
	if err != nil {
		return fmt.Errorf("refreshing roster: %w", err)
	}

	oddsData := m.refreshOdds(roster)

	for _, player := range roster.Players {
		var record *models.HeadToHeadOdds
		if player.Fixture != nil {
			record = models.OddsForFixture(oddsData, player.Team, player.Fixture.Opponent)
		}
		value, err := valuation.Score(player, standings, record)
		if err != nil {
			return fmt.Errorf("scoring player %s: %w", player.Name, err)
		}
		player.Value = value
	}

	var substitutions []lineup.Substitution
	switch m.mode {
	case ModeIncremental:
		substitutions = lineup.TargetedSubstitutions(roster)
	default:
		lineup.Rebuild(roster)
	}

	if err := m.sink.SubmitLineup(roster); err != nil {
		return fmt.Errorf("submitting lineup: %w", err)
	}

	m.repo.SaveRoster(roster)
	m.repo.SaveStandings(standings)

	if m.notify != nil {
		if err := m.notify(m.cycleSummary(roster, substitutions)); err != nil {
			slog.Error("Error sending cycle summary", "error", err)
		}
	}

	return nil
}

// refreshOdds returns the head-to-head odds to use this cycle: a fresh fetch
// when the refresh cadence elapsed or a kickoff is imminent, the cached set
// otherwise. Odds failures are tolerated since valuation falls back to league
// standings.
func (m *Manager) refreshOdds(roster *models.Roster) []models.HeadToHeadOdds {
	if m.oddsSource == nil {
		return nil
	}

	cached, fetchedAt := m.repo.Odds()
	now := m.clock.Now()

	due := fetchedAt.IsZero() || now.Sub(fetchedAt) >= m.oddsInterval
	if !due && m.kickoffImminent(roster, now) {
		slog.Info("Kickoff imminent, forcing odds refresh")
		due = true
	}
	if !due {
		return cached
	}

	fresh, err := m.oddsSource.FetchHeadToHead(roster.UpcomingMatches())
	if err != nil {
		slog.Warn("Odds refresh failed, using league standings fallback", "error", err)
		return cached
	}

	m.repo.SaveOdds(fresh, now)
	return fresh
}

// kickoffImminent reports whether any unlocked player's kickoff falls within
// one hour of now and that one-hour boundary would be crossed before the next
// tick. Refreshing on that boundary catches the final pre-match prices.
func (m *Manager) kickoffImminent(roster *models.Roster, now time.Time) bool {
	horizon := now.Add(time.Hour)
	for _, player := range roster.Players {
		if player.Locked || player.Fixture == nil || player.Fixture.Kickoff.IsZero() {
			continue
		}
		kickoff := player.Fixture.Kickoff
		if !horizon.Before(kickoff) && horizon.Sub(kickoff) <= m.updateInterval {
			slog.Info("Kickoff within the hour", "player", player.Name, "kickoff", kickoff)
			return true
		}
	}
	return false
}
