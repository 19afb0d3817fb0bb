package service

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/fantraxbot/internal/models"
	"github.com/omarshaarawi/fantraxbot/internal/repository/memory"
)

type stubRosterSource struct {
	fn func() (*models.Roster, error)
}

func (s stubRosterSource) FetchRoster() (*models.Roster, error) { return s.fn() }

type stubStandingsSource struct {
	fn func() (models.LeagueStandings, error)
}

func (s stubStandingsSource) FetchStandings() (models.LeagueStandings, error) { return s.fn() }

type stubOddsSource struct {
	fn func(matches []models.Match) ([]models.HeadToHeadOdds, error)
}

func (s stubOddsSource) FetchHeadToHead(matches []models.Match) ([]models.HeadToHeadOdds, error) {
	return s.fn(matches)
}

type stubSink struct {
	fn func(roster *models.Roster) error
}

func (s stubSink) SubmitLineup(roster *models.Roster) error { return s.fn(roster) }

func testRoster() *models.Roster {
	return &models.Roster{
		TeamID:   "abc123",
		TeamName: "Bench Warmers",
		PeriodID: 20,
		Players: []*models.Player{
			{ID: "gk1", Name: "Raya", Team: "Arsenal", Position: models.PositionGoalkeeper, Starter: true,
				Statuses: models.NewStatusSet(models.StatusExpectedToPlay), RecentPoints: []float64{8, 10}},
			{ID: "d1", Name: "Gabriel", Team: "Arsenal", Position: models.PositionDefender, Starter: true,
				Statuses: models.NewStatusSet(models.StatusStarting), RecentPoints: []float64{12, 14}},
			{ID: "m1", Name: "Rice", Team: "Arsenal", Position: models.PositionMidfielder, Starter: true,
				Statuses: models.NewStatusSet(models.StatusExpectedToPlay), RecentPoints: []float64{9, 11}},
			{ID: "f1", Name: "Havertz", Team: "Arsenal", Position: models.PositionForward, Starter: true,
				Statuses: models.NewStatusSet(models.StatusExpectedToPlay), RecentPoints: []float64{6, 8}},
			{ID: "f2", Name: "Jesus", Team: "Arsenal", Position: models.PositionForward, Starter: false,
				Statuses: models.NewStatusSet(models.StatusBenched), RecentPoints: []float64{2, 4}},
		},
	}
}

func testStandings() models.LeagueStandings {
	return models.LeagueStandings{
		"Arsenal": {Rank: 1},
		"Everton": {Rank: 15},
	}
}

func newTestManager(rosterFn func() (*models.Roster, error), standingsFn func() (models.LeagueStandings, error), oddsSource OddsSource, sinkFn func(*models.Roster) error, mode Mode) *Manager {
	m := NewManager(
		stubRosterSource{fn: rosterFn},
		stubStandingsSource{fn: standingsFn},
		oddsSource,
		stubSink{fn: sinkFn},
		memory.NewRepository(),
		mode,
		10*time.Minute,
		6*time.Hour,
		nil,
	)
	m.clock = clockwork.NewFakeClockAt(time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))
	return m
}

func TestRunCycle_ScoresOptimizesAndSubmits(t *testing.T) {
	roster := testRoster()
	var submitted *models.Roster
	var notified string

	m := newTestManager(
		func() (*models.Roster, error) { return roster, nil },
		func() (models.LeagueStandings, error) { return testStandings(), nil },
		nil,
		func(r *models.Roster) error { submitted = r; return nil },
		ModeRebuild,
	)
	m.notify = func(text string) error { notified = text; return nil }

	err := m.RunCycle()

	require.NoError(t, err)
	require.Same(t, roster, submitted)

	// No fixtures scheduled, so every value is the plain points average.
	gk, _ := roster.PlayerByID("gk1")
	assert.InDelta(t, 9.0, gk.Value, 1e-9)

	assert.Same(t, roster, m.repo.Roster())
	assert.NotNil(t, m.repo.Standings())
	assert.Contains(t, notified, "Lineup submitted")
	assert.Contains(t, notified, "Bench Warmers")
}

func TestRunCycle_StandingsErrorAbortsBeforeSubmit(t *testing.T) {
	submitCalled := false
	m := newTestManager(
		func() (*models.Roster, error) { return testRoster(), nil },
		func() (models.LeagueStandings, error) { return nil, errors.New("fantrax is down") },
		nil,
		func(*models.Roster) error { submitCalled = true; return nil },
		ModeRebuild,
	)

	err := m.RunCycle()

	assert.ErrorContains(t, err, "refreshing standings")
	assert.False(t, submitCalled)
}

func TestRunCycle_RosterErrorAbortsBeforeSubmit(t *testing.T) {
	submitCalled := false
	m := newTestManager(
		func() (*models.Roster, error) { return nil, errors.New("session expired") },
		func() (models.LeagueStandings, error) { return testStandings(), nil },
		nil,
		func(*models.Roster) error { submitCalled = true; return nil },
		ModeRebuild,
	)

	err := m.RunCycle()

	assert.ErrorContains(t, err, "refreshing roster")
	assert.False(t, submitCalled)
}

func TestRunCycle_ValuationLookupErrorAbortsBeforeSubmit(t *testing.T) {
	roster := testRoster()
	roster.Players[1].Fixture = &models.Fixture{Opponent: "Nonexistent FC", Home: true}
	submitCalled := false

	m := newTestManager(
		func() (*models.Roster, error) { return roster, nil },
		func() (models.LeagueStandings, error) { return testStandings(), nil },
		nil,
		func(*models.Roster) error { submitCalled = true; return nil },
		ModeRebuild,
	)

	err := m.RunCycle()

	assert.ErrorContains(t, err, "scoring player Gabriel")
	assert.False(t, submitCalled)
}

func TestRunCycle_SubmitErrorSurfaces(t *testing.T) {
	m := newTestManager(
		func() (*models.Roster, error) { return testRoster(), nil },
		func() (models.LeagueStandings, error) { return testStandings(), nil },
		nil,
		func(*models.Roster) error { return errors.New("lineup rejected") },
		ModeRebuild,
	)

	err := m.RunCycle()

	assert.ErrorContains(t, err, "submitting lineup")
}

// legalLineupRoster builds an 11-starter roster (1 GK, 4 D, 5 M, 1 F) plus a
// reserve forward so incremental substitutions have a legal partner.
func legalLineupRoster() *models.Roster {
	roster := &models.Roster{TeamID: "abc123", TeamName: "Bench Warmers", PeriodID: 20}
	add := func(id string, pos models.Position, starter bool, points ...float64) *models.Player {
		p := &models.Player{
			ID: id, Name: "Player " + id, Team: "Arsenal",
			Position: pos, Starter: starter,
			Statuses:     models.NewStatusSet(models.StatusExpectedToPlay),
			RecentPoints: points,
		}
		roster.Players = append(roster.Players, p)
		return p
	}
	add("gk1", models.PositionGoalkeeper, true, 8)
	for i := 1; i <= 4; i++ {
		add("d"+string(rune('0'+i)), models.PositionDefender, true, 10)
	}
	for i := 1; i <= 5; i++ {
		add("m"+string(rune('0'+i)), models.PositionMidfielder, true, 10)
	}
	add("f1", models.PositionForward, true, 7)
	add("f2", models.PositionForward, false, 25)
	return roster
}

func TestRunCycle_IncrementalModeSwapsAtRiskStarter(t *testing.T) {
	roster := legalLineupRoster()
	out, _ := roster.PlayerByID("f1")
	out.Statuses = models.NewStatusSet(models.StatusOut)
	in, _ := roster.PlayerByID("f2")

	m := newTestManager(
		func() (*models.Roster, error) { return roster, nil },
		func() (models.LeagueStandings, error) { return testStandings(), nil },
		nil,
		func(*models.Roster) error { return nil },
		ModeIncremental,
	)
	var notified string
	m.notify = func(text string) error { notified = text; return nil }

	err := m.RunCycle()

	require.NoError(t, err)
	assert.False(t, out.Starter)
	assert.True(t, in.Starter)
	assert.Contains(t, notified, "Player f1")
	assert.Contains(t, notified, "Player f2")
}

func TestRunCycle_OddsFetchedOnCadence(t *testing.T) {
	roster := testRoster()
	kickoff := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	roster.Players[1].Fixture = &models.Fixture{Opponent: "Everton", Home: true, Kickoff: kickoff}

	fetches := 0
	oddsSource := stubOddsSource{fn: func(matches []models.Match) ([]models.HeadToHeadOdds, error) {
		fetches++
		assert.Contains(t, matches, models.Match{Home: "Arsenal", Away: "Everton"})
		return nil, nil
	}}

	m := newTestManager(
		func() (*models.Roster, error) { return roster, nil },
		func() (models.LeagueStandings, error) { return testStandings(), nil },
		oddsSource,
		func(*models.Roster) error { return nil },
		ModeRebuild,
	)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))
	m.clock = clock

	require.NoError(t, m.RunCycle())
	assert.Equal(t, 1, fetches, "first cycle always fetches odds")

	clock.Advance(10 * time.Minute)
	require.NoError(t, m.RunCycle())
	assert.Equal(t, 1, fetches, "within the cadence the cached odds are reused")

	clock.Advance(6 * time.Hour)
	require.NoError(t, m.RunCycle())
	assert.Equal(t, 2, fetches, "cadence elapsed, odds refreshed")
}

func TestRunCycle_ImminentKickoffForcesOddsRefresh(t *testing.T) {
	start := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	roster := testRoster()
	// Kickoff 55 minutes after the second cycle's now: the one-hour
	// boundary was crossed during the preceding ten-minute tick.
	roster.Players[1].Fixture = &models.Fixture{Opponent: "Everton", Home: true, Kickoff: start.Add(10*time.Minute + 55*time.Minute)}

	fetches := 0
	oddsSource := stubOddsSource{fn: func([]models.Match) ([]models.HeadToHeadOdds, error) {
		fetches++
		return nil, nil
	}}

	m := newTestManager(
		func() (*models.Roster, error) { return roster, nil },
		func() (models.LeagueStandings, error) { return testStandings(), nil },
		oddsSource,
		func(*models.Roster) error { return nil },
		ModeRebuild,
	)
	clock := clockwork.NewFakeClockAt(start)
	m.clock = clock

	require.NoError(t, m.RunCycle())
	require.Equal(t, 1, fetches)

	clock.Advance(10 * time.Minute)
	require.NoError(t, m.RunCycle())
	assert.Equal(t, 2, fetches, "imminent kickoff overrides the cadence")
}

func TestRunCycle_OddsErrorFallsBackToStandings(t *testing.T) {
	roster := testRoster()
	roster.Players[1].Fixture = &models.Fixture{Opponent: "Everton", Home: true}

	oddsSource := stubOddsSource{fn: func([]models.Match) ([]models.HeadToHeadOdds, error) {
		return nil, errors.New("quota exceeded")
	}}

	submitCalled := false
	m := newTestManager(
		func() (*models.Roster, error) { return roster, nil },
		func() (models.LeagueStandings, error) { return testStandings(), nil },
		oddsSource,
		func(*models.Roster) error { submitCalled = true; return nil },
		ModeRebuild,
	)

	err := m.RunCycle()

	require.NoError(t, err, "odds failures are tolerated")
	assert.True(t, submitCalled)
	// Standings mode applied: the rank difference scales the base of 13.
	d, _ := roster.PlayerByID("d1")
	expected := 13 * (1 + 0.7*math.Tanh(-14.0))
	assert.InDelta(t, expected, d.Value, 1e-9)
}

func TestRunCycle_OddsRecordPreferredOverStandings(t *testing.T) {
	roster := testRoster()
	roster.Players[1].Fixture = &models.Fixture{Opponent: "Everton", Home: true}

	home := decimal.NewFromFloat(2.0)
	away := decimal.NewFromFloat(3.0)
	draw := decimal.NewFromFloat(3.0)
	oddsSource := stubOddsSource{fn: func([]models.Match) ([]models.HeadToHeadOdds, error) {
		return []models.HeadToHeadOdds{{
			HomeTeam: "Arsenal", AwayTeam: "Everton",
			HomePrice: &home, AwayPrice: &away, DrawPrice: &draw,
		}}, nil
	}}

	m := newTestManager(
		func() (*models.Roster, error) { return roster, nil },
		func() (models.LeagueStandings, error) { return testStandings(), nil },
		oddsSource,
		func(*models.Roster) error { return nil },
		ModeRebuild,
	)

	require.NoError(t, m.RunCycle())

	// Base 13 at p=0.25 gives multiplier 0.85: odds decided, not rank.
	d, _ := roster.PlayerByID("d1")
	assert.InDelta(t, 13*0.85, d.Value, 1e-9)
}

func TestKickoffImminent(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		kickoff time.Time
		locked  bool
		want    bool
	}{
		{name: "kickoff just inside the hour", kickoff: now.Add(55 * time.Minute), want: true},
		{name: "kickoff exactly on the boundary", kickoff: now.Add(time.Hour), want: true},
		{name: "kickoff well beyond the hour", kickoff: now.Add(90 * time.Minute), want: false},
		{name: "boundary crossed on an earlier tick", kickoff: now.Add(30 * time.Minute), want: false},
		{name: "match already started", kickoff: now.Add(-5 * time.Minute), want: false},
		{name: "locked players are ignored", kickoff: now.Add(55 * time.Minute), locked: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := testRoster()
			roster.Players[1].Fixture = &models.Fixture{Opponent: "Everton", Home: true, Kickoff: tt.kickoff}
			roster.Players[1].Locked = tt.locked

			m := newTestManager(
				func() (*models.Roster, error) { return roster, nil },
				func() (models.LeagueStandings, error) { return testStandings(), nil },
				nil,
				func(*models.Roster) error { return nil },
				ModeRebuild,
			)

			assert.Equal(t, tt.want, m.kickoffImminent(roster, now))
		})
	}
}
