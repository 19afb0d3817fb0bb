package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrPlayerNotFound = errors.New("player not found in roster")

// Position is a Fantrax position short name.
type Position string

const (
	PositionGoalkeeper Position = "G"
	PositionDefender   Position = "D"
	PositionMidfielder Position = "M"
	PositionForward    Position = "F"
)

// Status is a gameweek availability flag parsed from a player's status icons.
// A player can carry several at once.
type Status string

const (
	StatusStarting         Status = "starting"
	StatusExpectedToPlay   Status = "expected-to-play"
	StatusGametimeDecision Status = "uncertain-gametime-decision"
	StatusBenched          Status = "benched"
	StatusSuspended        Status = "suspended"
	StatusOut              Status = "out"
	StatusOutForNextGame   Status = "out-for-next-game"
)

type StatusSet map[Status]bool

func NewStatusSet(statuses ...Status) StatusSet {
	s := make(StatusSet, len(statuses))
	for _, st := range statuses {
		s[st] = true
	}
	return s
}

func (s StatusSet) Has(status Status) bool {
	return s[status]
}

// Fixture describes a player's upcoming game this gameweek.
type Fixture struct {
	Opponent string
	Home     bool
	Kickoff  time.Time
}

// Player is a rostered player for the current gameweek. Players are rebuilt
// from Fantrax data on every refresh; between refreshes only the starter flag
// and the computed value change.
type Player struct {
	ID           string
	Name         string
	Team         string
	Position     Position
	Starter      bool
	Locked       bool
	Statuses     StatusSet
	RecentPoints []float64
	Fixture      *Fixture
	Value        float64
}

func (p *Player) ChangeToStarter() { p.Starter = true }

func (p *Player) ChangeToReserve() { p.Starter = false }

// ConfirmedStarting reports whether the player is confirmed in their club's
// starting eleven.
func (p *Player) ConfirmedStarting() bool {
	return p.Statuses.Has(StatusStarting)
}

// ExpectedToPlay reports whether the player is expected to feature. A player
// with no status flags at all is assumed available.
func (p *Player) ExpectedToPlay() bool {
	if len(p.Statuses) == 0 {
		return true
	}
	return p.Statuses.Has(StatusExpectedToPlay)
}

func (p *Player) GametimeDecision() bool {
	return p.Statuses.Has(StatusGametimeDecision)
}

// Unavailable reports whether the player is benched, suspended, or out for
// this gameweek or the next game.
func (p *Player) Unavailable() bool {
	return p.Statuses.Has(StatusBenched) ||
		p.Statuses.Has(StatusSuspended) ||
		p.Statuses.Has(StatusOut) ||
		p.Statuses.Has(StatusOutForNextGame)
}

// AtRisk reports whether a starter should be considered for substitution.
func (p *Player) AtRisk() bool {
	return p.Unavailable() || p.GametimeDecision()
}

// Match is an upcoming fixture pairing, home side first.
type Match struct {
	Home string
	Away string
}

// Roster is the ordered collection of players on a fantasy team for one
// scoring period. Player IDs are unique within a roster.
type Roster struct {
	TeamID   string
	TeamName string
	PeriodID int
	Players  []*Player
}

func (r *Roster) Starters() []*Player {
	var out []*Player
	for _, p := range r.Players {
		if p.Starter {
			out = append(out, p)
		}
	}
	return out
}

func (r *Roster) Reserves() []*Player {
	var out []*Player
	for _, p := range r.Players {
		if !p.Starter {
			out = append(out, p)
		}
	}
	return out
}

func (r *Roster) PlayerByID(id string) (*Player, error) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
}

// StarterCounts returns the number of current starters per position.
func (r *Roster) StarterCounts() map[Position]int {
	counts := map[Position]int{
		PositionGoalkeeper: 0,
		PositionDefender:   0,
		PositionMidfielder: 0,
		PositionForward:    0,
	}
	for _, p := range r.Starters() {
		counts[p.Position]++
	}
	return counts
}

// StartersAtRisk returns current starters who may not play this gameweek.
func (r *Roster) StartersAtRisk() []*Player {
	var out []*Player
	for _, p := range r.Starters() {
		if p.AtRisk() {
			out = append(out, p)
		}
	}
	return out
}

// AvailableReserves returns unlocked reserves who are starting or expected to
// play this gameweek.
func (r *Roster) AvailableReserves() []*Player {
	var out []*Player
	for _, p := range r.Reserves() {
		if (p.ConfirmedStarting() || p.ExpectedToPlay()) && !p.Locked {
			out = append(out, p)
		}
	}
	return out
}

func (r *Roster) StartersByPosition(pos Position) []*Player {
	var out []*Player
	for _, p := range r.Starters() {
		if p.Position == pos {
			out = append(out, p)
		}
	}
	return out
}

// StartingLineup returns starter names grouped by position.
func (r *Roster) StartingLineup() map[Position][]string {
	out := make(map[Position][]string)
	for _, pos := range []Position{PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward} {
		names := []string{}
		for _, p := range r.StartersByPosition(pos) {
			names = append(names, p.Name)
		}
		out[pos] = names
	}
	return out
}

// UpcomingMatches returns the distinct (home, away) pairings for unlocked
// players' upcoming fixtures.
func (r *Roster) UpcomingMatches() []Match {
	seen := make(map[Match]bool)
	var out []Match
	for _, p := range r.Players {
		if p.Locked || p.Fixture == nil {
			continue
		}
		m := Match{Home: p.Team, Away: p.Fixture.Opponent}
		if !p.Fixture.Home {
			m = Match{Home: p.Fixture.Opponent, Away: p.Team}
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// TeamRecord is one row of the league table.
type TeamRecord struct {
	Rank           int
	Played         int
	Wins           int
	Losses         int
	Draws          int
	GoalDifference int
	Points         int
}

// LeagueStandings maps club name to its league table row. Ranks are a dense
// permutation of 1..N.
type LeagueStandings map[string]TeamRecord

// HeadToHeadOdds carries median bookmaker decimal prices for one match.
// A nil price means no bookmaker offered that outcome.
type HeadToHeadOdds struct {
	HomeTeam  string
	AwayTeam  string
	HomePrice *decimal.Decimal
	AwayPrice *decimal.Decimal
	DrawPrice *decimal.Decimal
}

// OddsForFixture finds the odds record covering team vs opponent, in either
// home/away orientation. Returns nil if no record matches.
func OddsForFixture(odds []HeadToHeadOdds, team, opponent string) *HeadToHeadOdds {
	for i := range odds {
		o := &odds[i]
		if (o.HomeTeam == team && o.AwayTeam == opponent) || (o.AwayTeam == team && o.HomeTeam == opponent) {
			return o
		}
	}
	return nil
}
