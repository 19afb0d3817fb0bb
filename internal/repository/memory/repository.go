// Package memory holds the latest fetched state for one roster between
// cycles. The optimizer loop is the only writer; the read lock exists for the
// bot commands, which read from another goroutine.
package memory

import (
	"sync"
	"time"

	"github.com/omarshaarawi/fantraxbot/internal/models"
)

type Repository struct {
	roster        *models.Roster
	standings     models.LeagueStandings
	odds          []models.HeadToHeadOdds
	oddsFetchedAt time.Time
	mu            sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) SaveRoster(roster *models.Roster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roster = roster
}

func (r *Repository) Roster() *models.Roster {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.roster
}

func (r *Repository) SaveStandings(standings models.LeagueStandings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.standings = standings
}

func (r *Repository) Standings() models.LeagueStandings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.standings
}

func (r *Repository) SaveOdds(odds []models.HeadToHeadOdds, fetchedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.odds = odds
	r.oddsFetchedAt = fetchedAt
}

func (r *Repository) Odds() ([]models.HeadToHeadOdds, time.Time) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.odds, r.oddsFetchedAt
}
