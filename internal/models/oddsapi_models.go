package models

import "github.com/shopspring/decimal"

type OddsEvent struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime string      `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

type Bookmaker struct {
	Key     string       `json:"key"`
	Title   string       `json:"title"`
	Markets []OddsMarket `json:"markets"`
}

type OddsMarket struct {
	Key      string        `json:"key"`
	Outcomes []OddsOutcome `json:"outcomes"`
}

type OddsOutcome struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
