package models

import "encoding/json"

type FantraxRequest struct {
	Msgs []FantraxMsg `json:"msgs"`
}

type FantraxMsg struct {
	Method string         `json:"method"`
	Data   map[string]any `json:"data"`
}

type FantraxResponse struct {
	Responses []FantraxResponseItem `json:"responses"`
	PageError *FantraxPageError     `json:"pageError,omitempty"`
}

type FantraxResponseItem struct {
	Data json.RawMessage `json:"data"`
}

type FantraxPageError struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

type RosterInfoData struct {
	MyTeamIDs           []string            `json:"myTeamIds"`
	FantasyTeams        []FantasyTeam       `json:"fantasyTeams"`
	DisplayedSelections DisplayedSelections `json:"displayedSelections"`
	Tables              []RosterTable       `json:"tables"`
}

type FantasyTeam struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DisplayedSelections struct {
	DisplayedPeriod int `json:"displayedPeriod"`
}

type RosterTable struct {
	Rows []RosterRow `json:"rows"`
}

type RosterRow struct {
	Scorer   *Scorer      `json:"scorer,omitempty"`
	PosID    string       `json:"posId"`
	StatusID string       `json:"statusId"`
	Cells    []RosterCell `json:"cells"`
}

type Scorer struct {
	ScorerID            string       `json:"scorerId"`
	Name                string       `json:"name"`
	TeamName            string       `json:"teamName"`
	PosShortNames       string       `json:"posShortNames"`
	Icons               []ScorerIcon `json:"icons"`
	NextOpponent        string       `json:"nextOpponent"`
	NextGameDate        string       `json:"nextGameDate"`
	RecentGamePoints    []string     `json:"recentGamePoints"`
	DisableLineupChange bool         `json:"disableLineupChange"`
}

type ScorerIcon struct {
	TypeID string `json:"typeId"`
}

type RosterCell struct {
	Content string `json:"content"`
	ToolTip string `json:"toolTip"`
}

type StandingsData struct {
	Tables   []StandingsTable  `json:"tables"`
	MiscData StandingsMiscData `json:"miscData"`
}

type StandingsTable struct {
	Rows []StandingsRow `json:"rows"`
}

type StandingsRow struct {
	TeamID string            `json:"teamId"`
	Rank   int               `json:"rank"`
	Stats  []json.RawMessage `json:"stats"`
}

type StandingsMiscData struct {
	Headers []StandingsHeader `json:"headers"`
	Teams   []ProTeam         `json:"teams"`
}

type StandingsHeader struct {
	Name string `json:"name"`
}

type ProTeam struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
