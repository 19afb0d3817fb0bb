package odds

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/shopspring/decimal"

	"github.com/omarshaarawi/fantraxbot/internal/models"
)

// API exposes head-to-head prices for upcoming matches. Bookmaker team names
// rarely match Fantrax names exactly ("Man City" vs "Manchester City"), so
// events are reconciled against the requested matches with a fuzzy fallback.
type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

// FetchHeadToHead returns odds for the requested (home, away) pairings, with
// team names rewritten to the Fantrax spelling. Matches no bookmaker covers
// are simply absent from the result.
func (a *API) FetchHeadToHead(matches []models.Match) ([]models.HeadToHeadOdds, error) {
	var events []models.OddsEvent
	endpoint := fmt.Sprintf("/v4/sports/%s/odds", sportKey)
	params := map[string]string{
		"regions":    a.client.Config.Region,
		"markets":    "h2h",
		"oddsFormat": "decimal",
		"dateFormat": "iso",
	}

	if err := a.client.Get(endpoint, params, &events); err != nil {
		return nil, fmt.Errorf("fetching head-to-head odds: %w", err)
	}

	var out []models.HeadToHeadOdds
	for _, event := range events {
		match, ok := matchForEvent(event, matches)
		if !ok {
			continue
		}
		record := mapEvent(event)
		record.HomeTeam = match.Home
		record.AwayTeam = match.Away
		out = append(out, record)
	}

	slog.Info("Fetched head-to-head odds", "events", len(events), "matched", len(out))
	return out, nil
}

// matchForEvent finds the requested match this odds event covers, if any.
func matchForEvent(event models.OddsEvent, matches []models.Match) (models.Match, bool) {
	for _, match := range matches {
		if teamNamesMatch(event.HomeTeam, match.Home) && teamNamesMatch(event.AwayTeam, match.Away) {
			return match, true
		}
	}
	return models.Match{}, false
}

// teamNamesMatch compares a bookmaker team name against a Fantrax one,
// tolerating abbreviated forms in either direction.
func teamNamesMatch(bookmaker, fantrax string) bool {
	if strings.EqualFold(bookmaker, fantrax) {
		return true
	}
	return fuzzy.MatchNormalizedFold(fantrax, bookmaker) || fuzzy.MatchNormalizedFold(bookmaker, fantrax)
}

// mapEvent collapses all bookmakers' h2h outcomes into one record, taking the
// median price per outcome. Outcomes nobody offered stay nil.
func mapEvent(event models.OddsEvent) models.HeadToHeadOdds {
	var homePrices, awayPrices, drawPrices []decimal.Decimal

	for _, bookmaker := range event.Bookmakers {
		for _, market := range bookmaker.Markets {
			if market.Key != "h2h" {
				continue
			}
			for _, outcome := range market.Outcomes {
				switch outcome.Name {
				case event.HomeTeam:
					homePrices = append(homePrices, outcome.Price)
				case event.AwayTeam:
					awayPrices = append(awayPrices, outcome.Price)
				case "Draw":
					drawPrices = append(drawPrices, outcome.Price)
				default:
					slog.Error("Unknown h2h outcome", "bookmaker", bookmaker.Title, "outcome", outcome.Name,
						"home_team", event.HomeTeam, "away_team", event.AwayTeam)
				}
			}
		}
	}

	return models.HeadToHeadOdds{
		HomeTeam:  event.HomeTeam,
		AwayTeam:  event.AwayTeam,
		HomePrice: medianPrice(homePrices),
		AwayPrice: medianPrice(awayPrices),
		DrawPrice: medianPrice(drawPrices),
	}
}

func medianPrice(prices []decimal.Decimal) *decimal.Decimal {
	if len(prices) == 0 {
		return nil
	}

	sorted := make([]decimal.Decimal, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})

	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = decimal.Avg(sorted[mid-1], sorted[mid])
	}
	return &median
}
