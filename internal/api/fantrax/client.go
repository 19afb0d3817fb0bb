package fantrax

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/omarshaarawi/fantraxbot/internal/config"
	"github.com/omarshaarawi/fantraxbot/internal/models"
)

const baseURL = "https://www.fantrax.com/fxpa/req"

// Client speaks the Fantrax fxpa request protocol: every call is a POST with
// a msgs array and the logged-in session cookie from config. The cookie is
// scoped to this client rather than shared process state, so two clients can
// carry two sessions.
type Client struct {
	httpClient *http.Client
	baseURL    string
	Config     config.Fantrax
}

func NewClient(cfg config.Fantrax) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		Config:     cfg,
	}
}

// Request sends a single-method fxpa message and decodes the first response
// payload into result. Pass a nil result to ignore the payload.
func (c *Client) Request(method string, data map[string]any, result interface{}) error {
	payload := models.FantraxRequest{
		Msgs: []models.FantraxMsg{{Method: method, Data: data}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshalling request: %w", err)
	}

	url := fmt.Sprintf("%s?leagueId=%s", c.baseURL, c.Config.LeagueID)
	req, err := http.NewRequest("POST", url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cookie", c.Config.Cookie)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var envelope models.FantraxResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	if envelope.PageError != nil {
		return fmt.Errorf("fantrax error %s: %s", envelope.PageError.Code, envelope.PageError.Text)
	}
	if len(envelope.Responses) == 0 {
		return fmt.Errorf("empty response for method %s", method)
	}

	if result != nil {
		if err := json.Unmarshal(envelope.Responses[0].Data, result); err != nil {
			return fmt.Errorf("error decoding response data: %w", err)
		}
	}

	return nil
}
