package odds

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/omarshaarawi/fantraxbot/internal/config"
)

const (
	baseURL  = "https://api.the-odds-api.com"
	sportKey = "soccer_epl"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	Config     config.OddsAPI
}

func NewClient(cfg config.OddsAPI) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		Config:     cfg,
	}
}

func (c *Client) Get(endpoint string, params map[string]string, result interface{}) error {
	url := fmt.Sprintf("%s%s", c.baseURL, endpoint)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	q := req.URL.Query()
	q.Add("apiKey", c.Config.APIKey)
	for key, value := range params {
		q.Add(key, value)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}
