package fantrax

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarshaarawi/fantraxbot/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(config.Fantrax{
		LeagueID: "league1",
		TeamID:   "team1",
		Cookie:   "JSESSIONID=abc123",
	})
	client.baseURL = server.URL
	return client
}

func TestRequest_SendsMsgsEnvelopeWithSession(t *testing.T) {
	var gotCookie, gotLeagueID, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		gotLeagueID = r.URL.Query().Get("leagueId")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Write([]byte(`{"responses":[{"data":{"value":42}}]}`))
	})

	var result struct {
		Value int `json:"value"`
	}
	err := client.Request("getTeamRosterInfo", map[string]any{"teamId": "team1"}, &result)

	require.NoError(t, err)
	assert.Equal(t, 42, result.Value)
	assert.Equal(t, "JSESSIONID=abc123", gotCookie)
	assert.Equal(t, "league1", gotLeagueID)
	assert.JSONEq(t, `{"msgs":[{"method":"getTeamRosterInfo","data":{"teamId":"team1"}}]}`, gotBody)
}

func TestRequest_NilResultSkipsDecode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responses":[{"data":{}}]}`))
	})

	err := client.Request("confirmOrExecuteTeamRosterChanges", map[string]any{}, nil)

	assert.NoError(t, err)
}

func TestRequest_PageErrorSurfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responses":[],"pageError":{"code":"WARNING_NOT_LOGGED_IN","text":"You are not logged in"}}`))
	})

	err := client.Request("getTeamRosterInfo", map[string]any{}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "WARNING_NOT_LOGGED_IN")
	assert.Contains(t, err.Error(), "not logged in")
}

func TestRequest_EmptyResponsesIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responses":[]}`))
	})

	err := client.Request("getStandingsSport", map[string]any{}, nil)

	assert.ErrorContains(t, err, "empty response for method getStandingsSport")
}

func TestRequest_Non200Status(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	err := client.Request("getTeamRosterInfo", map[string]any{}, nil)

	assert.ErrorContains(t, err, "unexpected status code: 503")
}
