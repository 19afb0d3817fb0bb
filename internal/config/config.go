package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Fantrax     Fantrax
	OddsAPI     OddsAPI
	Manager     Manager
	TelegramBot TelegramBot
}

type Fantrax struct {
	LeagueID string `envconfig:"LEAGUE_ID" required:"true"`
	TeamID   string `envconfig:"TEAM_ID" required:"true"`
	Cookie   string `envconfig:"FANTRAX_COOKIE" required:"true"`
}

type OddsAPI struct {
	APIKey          string        `envconfig:"ODDS_API_KEY"`
	Region          string        `envconfig:"ODDS_API_REGION" default:"us"`
	RefreshInterval time.Duration `envconfig:"ODDS_REFRESH_INTERVAL" default:"6h"`
}

type Manager struct {
	UpdateInterval time.Duration `envconfig:"UPDATE_LINEUP_INTERVAL" default:"10m"`
	Mode           string        `envconfig:"OPTIMIZE_MODE" default:"rebuild"`
	RunOnce        bool          `envconfig:"RUN_ONCE" default:"false"`
	HealthAddr     string        `envconfig:"HEALTH_ADDR" default:":80"`
}

type TelegramBot struct {
	Token  string `envconfig:"TELEGRAM_TOKEN"`
	ChatID int64  `envconfig:"CHAT_ID"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
