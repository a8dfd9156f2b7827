package connectors

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	FeedBaseURL string        `envconfig:"FEED_BASE_URL" default:"https://api.liquidity-feed.example.com"`
	FeedTimeout time.Duration `envconfig:"FEED_TIMEOUT" default:"15s"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
