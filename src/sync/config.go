package sync

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	GatewaySlug string `envconfig:"GATEWAY_SLUG" default:"uniswap-v2"`
	// MinReserve is roughly one unit of a 6-decimals token.
	MinReserve string `envconfig:"MIN_RESERVE" default:"1000000"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
