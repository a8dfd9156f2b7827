package migrations

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	GatewaySlug string `envconfig:"GATEWAY_SLUG" default:"uniswap-v2"`
	GatewayName string `envconfig:"GATEWAY_NAME" default:"Uniswap V2"`
	GatewayFee  string `envconfig:"GATEWAY_FEE_PERCENT" default:"0.3"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
