package executors

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	SyncInterval    time.Duration `envconfig:"SYNC_INTERVAL" default:"15m"`
	SyncSettleDelay time.Duration `envconfig:"SYNC_SETTLE_DELAY" default:"30s"`

	SchedulerInterval time.Duration `envconfig:"SCHEDULER_INTERVAL" default:"1h"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
