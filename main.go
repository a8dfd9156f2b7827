package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dcaexecutor/src/database"
	"dcaexecutor/src/scheduler"
	"dcaexecutor/src/security"
	"dcaexecutor/src/server"
	"dcaexecutor/src/sync"

	logger "github.com/sirupsen/logrus"
)

var (
	PORT     = os.Getenv("SERVER_PORT")
	APP_NAME = os.Getenv("APP_NAME")
)

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		level = logger.DebugLevel
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	SetupLogger()
	defer handlePanic()

	// Initialize main (read/write) database
	if err := database.InitMainDB(); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	guard, err := security.NewGuard()
	if err != nil {
		logger.WithError(err).Fatal("Failed to set up control guard")
	}

	engine := sync.NewFromConfig()
	sched := scheduler.NewFromConfig()

	server.StartServer(PORT, engine, sched, guard)
}

func handlePanic() {
	if r := recover(); r != nil {
		logger.WithError(fmt.Errorf("%+v", r)).Error(fmt.Sprintf("Application %s panic", APP_NAME))
	}
	//nolint
	time.Sleep(time.Second * 5)
}
