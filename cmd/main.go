package main

import (
	"fmt"
	"os"

	"dcaexecutor/cmd/executor"
	"dcaexecutor/cmd/syncer"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var Version string

func main() {
	app := cli.NewApp()
	app.Name = "DCA Executor CMD"
	app.Usage = "The DCA executor command line interface"

	app.Commands = []cli.Command{
		syncerCMD,
		executorCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	syncerCMD = cli.Command{
		Name:        "syncer",
		Usage:       "run Syncer",
		Action:      syncerAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run catalog Syncer CMD`,
	}
	executorCMD = cli.Command{
		Name:        "executor",
		Usage:       "run Executor",
		Action:      executorAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run order Executor CMD`,
	}
)

func syncerAction(_ *cli.Context) error {

	logrus.Info("Starting syncer CMD")
	logrus.WithField("cmd", "syncer")

	catalogSyncer := &syncer.Syncer{}
	err := catalogSyncer.Start()
	if err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}

func executorAction(_ *cli.Context) error {

	logrus.Info("Starting executor CMD")
	logrus.WithField("cmd", "executor")

	orderExecutor := &executor.Executor{}
	err := orderExecutor.Start()
	if err != nil {
		logrus.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}
