package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"

	"bikeprep/pipeline"
	"bikeprep/preprocessor/config"
	"bikeprep/utils"
)

// InitLogger Receives the log level to be set in logrus as a string. This method
// parses the string and set the level to the logger. If the level string is not
// valid an error is returned
func InitLogger(logLevel string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	customFormatter := &log.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   false,
	}
	log.SetFormatter(customFormatter)
	log.SetLevel(level)
	return nil
}

func run() error {
	preprocessorConfig, err := config.LoadConfig()
	if err != nil {
		log.Errorf("[preprocessor][status: ERROR] error loading config: %s", err.Error())
		return err
	}

	if err := InitLogger(preprocessorConfig.LogLevel); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalChannel := utils.GetSignalChannel()
	go func() {
		select {
		case sig := <-signalChannel:
			log.Infof("[preprocessor] received signal %s, cancelling run", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	preparationPipeline, err := pipeline.New(preprocessorConfig)
	if err != nil {
		log.Errorf("[preprocessor][status: ERROR] error creating pipeline: %s", err.Error())
		return err
	}
	defer preparationPipeline.Close()

	result, err := preparationPipeline.Run(ctx)
	if err != nil {
		log.Errorf("[preprocessor][runID: %s][status: ERROR] run failed: %s", preparationPipeline.GetRunID(), err.Error())
		return err
	}

	log.Infof("[preprocessor][runID: %s][status: OK] %v rows prepared, %v trips without weather, trips between %s",
		result.RunID, len(result.Features), result.Join.TripsWithoutMatch, result.DateRange)
	log.Debug("[preprocessor] Finish main.go")
	return nil
}

func main() {
	if err := InitLogger("info"); err != nil {
		log.Fatalf("%s", err)
		return
	}

	if err := run(); err != nil {
		os.Exit(1)
	}
}
