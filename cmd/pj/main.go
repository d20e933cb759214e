package main

import (
	"github.com/tyemirov/pj/internal/cli"
	"github.com/tyemirov/pj/internal/utils"
)

// main is the entry point for the pj command.
func main() {
	loggerInstance := utils.NewApplicationLogger(utils.LoggerOptions{})
	defer func() { _ = loggerInstance.Sync() }()
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
