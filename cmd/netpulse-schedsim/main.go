package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netpulse-io/netpulse/pkg/log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "netpulse-schedsim",
	Short: "Drive the NetPulse pinned-worker scheduler against a synthetic fleet",
	Long: `netpulse-schedsim is a load-testing and policy-comparison tool for the
NetPulse scheduler. It builds an in-memory fleet of worker nodes with
randomized capacity and load, runs a batch of tasks through
Scheduler.Schedule, and reports the resulting node selection
distribution and bind-retry rate.

It is test/demo tooling: it does not talk to a real device fleet or a
replicated cluster store.`,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(simulateCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logJSON, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      log.Level(logLevel),
		JSONOutput: logJSON,
	})
}
