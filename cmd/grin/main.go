package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "grin",
		Short:   "CHESH terminal - market data, price tracking and AI for the Grin DAO",
		Version: version,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(trendingCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
