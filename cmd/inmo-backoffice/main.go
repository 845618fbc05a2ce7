package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "inmo-backoffice",
		Short:         "Property-management back-office operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		dashboardCmd(),
		overviewCmd(),
		exportCmd(),
		escalateCmd(),
		expireCmd(),
		receiptsCmd(),
		ticketsCmd(),
		resetCmd(),
		appearanceCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
