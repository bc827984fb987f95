// Package main is the command line front end for provisioning a beacon
// simulator without running the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:           "beacon-deploy",
		Short:         "Provision the beacon simulator on a Raspberry Pi over SSH",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(deployCommand(), checkCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
