package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/omegasovereign/omega/gate/internal/probe"
)

var probeServer string

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Summarize a running server's telemetry and metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := probe.New(probeServer, nil).Probe(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if res.Telemetry != nil && res.Telemetry.Status == "GHOST_MODE" {
			fmt.Fprintln(out, color.New(color.FgRed, color.Bold).Sprint("GHOST MODE ACTIVE"))
		} else if res.Telemetry != nil {
			fmt.Fprintln(out, color.New(color.FgGreen).Sprint("PROTECTED"))
		}
		probe.Render(out, res)
		return nil
	},
}

func init() {
	probeCmd.Flags().StringVar(&probeServer, "server", "http://localhost:10000", "base URL of the omega server")
	rootCmd.AddCommand(probeCmd)
}
