// Command gbmon keeps a persistent connection to a Groove Basin server and
// reports its health: connection state, reconnects, and measured
// client/server clock lag, exposed as logs and Prometheus metrics.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gbmon",
		Short: "Groove Basin connection monitor",
		Long: `gbmon maintains a persistent connection to a Groove Basin server
and keeps it healthy: it reconnects on a fixed delay when the link
drops, runs the keepalive protocol, and measures client/server clock
lag. State transitions are logged and exported as Prometheus metrics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		watchCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
