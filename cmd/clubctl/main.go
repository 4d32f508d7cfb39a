// Package main is the entry point of the ClubSphere CLI.
package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"clubsphere-backend/internal/client"
	"clubsphere-backend/internal/logger"
)

const (
	envServer = "CLUBSPHERE_SERVER"
	envToken  = "CLUBSPHERE_TOKEN"
)

var (
	serverURL string
	token     string
	timeout   time.Duration
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "clubctl",
	Short: "Command line client for the ClubSphere API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.InitializeWithWriter(os.Stderr, logLevel, "text")
	},
	SilenceUsage: true,
}

func newClient() *client.Client {
	return client.New(serverURL, client.WithTimeout(timeout))
}

// newProjection returns a session-scoped projection over the configured server.
func newProjection() *client.Projection {
	return client.NewProjection(newClient())
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr(envServer, "http://localhost:8000"), "Base URL of the ClubSphere API (env "+envServer+")")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv(envToken), "Access token (env "+envToken+")")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newClubsCmd())
	rootCmd.AddCommand(newRequestsCmd())
	rootCmd.AddCommand(newEventsCmd())
}
