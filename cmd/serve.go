package cmd

import (
	"fmt"

	"leitfaden/server"
)

// ServeCmd starts the SSH server
type ServeCmd struct {
	Host string `help:"Host to bind the SSH server to" default:"0.0.0.0"`
	Port string `help:"Port to bind the SSH server to" default:"23234"`
}

// Run starts the SSH server and blocks until shutdown
func (s *ServeCmd) Run(cli *CLI) error {
	roster := cli.loadRoster()

	srv, err := server.NewServer(s.Host, s.Port, cli.DBPath, cli.settings, roster)
	if err != nil {
		return fmt.Errorf("failed to create SSH server: %w", err)
	}

	return srv.Start()
}
