package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the database connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		start := time.Now()
		c, err := openClient(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		if err := c.Ping(ctx); err != nil {
			return fmt.Errorf("ping failed: %w", err)
		}
		success(cmd.OutOrStdout(), "%s database reachable (%s)", c.Provider(), time.Since(start).Round(time.Millisecond))
		return nil
	},
}
