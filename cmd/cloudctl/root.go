package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stuck-lehnert/cloud/internal/catalog"
	"github.com/stuck-lehnert/cloud/internal/config"
	"github.com/stuck-lehnert/cloud/internal/debug"
	"github.com/stuck-lehnert/cloud/resource"
	"github.com/stuck-lehnert/cloud/runtime/client"
)

var (
	// Set during PersistentPreRunE
	cfg *config.Config

	// Persistent flags
	cfgFile     string
	debugFlag   bool
	databaseURL string
	provider    string
	jsonOutput  bool
)

var rootCmd = &cobra.Command{
	Use:   "cloudctl",
	Short: "Query and edit cloud resources",
	Long: `cloudctl - query and edit the users, groups, memberships and projects
of the cloud database.

Filters and values are given as key=value pairs using attribute names.
An empty value (key=) stands for NULL.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		applyFlags(cmd, loaded)
		cfg = loaded

		debug.Init(cfg.Debug)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default: auto-discover .cloud.yaml)")
	f.BoolVar(&debugFlag, "debug", false, "log queries to stderr")
	f.StringVar(&databaseURL, "database-url", "", "database connection string")
	f.StringVar(&provider, "provider", "", "database provider (postgres, pgx, sqlite)")
	f.BoolVar(&jsonOutput, "json", false, "print records as JSON")

	rootCmd.AddCommand(pingCmd, findCmd, getCmd, createCmd, modifyCmd, deleteCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// applyFlags lets explicitly set flags win over file and environment values.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("debug") {
		c.Debug = debugFlag
	}
	if f.Changed("database-url") {
		c.DatabaseURL = databaseURL
	}
	if f.Changed("provider") {
		c.Provider = provider
	}
}

// openClient connects to the configured database. Queries are logged
// through the debug logger.
func openClient(ctx context.Context) (*client.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c, err := client.Open(ctx, cfg.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	c.Use(client.LoggingMiddleware(debug.Logger()))
	return c, nil
}

// lookupResource finds a catalog resource by name or table name, ignoring
// case.
func lookupResource(g *resource.Registry, name string) (*resource.Resource, error) {
	for _, n := range g.Names() {
		res, _ := g.Lookup(n)
		if strings.EqualFold(n, name) || strings.EqualFold(res.Table(), name) {
			return res, nil
		}
	}
	return nil, fmt.Errorf("unknown resource %q (known: %s)", name, strings.Join(g.Names(), ", "))
}

// session bundles what a resource command needs.
type session struct {
	client *client.Client
	handle *resource.Handle
}

func (s *session) Close() error {
	return s.client.Close()
}

func openSession(ctx context.Context, name string, scope catalog.Scope) (*session, error) {
	g, err := catalog.Registry()
	if err != nil {
		return nil, err
	}
	res, err := lookupResource(g, name)
	if err != nil {
		return nil, err
	}

	c, err := openClient(ctx)
	if err != nil {
		return nil, err
	}
	h := res.Bind(c, scope).WithConcurrency(cfg.BatchConcurrency)
	return &session{client: c, handle: h}, nil
}

func resourceArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%s requires a resource name", cmd.Name())
	}
	return nil
}
