package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stuck-lehnert/cloud/internal/catalog"
	"github.com/stuck-lehnert/cloud/resource"
)

var (
	findWhere    []string
	findInclude  []string
	findLimit    int
	findOffset   int
	findArchived bool
)

var findCmd = &cobra.Command{
	Use:   "find <resource>",
	Short: "List records of a resource",
	Example: `  # Users with their groups
  cloudctl find users --include groups

  # Second page of archived projects
  cloudctl find projects --archived --limit 20 --offset 20`,
	Args: resourceArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		filter, err := parsePairs(findWhere)
		if err != nil {
			return err
		}
		opts := resource.FindOptions{Include: findInclude}
		if cmd.Flags().Changed("limit") {
			opts.Limit = &findLimit
		}
		if cmd.Flags().Changed("offset") {
			opts.Offset = &findOffset
		}

		s, err := openSession(ctx, args[0], catalog.Scope{IncludeArchived: findArchived})
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		records, err := s.handle.FindMany(ctx, filter, opts)
		if err != nil {
			return err
		}
		return printRecords(cmd.OutOrStdout(), s.handle.Resource(), records, findInclude)
	},
}

var (
	getInclude  []string
	getArchived bool
)

var getCmd = &cobra.Command{
	Use:   "get <resource> <key=value>...",
	Short: "Show one record by primary key",
	Example: `  cloudctl get users id=0b6c7a1e-8f3d-4c2a-9d5e-1f2a3b4c5d6e --include groups
  cloudctl get memberships groupId=... userId=...`,
	Args: resourceArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		key, err := parsePairs(args[1:])
		if err != nil {
			return err
		}

		s, err := openSession(ctx, args[0], catalog.Scope{IncludeArchived: getArchived})
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		rec, err := s.handle.FindUnique(ctx, key, resource.FindOptions{Include: getInclude})
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("%s %v not found", s.handle.Resource().Name(), key)
		}
		return printRecords(cmd.OutOrStdout(), s.handle.Resource(), []resource.Record{rec}, getInclude)
	},
}

func init() {
	f := findCmd.Flags()
	f.StringArrayVarP(&findWhere, "where", "w", nil, "equality filter as key=value (repeatable)")
	f.StringSliceVarP(&findInclude, "include", "i", nil, "references to load")
	f.IntVar(&findLimit, "limit", 0, "maximum number of records")
	f.IntVar(&findOffset, "offset", 0, "number of records to skip")
	f.BoolVar(&findArchived, "archived", false, "include archived projects")

	g := getCmd.Flags()
	g.StringSliceVarP(&getInclude, "include", "i", nil, "references to load")
	g.BoolVar(&getArchived, "archived", false, "include archived projects")
}
