package main

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/stuck-lehnert/cloud/internal/catalog"
	"github.com/stuck-lehnert/cloud/resource"
)

var (
	createData string

	modifyWhere   []string
	modifySet     []string
	modifyData    string
	modifyTargets string

	deleteWhere   []string
	deleteTargets string
	deleteYes     bool
)

var createCmd = &cobra.Command{
	Use:   "create <resource> <key=value>...",
	Short: "Create a record",
	Example: `  cloudctl create users firstName=Ada lastName=Lovelace email=ada@example.com
  cloudctl create projects --data @project.json`,
	Args: resourceArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := mergeData(args[1:], createData)
		if err != nil {
			return err
		}

		s, err := openSession(ctx, args[0], catalog.Scope{})
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		rec, err := s.handle.Create(ctx, data)
		if err != nil {
			return err
		}
		if !jsonOutput {
			success(cmd.ErrOrStderr(), "created %s", s.handle.Resource().Name())
		}
		return printRecords(cmd.OutOrStdout(), s.handle.Resource(), []resource.Record{rec}, nil)
	},
}

var modifyCmd = &cobra.Command{
	Use:   "modify <resource>",
	Short: "Modify matching records",
	Example: `  cloudctl modify users --where username=ada --set lastName=King
  cloudctl modify projects --targets '[{"id":"..."},{"id":"..."}]' --set archived=true`,
	Args: resourceArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := mergeData(modifySet, modifyData)
		if err != nil {
			return err
		}

		s, err := openSession(ctx, args[0], catalog.Scope{IncludeArchived: true})
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if modifyTargets != "" {
			targets, err := parseTargets(modifyTargets)
			if err != nil {
				return err
			}
			return reportBatch(cmd, s.handle.Resource(), "modified", len(targets), s.handle.ModifyEach(ctx, targets, data))
		}

		filter, err := parsePairs(modifyWhere)
		if err != nil {
			return err
		}
		records, err := s.handle.Modify(ctx, filter, data)
		if err != nil {
			return err
		}
		if !jsonOutput {
			success(cmd.ErrOrStderr(), "modified %d %s record(s)", len(records), s.handle.Resource().Name())
		}
		return printRecords(cmd.OutOrStdout(), s.handle.Resource(), records, nil)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <resource>",
	Short: "Delete matching records",
	Example: `  cloudctl delete projects --where id=... --yes
  cloudctl delete memberships --targets @leavers.json`,
	Args: resourceArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var (
			filter  map[string]any
			targets []map[string]any
			err     error
		)
		if deleteTargets != "" {
			targets, err = parseTargets(deleteTargets)
		} else {
			filter, err = parsePairs(deleteWhere)
		}
		if err != nil {
			return err
		}

		if !deleteYes {
			ok, err := confirm(fmt.Sprintf("Delete %s records matching %s?", args[0], describeDelete(filter, targets)))
			if err != nil {
				return err
			}
			if !ok {
				warning(cmd.ErrOrStderr(), "aborted")
				return nil
			}
		}

		s, err := openSession(ctx, args[0], catalog.Scope{IncludeArchived: true})
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if targets != nil {
			return reportBatch(cmd, s.handle.Resource(), "deleted", len(targets), s.handle.DeleteEach(ctx, targets))
		}

		records, err := s.handle.Delete(ctx, filter)
		if err != nil {
			return err
		}
		if !jsonOutput {
			success(cmd.ErrOrStderr(), "deleted %d %s record(s)", len(records), s.handle.Resource().Name())
		}
		return printRecords(cmd.OutOrStdout(), s.handle.Resource(), records, nil)
	},
}

func init() {
	createCmd.Flags().StringVar(&createData, "data", "", "JSON object of values, @file reads a file")

	m := modifyCmd.Flags()
	m.StringArrayVarP(&modifyWhere, "where", "w", nil, "equality filter as key=value (repeatable)")
	m.StringArrayVarP(&modifySet, "set", "s", nil, "new value as key=value (repeatable)")
	m.StringVar(&modifyData, "data", "", "JSON object of new values, @file reads a file")
	m.StringVar(&modifyTargets, "targets", "", "JSON array of filters, each modified on its own; @file reads a file")
	modifyCmd.MarkFlagsMutuallyExclusive("where", "targets")

	d := deleteCmd.Flags()
	d.StringArrayVarP(&deleteWhere, "where", "w", nil, "equality filter as key=value (repeatable)")
	d.StringVar(&deleteTargets, "targets", "", "JSON array of filters, each deleted on its own; @file reads a file")
	d.BoolVarP(&deleteYes, "yes", "y", false, "skip the confirmation prompt")
	deleteCmd.MarkFlagsMutuallyExclusive("where", "targets")
}

// confirm is replaced in tests.
var confirm = func(message string) (bool, error) {
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: message}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

func describeDelete(filter map[string]any, targets []map[string]any) string {
	if targets != nil {
		return fmt.Sprintf("%d targets", len(targets))
	}
	if len(filter) == 0 {
		return "no filter"
	}
	return fmt.Sprint(filter)
}

func reportBatch(cmd *cobra.Command, res *resource.Resource, verb string, targets int, result resource.BatchResult) error {
	printFailures(cmd.ErrOrStderr(), result)
	if !jsonOutput {
		success(cmd.ErrOrStderr(), "%s %d %s record(s), %d target(s) failed", verb, len(result.Succeeded), res.Name(), len(result.Failed))
	}
	if err := printRecords(cmd.OutOrStdout(), res, result.Succeeded, nil); err != nil {
		return err
	}
	return batchErr(result, targets)
}

// batchErr summarizes the failed targets out of n.
func batchErr(result resource.BatchResult, n int) error {
	if len(result.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d targets failed", len(result.Failed), n)
}
