package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var resetVisitor bool

func newVisitorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visitor",
		Short: "Show the persisted visitor and session state",
		Args:  cobra.NoArgs,
		RunE:  runVisitor,
	}
	cmd.Flags().BoolVar(&resetVisitor, "reset", false, "Forget the visitor id and session counters")
	return cmd
}

func runVisitor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if resetVisitor {
		if err := defaults.Reset(); err != nil {
			return fmt.Errorf("reset visitor: %w", err)
		}
		printSuccess(out, "visitor state cleared")
		return nil
	}

	v, err := defaults.Visitor()
	if err != nil {
		return fmt.Errorf("read visitor: %w", err)
	}
	s, err := defaults.Session()
	if err != nil {
		return fmt.Errorf("read session: %w", err)
	}

	printHeading(out, "VISITOR")
	printField(out, "ID", v.ID)
	if v.UserID != "" {
		printField(out, "User ID", v.UserID)
	}
	printField(out, "Sessions", strconv.Itoa(s.SessionsCount))
	printField(out, "First visit", s.FirstVisit.Format(time.RFC3339))
	printField(out, "Last visit", s.LastVisit.Format(time.RFC3339))
	return nil
}
