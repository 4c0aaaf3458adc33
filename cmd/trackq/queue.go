package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newCountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of queued events",
		Args:  cobra.NoArgs,
		RunE:  runCount,
	}
}

func runCount(cmd *cobra.Command, args []string) error {
	n, err := events.Count()
	if err != nil {
		return fmt.Errorf("count events: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), n)
	return nil
}

var peekLimit int

func newPeekCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peek",
		Short: "Show the events at the head of the queue",
		Long:  "Show the oldest queued events without removing them.",
		Args:  cobra.NoArgs,
		RunE:  runPeek,
	}
	cmd.Flags().IntVarP(&peekLimit, "limit", "n", 10, "Maximum number of events to show")
	return cmd
}

func runPeek(cmd *cobra.Command, args []string) error {
	head, err := events.First(peekLimit)
	if err != nil {
		return fmt.Errorf("read events: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(head) == 0 {
		fmt.Fprintln(out, mutedStyle.Render("queue is empty"))
		return nil
	}

	for i, e := range head {
		printHeading(out, fmt.Sprintf("#%d %s", i+1, e.ID()))
		printField(out, "Date", e.Date.Format(time.RFC3339))
		printField(out, "Site", e.SiteID)
		printField(out, "Visitor", e.Visitor.ID)
		if len(e.ActionName) > 0 {
			printField(out, "Action", strings.Join(e.ActionName, "/"))
		}
		if e.URL != "" {
			printField(out, "URL", e.URL)
		}
		if e.EventCategory != "" {
			printField(out, "Event", e.EventCategory+" / "+e.EventAction)
		}
		if e.EventValue != nil {
			printField(out, "Value", strconv.FormatFloat(*e.EventValue, 'g', -1, 64))
		}
		if e.IsNewSession {
			printField(out, "New session", "yes")
		}
	}
	return nil
}

func newClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard every queued event",
		Args:  cobra.NoArgs,
		RunE:  runClear,
	}
}

func runClear(cmd *cobra.Command, args []string) error {
	if err := events.Reset(); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	printSuccess(cmd.OutOrStdout(), fmt.Sprintf("cleared queue %q", events.Key()))
	return nil
}
