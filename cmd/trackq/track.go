package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/trackq/pkg/trackq"
)

var (
	trackSite       string
	trackAction     string
	trackURL        string
	trackCategory   string
	trackEvent      string
	trackName       string
	trackValue      float64
	trackNewSession bool
)

func newTrackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Append one event to the queue",
		Long: `Append one view or event to the queue, built the same way a tracker
would build it. Useful for exercising a dispatcher by hand.`,
		Example: `  trackq track --site 7 --action menu/settings
  trackq track --site 7 --category player --event pause --value 12.5`,
		Args: cobra.NoArgs,
		RunE: runTrack,
	}

	cmd.Flags().StringVar(&trackSite, "site", "", "Site ID (default tracker.site_id from config)")
	cmd.Flags().StringVar(&trackAction, "action", "", "Slash-separated action path, e.g. menu/settings")
	cmd.Flags().StringVar(&trackURL, "url", "", "Explicit event URL")
	cmd.Flags().StringVar(&trackCategory, "category", "", "Event category")
	cmd.Flags().StringVar(&trackEvent, "event", "", "Event action")
	cmd.Flags().StringVar(&trackName, "name", "", "Event name")
	cmd.Flags().Float64Var(&trackValue, "value", 0, "Event value")
	cmd.Flags().BoolVar(&trackNewSession, "new-session", false, "Start a new session and flag the event as its first")

	return cmd
}

func runTrack(cmd *cobra.Command, args []string) error {
	trackerCfg := cfg.Sub("tracker")

	site := trackSite
	if site == "" {
		site = trackerCfg.String("site_id", "")
	}

	opts := append(trackq.OptionsFromConfig(trackerCfg), trackq.WithLogger(logger))
	if !trackNewSession {
		opts = append(opts, trackq.WithResumedSession())
	}
	t, err := trackq.New(site, events, defaults, opts...)
	if err != nil {
		return err
	}

	if trackNewSession {
		if err := t.StartNewSession(); err != nil {
			return err
		}
	}

	a := trackq.Action{
		URL:           trackURL,
		EventCategory: trackCategory,
		EventAction:   trackEvent,
		EventName:     trackName,
	}
	if trackAction != "" {
		a.Path = strings.Split(strings.Trim(trackAction, "/"), "/")
	}
	if cmd.Flags().Changed("value") {
		v := trackValue
		a.EventValue = &v
	}
	if len(a.Path) == 0 && a.EventCategory == "" {
		return fmt.Errorf("either --action or --category is required")
	}

	if err := t.Track(a); err != nil {
		return err
	}

	n, err := events.Count()
	if err != nil {
		return fmt.Errorf("count events: %w", err)
	}
	printSuccess(cmd.OutOrStdout(), fmt.Sprintf("queued event for site %s (%d in queue)", t.SiteID(), n))
	return nil
}
