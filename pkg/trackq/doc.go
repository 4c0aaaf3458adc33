// Package trackq is an offline-first event tracker for analytics clients.
//
// A Tracker builds events that snapshot the visitor and session state at
// the moment of the action, and buffers them in a queue.Queue until a
// Sender confirms delivery. Nothing is ever sent from the track calls
// themselves: Dispatch drains the queue in batches, removing events only
// after the sender accepted them.
//
// # Quick Start
//
//	s, err := store.NewSQLiteStore("./tracker.db")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	q := queue.NewDurableQueue(s)
//	t, err := trackq.New("7", q, identity.NewDefaults(s),
//	    trackq.WithBaseURL("https://example.com/app"),
//	)
//	if err != nil {
//	    return err
//	}
//
//	_ = t.TrackView("menu", "settings")
//
//	sent, err := t.Dispatch(ctx, sender)
//
// # Sessions
//
// The first event after New or StartNewSession carries IsNewSession. That
// flag clears once such an event has been enqueued.
//
// # Dimensions
//
// Dimensions set on the tracker are prepended to the dimensions of each
// action, in order. Duplicate indices are kept; the server decides.
//
// # Observability
//
// WithLogger, WithMetrics and WithSpanManager enable structured logging,
// OpenTelemetry metrics and dispatch tracing. All default to disabled.
package trackq
