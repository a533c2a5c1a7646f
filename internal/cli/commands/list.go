package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/gestione-dev/gestione/internal/cli/client"
	"github.com/gestione-dev/gestione/internal/cli/screen"
)

// listOptions are the flags shared by every list command
type listOptions struct {
	page    int
	size    int
	refresh string
}

func (o *listOptions) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&o.size, "size", 0, "Page size (server default if not specified)")
	cmd.Flags().StringVar(&o.refresh, "refresh", "", "Reload on a cron schedule, e.g. '*/5 * * * *' or '@every 30s'")
}

// request converts the 1-based --page flag to the backend's 0-based index
func (o listOptions) request() (client.PageRequest, error) {
	if o.page < 1 {
		return client.PageRequest{}, fmt.Errorf("--page must be 1 or greater")
	}
	if o.size < 0 {
		return client.PageRequest{}, fmt.Errorf("--size must not be negative")
	}
	return client.PageRequest{Page: o.page - 1, Size: o.size}, nil
}

// runList loads once and then, with a refresh schedule, again on every tick
// until ctx is cancelled or the session is lost.
func (a *App) runList(ctx context.Context, name, refresh string, fn func(ctx context.Context) error) error {
	var schedule cron.Schedule
	if refresh != "" {
		var err error
		schedule, err = cron.ParseStandard(refresh)
		if err != nil {
			return fmt.Errorf("invalid --refresh schedule %q: %w", refresh, err)
		}
	}

	s := a.Screen(ctx, name)
	defer s.Close()

	if err := a.load(s, fn); err != nil {
		return err
	}
	if schedule == nil {
		return nil
	}

	return a.refresh(s, refresh, schedule, fn)
}

func (a *App) refresh(s *screen.Screen, spec string, schedule cron.Schedule, fn func(ctx context.Context) error) error {
	ticks := make(chan time.Time, 1)

	c := cron.New()
	c.Schedule(schedule, cron.FuncJob(func() {
		select {
		case ticks <- time.Now():
		default:
			// previous reload still pending
		}
	}))
	c.Start()
	defer func() { <-c.Stop().Done() }()

	fmt.Fprintf(a.Err, "Refreshing on schedule %q, press Ctrl+C to stop.\n", spec)

	for {
		select {
		case <-s.Context().Done():
			return nil
		case t := <-ticks:
			fmt.Fprintf(a.Out, "\n%s\n", t.Format("15:04:05"))

			err := a.load(s, fn)
			switch {
			case err == nil:
			case IsReported(err):
				return err
			case errors.Is(err, screen.ErrBusy), errors.Is(err, screen.ErrClosed):
				a.Logger.Debug().Err(err).Msg("Skipping refresh")
			default:
				fmt.Fprintf(a.Err, "Error: %v\n", err)
			}
		}
	}
}

// confirmDelete asks before deleting unless yes is set
func (a *App) confirmDelete(what string, id string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !a.Interactive {
		return false, fmt.Errorf("refusing to delete %s %s without confirmation (use --yes)", what, id)
	}
	return confirm(fmt.Sprintf("Delete %s %s", what, id)), nil
}
