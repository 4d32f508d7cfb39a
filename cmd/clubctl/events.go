package main

import (
	"github.com/spf13/cobra"

	"clubsphere-backend/internal/domain"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List and create events",
	}
	cmd.AddCommand(newEventsListCmd(), newEventsCreateCmd())
	return cmd
}

func newEventsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List events",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newProjection()
			if err := p.FetchEvents(cmd.Context(), token); err != nil {
				return err
			}
			cmd.Printf("%s\n", renderEvents(p.VisibleEvents()))
			return nil
		},
	}
}

func newEventsCreateCmd() *cobra.Command {
	var event domain.Event
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an event (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := newClient().CreateEvent(cmd.Context(), token, &event)
			if err != nil {
				return err
			}
			cmd.Printf("Created event %s (%s)\n", created.Title, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&event.Title, "title", "", "Title")
	cmd.Flags().StringVar(&event.Description, "description", "", "Description")
	cmd.Flags().StringVar(&event.Location, "location", "", "Location")
	cmd.Flags().StringVar(&event.ClubName, "club", "", "Club name")
	cmd.Flags().StringVar(&event.Date, "date", "", "Date")
	cmd.Flags().StringVar(&event.Time, "time", "", "Time")
	return cmd
}
