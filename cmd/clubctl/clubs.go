package main

import (
	"github.com/spf13/cobra"
)

func newClubsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clubs",
		Short: "Browse and join clubs",
	}
	cmd.AddCommand(newClubsListCmd(), newClubsGetCmd(), newClubsJoinCmd(), newClubsCreateCmd())
	return cmd
}

func newClubsListCmd() *cobra.Command {
	var mine bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List all clubs, or only the clubs you belong to",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newProjection()
			if mine {
				if err := p.FetchMyClubs(cmd.Context(), token); err != nil {
					return err
				}
				cmd.Printf("%s\n", renderClubs(p.VisibleMyClubs()))
				return nil
			}
			if err := p.FetchClubs(cmd.Context(), token); err != nil {
				return err
			}
			cmd.Printf("%s\n", renderClubs(p.VisibleClubs()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "Only clubs you are a member of")
	return cmd
}

func newClubsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get CLUB_ID",
		Short: "Show one club",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			club, err := newProjection().FindClub(cmd.Context(), token, args[0])
			if err != nil {
				return err
			}
			cmd.Printf("%s\n", renderClubDetail(club))
			return nil
		},
	}
}

func newClubsJoinCmd() *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "join CLUB_ID",
		Short: "Ask to join a club",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := newProjection().RequestMembership(cmd.Context(), token, args[0], message)
			if err != nil {
				return err
			}
			cmd.Printf("Request %s is %s\n", req.ID, req.Status)
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message to the club admins")
	return cmd
}

func newClubsCreateCmd() *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a club (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			club, err := newClient().CreateClub(cmd.Context(), token, name, description)
			if err != nil {
				return err
			}
			cmd.Printf("Created club %s (%s)\n", club.Name, club.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Club name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Club description")
	return cmd
}
