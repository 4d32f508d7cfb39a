package main

import (
	"github.com/spf13/cobra"
)

func newRequestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Review membership requests",
	}
	cmd.AddCommand(newRequestsListCmd(), newRequestsDecideCmd("approve"), newRequestsDecideCmd("reject"))
	return cmd
}

func newRequestsListCmd() *cobra.Command {
	var clubID string
	var mine bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List pending requests (admin), or your own requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			if mine {
				reqs, err := newClient().ListMyRequests(cmd.Context(), token)
				if err != nil {
					return err
				}
				cmd.Printf("%s\n", renderRequests(derefAll(reqs)))
				return nil
			}

			p := newProjection()
			if err := p.FetchPendingRequests(cmd.Context(), token, clubID); err != nil {
				return err
			}
			cmd.Printf("%s\n", renderRequests(p.VisibleRequests()))
			return nil
		},
	}
	cmd.Flags().StringVar(&clubID, "club", "", "Only requests for this club")
	cmd.Flags().BoolVar(&mine, "mine", false, "Your own requests, any status")
	cmd.MarkFlagsMutuallyExclusive("club", "mine")
	return cmd
}

func newRequestsDecideCmd(action string) *cobra.Command {
	return &cobra.Command{
		Use:   action + " REQUEST_ID",
		Short: "Mark a pending request " + action + "d (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newProjection()
			decide := p.ApproveRequest
			if action == "reject" {
				decide = p.RejectRequest
			}
			req, err := decide(cmd.Context(), token, args[0])
			if err != nil {
				return err
			}
			cmd.Printf("Request %s is %s\n", req.ID, req.Status)
			if remaining := p.VisibleRequests(); len(remaining) > 0 {
				cmd.Printf("\n%s\n", renderRequests(remaining))
			}
			return nil
		},
	}
}
