package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"clubsphere-backend/internal/domain"
)

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateFooter = false
	tw.Style().Options.SeparateHeader = false
	tw.Style().Options.SeparateRows = false
	return tw
}

func renderClubs(clubs []domain.ClubView) string {
	tw := newTable()
	tw.AppendHeader(table.Row{"ID", "NAME", "MEMBERS", "CREATED BY", "STATUS"})
	for _, c := range clubs {
		tw.AppendRow(table.Row{c.ID, c.Name, c.MemberCount, c.CreatedBy.DisplayName(), clubStatus(c)})
	}
	return tw.Render()
}

func clubStatus(c domain.ClubView) string {
	switch {
	case c.IsUserMember:
		return "member"
	case c.HasPendingRequest:
		return "pending"
	default:
		return ""
	}
}

func renderClubDetail(c *domain.ClubView) string {
	tw := newTable()
	tw.AppendRows([]table.Row{
		{"ID", c.ID},
		{"NAME", c.Name},
		{"DESCRIPTION", c.Description},
		{"MEMBERS", c.MemberCount},
		{"CREATED BY", c.CreatedBy.DisplayName()},
		{"STATUS", clubStatus(*c)},
	})
	return tw.Render()
}

func renderRequests(reqs []domain.MembershipRequestView) string {
	tw := newTable()
	tw.AppendHeader(table.Row{"ID", "USER", "CLUB", "STATUS", "MESSAGE", "AGE"})
	for _, r := range reqs {
		tw.AppendRow(table.Row{r.ID, r.UserName(), r.ClubName(), r.Status, r.RequestMessage, age(r.CreatedAt)})
	}
	return tw.Render()
}

func renderEvents(events []domain.Event) string {
	tw := newTable()
	tw.AppendHeader(table.Row{"TITLE", "CLUB", "DATE", "TIME", "LOCATION"})
	for _, e := range events {
		tw.AppendRow(table.Row{e.Title, e.ClubName, e.Date, e.Time, e.Location})
	}
	return tw.Render()
}

func age(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t).Round(time.Minute)
	switch {
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func derefAll[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, *it)
		}
	}
	return out
}
