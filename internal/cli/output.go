package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/oggyb/eventswipe/internal/api"
)

// render writes v as indented JSON, or through text for the text format.
func render(w io.Writer, opts *RootOptions, v any, text func(io.Writer) error) error {
	if opts.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(w)
}

func printFeed(w io.Writer, resp *api.FetchFeedResponse) error {
	if len(resp.Events) == 0 {
		if resp.NoMoreEvents {
			_, err := fmt.Fprintln(w, "No more events.")
			return err
		}
		_, err := fmt.Fprintln(w, "No events right now.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBY\tWHEN\tDISTANCE\tSPOTS")
	for _, c := range resp.Events {
		distance := "-"
		if c.DistanceKm != nil {
			distance = fmt.Sprintf("%.1f km", *c.DistanceKm)
		}
		spots := "unlimited"
		if c.Event.Capacity >= 0 {
			spots = fmt.Sprintf("%d/%d", c.Event.ParticipantCount, c.Event.Capacity)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Event.ID, c.Event.Name, c.CreatorName, c.TimeLeft.Label, distance, spots)
	}
	if resp.Partial {
		fmt.Fprintln(tw, "(partial: the server could not scan every page)")
	}
	return tw.Flush()
}

func printNotifications(w io.Writer, resp *api.ListNotificationsResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tREAD\tTITLE\tCONTENT")
	for _, n := range resp.Notifications {
		read := " "
		if n.Read {
			read = "x"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.ID, read, n.Title, strings.ReplaceAll(n.Content, "\n", " "))
	}
	if resp.NextPaginationToken != nil {
		fmt.Fprintf(tw, "next page: --page %s\n", *resp.NextPaginationToken)
	}
	return tw.Flush()
}
