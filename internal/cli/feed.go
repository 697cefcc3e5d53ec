package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oggyb/eventswipe/internal/api"
)

// NewFeedCommand creates the feed command.
func NewFeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "Show the next batch of events to swipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, ctx, done, err := connect(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			resp, err := api.NewFeedServiceClient(conn).FetchFeed(ctx, &api.FetchFeedRequest{})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, resp, func(w io.Writer) error {
				return printFeed(w, resp)
			})
		},
	}
}

type relationAction struct {
	name  string
	short string
	call  func(c api.FeedServiceClient, ctx context.Context, in *api.EventRequest) (*api.RelationResponse, error)
}

var relationActions = []relationAction{
	{"join", "Join an event", func(c api.FeedServiceClient, ctx context.Context, in *api.EventRequest) (*api.RelationResponse, error) {
		return c.Join(ctx, in)
	}},
	{"like", "Save an event to the liked tab", func(c api.FeedServiceClient, ctx context.Context, in *api.EventRequest) (*api.RelationResponse, error) {
		return c.Like(ctx, in)
	}},
	{"dislike", "Hide an event for good", func(c api.FeedServiceClient, ctx context.Context, in *api.EventRequest) (*api.RelationResponse, error) {
		return c.Dislike(ctx, in)
	}},
	{"leave", "Leave a joined event", func(c api.FeedServiceClient, ctx context.Context, in *api.EventRequest) (*api.RelationResponse, error) {
		return c.Leave(ctx, in)
	}},
}

// NewRelationCommand creates one of the join/like/dislike/leave commands.
func NewRelationCommand(opts *RootOptions, action relationAction) *cobra.Command {
	return &cobra.Command{
		Use:   action.name + " <event-id>",
		Short: action.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, ctx, done, err := connect(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			resp, err := action.call(api.NewFeedServiceClient(conn), ctx, &api.EventRequest{EventID: args[0]})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, resp, func(w io.Writer) error {
				if !resp.Changed {
					_, err := fmt.Fprintf(w, "%s: already %s\n", resp.EventName, resp.To)
					return err
				}
				_, err := fmt.Fprintf(w, "%s: %s\n", resp.EventName, resp.To)
				return err
			})
		},
	}
}
