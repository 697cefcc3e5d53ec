package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oggyb/eventswipe/internal/api"
)

// NewInboxCommand creates the inbox command and its subcommands.
func NewInboxCommand(opts *RootOptions) *cobra.Command {
	var (
		page       string
		limit      int
		unreadOnly bool
	)

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "List notifications, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, ctx, done, err := connect(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			req := &api.ListNotificationsRequest{Limit: limit, UnreadOnly: unreadOnly}
			if page != "" {
				req.PaginationToken = &page
			}
			resp, err := api.NewInboxServiceClient(conn).List(ctx, req)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, resp, func(w io.Writer) error {
				return printNotifications(w, resp)
			})
		},
	}
	cmd.Flags().StringVar(&page, "page", "", "pagination token from a previous call")
	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "only unread notifications")

	cmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Show the unread count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, ctx, done, err := connect(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			resp, err := api.NewInboxServiceClient(conn).CountUnread(ctx, &api.Empty{})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, resp, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%d unread\n", resp.Count)
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "read [notification-id]",
		Short: "Mark one notification, or all of them, as read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, ctx, done, err := connect(cmd, opts)
			if err != nil {
				return err
			}
			defer done()

			client := api.NewInboxServiceClient(conn)
			if len(args) == 1 {
				if _, err := client.MarkRead(ctx, &api.MarkReadRequest{NotificationID: args[0]}); err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), opts, map[string]int{"updated": 1}, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, "marked read")
					return err
				})
			}
			resp, err := client.MarkAllRead(ctx, &api.Empty{})
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, resp, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%d marked read\n", resp.Updated)
				return err
			})
		},
	})

	return cmd
}
