package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pulsehr/internal/api"
	"github.com/felixgeelhaar/pulsehr/internal/ux"
)

func newFeedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Submit and review feedback",
		Long: `Employees submit feedback, complaints and suggestions, optionally
anonymously, and list what they sent. Admins list everything submitted.`,
	}
	cmd.AddCommand(newFeedbackListCmd(), newFeedbackSubmitCmd(), newFeedbackPendingCmd())
	return cmd
}

func feedbackTable(list []api.Feedback) ux.Table {
	t := ux.Table{
		Header: []string{"ID", "From", "Type", "Subject", "Status", "Date"},
		Empty:  "No feedback found",
	}
	for _, fb := range list {
		t.Rows = append(t.Rows, []string{
			fb.ID, fb.Author(), string(fb.Type), fb.Subject, api.OrDash(fb.Status), api.FormatDate(fb.CreatedAt),
		})
	}
	return t
}

func newFeedbackListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, user, err := d.session(ctx)
			if err != nil {
				return err
			}

			var list []api.Feedback
			if user.Role.IsAdmin() {
				list, err = client.ListFeedback(ctx)
			} else {
				list, err = client.MyFeedback(ctx)
			}
			if err != nil {
				return d.coded(err)
			}
			if list == nil {
				list = []api.Feedback{}
			}
			return d.emit(list, feedbackTable(list))
		},
	}
}

func newFeedbackSubmitCmd() *cobra.Command {
	var (
		req    api.FeedbackRequest
		fbType string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Send feedback",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, _, err := d.session(ctx)
			if err != nil {
				return err
			}
			req.Type = api.FeedbackType(fbType)
			if err := client.SubmitFeedback(ctx, req); err != nil {
				return actionError(d, err, "Failed to submit feedback")
			}
			return d.done("Feedback submitted successfully!")
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&fbType, "type", string(api.FeedbackGeneral), "feedback, complaint or suggestion")
	flags.StringVar(&req.Subject, "subject", "", "subject")
	flags.StringVarP(&req.Message, "message", "m", "", "message")
	flags.BoolVar(&req.IsAnonymous, "anonymous", false, "hide your name from reviewers")
	return cmd
}

type pendingFeedback struct {
	Count int `json:"count" yaml:"count"`
}

func newFeedbackPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "Count feedback awaiting review (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := depsFrom(cmd)
			ctx := cmd.Context()
			client, _, err := d.admin(ctx, "Reviewing feedback")
			if err != nil {
				return err
			}
			n, err := client.PendingFeedbackCount(ctx)
			if err != nil {
				return d.coded(err)
			}
			return d.emit(pendingFeedback{Count: n}, ux.Fields{{Label: "Pending feedback", Value: strconv.Itoa(n)}})
		},
	}
}
