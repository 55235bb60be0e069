package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelflow/internal/ipc"
)

func newCommentCommand(ctx *cliContext) *cobra.Command {
	commentCmd := &cobra.Command{
		Use:   "comment",
		Short: "Manage review comments on deliverables",
	}

	commentCmd.AddCommand(newCommentAddCommand(ctx))
	commentCmd.AddCommand(newCommentReplyCommand(ctx))
	commentCmd.AddCommand(newCommentResolveCommand(ctx))
	commentCmd.AddCommand(newCommentListCommand(ctx))

	return commentCmd
}

func newCommentAddCommand(ctx *cliContext) *cobra.Command {
	var user ipc.User
	var timestamp float64

	cmd := &cobra.Command{
		Use:   "add <project-id> <deliverable-id> <content>",
		Short: "Add a timestamped comment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.CommentAdd(ipc.CommentAddRequest{
					ProjectID:     args[0],
					DeliverableID: args[1],
					Content:       args[2],
					Timestamp:     timestamp,
					User:          user,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Comment added (%s)\n", resp.Comment.ID)
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&timestamp, "at", 0, "Video timestamp in seconds")
	addUserFlags(cmd, &user)
	return cmd
}

func newCommentReplyCommand(ctx *cliContext) *cobra.Command {
	var user ipc.User

	cmd := &cobra.Command{
		Use:   "reply <project-id> <deliverable-id> <comment-id> <content>",
		Short: "Reply to an existing comment",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.CommentReply(ipc.CommentReplyRequest{
					ProjectID:     args[0],
					DeliverableID: args[1],
					ParentID:      args[2],
					Content:       args[3],
					User:          user,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reply added (%s)\n", resp.Comment.ID)
				return nil
			})
		},
	}

	addUserFlags(cmd, &user)
	return cmd
}

func newCommentResolveCommand(ctx *cliContext) *cobra.Command {
	var reopen bool

	cmd := &cobra.Command{
		Use:   "resolve <project-id> <deliverable-id> <comment-id>",
		Short: "Resolve a comment (or reopen it with --reopen)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.CommentResolve(ipc.CommentResolveRequest{
					ProjectID:     args[0],
					DeliverableID: args[1],
					CommentID:     args[2],
					Resolved:      !reopen,
				})
				if err != nil {
					return err
				}
				if resp.Resolved {
					fmt.Fprintln(cmd.OutOrStdout(), "Comment resolved")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Comment reopened")
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&reopen, "reopen", false, "Reopen the comment instead of resolving it")
	return cmd
}

func newCommentListCommand(ctx *cliContext) *cobra.Command {
	var openOnly bool
	var resolvedOnly bool
	var search string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list <project-id> <deliverable-id>",
		Short: "List comments on a deliverable",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if openOnly && resolvedOnly {
				return fmt.Errorf("--open and --resolved are mutually exclusive")
			}
			var resolved *bool
			if openOnly {
				value := false
				resolved = &value
			}
			if resolvedOnly {
				value := true
				resolved = &value
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.CommentList(ipc.CommentListRequest{
					ProjectID:     args[0],
					DeliverableID: args[1],
					Resolved:      resolved,
					SearchText:    search,
				})
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, resp)
				}

				stdout := cmd.OutOrStdout()
				if len(resp.Comments) == 0 {
					fmt.Fprintln(stdout, "No comments")
					return nil
				}
				rows := make([][]string, 0, len(resp.Comments))
				for _, comment := range resp.Comments {
					state := "open"
					if comment.Resolved {
						state = "resolved"
					}
					rows = append(rows, []string{
						comment.ID,
						formatTimestamp(comment.Timestamp),
						comment.UserName,
						state,
						comment.Content,
					})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"ID", "At", "Author", "State", "Content"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&openOnly, "open", false, "Only unresolved comments")
	cmd.Flags().BoolVar(&resolvedOnly, "resolved", false, "Only resolved comments")
	cmd.Flags().StringVar(&search, "search", "", "Filter comments by content text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")
	return cmd
}

// formatTimestamp renders a video position in m:ss form.
func formatTimestamp(seconds float64) string {
	whole := int(seconds)
	return fmt.Sprintf("%d:%02d", whole/60, whole%60)
}
