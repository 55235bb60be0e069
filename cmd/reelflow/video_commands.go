package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelflow/internal/ipc"
)

func newVideoCommand(ctx *cliContext) *cobra.Command {
	videoCmd := &cobra.Command{
		Use:   "video",
		Short: "Manage video deliverables and their review cycle",
	}

	videoCmd.AddCommand(newVideoAddCommand(ctx))
	videoCmd.AddCommand(newVideoUploadCommand(ctx))
	videoCmd.AddCommand(newVideoActivateCommand(ctx))
	videoCmd.AddCommand(newVideoApproveVersionCommand(ctx))
	videoCmd.AddCommand(newVideoReadyCommand(ctx))
	videoCmd.AddCommand(newVideoApproveCommand(ctx))
	videoCmd.AddCommand(newVideoRequestChangesCommand(ctx))

	return videoCmd
}

func addUserFlags(cmd *cobra.Command, user *ipc.User) {
	cmd.Flags().StringVar(&user.ID, "user-id", "", "Acting user identifier")
	cmd.Flags().StringVar(&user.Name, "user-name", "", "Acting user display name")
}

func newVideoAddCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <project-id> <title>",
		Short: "Add a deliverable to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.DeliverableAdd(ipc.DeliverableAddRequest{
					ProjectID: args[0],
					Title:     args[1],
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added deliverable %s (%s)\n", resp.Deliverable.Title, resp.Deliverable.ID)
				return nil
			})
		},
	}
}

func newVideoUploadCommand(ctx *cliContext) *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "upload <project-id> <deliverable-id> <version-name>",
		Short: "Register an uploaded cut of a deliverable",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.VersionUpload(ipc.VersionUploadRequest{
					ProjectID:     args[0],
					DeliverableID: args[1],
					Name:          args[2],
					URL:           url,
				})
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Uploaded version %s (%s)\n", resp.Version.Name, resp.Version.ID)
				if resp.Version.Active {
					fmt.Fprintln(stdout, "Version is now active")
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Playback URL for the uploaded cut")
	return cmd
}

func newVideoActivateCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <project-id> <deliverable-id> <version-id>",
		Short: "Make a version the active cut",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				_, err := client.VersionSetActive(ipc.VersionActionRequest{
					ProjectID:     args[0],
					DeliverableID: args[1],
					VersionID:     args[2],
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Version activated")
				return nil
			})
		},
	}
}

func newVideoApproveVersionCommand(ctx *cliContext) *cobra.Command {
	var user ipc.User

	cmd := &cobra.Command{
		Use:   "approve-version <project-id> <deliverable-id> <version-id>",
		Short: "Approve a specific version",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				_, err := client.VersionApprove(ipc.VersionActionRequest{
					ProjectID:     args[0],
					DeliverableID: args[1],
					VersionID:     args[2],
					User:          user,
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Version approved")
				return nil
			})
		},
	}

	addUserFlags(cmd, &user)
	return cmd
}

func newVideoReadyCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ready <project-id> <deliverable-id>",
		Short: "Mark a deliverable ready for client review",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.DeliverableMarkReady(ipc.DeliverableActionRequest{
					ProjectID:     args[0],
					DeliverableID: args[1],
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deliverable %s is ready for review\n", resp.Deliverable.Title)
				return nil
			})
		},
	}
}

func newVideoApproveCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "approve <project-id> <deliverable-id>",
		Short: "Mark a deliverable approved (requires an approved version)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.DeliverableMarkApproved(ipc.DeliverableActionRequest{
					ProjectID:     args[0],
					DeliverableID: args[1],
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deliverable %s approved\n", resp.Deliverable.Title)
				return nil
			})
		},
	}
}

func newVideoRequestChangesCommand(ctx *cliContext) *cobra.Command {
	var user ipc.User
	var comment string

	cmd := &cobra.Command{
		Use:   "request-changes <project-id> <deliverable-id>",
		Short: "Send a deliverable back to editing with change requests",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.DeliverableRequestChanges(ipc.DeliverableActionRequest{
					ProjectID:     args[0],
					DeliverableID: args[1],
					Comment:       comment,
					User:          user,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Changes requested on %s\n", resp.Deliverable.Title)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "Change request note attached to the deliverable")
	addUserFlags(cmd, &user)
	return cmd
}
