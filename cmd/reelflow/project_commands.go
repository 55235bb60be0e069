package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelflow/internal/ipc"
)

func newProjectCommand(ctx *cliContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage production projects",
	}

	projectCmd.AddCommand(newProjectCreateCommand(ctx))
	projectCmd.AddCommand(newProjectListCommand(ctx))
	projectCmd.AddCommand(newProjectShowCommand(ctx))
	projectCmd.AddCommand(newProjectSetStatusCommand(ctx))
	projectCmd.AddCommand(newProjectArchiveCommand(ctx))
	projectCmd.AddCommand(newProjectDeleteCommand(ctx))
	projectCmd.AddCommand(newProjectStatsCommand(ctx))

	return projectCmd
}

func newProjectCreateCommand(ctx *cliContext) *cobra.Command {
	var clientName string
	var eventID string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ProjectCreate(ipc.ProjectCreateRequest{
					Name:    args[0],
					Client:  clientName,
					EventID: eventID,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", resp.Project.Name, resp.Project.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&clientName, "client", "", "Client name")
	cmd.Flags().StringVar(&eventID, "event", "", "Event identifier this project covers")
	return cmd
}

func newProjectListCommand(ctx *cliContext) *cobra.Command {
	var statuses []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ProjectList(ipc.ProjectListRequest{Statuses: statuses})
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, resp)
				}

				stdout := cmd.OutOrStdout()
				if len(resp.Projects) == 0 {
					fmt.Fprintln(stdout, "No projects")
					return nil
				}
				rows := make([][]string, 0, len(resp.Projects))
				for _, project := range resp.Projects {
					rows = append(rows, []string{
						project.ID,
						project.Name,
						project.Client,
						project.Status,
						fmt.Sprintf("%d", len(project.Videos)),
					})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"ID", "Name", "Client", "Status", "Videos"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")
	return cmd
}

func newProjectShowCommand(ctx *cliContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a project with its deliverables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ProjectDescribe(ipc.ProjectDescribeRequest{ID: args[0]})
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, resp)
				}

				project := resp.Project
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Project:  %s\n", project.Name)
				if project.Client != "" {
					fmt.Fprintf(stdout, "Client:   %s\n", project.Client)
				}
				if project.EventID != "" {
					fmt.Fprintf(stdout, "Event:    %s\n", project.EventID)
				}
				fmt.Fprintf(stdout, "Status:   %s\n", project.Status)
				fmt.Fprintf(stdout, "Timeline: %s\n", yesNo(len(project.Timeline) > 0))
				fmt.Fprintln(stdout)

				if len(project.Videos) == 0 {
					fmt.Fprintln(stdout, "No deliverables")
					return nil
				}
				rows := make([][]string, 0, len(project.Videos))
				for _, video := range project.Videos {
					active := ""
					for _, version := range video.Versions {
						if version.Active {
							active = version.Name
						}
					}
					rows = append(rows, []string{
						video.ID,
						video.Title,
						video.Status,
						fmt.Sprintf("%d", len(video.Versions)),
						active,
						fmt.Sprintf("%d", len(video.Comments)),
					})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"ID", "Title", "Status", "Versions", "Active", "Comments"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")
	return cmd
}

func newProjectSetStatusCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <project-id> <status>",
		Short: "Move a project to a new lifecycle state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ProjectSetStatus(ipc.ProjectSetStatusRequest{
					ID:     args[0],
					Status: strings.TrimSpace(args[1]),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Project %s is now %s\n", resp.Project.Name, resp.Project.Status)
				return nil
			})
		},
	}
}

func newProjectArchiveCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <project-id>",
		Short: "Archive a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ProjectSetStatus(ipc.ProjectSetStatusRequest{
					ID:     args[0],
					Status: "archived",
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Archived project %s\n", resp.Project.Name)
				return nil
			})
		},
	}
}

func newProjectDeleteCommand(ctx *cliContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to delete without --force")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.ProjectDelete(ipc.ProjectDeleteRequest{ID: args[0]}); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Project deleted")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm permanent deletion")
	return cmd
}

func newProjectStatsCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show project counts per lifecycle state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ProjectStats()
				if err != nil {
					return err
				}
				rows := buildStatsRows(resp.Stats)
				stdout := cmd.OutOrStdout()
				if len(rows) == 0 {
					fmt.Fprintln(stdout, "No projects")
					return nil
				}
				fmt.Fprintln(stdout, renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	}
}
