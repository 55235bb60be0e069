package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"reelflow/internal/ipc"
	"reelflow/internal/schedule"
)

func newTimelineCommand(ctx *cliContext) *cobra.Command {
	timelineCmd := &cobra.Command{
		Use:   "timeline",
		Short: "Inspect and manage event timelines",
	}

	timelineCmd.AddCommand(newTimelineShowCommand(ctx))
	timelineCmd.AddCommand(newTimelineGenerateCommand(ctx))
	timelineCmd.AddCommand(newTimelineImportCommand(ctx))

	return timelineCmd
}

func newTimelineShowCommand(ctx *cliContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <event-id>",
		Short: "Show the timeline for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TimelineGet(ipc.TimelineGetRequest{EventID: args[0]})
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd, resp)
				}

				var phases []schedule.Phase
				if err := json.Unmarshal(resp.Phases, &phases); err != nil {
					return fmt.Errorf("decode phases: %w", err)
				}

				stdout := cmd.OutOrStdout()
				if resp.Generated {
					fmt.Fprintln(stdout, "Timeline generated on the fly (not yet saved)")
				}
				if len(phases) == 0 {
					fmt.Fprintln(stdout, "No timeline phases")
					return nil
				}
				rows := make([][]string, 0, len(phases))
				for _, phase := range phases {
					rows = append(rows, []string{
						phase.Name,
						string(phase.Type),
						phase.StartDate,
						phase.EndDate,
						fmt.Sprintf("%d", len(phase.Tasks)),
					})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"Phase", "Type", "Start", "End", "Tasks"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output raw JSON")
	return cmd
}

func newTimelineGenerateCommand(ctx *cliContext) *cobra.Command {
	var briefingFile string

	cmd := &cobra.Command{
		Use:   "generate <event-id>",
		Short: "Generate and persist a timeline from the event briefing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var briefing json.RawMessage
			if strings.TrimSpace(briefingFile) != "" {
				data, err := os.ReadFile(briefingFile)
				if err != nil {
					return fmt.Errorf("read briefing file: %w", err)
				}
				briefing = data
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TimelineGenerate(ipc.TimelineGenerateRequest{
					EventID:  args[0],
					Briefing: briefing,
				})
				if err != nil {
					return err
				}
				var phases []schedule.Phase
				if err := json.Unmarshal(resp.Phases, &phases); err != nil {
					return fmt.Errorf("decode phases: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Timeline generated with %d phases\n", len(phases))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&briefingFile, "briefing", "", "JSON file with briefing data overriding the filed snapshot")
	return cmd
}

func newTimelineImportCommand(ctx *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <event-id> <phases.json>",
		Short: "Validate and save a timeline from a JSON file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read timeline file: %w", err)
			}

			var phases []schedule.Phase
			if err := json.Unmarshal(data, &phases); err != nil {
				return fmt.Errorf("decode timeline file: %w", err)
			}
			payload, err := json.Marshal(phases)
			if err != nil {
				return fmt.Errorf("encode timeline: %w", err)
			}

			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TimelineSave(ipc.TimelineSaveRequest{EventID: args[0], Phases: payload})
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Problems) > 0 {
					fmt.Fprintln(stdout, "Timeline rejected:")
					for _, problem := range resp.Problems {
						fmt.Fprintf(stdout, "  - %s\n", problem)
					}
					return fmt.Errorf("timeline has %d problems", len(resp.Problems))
				}
				if resp.Created {
					fmt.Fprintln(stdout, "Timeline created")
				} else {
					fmt.Fprintln(stdout, "Timeline updated")
				}
				return nil
			})
		},
	}

	return cmd
}
