package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/config"
	"github.com/hrcadm/sleeptracker/internal/service"
	"github.com/hrcadm/sleeptracker/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "sleepctl",
		Short:         "Record sleep sessions and review sleep metrics",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./sleeptracker.yaml if present)")

	root.AddCommand(newAddCmd(&configFile))
	root.AddCommand(newListCmd(&configFile))
	root.AddCommand(newShowCmd(&configFile))
	root.AddCommand(newEditCmd(&configFile))
	root.AddCommand(newRemoveCmd(&configFile))
	root.AddCommand(newGoalCmd(&configFile))
	root.AddCommand(newStatsCmd(&configFile))
	root.AddCommand(newTrendCmd(&configFile))
	root.AddCommand(newExportCmd(&configFile))
	return root
}

func openStore(ctx context.Context, configFile string) (*service.SleepStore, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logger, err := internal.NewLogger(cfg.Env, "error")
	if err != nil {
		return nil, err
	}
	repo, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	store, err := service.NewSleepStore(ctx, repo, logger)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	return store, nil
}

// withStore opens the configured store for the duration of fn.
func withStore(cmd *cobra.Command, configFile string, fn func(ctx context.Context, store *service.SleepStore) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := openStore(ctx, configFile)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}

func newAddCmd(configFile *string) *cobra.Command {
	req := service.SleepEntryRequest{}
	cmd := &cobra.Command{
		Use:   "add --bed <HH:mm> --wake <HH:mm>",
		Short: "Record a sleep session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := service.ValidateSleepEntryRequest(&req); err != nil {
				return fmt.Errorf("invalid entry: %w", err)
			}
			return withStore(cmd, *configFile, func(ctx context.Context, store *service.SleepStore) error {
				entry, err := store.AddEntry(ctx, req.Input())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s %s (%s)\n", entry.ID, entry.Date, service.FormatDuration(entry.Duration))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Date, "date", time.Now().Format("2006-01-02"), "night the session belongs to (yyyy-MM-dd)")
	cmd.Flags().StringVar(&req.Bedtime, "bed", "", "bedtime (HH:mm)")
	cmd.Flags().StringVar(&req.WakeTime, "wake", "", "wake time (HH:mm)")
	cmd.Flags().IntVar(&req.Quality, "quality", 3, "quality 1-5")
	cmd.Flags().StringVar(&req.Mood, "mood", string(internal.MoodOkay), "mood: "+moodList())
	cmd.Flags().StringVar(&req.Notes, "notes", "", "free text notes")
	return cmd
}

func newListCmd(configFile *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, *configFile, func(_ context.Context, store *service.SleepStore) error {
				entries := store.Entries()
				if limit > 0 && limit < len(entries) {
					entries = entries[:limit]
				}
				if len(entries) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no entries")
					return nil
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderEntries(entries))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most n entries (0 = all)")
	return cmd
}

func newShowCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, *configFile, func(_ context.Context, store *service.SleepStore) error {
				e, ok := store.Entry(args[0])
				if !ok {
					return fmt.Errorf("no entry with id %s", args[0])
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %s\ndate: %s\nbedtime: %s\nwake: %s\nduration: %s\nquality: %d/5\nmood: %s\nnotes: %s\n",
					e.ID, e.Date, e.Bedtime, e.WakeTime, service.FormatDuration(e.Duration), e.Quality, e.Mood, e.Notes)
				return nil
			})
		},
	}
}

func newEditCmd(configFile *string) *cobra.Command {
	var date, bed, wake, mood, notes string
	var quality int
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := service.SleepEntryPatchRequest{}
			flags := cmd.Flags()
			if flags.Changed("date") {
				req.Date = &date
			}
			if flags.Changed("bed") {
				req.Bedtime = &bed
			}
			if flags.Changed("wake") {
				req.WakeTime = &wake
			}
			if flags.Changed("quality") {
				req.Quality = &quality
			}
			if flags.Changed("mood") {
				req.Mood = &mood
			}
			if flags.Changed("notes") {
				req.Notes = &notes
			}
			if err := service.ValidateSleepEntryPatchRequest(&req); err != nil {
				return fmt.Errorf("invalid change: %w", err)
			}
			return withStore(cmd, *configFile, func(ctx context.Context, store *service.SleepStore) error {
				found, err := store.UpdateEntry(ctx, args[0], req.Patch())
				if !found {
					return fmt.Errorf("no entry with id %s", args[0])
				}
				if err != nil {
					return err
				}
				e, _ := store.Entry(args[0])
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated %s %s (%s)\n", e.ID, e.Date, service.FormatDuration(e.Duration))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date (yyyy-MM-dd)")
	cmd.Flags().StringVar(&bed, "bed", "", "bedtime (HH:mm)")
	cmd.Flags().StringVar(&wake, "wake", "", "wake time (HH:mm)")
	cmd.Flags().IntVar(&quality, "quality", 0, "quality 1-5")
	cmd.Flags().StringVar(&mood, "mood", "", "mood: "+moodList())
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	return cmd
}

func newRemoveCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, *configFile, func(ctx context.Context, store *service.SleepStore) error {
				found, err := store.DeleteEntry(ctx, args[0])
				if err != nil {
					return err
				}
				if !found {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no entry with id %s\n", args[0])
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newGoalCmd(configFile *string) *cobra.Command {
	goal := &cobra.Command{Use: "goal", Short: "Show or change the sleep goal"}

	goal.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current goal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, *configFile, func(_ context.Context, store *service.SleepStore) error {
				g := store.Goal()
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "bedtime: %s\nwake: %s\nduration: %gh\n", g.TargetBedtime, g.TargetWakeTime, g.TargetDuration)
				return nil
			})
		},
	})

	req := service.GoalRequest{}
	set := &cobra.Command{
		Use:   "set",
		Short: "Replace the goal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := service.ValidateGoalRequest(&req); err != nil {
				return fmt.Errorf("invalid goal: %w", err)
			}
			return withStore(cmd, *configFile, func(ctx context.Context, store *service.SleepStore) error {
				if err := store.SetGoal(ctx, req.Goal()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "goal updated")
				return nil
			})
		},
	}
	def := internal.DefaultGoal()
	set.Flags().StringVar(&req.TargetBedtime, "bed", def.TargetBedtime, "target bedtime (HH:mm)")
	set.Flags().StringVar(&req.TargetWakeTime, "wake", def.TargetWakeTime, "target wake time (HH:mm)")
	set.Flags().Float64Var(&req.TargetDuration, "hours", def.TargetDuration, "target hours (4-12, half hour steps)")
	goal.AddCommand(set)
	return goal
}

func newStatsCmd(configFile *string) *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show averages, streak and goal progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, *configFile, func(_ context.Context, store *service.SleepStore) error {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderSummary(store.Summary(size)))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&size, "window", service.DefaultWindow, "number of recent entries to average")
	return cmd
}

func newTrendCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "trend",
		Short: "Show the last seven days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, *configFile, func(_ context.Context, store *service.SleepStore) error {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderTrend(store.WeeklyTrend()))
				return nil
			})
		},
	}
}

func newExportCmd(configFile *string) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the full state as JSON or YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, *configFile, func(_ context.Context, store *service.SleepStore) error {
				snap := internal.Snapshot{Entries: store.Entries(), Goal: store.Goal()}
				switch strings.ToLower(format) {
				case "json":
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(snap)
				case "yaml", "yml":
					enc := yaml.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent(2)
					defer enc.Close()
					return enc.Encode(snap)
				default:
					return fmt.Errorf("unsupported format %q (json|yaml)", format)
				}
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json|yaml")
	return cmd
}

func moodList() string {
	names := make([]string, len(internal.Moods))
	for i, m := range internal.Moods {
		names[i] = string(m)
	}
	return strings.Join(names, "|")
}
