package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/conflow/app"
	"github.com/kilianp07/conflow/core/model"
	"github.com/kilianp07/conflow/core/schedule"
	"github.com/kilianp07/conflow/pkg/export"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Manage the vehicle schedules of the scenario",
}

var scheduleLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List schedules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := export.ParseFormat(scheduleFormat)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			all, err := a.Service.Schedules().All(ctx)
			if err != nil {
				return err
			}
			defs := make([]schedule.Definition, len(all))
			for i, s := range all {
				defs[i] = schedule.DefinitionOf(s)
			}
			switch f {
			case export.FormatText:
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VEHICLE TYPE\tSERVICE\tARRIVES ON\tARRIVES AT\tEVERY K DAYS\tCAPACITY\tMOVED")
				for _, d := range defs {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.1f\t%.1f\n", d.VehicleType, d.ServiceName,
						d.ArrivesOn, d.ArrivesAt, d.EveryKDays, d.AverageVehicleCapacity, d.AverageMovedCapacity)
				}
				return tw.Flush()
			case export.FormatCSV:
				return fmt.Errorf("schedules have no csv rendering")
			default:
				return export.Write(cmd.OutOrStdout(), f, defs)
			}
		})
	},
}

var (
	addDef         schedule.Definition
	scheduleFormat string
)

var scheduleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or replace a schedule",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := addDef.ToModel()
		if err != nil {
			return err
		}
		return withWritableApp(cmd, func(ctx context.Context, a *app.App) error {
			return a.Service.Schedules().Save(ctx, s)
		})
	},
}

var scheduleImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Add or replace the schedules listed in a YAML or JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schedules, err := readSchedules(args[0])
		if err != nil {
			return err
		}
		return withWritableApp(cmd, func(ctx context.Context, a *app.App) error {
			for _, s := range schedules {
				if err := a.Service.Schedules().Save(ctx, s); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d schedules\n", len(schedules))
			return nil
		})
	},
}

var scheduleRmCmd = &cobra.Command{
	Use:   "rm VEHICLE_TYPE SERVICE",
	Short: "Remove a schedule",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		vt, err := model.ParseVehicleType(args[0])
		if err != nil {
			return err
		}
		return withWritableApp(cmd, func(ctx context.Context, a *app.App) error {
			return a.Service.Schedules().Delete(ctx, vt, args[1])
		})
	},
}

// readSchedules decodes a list of schedule definitions.
func readSchedules(path string) ([]model.Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var defs []schedule.Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	out := make([]model.Schedule, 0, len(defs))
	for _, d := range defs {
		s, err := d.ToModel()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func init() {
	scheduleLsCmd.Flags().StringVarP(&scheduleFormat, "format", "o", "text", "output format: text, json or yaml")

	f := scheduleAddCmd.Flags()
	f.StringVar(&addDef.VehicleType, "vehicle-type", "", "deep_sea_vessel, feeder, barge or train")
	f.StringVar(&addDef.ServiceName, "service", "", "service name")
	f.StringVar(&addDef.ArrivesOn, "arrives-on", "", "first arrival date (YYYY-MM-DD)")
	f.StringVar(&addDef.ArrivesAt, "arrives-at", "00:00", "time of day (HH:MM)")
	f.IntVar(&addDef.EveryKDays, "every", model.SingleArrival, "days between arrivals, negative for a single arrival")
	f.Float64Var(&addDef.AverageVehicleCapacity, "capacity", 0, "average vehicle capacity in TEU")
	f.Float64Var(&addDef.AverageMovedCapacity, "moved", 0, "average moved capacity in TEU")
	for _, name := range []string{"vehicle-type", "service", "arrives-on"} {
		_ = scheduleAddCmd.MarkFlagRequired(name)
	}

	scheduleCmd.AddCommand(scheduleLsCmd, scheduleAddCmd, scheduleImportCmd, scheduleRmCmd)
	rootCmd.AddCommand(scheduleCmd)
}
