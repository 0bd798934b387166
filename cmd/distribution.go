package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/conflow/app"
	"github.com/kilianp07/conflow/core/distribution"
	"github.com/kilianp07/conflow/pkg/export"
)

const (
	kindModeOfTransport = "mode-of-transport"
	kindContainerLength = "container-length"
)

var (
	distributionKind   string
	distributionFormat string
)

var distributionCmd = &cobra.Command{
	Use:   "distribution",
	Short: "Read or replace the stored distributions",
}

var distributionGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print a distribution",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := export.ParseFormat(distributionFormat)
		if err != nil {
			return err
		}
		if f == export.FormatText || f == export.FormatCSV {
			f = export.FormatYAML
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			store := a.Service.Distributions()
			switch distributionKind {
			case kindModeOfTransport:
				d, err := store.ModeOfTransport(ctx)
				if err != nil {
					return err
				}
				return export.Write(cmd.OutOrStdout(), f, d.Raw())
			case kindContainerLength:
				d, err := store.ContainerLength(ctx)
				if err != nil {
					return err
				}
				return export.Write(cmd.OutOrStdout(), f, d.Raw())
			default:
				return unknownKind()
			}
		})
	},
}

var distributionSetCmd = &cobra.Command{
	Use:   "set FILE",
	Short: "Replace a distribution with the content of a YAML or JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		switch distributionKind {
		case kindModeOfTransport:
			var raw map[string]map[string]float64
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			d, err := distribution.ParseModeOfTransport(raw)
			if err != nil {
				return err
			}
			return withWritableApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Service.Distributions().SetModeOfTransport(ctx, d)
			})
		case kindContainerLength:
			var raw map[string]float64
			if err := yaml.Unmarshal(data, &raw); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			d, err := distribution.ParseContainerLength(raw)
			if err != nil {
				return err
			}
			return withWritableApp(cmd, func(ctx context.Context, a *app.App) error {
				return a.Service.Distributions().SetContainerLength(ctx, d)
			})
		default:
			return unknownKind()
		}
	},
}

func unknownKind() error {
	return fmt.Errorf("unknown distribution kind %q: use %s or %s", distributionKind, kindModeOfTransport, kindContainerLength)
}

func init() {
	distributionCmd.PersistentFlags().StringVar(&distributionKind, "kind", kindModeOfTransport, "mode-of-transport or container-length")
	distributionGetCmd.Flags().StringVarP(&distributionFormat, "format", "o", "yaml", "output format: yaml or json")
	distributionCmd.AddCommand(distributionGetCmd, distributionSetCmd)
	rootCmd.AddCommand(distributionCmd)
}
