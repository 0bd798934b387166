package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/conflow/app"
	"github.com/kilianp07/conflow/core/distribution"
	"github.com/kilianp07/conflow/pkg/export"
	"github.com/kilianp07/conflow/pkg/report"
)

var (
	hypothesisPath string
	previewFormat  string
	inContainers   bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Estimate capacities and flows of the configured scenario",
}

var previewCapacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Inbound and outbound capacity per vehicle type",
	Args:  cobra.NoArgs,
	RunE: previewRunner(func(ctx context.Context, a *app.App, hyp distribution.ModeOfTransport, w io.Writer, f export.Format) error {
		res, err := a.Service.Capacity(ctx, hyp)
		if err != nil {
			return err
		}
		switch f {
		case export.FormatText:
			_, err = io.WriteString(w, report.Capacity(res.Inbound, res.Outbound))
			return err
		case export.FormatCSV:
			return export.WriteCapacityCSV(w, res.Inbound, res.Outbound)
		default:
			return export.Write(w, f, res)
		}
	}),
}

var previewFlowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Flow between inbound and outbound vehicle types",
	Args:  cobra.NoArgs,
	RunE: previewRunner(func(ctx context.Context, a *app.App, hyp distribution.ModeOfTransport, w io.Writer, f export.Format) error {
		load := a.Service.Flow
		if inContainers {
			load = a.Service.FlowInContainers
		}
		flow, err := load(ctx, hyp)
		if err != nil {
			return err
		}
		switch f {
		case export.FormatText:
			_, err = io.WriteString(w, report.Flow(flow))
			return err
		case export.FormatCSV:
			return export.WriteFlowCSV(w, flow)
		default:
			return export.Write(w, f, flow)
		}
	}),
}

var previewExceededCmd = &cobra.Command{
	Use:   "exceeded",
	Short: "Compare required outbound capacity with the maximum capacity",
	Args:  cobra.NoArgs,
	RunE: previewRunner(func(ctx context.Context, a *app.App, hyp distribution.ModeOfTransport, w io.Writer, f export.Format) error {
		cmp, err := a.Service.Exceeded(ctx, hyp)
		if err != nil {
			return err
		}
		switch f {
		case export.FormatText:
			_, err = io.WriteString(w, report.Exceeded(cmp))
			return err
		case export.FormatCSV:
			return export.WriteComparisonCSV(w, cmp)
		default:
			return export.Write(w, f, cmp)
		}
	}),
}

var previewModalSplitCmd = &cobra.Command{
	Use:   "modal-split",
	Short: "Transshipment share and hinterland modal split",
	Args:  cobra.NoArgs,
	RunE: previewRunner(func(ctx context.Context, a *app.App, hyp distribution.ModeOfTransport, w io.Writer, f export.Format) error {
		res, err := a.Service.ModalSplit(ctx, hyp)
		if err != nil {
			return err
		}
		switch f {
		case export.FormatText:
			_, err = io.WriteString(w, report.ModalSplit(res.Transshipment, res.Inbound, res.Outbound, res.Both))
			return err
		case export.FormatCSV:
			return fmt.Errorf("modal split has no csv rendering")
		default:
			return export.Write(w, f, res)
		}
	}),
}

type previewFunc func(ctx context.Context, a *app.App, hyp distribution.ModeOfTransport, w io.Writer, f export.Format) error

// previewRunner parses the shared flags before running fn against a fresh App.
func previewRunner(fn previewFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		f, err := export.ParseFormat(previewFormat)
		if err != nil {
			return err
		}
		hyp, err := loadHypothesis(hypothesisPath)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return fn(ctx, a, hyp, cmd.OutOrStdout(), f)
		})
	}
}

// loadHypothesis reads a mode of transport distribution from a YAML or JSON
// file. An empty path means no hypothesis.
func loadHypothesis(path string) (distribution.ModeOfTransport, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hypothesis: %w", err)
	}
	var raw map[string]map[string]float64
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode hypothesis: %w", err)
	}
	d, err := distribution.ParseModeOfTransport(raw)
	if err != nil {
		return nil, fmt.Errorf("hypothesis %s: %w", path, err)
	}
	return d, nil
}

func init() {
	previewCmd.PersistentFlags().StringVar(&hypothesisPath, "hypothesis", "", "mode of transport distribution to try instead of the stored one")
	previewCmd.PersistentFlags().StringVarP(&previewFormat, "format", "o", "text", "output format: text, json, yaml or csv")
	previewFlowCmd.Flags().BoolVar(&inContainers, "containers", false, "report the flow in containers instead of TEU")
	previewCmd.AddCommand(previewCapacityCmd, previewFlowCmd, previewExceededCmd, previewModalSplitCmd)
	rootCmd.AddCommand(previewCmd)
}
