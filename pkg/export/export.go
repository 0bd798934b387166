// Package export writes preview results in machine readable formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/conflow/core/model"
	"github.com/kilianp07/conflow/core/preview"
)

// Format names an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts text, json, yaml (or yml) and csv.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteYAML writes v to w as YAML.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// Write encodes v as JSON or YAML. CSV needs a typed writer.
func Write(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatYAML:
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("format %q is not supported for this output", f)
	}
}

// WriteComparisonCSV writes one row per vehicle type in report order. An
// uncapped maximum is written as -1.
func WriteComparisonCSV(w io.Writer, cmp map[model.VehicleType]preview.Comparison) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"vehicle_type", "maximum_teu", "planned_teu", "exceeded", "difference_teu"}); err != nil {
		return err
	}
	for _, vt := range model.VehicleTypes() {
		c := cmp[vt]
		rec := []string{
			vt.String(),
			formatFloat(c.Maximum.Float()),
			formatFloat(c.CurrentlyPlanned),
			strconv.FormatBool(c.Exceeded),
			formatFloat(c.Difference()),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFlowCSV writes the flow as from,to,teu rows.
func WriteFlowCSV(w io.Writer, flow preview.FlowMatrix) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"from", "to", "teu"}); err != nil {
		return err
	}
	for _, from := range model.VehicleTypes() {
		for _, to := range model.VehicleTypes() {
			if err := cw.Write([]string{from.String(), to.String(), formatFloat(flow[from][to])}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCapacityCSV writes inbound, used and maximum outbound capacity per vehicle type.
func WriteCapacityCSV(w io.Writer, inbound preview.CapacityByVehicleType, outbound preview.OutboundCapacity) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"vehicle_type", "inbound_teu", "outbound_used_teu", "outbound_maximum_teu"}); err != nil {
		return err
	}
	for _, vt := range model.VehicleTypes() {
		rec := []string{
			vt.String(),
			formatFloat(inbound[vt]),
			formatFloat(outbound.Used[vt]),
			formatFloat(outbound.Maximum[vt].Float()),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
