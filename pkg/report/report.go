// Package report renders preview results as fixed-width text tables for
// logging and the command line.
package report

import (
	"fmt"
	"strings"

	"github.com/kilianp07/conflow/core/model"
	"github.com/kilianp07/conflow/core/preview"
)

const roundingNote = "(rounding errors might exist)\n"

// Exceeded renders the comparison of required and maximum outbound capacity.
// An uncapped maximum is shown as -1.
func Exceeded(cmp map[model.VehicleType]preview.Comparison) string {
	var b strings.Builder
	b.WriteString("\nvehicle type     maximum capacity (in TEU) required capacity (in TEU) exceeded difference (in TEU)\n")
	for _, vt := range model.VehicleTypes() {
		c := cmp[vt]
		exceeded := "no"
		if c.Exceeded {
			exceeded = "yes"
		}
		fmt.Fprintf(&b, "%-16s %25.1f %25.1f %9s %19.1f\n",
			vt.Label(), c.Maximum.Float(), c.CurrentlyPlanned, exceeded, c.Difference())
	}
	b.WriteString(roundingNote)
	return b.String()
}

// Flow renders every pair of the inbound to outbound flow.
func Flow(flow preview.FlowMatrix) string {
	var b strings.Builder
	b.WriteString("\nvehicle type (from) vehicle type (to) transported capacity (in TEU)\n")
	for _, from := range model.VehicleTypes() {
		for _, to := range model.VehicleTypes() {
			fmt.Fprintf(&b, "%-19s %-18s %28.1f\n", from.Label(), to.Label(), flow[from][to])
		}
	}
	b.WriteString(roundingNote)
	return b.String()
}

// Capacity renders the inbound capacity next to the used and maximum outbound
// capacity of each vehicle type.
func Capacity(inbound preview.CapacityByVehicleType, outbound preview.OutboundCapacity) string {
	var b strings.Builder
	b.WriteString("\nvehicle type    inbound capacity outbound avg capacity outbound max capacity\n")
	for _, vt := range model.VehicleTypes() {
		fmt.Fprintf(&b, "%-15s %16.1f %21.1f %21.1f\n",
			vt.Label(), inbound[vt], outbound.Used[vt], outbound.Maximum[vt].Float())
	}
	b.WriteString(roundingNote)
	return b.String()
}

// ModalSplit renders the transshipment share and the hinterland modal split in
// both directions. Shares of an empty total print as "-".
func ModalSplit(th preview.TransshipmentAndHinterland, inbound, outbound, both preview.HinterlandModalSplit) string {
	var b strings.Builder
	b.WriteString("\nTransshipment share\n")
	fmt.Fprintf(&b, "transshipment proportion (in TEU): %10.2f (%s%%)\n", th.TransshipmentCapacity, percent(th.TransshipmentShare()))
	fmt.Fprintf(&b, "hinterland proportion (in TEU):    %10.2f (%s%%)\n", th.HinterlandCapacity, percent(th.HinterlandShare()))
	b.WriteString("\n")

	writeSplit(&b, "Inbound modal split", inbound)
	b.WriteString("\n")
	writeSplit(&b, "Outbound modal split", outbound)
	b.WriteString("\n")
	writeSplit(&b, "Absolute modal split (both inbound and outbound)", both)
	b.WriteString(roundingNote)
	return b.String()
}

func writeSplit(b *strings.Builder, title string, split preview.HinterlandModalSplit) {
	b.WriteString(title + "\n")
	for _, vt := range []model.VehicleType{model.Truck, model.Barge, model.Train} {
		fmt.Fprintf(b, "%s proportion (in TEU): %10.1f (%s%%)\n", vt.Label(), split.Capacity(vt), percent(split.Share(vt)))
	}
}

func percent(s model.Share) string {
	p, ok := s.Percent()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.2f", p)
}
