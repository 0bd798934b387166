package preview

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kilianp07/conflow/core/model"
)

// DefaultTransportationBuffer is the buffer new scenarios start with.
const DefaultTransportationBuffer = 0.2

var (
	ErrInvalidWindow = errors.New("start date must be before end date")
	ErrInvalidBuffer = errors.New("transportation buffer must be a finite number greater than -1")
)

// Properties are the scenario-wide parameters every preview is built from.
type Properties struct {
	// StartDate is the first day considered.
	StartDate time.Time
	// EndDate is the last day considered. Arrivals on this day are counted.
	EndDate time.Time
	// TransportationBuffer is how much more a vehicle may take on its outbound
	// journey than it delivered, relative to its moved capacity.
	TransportationBuffer float64
}

// Validate checks the window and the buffer.
func (p Properties) Validate() error {
	if !model.Day(p.StartDate).Before(model.Day(p.EndDate)) {
		return fmt.Errorf("%w: %s >= %s", ErrInvalidWindow, model.FormatDate(p.StartDate), model.FormatDate(p.EndDate))
	}
	if !(p.TransportationBuffer > -1) || math.IsInf(p.TransportationBuffer, 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidBuffer, p.TransportationBuffer)
	}
	return nil
}
