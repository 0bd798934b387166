package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestVehicleTypeOrder(t *testing.T) {
	want := []string{"deep_sea_vessel", "feeder", "barge", "train", "truck"}
	got := VehicleTypes()
	if len(got) != len(want) {
		t.Fatalf("expected %d vehicle types got %d", len(want), len(got))
	}
	for i, vt := range got {
		if vt.String() != want[i] {
			t.Errorf("position %d: expected %s got %s", i, want[i], vt)
		}
	}
}

func TestScheduledVehicleTypesExcludeTruck(t *testing.T) {
	for _, vt := range ScheduledVehicleTypes() {
		if vt == Truck {
			t.Fatalf("truck must not be scheduled")
		}
		if !vt.IsScheduled() {
			t.Errorf("%s should be scheduled", vt)
		}
	}
	if Truck.IsScheduled() {
		t.Fatalf("truck reported as scheduled")
	}
}

func TestParseVehicleType(t *testing.T) {
	cases := map[string]VehicleType{
		"deep_sea_vessel": DeepSeaVessel,
		"deep sea vessel": DeepSeaVessel,
		"Feeder":          Feeder,
		"deep-sea-vessel": DeepSeaVessel,
		" truck ":         Truck,
	}
	for in, want := range cases {
		got, err := ParseVehicleType(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Errorf("parse %q: expected %s got %s", in, want, got)
		}
	}
	if _, err := ParseVehicleType("zeppelin"); !errors.Is(err, ErrUnknownVehicleType) {
		t.Fatalf("expected ErrUnknownVehicleType got %v", err)
	}
}

func TestVehicleTypeAsJSONKey(t *testing.T) {
	in := map[VehicleType]float64{Feeder: 0.5, Truck: 0.5}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"feeder":0.5,"truck":0.5}` {
		t.Fatalf("unexpected json %s", b)
	}
	var out map[VehicleType]float64
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out[Feeder] != 0.5 || out[Truck] != 0.5 {
		t.Fatalf("round trip mismatch %#v", out)
	}
}

func TestVehicleTypeLabel(t *testing.T) {
	if DeepSeaVessel.Label() != "deep sea vessel" {
		t.Fatalf("unexpected label %q", DeepSeaVessel.Label())
	}
	if VehicleType(42).String() != "unknown" {
		t.Fatalf("invalid vehicle type should render as unknown")
	}
}

func TestContainerLengthTEUFactor(t *testing.T) {
	if TwentyFeet.TEUFactor() != 1 || FortyFeet.TEUFactor() != 2 {
		t.Fatalf("unexpected factors")
	}
	l, err := ParseContainerLength("45_feet")
	if err != nil || l != FortyFiveFeet {
		t.Fatalf("parse 45_feet: %v %v", l, err)
	}
	if _, err := ParseContainerLength("10_feet"); !errors.Is(err, ErrUnknownContainerLength) {
		t.Fatalf("expected ErrUnknownContainerLength got %v", err)
	}
}
