package events

import (
	"errors"
	"testing"
)

func TestSolverConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SolverConfig
		wantErr bool
	}{
		{"default", DefaultSolverConfig(), false},
		{"zero iterations", SolverConfig{MaxIterations: 0, Tolerance: 1e-4}, true},
		{"zero tolerance", SolverConfig{MaxIterations: 6, Tolerance: 0}, true},
		{"negative tolerance", SolverConfig{MaxIterations: 6, Tolerance: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
		})
	}
}

func TestSolverConfig_OrDefault(t *testing.T) {
	got := SolverConfig{}.orDefault()
	if got != DefaultSolverConfig() {
		t.Errorf("orDefault() = %+v, want default", got)
	}
	custom := SolverConfig{MaxIterations: 10, Tolerance: 1e-6}
	if custom.orDefault() != custom {
		t.Errorf("orDefault() replaced a valid config")
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		s    Status
		want string
	}{
		{Ok, "OK"},
		{NeverRises, "never rises"},
		{Circumpolar, "circumpolar"},
		{ConversionWarning, "conversion warning"},
		{LastsAllNight, "lasts all night"},
		{SunTooFarBelowHorizon, "sun too far below horizon"},
		{NotConverged, "not converged"},
		{NoEventToday, "no event today"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}

func TestStatusHasTime(t *testing.T) {
	for _, s := range []Status{Ok, ConversionWarning} {
		if !s.HasTime() {
			t.Errorf("%v.HasTime() = false", s)
		}
	}
	for _, s := range []Status{NeverRises, Circumpolar, LastsAllNight, SunTooFarBelowHorizon, NotConverged, NoEventToday} {
		if s.HasTime() {
			t.Errorf("%v.HasTime() = true", s)
		}
	}
}

func TestEclipseStatusString(t *testing.T) {
	if EclipseNone.String() != "none" || EclipsePossible.String() != "possible" || EclipseCertain.String() != "certain" {
		t.Errorf("unexpected eclipse status names")
	}
}

func TestResultHourMinute(t *testing.T) {
	r := Result{Local: 6.085421}
	h, m := r.HourMinute()
	if h != 6 || m != 5 {
		t.Errorf("HourMinute() = %02d:%02d, want 06:05", h, m)
	}
}
