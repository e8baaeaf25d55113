package ui

import (
	"strings"
	"testing"

	"github.com/litescript/ls-almanac/internal/events"
)

func TestFormatEvent(t *testing.T) {
	tests := []struct {
		name string
		r    events.Result
		want string
	}{
		{"ok", events.Result{Local: 6.085421, Status: events.Ok}, "06:05"},
		{"rounds to minute", events.Result{Local: 17.742867, Status: events.Ok}, "17:45"},
		{"ambiguous", events.Result{Local: 6.085421, Status: events.ConversionWarning}, "06:05*"},
		{"never rises", events.Result{Status: events.NeverRises}, "never rises"},
		{"circumpolar", events.Result{Status: events.Circumpolar}, "circumpolar"},
		{"lasts all night", events.Result{Status: events.LastsAllNight}, "lasts all night"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatEvent(tt.r); got != tt.want {
				t.Errorf("FormatEvent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatEventAz(t *testing.T) {
	r := events.Result{Local: 6.085421, AzimuthDeg: 94.83, Status: events.Ok}
	if got := FormatEventAz(r); got != "06:05 @  95°" {
		t.Errorf("FormatEventAz() = %q", got)
	}
	if got := FormatEventAz(events.Result{Status: events.NotConverged}); got != "not converged" {
		t.Errorf("FormatEventAz() = %q", got)
	}
}

func TestFormatSexagesimal(t *testing.T) {
	if got := FormatRA(14.261); !strings.Contains(got, "14") {
		t.Errorf("FormatRA(14.261) = %q, want hours 14", got)
	}
	if got := FormatDeg(-16.7); !strings.HasPrefix(got, "-") {
		t.Errorf("FormatDeg(-16.7) = %q, want a negative angle", got)
	}
	// Times wrap into one day
	if FormatHours(25.5) != FormatHours(1.5) {
		t.Errorf("FormatHours(25.5) = %q, want %q", FormatHours(25.5), FormatHours(1.5))
	}
}
