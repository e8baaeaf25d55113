package astro

import (
	"errors"
	"testing"
)

func TestDefaultStarCatalog(t *testing.T) {
	cat := DefaultStarCatalog()
	if len(cat.Stars) < 40 {
		t.Fatalf("expected at least 40 stars, got %d", len(cat.Stars))
	}
	for _, s := range cat.Stars {
		if s.RAHours < 0 || s.RAHours >= 24 {
			t.Errorf("%s RA out of range: %v", s.Name, s.RAHours)
		}
		if s.DecDeg < -90 || s.DecDeg > 90 {
			t.Errorf("%s Dec out of range: %v", s.Name, s.DecDeg)
		}
	}

	// Catalog is a copy
	cat.Stars[0].Name = "changed"
	if DefaultStarCatalog().Stars[0].Name == "changed" {
		t.Error("DefaultStarCatalog shares its backing array")
	}
}

func TestStarLookup(t *testing.T) {
	cat := DefaultStarCatalog()

	s, err := cat.Lookup("sirius")
	if err != nil {
		t.Fatal(err)
	}
	if s.RAHours < 6.7 || s.RAHours > 6.8 || s.DecDeg > -16 {
		t.Errorf("Sirius = %+v", s)
	}

	if _, err := cat.Lookup("Vulcan"); !errors.Is(err, ErrUnknownStar) {
		t.Errorf("error = %v, want ErrUnknownStar", err)
	}
}

func TestStarBrighter(t *testing.T) {
	stars := DefaultStarCatalog().Brighter(0.5)
	if len(stars) == 0 {
		t.Fatal("no stars brighter than 0.5")
	}
	for i, s := range stars {
		if s.Mag > 0.5 {
			t.Errorf("%s mag %v", s.Name, s.Mag)
		}
		if i > 0 && stars[i-1].Mag > s.Mag {
			t.Errorf("not sorted at %s", s.Name)
		}
	}
}

func TestStarApparent(t *testing.T) {
	s, _ := DefaultStarCatalog().Lookup("Vega")
	app := s.Apparent(calendarToJD(CalendarDate{2024, 6, 1}))
	if sep := AngularSeparation(app, s.Equatorial()); sep > 0.5 {
		t.Errorf("apparent place moved %v deg", sep)
	}
}
