package fonts

import (
	"math"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name       string
		wantFamily string
		wantStyle  string
		wantOK     bool
	}{
		{Helvetica, "Helvetica", "", true},
		{HelveticaBold, "Helvetica", "B", true},
		{TimesItalic, "Times", "I", true},
		{CourierBoldOblique, "Courier", "BI", true},
		{"Comic Sans", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Lookup(tt.name)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.name, ok, tt.wantOK)
			}
			if c.Family != tt.wantFamily || c.Style != tt.wantStyle {
				t.Errorf("Lookup(%q) = %s/%s, want %s/%s", tt.name, c.Family, c.Style, tt.wantFamily, tt.wantStyle)
			}
		})
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != 12 {
		t.Fatalf("len(Names()) = %d, want 12", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("Names() not sorted at %d: %q > %q", i, names[i-1], names[i])
		}
	}
}

func TestFaceValidate(t *testing.T) {
	tests := []struct {
		name    string
		face    Face
		wantErr bool
	}{
		{"valid", Face{Helvetica, 10, 14}, false},
		{"unknown font", Face{"Wingdings", 10, 14}, true},
		{"zero size", Face{Helvetica, 0, 14}, true},
		{"negative line height", Face{Helvetica, 10, -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.face.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFaceDescent(t *testing.T) {
	f := Face{Name: Helvetica, Size: 10, LineHeight: 14}
	if got := f.Descent(); math.Abs(got-2.07) > 1e-9 {
		t.Errorf("Descent() = %v, want 2.07", got)
	}
	if got := (Face{Name: "nope", Size: 10}).Descent(); got != 0 {
		t.Errorf("Descent() for unknown font = %v, want 0", got)
	}
}
