package colour

import "testing"

func TestNearestName(t *testing.T) {
	tests := []struct {
		name    string
		hex     string
		want    string
		wantErr bool
	}{
		{name: "exact black", hex: "#000000", want: "Black"},
		{name: "exact lowercase", hex: "#ff6347", want: "Tomato"},
		{name: "near white", hex: "#FEFEFE", want: "White"},
		{name: "near red", hex: "#FE0101", want: "Red"},
		{name: "invalid", hex: "#XYZ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NearestName(tt.hex)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NearestName(%q) error = %v, wantErr %v", tt.hex, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NearestName(%q) = %q, want %q", tt.hex, got, tt.want)
			}
		})
	}
}

func TestNameStable(t *testing.T) {
	for _, rgb := range []RGB{Light(), Dark(), Accent(), {R: 10, G: 20, B: 30}} {
		first := rgb.Name()
		for i := 0; i < 5; i++ {
			if got := rgb.Name(); got != first {
				t.Fatalf("Name(%v) = %q then %q", rgb, first, got)
			}
		}
	}
}

func TestNameTableParses(t *testing.T) {
	if len(names) != len(nameTable) {
		t.Fatalf("names has %d entries, want %d", len(names), len(nameTable))
	}
	for _, n := range nameTable {
		rgb, err := ParseHex(n.hex)
		if err != nil {
			t.Fatalf("ParseHex(%q) error = %v", n.hex, err)
		}
		if got := rgb.Name(); got == "" {
			t.Errorf("Name(%s) is empty", n.hex)
		}
	}
}
