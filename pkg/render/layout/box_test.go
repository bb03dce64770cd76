package layout

import "testing"

func TestBoxAt(t *testing.T) {
	b := BoxAt(50, 700, 512, 24)
	want := Box{Left: 50, Right: 562, Bottom: 676, Top: 700}
	if b != want {
		t.Errorf("BoxAt() = %+v, want %+v", b, want)
	}
}

func TestBoxWidth(t *testing.T) {
	tests := []struct {
		name string
		box  Box
		want float64
	}{
		{
			name: "positive width",
			box:  Box{Left: 10, Right: 50},
			want: 40,
		},
		{
			name: "zero width",
			box:  Box{Left: 10, Right: 10},
			want: 0,
		},
		{
			name: "from origin",
			box:  Box{Left: 0, Right: 612},
			want: 612,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.Width(); got != tt.want {
				t.Errorf("Width() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoxHeight(t *testing.T) {
	tests := []struct {
		name string
		box  Box
		want float64
	}{
		{
			name: "positive height",
			box:  Box{Bottom: 20, Top: 80},
			want: 60,
		},
		{
			name: "zero height",
			box:  Box{Bottom: 50, Top: 50},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.Height(); got != tt.want {
				t.Errorf("Height() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoxCenter(t *testing.T) {
	b := Box{Left: 0, Right: 100, Bottom: 20, Top: 60}
	if got := b.CenterX(); got != 50 {
		t.Errorf("CenterX() = %v, want 50", got)
	}
	if got := b.CenterY(); got != 40 {
		t.Errorf("CenterY() = %v, want 40", got)
	}
}
