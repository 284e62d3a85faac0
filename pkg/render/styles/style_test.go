package styles

import (
	"testing"

	"github.com/matzehuels/geomkit/pkg/geometry"
)

func TestByName(t *testing.T) {
	for _, name := range append(Names(), "") {
		if _, err := ByName(name); err != nil {
			t.Errorf("ByName(%q): %v", name, err)
		}
	}
	if _, err := ByName("handdrawn"); err == nil {
		t.Error("unknown style should fail")
	}
}

func TestContrast(t *testing.T) {
	s := Print()
	tests := []struct {
		bg, want string
	}{
		{"#000000", s.LightText},
		{"#4e79a7", s.LightText},
		{"#ffffff", s.DarkText},
		{"#edc949", s.DarkText},
		{"nonsense", s.DarkText},
	}
	for _, tt := range tests {
		if got := s.Contrast(tt.bg); got != tt.want {
			t.Errorf("Contrast(%q) = %q, want %q", tt.bg, got, tt.want)
		}
	}
}

func TestPaint(t *testing.T) {
	sc := geometry.NewScene("test", geometry.Size{Width: 100, Height: 100})
	sc.Add(
		geometry.NewRect("cell", geometry.Rect{W: 100, H: 100}, "#ffffff").WithStroke("#fff"),
		geometry.NewText("label", geometry.Text{X: 50, Y: 50, Content: "x"}, "#fff"),
		geometry.NewHexagon("mesh", geometry.Hexagon{CX: 5, CY: 5, Radius: 5}, "none").WithLayer(geometry.LayerMesh).WithStroke("#ddd"),
	)

	simple := Simple()
	if p := simple.Paint(sc, 0); p.FillOpacity != 0.85 || p.Stroke != "#fff" {
		t.Errorf("simple cell paint = %+v", p)
	}
	if p := simple.Paint(sc, 1); p.Fill != "#fff" {
		t.Errorf("simple keeps label color, got %q", p.Fill)
	}

	pr := Print()
	if p := pr.Paint(sc, 0); p.FillOpacity != 1 || p.Stroke != "#333" {
		t.Errorf("print cell paint = %+v", p)
	}
	if p := pr.Paint(sc, 1); p.Fill != pr.DarkText {
		t.Errorf("print label on white = %q, want dark", p.Fill)
	}
	if p := pr.Paint(sc, 2); p.HasFill() || !p.HasStroke() {
		t.Errorf("mesh paint = %+v", p)
	}
}

func TestRGB(t *testing.T) {
	r, g, b, ok := RGB("#4e79a7")
	if !ok || r != 0x4e || g != 0x79 || b != 0xa7 {
		t.Errorf("RGB = %d,%d,%d,%v", r, g, b, ok)
	}
	if _, _, _, ok := RGB("none"); ok {
		t.Error("none should not parse")
	}
	if EscapeXML(`a<b & "c"`) != "a&lt;b &amp; &#34;c&#34;" {
		t.Errorf("EscapeXML = %q", EscapeXML(`a<b & "c"`))
	}
}
