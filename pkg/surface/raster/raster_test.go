package raster

import (
	"bytes"
	"image/color"
	"math"
	"testing"

	"github.com/matzehuels/ringavatar/pkg/avatar"
	"github.com/matzehuels/ringavatar/pkg/errors"
)

func TestNewRejectsEmptySize(t *testing.T) {
	if _, err := New(0, 10); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestRenderFillsDisc(t *testing.T) {
	s, err := New(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	a, err := avatar.New("00", avatar.DefaultConfig(), s)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Render(); err != nil {
		t.Fatal(err)
	}

	img := s.Image()
	if got := img.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("corner = %v, want transparent", got)
	}
	want := color.RGBA{0x92, 0x00, 0xcc, 0xff}
	if got := img.RGBAAt(32, 10); got != want {
		t.Errorf("inside ring = %v, want palette[0] %v", got, want)
	}
}

func TestBackgroundOption(t *testing.T) {
	s, _ := New(8, 8, WithBackground(color.White))
	if got := s.Image().RGBAAt(0, 0); got != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("corner = %v, want white", got)
	}
}

func TestFillRectCoversOnePixel(t *testing.T) {
	s, _ := New(8, 8)
	s.SetFillColor(color.NRGBA{0xff, 0, 0, 0xff})
	s.FillRect(2.5, 3.7, 1, 1)

	img := s.Image()
	if got := img.RGBAAt(2, 3); got != (color.RGBA{0xff, 0, 0, 0xff}) {
		t.Errorf("pixel (2,3) = %v, want red", got)
	}
	painted := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if img.RGBAAt(x, y).A != 0 {
				painted++
			}
		}
	}
	if painted != 1 {
		t.Errorf("painted %d pixels, want 1", painted)
	}
}

func TestGlobalAlpha(t *testing.T) {
	s, _ := New(4, 4)
	s.SetAlpha(0.5)
	s.SetFillColor(color.NRGBA{0, 0, 0xff, 0xff})
	s.FillRect(0, 0, 4, 4)
	if got := s.Image().RGBAAt(1, 1).A; got < 126 || got > 129 {
		t.Errorf("alpha = %d, want about 128", got)
	}
}

func TestFullCircleArc(t *testing.T) {
	s, _ := New(40, 40)
	s.SetFillColor(color.Black)
	s.BeginPath()
	s.Arc(20, 20, 10, 0, 2*math.Pi)
	s.Fill()

	img := s.Image()
	for _, p := range [][2]int{{20, 20}, {12, 20}, {28, 20}, {20, 12}, {20, 28}} {
		if img.RGBAAt(p[0], p[1]).A != 0xff {
			t.Errorf("pixel %v not filled", p)
		}
	}
	if img.RGBAAt(2, 2).A != 0 {
		t.Error("pixel outside the circle filled")
	}
}

func TestTextIsDrawn(t *testing.T) {
	s, _ := New(64, 64)
	s.SetFillColor(color.Black)
	s.SetFont(32)
	s.SetTextAlign(avatar.AlignCenter, avatar.BaselineMiddle)
	s.FillText("8", 32, 32)

	if s.Image().RGBAAt(0, 0).A != 0 {
		t.Error("text spilled into the corner")
	}
	inked := false
	for y := 16; y < 48 && !inked; y++ {
		for x := 16; x < 48; x++ {
			if s.Image().RGBAAt(x, y).A > 0 {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Error("no glyph pixels around the anchor")
	}
}

func TestTinyFontIsSkipped(t *testing.T) {
	s, _ := New(8, 8)
	s.SetFont(0)
	s.FillText("x", 4, 4)
	s.StrokeText("x", 4, 4)
	if len(s.faces) != 0 {
		t.Error("face created for zero font size")
	}
}

func TestEncodePNG(t *testing.T) {
	s, _ := New(16, 16)
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestResize(t *testing.T) {
	s, _ := New(16, 16)
	s.Resize(32, 8)
	if w, h := s.Size(); w != 32 || h != 8 {
		t.Errorf("Size() = %dx%d, want 32x8", w, h)
	}
	s.Resize(0, 8)
	if w, _ := s.Size(); w != 32 {
		t.Error("Resize to zero width should be ignored")
	}
}
