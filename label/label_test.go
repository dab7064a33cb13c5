package label

import (
	"image"
	"testing"

	"github.com/BeatGlow/gameboard/pixel"
)

func TestWriter(t *testing.T) {
	w, err := New(DefaultSize)
	if err != nil {
		t.Fatal(err)
	}

	b, err := pixel.NewBuffer(64, 24)
	if err != nil {
		t.Fatal(err)
	}
	b.Fill(pixel.Black)

	pt := image.Pt(2, 2)
	r := w.Bounds(pt, "00042")
	if r.Dx() <= 0 || r.Dy() <= 0 {
		t.Fatalf("expected text to have a size, got %s", r)
	}
	if !r.In(b.Bounds()) {
		t.Fatalf("expected %s to fit in %s", r, b.Bounds())
	}

	if err = w.Draw(b, pt, "00042", pixel.White); err != nil {
		t.Fatal(err)
	}

	// Anti-aliasing may bleed a pixel past the advance box.
	box := r.Inset(-1)
	var inside, outside int
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			v, _ := b.Packed(x, y)
			if v == pixel.Pack(pixel.Black) {
				continue
			}
			if (image.Point{X: x, Y: y}).In(box) {
				inside++
			} else {
				outside++
			}
		}
	}
	if inside == 0 {
		t.Error("expected glyphs to be drawn")
	}
	if outside != 0 {
		t.Errorf("expected glyphs to stay within %s, %d pixels outside", box, outside)
	}
}

func TestWriterClips(t *testing.T) {
	w, err := New(DefaultSize)
	if err != nil {
		t.Fatal(err)
	}
	b, err := pixel.NewBuffer(8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if err = w.Draw(b, image.Pt(4, 4), "clipped text", pixel.White); err != nil {
		t.Errorf("expected clipped text to draw, got %v", err)
	}
}
