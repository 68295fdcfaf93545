// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2022  Jochen Voss <voss@seehuhn.de>

package color

import "testing"

func TestGray(t *testing.T) {
	cases := []struct {
		g    float64
		want RGB
	}{
		{0, RGB{0, 0, 0}},
		{1, RGB{255, 255, 255}},
		{0.5, RGB{128, 128, 128}},
	}
	for _, c := range cases {
		if got := Gray(c.g); got != c.want {
			t.Errorf("Gray(%v) = %v, want %v", c.g, got, c.want)
		}
	}
}

func TestFromRGB(t *testing.T) {
	cases := []struct {
		r, g, b float64
		want    RGB
	}{
		{1, 0, 0, RGB{255, 0, 0}},
		{0, 1, 0, RGB{0, 255, 0}},
		{0, 0, 1, RGB{0, 0, 255}},
		{-1, 2, 0.5, RGB{0, 255, 128}},
	}
	for _, c := range cases {
		if got := FromRGB(c.r, c.g, c.b); got != c.want {
			t.Errorf("FromRGB(%v,%v,%v) = %v, want %v", c.r, c.g, c.b, got, c.want)
		}
	}
}

func TestFromCMYK(t *testing.T) {
	if got, want := FromCMYK(0, 0, 0, 1), (RGB{0, 0, 0}); got != want {
		t.Errorf("FromCMYK black = %v, want %v", got, want)
	}
	if got, want := FromCMYK(0, 0, 0, 0), (RGB{255, 255, 255}); got != want {
		t.Errorf("FromCMYK white = %v, want %v", got, want)
	}
	if got, want := FromCMYK(1, 0, 0, 0), (RGB{0, 255, 255}); got != want {
		t.Errorf("FromCMYK cyan = %v, want %v", got, want)
	}
}
