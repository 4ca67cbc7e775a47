package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if got := c.Grid[0][0]; got != blank|0x1 {
		t.Errorf("cell 0 = %U, want %U", got, blank|0x1)
	}
	if got := c.Grid[0][1]; got != blank|0x80 {
		t.Errorf("cell 1 = %U, want %U", got, blank|0x80)
	}
	if !c.IsSet(3, 3) || c.IsSet(2, 3) {
		t.Error("IsSet disagrees with Set")
	}

	c.Unset(0, 0)
	if c.Grid[0][0] != blank {
		t.Errorf("Unset left %U", c.Grid[0][0])
	}

	// Out of range writes are dropped.
	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	if c.String() != string([]rune{blank, blank | 0x80})+"\n" {
		t.Errorf("String() = %q", c.String())
	}
}

func TestCanvasPen(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Pen = "#ff0000"
	c.Set(0, 0)
	c.Pen = ""
	c.Set(2, 0)
	if c.Colors[0][0] != "#ff0000" || c.Colors[0][1] != "" {
		t.Errorf("Colors = %v", c.Colors[0])
	}

	c.Clear()
	if c.Colors[0][0] != "" || c.Grid[0][0] != blank {
		t.Error("Clear kept state")
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(10, 3)
	c.DrawLine(0, 0, 19, 11)
	for _, p := range [][2]int{{0, 0}, {19, 11}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("endpoint %v not set", p)
		}
	}

	c.Clear()
	c.DrawLine(-1000, -1000, -10, -5)
	if strings.ContainsFunc(c.String(), func(r rune) bool { return r != blank && r != '\n' }) {
		t.Error("line outside the canvas drew pixels")
	}
}

func TestFillDiscAndRing(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillDisc(10, 10, 3)
	if !c.IsSet(10, 10) || !c.IsSet(13, 10) || c.IsSet(13, 13) {
		t.Error("FillDisc covered the wrong pixels")
	}

	c.Clear()
	c.Ring(10, 10, 4)
	if c.IsSet(10, 10) {
		t.Error("Ring filled its centre")
	}
	for _, p := range [][2]int{{14, 10}, {6, 10}, {10, 14}, {10, 6}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("Ring missed %v", p)
		}
	}
}

func TestRenderKeepsCells(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Pen = "#00ff00"
	c.Set(0, 0)
	c.Set(2, 0)
	out := c.Render()
	if n := strings.Count(out, "\n"); n != 1 {
		t.Errorf("Render produced %d newlines, want 1", n)
	}
	if !strings.ContainsRune(out, blank|0x1) {
		t.Error("Render dropped the lit cell")
	}
}
