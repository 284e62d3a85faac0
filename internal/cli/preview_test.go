package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/geomkit/pkg/cache"
	"github.com/matzehuels/geomkit/pkg/config"
	"github.com/matzehuels/geomkit/pkg/dataset"
	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/pipeline"
)

func TestTermSurface(t *testing.T) {
	s := &termSurface{}
	if got := s.Measure(); got.Width != 0 || got.Height != 0 {
		t.Errorf("unset Measure() = %+v", got)
	}
	if _, ok := s.Parent(); ok {
		t.Error("unset surface should have no parent")
	}

	s.set(80, 24)
	if got := s.Measure(); got.Width != 80*cellWidth || got.Height != float64(24-chromeRows)*cellHeight {
		t.Errorf("Measure() = %+v", got)
	}
	if p, ok := s.Parent(); !ok || p.Height != 24*cellHeight {
		t.Errorf("Parent() = %+v, %v", p, ok)
	}

	s.set(80, 2)
	if got := s.Measure(); got.Height != 0 {
		t.Errorf("Measure() height = %v, want 0 when the chrome fills the window", got.Height)
	}
}

func TestSizeFeedKeepsLatest(t *testing.T) {
	f := make(sizeFeed, 1)
	f.offer(geometry.Size{Width: 1, Height: 1})
	f.offer(geometry.Size{Width: 2, Height: 2})
	f.offer(geometry.Size{Width: 3, Height: 3})

	if got := <-f; got.Width != 3 {
		t.Errorf("received %+v, want the latest size", got)
	}
	select {
	case s := <-f:
		t.Errorf("unexpected extra size %+v", s)
	default:
	}
}

func TestRasterize(t *testing.T) {
	scene := geometry.NewScene("test", geometry.Size{Width: 4 * cellWidth, Height: 2 * cellHeight})
	scene.Add(
		geometry.NewRect("left", geometry.Rect{X: 0, Y: 0, W: 2 * cellWidth, H: 2 * cellHeight}, "#ff0000"),
		geometry.NewRect("legend", geometry.Rect{X: 2 * cellWidth, Y: 0, W: cellWidth, H: cellHeight}, "#00ff00").WithLayer(geometry.LayerLegend),
	)

	grid := rasterize(scene, 4, 2)
	want := [][]string{
		{"#ff0000", "#ff0000", "", ""},
		{"#ff0000", "#ff0000", "", ""},
	}
	for r := range want {
		for k := range want[r] {
			if grid[r][k] != want[r][k] {
				t.Errorf("grid[%d][%d] = %q, want %q", r, k, grid[r][k], want[r][k])
			}
		}
	}

	out := renderGrid(grid)
	if lines := strings.Split(out, "\n"); len(lines) != 2 {
		t.Errorf("renderGrid produced %d lines", len(lines))
	}
	if !strings.Contains(out, "██") {
		t.Errorf("renderGrid = %q", out)
	}
}

func newTestPreview(t *testing.T) previewModel {
	t.Helper()
	ds, err := dataset.Read(strings.NewReader(salesJSON), "json")
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	t.Cleanup(func() { _ = runner.Close() })
	chart := config.DefaultChart()
	opts := pipeline.Options{Chart: pipeline.ChartTreemap, Config: &chart, Logger: logger}
	return newPreviewModel(context.Background(), runner, ds, opts)
}

func TestPreviewModelLayout(t *testing.T) {
	m := newTestPreview(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(previewModel)
	if got := m.surface.Measure(); got.Width != 100*cellWidth {
		t.Errorf("surface width = %v", got.Width)
	}
	if !strings.Contains(m.View(), "waiting") {
		t.Error("view should wait for a size before the first layout")
	}

	size := m.surface.Measure()
	next, cmd := m.Update(sizeMsg(size))
	m = next.(previewModel)
	if m.size != size || cmd == nil {
		t.Fatalf("size = %+v, cmd = %v", m.size, cmd)
	}

	msg := m.layout()()
	sm, ok := msg.(sceneMsg)
	if !ok || sm.err != nil {
		t.Fatalf("layout produced %T %+v", msg, msg)
	}
	next, _ = m.Update(sm)
	m = next.(previewModel)
	if m.scene == nil || m.scene.Empty() || m.layouts != 1 {
		t.Fatalf("scene not stored: layouts = %d", m.layouts)
	}
	if view := m.View(); !strings.Contains(view, "treemap") || !strings.Contains(view, "█") {
		t.Errorf("view missing chart:\n%s", view)
	}
}

func TestPreviewModelDropsStaleScenes(t *testing.T) {
	m := newTestPreview(t)
	m.size = geometry.Size{Width: 800, Height: 600}

	stale := sceneMsg{chart: pipeline.ChartTreemap, size: geometry.Size{Width: 400, Height: 300}, scene: geometry.NewScene("treemap", geometry.Size{})}
	next, _ := m.Update(stale)
	if next.(previewModel).scene != nil {
		t.Error("scene for an old size should be ignored")
	}
}

func TestPreviewModelKeys(t *testing.T) {
	m := newTestPreview(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if got := next.(previewModel).opts.Chart; got != pipeline.ChartIcicle {
		t.Errorf("chart after c = %q, want icicle", got)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestPreviewModelRefreshKey(t *testing.T) {
	m := newTestPreview(t)
	r := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}

	if _, cmd := m.Update(r); cmd != nil {
		t.Error("refresh before the first size should do nothing")
	}

	m.size = geometry.Size{Width: 400, Height: 300}
	_, cmd := m.Update(r)
	if cmd == nil {
		t.Fatal("refresh should schedule a layout")
	}
	sm, ok := cmd().(sceneMsg)
	if !ok || sm.err != nil || sm.cached {
		t.Errorf("refresh layout = %+v", sm)
	}
	if !strings.Contains(m.View(), "recompute") {
		t.Error("help line should list the refresh key")
	}
}
