package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geomkit/pkg/dataset"
	"github.com/matzehuels/geomkit/pkg/dimension"
	"github.com/matzehuels/geomkit/pkg/geometry"
	"github.com/matzehuels/geomkit/pkg/pipeline"
)

// Geometry units per terminal cell. Rows are twice as tall as columns are
// wide in most fonts.
const (
	cellWidth  = 8.0
	cellHeight = 16.0

	// chromeRows are the terminal rows taken by the header and footer.
	chromeRows = 3
)

var previewKeyStyle = lipgloss.NewStyle().Foreground(colorMuted)

type previewKeys struct {
	Chart   key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func (k previewKeys) ShortHelp() []key.Binding  { return []key.Binding{k.Chart, k.Refresh, k.Quit} }
func (k previewKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

func newPreviewKeys() previewKeys {
	return previewKeys{
		Chart:   key.NewBinding(key.WithKeys("c", "tab"), key.WithHelp("c", "next chart")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recompute")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// previewCommand opens a live terminal preview that re-lays the chart out
// whenever the window settles on a new size.
func (c *CLI) previewCommand() *cobra.Command {
	var flags chartFlags

	cmd := &cobra.Command{
		Use:   "preview [data]",
		Short: "Preview a chart live in the terminal",
		Long: `Preview a chart live in the terminal.

The chart is laid out to fill the terminal and recomputed whenever the window
is resized. With animations enabled in the config every resize re-lays out
immediately; otherwise resizes are debounced until the window settles.

Keys: c cycles the chart, r recomputes without the cache, q quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), args[0], &flags)
		},
	}

	flags.register(cmd)

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, input string, flags *chartFlags) error {
	ds, err := pipeline.ReadDataset(ctx, input)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", input, err)
	}
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	// Logging to the terminal would tear the alternate screen.
	quiet := c.Logger.With()
	quiet.SetLevel(log.ErrorLevel)

	opts := c.chartOptions(flags)
	opts.Logger = quiet

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newPreviewModel(ctx, runner, ds, opts)
	m.resolver = dimension.New(m.surface, m.sizes.offer,
		dimension.WithMode(dimension.ModeFor(opts.Config.AnimationsEnabled)),
		dimension.WithLogger(quiet),
	)
	go func() { _ = m.resolver.Run(ctx) }()

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// =============================================================================
// Surface
// =============================================================================

// termSurface is the terminal window measured in geometry units. The chart
// area excludes the header and footer rows.
type termSurface struct {
	mu         sync.Mutex
	cols, rows int
}

func (s *termSurface) set(cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cols, s.rows = cols, rows
}

func (s *termSurface) Measure() geometry.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return geometry.Size{
		Width:  float64(s.cols) * cellWidth,
		Height: float64(max(s.rows-chromeRows, 0)) * cellHeight,
	}
}

func (s *termSurface) Parent() (geometry.Size, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cols == 0 || s.rows == 0 {
		return geometry.Size{}, false
	}
	return geometry.Size{Width: float64(s.cols) * cellWidth, Height: float64(s.rows) * cellHeight}, true
}

// sizeFeed hands published sizes to the UI. Only the latest size is kept so
// the resolver never blocks on a slow layout.
type sizeFeed chan geometry.Size

func (f sizeFeed) offer(s geometry.Size) {
	for {
		select {
		case f <- s:
			return
		default:
		}
		select {
		case <-f:
		default:
		}
	}
}

// =============================================================================
// Model
// =============================================================================

type sizeMsg geometry.Size

type sceneMsg struct {
	chart  string
	size   geometry.Size
	scene  *geometry.Scene
	cached bool
	err    error
}

// previewModel is the bubbletea model behind the preview command.
type previewModel struct {
	ctx      context.Context
	runner   *pipeline.Runner
	ds       *dataset.Dataset
	opts     pipeline.Options
	surface  *termSurface
	resolver *dimension.Resolver
	sizes    sizeFeed
	keys     previewKeys
	help     help.Model

	cols, rows int
	size       geometry.Size
	scene      *geometry.Scene
	cached     bool
	layouts    int
	err        error
}

func newPreviewModel(ctx context.Context, runner *pipeline.Runner, ds *dataset.Dataset, opts pipeline.Options) previewModel {
	return previewModel{
		ctx:     ctx,
		runner:  runner,
		ds:      ds,
		opts:    opts,
		surface: &termSurface{},
		sizes:   make(sizeFeed, 1),
		keys:    newPreviewKeys(),
		help:    help.New(),
	}
}

func (m previewModel) Init() tea.Cmd {
	return m.waitForSize()
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Chart):
			i := slices.Index(pipeline.Charts, m.opts.Chart)
			m.opts.Chart = pipeline.Charts[(i+1)%len(pipeline.Charts)]
			m.scene = nil
			return m, m.layout()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.relayout(true)
		}
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.surface.set(msg.Width, msg.Height)
		return m, m.notify()
	case sizeMsg:
		m.size = geometry.Size(msg)
		return m, tea.Batch(m.layout(), m.waitForSize())
	case sceneMsg:
		if msg.chart != m.opts.Chart || msg.size != m.size {
			return m, nil
		}
		m.scene, m.cached, m.err = msg.scene, msg.cached, msg.err
		if msg.err == nil {
			m.layouts++
		}
	}
	return m, nil
}

func (m previewModel) waitForSize() tea.Cmd {
	sizes := m.sizes
	return func() tea.Msg {
		return sizeMsg(<-sizes)
	}
}

func (m previewModel) notify() tea.Cmd {
	if m.resolver == nil {
		return nil
	}
	ctx, res := m.ctx, m.resolver
	return func() tea.Msg {
		_ = res.Notify(ctx, dimension.Viewport)
		return nil
	}
}

func (m previewModel) layout() tea.Cmd { return m.relayout(false) }

// relayout computes the scene for the current chart and size. With refresh
// set the cached scene is ignored and replaced.
func (m previewModel) relayout(refresh bool) tea.Cmd {
	if m.size.Width <= 0 || m.size.Height <= 0 {
		return nil
	}
	ctx, runner, ds := m.ctx, m.runner, m.ds
	opts := m.opts
	opts.Width, opts.Height = m.size.Width, m.size.Height
	opts.Refresh = opts.Refresh || refresh
	return func() tea.Msg {
		scene, hit, err := runner.LayoutWithCacheInfo(ctx, ds, opts)
		return sceneMsg{chart: opts.Chart, size: geometry.Size{Width: opts.Width, Height: opts.Height}, scene: scene, cached: hit, err: err}
	}
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName+" preview") + " " + StyleHighlight.Render(m.opts.Chart))
	b.WriteString("\n")

	area := max(m.rows-chromeRows, 0)
	switch {
	case m.err != nil:
		b.WriteString(StyleWarning.Render(m.err.Error()))
		b.WriteString(strings.Repeat("\n", max(area, 1)))
	case m.scene == nil:
		b.WriteString(StyleDim.Render("waiting for the terminal size..."))
		b.WriteString(strings.Repeat("\n", max(area, 1)))
	default:
		b.WriteString(renderGrid(rasterize(m.scene, m.cols, area)))
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())
	return b.String()
}

func (m previewModel) statusLine() string {
	status := "fresh"
	if m.cached {
		status = "cached"
	}
	primitives := 0
	if m.scene != nil {
		primitives = m.scene.Len()
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).BorderBottom(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col%2 == 0 {
				return previewKeyStyle
			}
			return StyleValue
		}).
		Row("size", fmt.Sprintf("%.0fx%.0f", m.size.Width, m.size.Height),
			"primitives", fmt.Sprint(primitives),
			"layouts", fmt.Sprint(m.layouts),
			"cache", status)
	return t.Render() + "  " + m.help.View(m.keys)
}

// rasterize samples the scene's cell layer at the center of every terminal
// cell and returns the fill found there, or "" for background.
func rasterize(scene *geometry.Scene, cols, rows int) [][]string {
	cells := scene.Layer(geometry.LayerCells)
	grid := make([][]string, rows)
	for r := range grid {
		grid[r] = make([]string, cols)
		for k := range grid[r] {
			pt := geometry.Point{X: (float64(k) + 0.5) * cellWidth, Y: (float64(r) + 0.5) * cellHeight}
			for i := len(cells) - 1; i >= 0; i-- {
				if cells[i].Kind != geometry.KindText && cells[i].Contains(pt) {
					grid[r][k] = cells[i].Fill
					break
				}
			}
		}
	}
	return grid
}

// renderGrid paints runs of equal fill as colored blocks.
func renderGrid(grid [][]string) string {
	var b strings.Builder
	for r, row := range grid {
		if r > 0 {
			b.WriteByte('\n')
		}
		for k := 0; k < len(row); {
			j := k
			for j < len(row) && row[j] == row[k] {
				j++
			}
			if row[k] == "" {
				b.WriteString(strings.Repeat(" ", j-k))
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(row[k])).Render(strings.Repeat("█", j-k)))
			}
			k = j
		}
	}
	return b.String()
}
