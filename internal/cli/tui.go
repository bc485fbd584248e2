package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/offpack/pkg/cache"
	"github.com/matzehuels/offpack/pkg/deps"
	"github.com/matzehuels/offpack/pkg/integrations/npm"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

type keyMap struct {
	Up, Down, Load, Quit key.Binding
}

var optionalKeys = keyMap{
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Load: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("⏎", "load")),
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "done")),
}

func (k keyMap) help() string {
	parts := make([]string, 0, 4)
	for _, b := range []key.Binding{k.Up, k.Down, k.Load, k.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

// loadFunc resolves one optional dependency on top of c.
type loadFunc func(ctx context.Context, c *deps.Cache, opt deps.OptionalDependency) *deps.Result

// loadedMsg carries the outcome of a background load.
type loadedMsg struct {
	opt deps.OptionalDependency
	res *deps.Result
}

// optionalModel is the bubbletea model for browsing optional dependencies
// and loading them one at a time.
type optionalModel struct {
	ctx     context.Context
	load    loadFunc
	result  *deps.Result
	items   []deps.OptionalDependency
	cursor  int
	offset  int
	height  int
	loading bool
	status  string
	spinner spinner.Model
}

func newOptionalModel(ctx context.Context, res *deps.Result, load loadFunc) optionalModel {
	return optionalModel{
		ctx:     ctx,
		load:    load,
		result:  res,
		items:   deps.OptionalDependencies(res.Cache),
		height:  15,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleIconSpinner)),
	}
}

func (m optionalModel) Init() tea.Cmd {
	return nil
}

func (m optionalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, optionalKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, optionalKeys.Up):
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case key.Matches(msg, optionalKeys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case key.Matches(msg, optionalKeys.Load):
			if m.loading || len(m.items) == 0 || m.items[m.cursor].Satisfied {
				return m, nil
			}
			opt := m.items[m.cursor]
			m.loading = true
			m.status = "Loading " + opt.Request.String()
			return m, tea.Batch(m.spinner.Tick, m.loadCmd(opt))
		}

	case loadedMsg:
		m.loading = false
		if msg.res.Err != nil {
			m.status = "Cancelled"
			return m, nil
		}
		added := msg.res.Cache.Len() - m.result.Cache.Len()
		m.result = &deps.Result{
			Cache:  msg.res.Cache,
			Errors: append(m.result.Errors, msg.res.Errors...),
		}
		m.items = deps.OptionalDependencies(m.result.Cache)
		m.cursor = min(m.cursor, max(len(m.items)-1, 0))
		m.status = fmt.Sprintf("Loaded %s: %d new versions", msg.opt.Request, added)
		if n := len(msg.res.Errors); n > 0 {
			m.status += fmt.Sprintf(", %d unresolved", n)
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m optionalModel) loadCmd(opt deps.OptionalDependency) tea.Cmd {
	c := m.result.Cache
	return func() tea.Msg {
		return loadedMsg{opt: opt, res: m.load(m.ctx, c, opt)}
	}
}

func (m optionalModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Optional Dependencies"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(optionalKeys.help()))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(listDimStyle.Render("  No optional dependencies"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.offset+m.height, len(m.items))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		opt := m.items[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		state := "○"
		if opt.Satisfied {
			state = iconSuccess
		}
		rows = append(rows, []string{cursor, state, opt.Request.Name, opt.Request.Range, opt.From.String()})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Package", "Range", "Declared by").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.offset + row
			if idx >= len(m.items) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.cursor:
				return listSelectedStyle
			case m.items[idx].Satisfied:
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.loading {
		b.WriteString(m.spinner.View() + " ")
	}
	b.WriteString(listDimStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] · %d versions", m.cursor+1, len(m.items), m.result.Cache.Len())))

	return b.String()
}

// browse lets the user load optional dependencies interactively and
// returns the result as it stands when they quit.
func (c *CLI) browse(ctx context.Context, client *npm.Client, store cache.Cache, res *deps.Result) (*deps.Result, error) {
	if len(deps.OptionalDependencies(res.Cache)) == 0 {
		printInfo("No optional dependencies to browse")
		return res, nil
	}

	r := c.newResolver(client, store, nil)
	load := func(ctx context.Context, cur *deps.Cache, opt deps.OptionalDependency) *deps.Result {
		return deps.LoadOptional(ctx, r, cur, opt)
	}

	p := tea.NewProgram(newOptionalModel(ctx, res, load), tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("interactive mode: %w", err)
	}
	return final.(optionalModel).result, nil
}
