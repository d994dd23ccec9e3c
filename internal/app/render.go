package app

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/EpsilonKu/fterm/internal/host"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Background(lipgloss.Color("236")).Padding(0, 1)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// borderForStyle maps a configured border tag to a lipgloss border.
func borderForStyle(tag string) (lipgloss.Border, bool) {
	switch tag {
	case "none":
		return lipgloss.Border{}, false
	case "single":
		return lipgloss.NormalBorder(), true
	case "double":
		return lipgloss.DoubleBorder(), true
	case "thick":
		return lipgloss.ThickBorder(), true
	default:
		return lipgloss.RoundedBorder(), true
	}
}

// View composes the editor pane and, when showing, the terminal float as
// layers on a canvas.
func (a *App) View() tea.View {
	var view tea.View
	if a.quitting {
		view.SetContent("")
		return view
	}

	canvas := lipgloss.NewCanvas()
	layers := []*lipgloss.Layer{
		lipgloss.NewLayer(a.renderBackground()).X(0).Y(0).Z(0).ID("editor"),
	}

	if a.Ctrl.IsOpen() {
		if float := a.renderFloat(); float != nil {
			layers = append(layers, float)
		}
	}

	canvas.AddLayers(layers...)
	view.SetContent(lipgloss.Sprint(canvas.Render()))
	view.AltScreen = true
	return view
}

func (a *App) renderBackground() string {
	width := max(a.Width, 1)
	height := max(a.Height, 1)

	var body strings.Builder
	body.WriteString(titleStyle.Render("fterm"))
	body.WriteString("\n\n")
	body.WriteString(hintStyle.Render("ctrl+t  toggle terminal"))
	body.WriteString("\n")
	body.WriteString(hintStyle.Render("ctrl+b  leave terminal input"))
	body.WriteString("\n")
	body.WriteString(hintStyle.Render("ctrl+q  quit"))
	body.WriteString("\n")
	if !a.Ctrl.IsOpen() && a.Ctrl.Buffer() != "" {
		body.WriteString("\n")
		body.WriteString(hintStyle.Render("terminal running in background"))
	}

	content := lipgloss.Place(width, height-1, lipgloss.Center, lipgloss.Center, body.String())
	return content + "\n" + a.renderFooter(width)
}

func (a *App) renderFooter(width int) string {
	left := fmt.Sprintf("cpu %3.0f%%  mem %3.0f%%", a.CPUPercent, a.MemPercent)

	right := ""
	if n, ok := a.Editor.LastNotice(); ok {
		style := noticeStyle
		if n.Level == host.LevelError {
			style = errStyle
		}
		right = style.Render(n.Msg)
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return footerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

func (a *App) renderFloat() *lipgloss.Layer {
	w, ok := a.Editor.FloatWindow(a.Ctrl.Window())
	if !ok {
		return nil
	}
	buf, ok := a.Editor.BufferByID(w.Buf)
	if !ok {
		return nil
	}

	geo := w.Opts.Geometry
	innerW := max(geo.Width-2, 1)
	innerH := max(geo.Height-2, 1)

	lines := buf.Tail(innerH)
	for i, line := range lines {
		if lipgloss.Width(line) > innerW {
			lines[i] = lipgloss.NewStyle().MaxWidth(innerW).Render(line)
		}
	}
	content := strings.Join(lines, "\n")

	border, withBorder := borderForStyle(w.Opts.Border)
	style := lipgloss.NewStyle().
		Width(innerW).
		Height(innerH).
		Align(lipgloss.Left).
		AlignVertical(lipgloss.Top)
	if withBorder {
		style = style.Border(border).BorderForeground(lipgloss.Color("12"))
	}
	if w.Opts.Blend > 0 {
		// Higher blend lets more of the background "through": render the
		// float's own content dimmer.
		style = style.Foreground(lipgloss.Color("245"))
	}

	return lipgloss.NewLayer(style.Render(content)).
		X(geo.Col).
		Y(geo.Row).
		Z(10).
		ID("float")
}
