package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"sentiment/internal/domain"
)

// AnalyzerPort is the TUI-facing subset of the sentiment service.
type AnalyzerPort interface {
	Analyze(ctx context.Context, text string) (domain.Analysis, error)
	Decode(seq domain.Sequence) string
	UnknownWords(text string) []string
	ModelName() string
}

const formHeight = 8

type analysisMsg struct {
	text     string
	analysis domain.Analysis
	err      error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service   AnalyzerPort
	timeout   time.Duration
	input     textarea.Model
	spinner   spinner.Model
	viewport  viewport.Model
	result    *domain.Analysis
	reviewed  string
	errMsg    string
	analyzing bool
	ready     bool
	width     int
}

// New creates a new TUI model instance. timeout bounds each analysis.
func New(service AnalyzerPort, timeout time.Duration) Model {
	ta := textarea.New()
	ta.Placeholder = "Type your movie review here..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(formHeight)
	ta.Focus()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4B4B"))
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return Model{service: service, timeout: timeout, input: ta, spinner: sp, viewport: viewport.New(0, 0)}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textarea.Blink }

// Update handles key, window and analysis events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		left, _ := columnWidths(msg.Width)
		fw, fh := formBoxStyle.GetFrameSize()
		_, rh := resultBoxStyle.GetFrameSize()
		m.input.SetWidth(max(20, left-fw))
		// header(2) + form title(1) + status(1) + help(1)
		reserved := 5 + formHeight + fh + rh
		m.viewport.Width = max(20, left-fw)
		m.viewport.Height = max(3, msg.Height-reserved)
		m.viewport.SetContent(m.renderResult())
		return m, nil
	case analysisMsg:
		m.analyzing = false
		if msg.err != nil {
			m.result = nil
			m.errMsg = analysisErrorMsg + "\n" + msg.err.Error()
		} else {
			a := msg.analysis
			m.result = &a
			m.reviewed = msg.text
			m.errMsg = ""
		}
		m.viewport.SetContent(m.renderResult())
		m.viewport.GotoTop()
		return m, nil
	case spinner.TickMsg:
		if !m.analyzing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+s":
			if m.analyzing {
				return m, nil
			}
			text := m.input.Value()
			if strings.TrimSpace(text) == "" {
				m.errMsg = emptyReviewMsg
				return m, nil
			}
			m.errMsg = ""
			m.analyzing = true
			return m, tea.Batch(m.spinner.Tick, analyzeCmd(m.service, text, m.timeout))
		case "ctrl+e":
			m.input.SetValue(positiveExample)
			return m, nil
		case "ctrl+n":
			m.input.SetValue(negativeExample)
			return m, nil
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func analyzeCmd(svc AnalyzerPort, text string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		a, err := svc.Analyze(ctx, text)
		return analysisMsg{text: text, analysis: a, err: err}
	}
}

// View renders the form, result pane and sidebar.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	left, right := columnWidths(m.width)
	header := titleStyle.Render("🎬 Movie Review Sentiment Analyzer")

	form := formBoxStyle.Render(subtitleStyle.Render("Enter your movie review") + "\n" + m.input.View())
	var status string
	switch {
	case m.analyzing:
		status = m.spinner.View() + " " + analyzingMsg
	case m.errMsg != "":
		status = errorStyle.Render(m.errMsg)
	default:
		status = mutedStyle.Render("Model: " + m.service.ModelName())
	}
	results := resultBoxStyle.Render(m.viewport.View())
	main := lipgloss.NewStyle().Width(left).Render(lipgloss.JoinVertical(lipgloss.Left, form, status, results))

	if right > 0 {
		main = lipgloss.JoinHorizontal(lipgloss.Top, main, renderSidebar(right))
	}
	return header + "\n" + main + "\n" + mutedStyle.Render(helpLine)
}

func (m Model) renderResult() string {
	if m.result == nil {
		return "No analysis yet."
	}
	a := m.result
	width := max(20, m.viewport.Width)

	box := negativeBoxStyle
	if a.Sentiment == domain.Positive {
		box = positiveBoxStyle
	}
	verdict := box.Width(width).Render(fmt.Sprintf("%s Review", a.Sentiment))

	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Analysis Results") + "\n")
	b.WriteString(verdict + "\n\n")
	b.WriteString(renderGauge(a.Score, width) + "\n\n")
	b.WriteString(subtitleStyle.Render("Review Statistics") + "\n")
	fmt.Fprintf(&b, "Word count: %d\n", a.Stats.Words)
	fmt.Fprintf(&b, "Sentences: %d\n", a.Stats.Sentences)
	fmt.Fprintf(&b, "Confidence score: %.2f%%\n", a.Confidence*100)
	fmt.Fprintf(&b, "Vocabulary coverage: %.0f%% (%d unknown)\n", a.Stats.Coverage()*100, a.Stats.Unknown)
	if a.Stats.Truncated {
		b.WriteString(mutedStyle.Render("Only the last part of the review fit the model input.") + "\n")
	}
	if unknown := m.service.UnknownWords(m.reviewed); len(unknown) > 0 {
		b.WriteString("Not in vocabulary: " + highlightStyle.Render(strings.Join(unknown, ", ")) + "\n")
	}
	b.WriteString("\n" + subtitleStyle.Render("Model input") + "\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(highlightUnknown(m.service.Decode(a.Sequence))))
	return b.String()
}

func renderSidebar(width int) string {
	inner := max(10, width-sidebarStyle.GetHorizontalFrameSize())
	wrap := lipgloss.NewStyle().Width(inner)
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("About") + "\n")
	b.WriteString(wrap.Render(aboutText) + "\n\n")
	b.WriteString(subtitleStyle.Render("Tips for best results:") + "\n")
	for _, t := range tips {
		b.WriteString(wrap.Render("• "+t) + "\n")
	}
	b.WriteString("\n" + subtitleStyle.Render("Example Reviews") + "\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Positive (ctrl+e):") + "\n")
	b.WriteString(wrap.Italic(true).Render(positiveExample) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Negative (ctrl+n):") + "\n")
	b.WriteString(wrap.Italic(true).Render(negativeExample))
	return sidebarStyle.Width(width - sidebarStyle.GetHorizontalBorderSize()).Render(b.String())
}

// highlightUnknown marks the unknown-word tokens of a decoded sequence.
func highlightUnknown(decoded string) string {
	words := strings.Fields(decoded)
	for i, w := range words {
		if w == "<UNK>" || w == "?" {
			words[i] = highlightStyle.Render(w)
		}
	}
	return strings.Join(words, " ")
}

// columnWidths splits the terminal 2:1 between the form and the sidebar.
// Narrow terminals drop the sidebar.
func columnWidths(total int) (left, right int) {
	if total < 90 {
		return max(20, total), 0
	}
	right = total / 3
	return total - right, right
}

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF4B4B")).MarginBottom(1)
	subtitleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	highlightStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	formBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	resultBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sidebarStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	positiveBoxStyle = lipgloss.NewStyle().Bold(true).Align(lipgloss.Center).Padding(1, 0).
				Background(lipgloss.Color("#90EE90")).Foreground(lipgloss.Color("#1E4620"))
	negativeBoxStyle = lipgloss.NewStyle().Bold(true).Align(lipgloss.Center).Padding(1, 0).
				Background(lipgloss.Color("#FFB6C1")).Foreground(lipgloss.Color("#8B0000"))
)
