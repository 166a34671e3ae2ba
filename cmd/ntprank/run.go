package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/timekit-kr/ntprank/internal/sugar"
	"github.com/timekit-kr/ntprank/internal/ui"
	"github.com/timekit-kr/ntprank/pkg/ntprank"
)

const (
	padding  = 10
	maxWidth = 80
)

func handleRunCommand(config ntprank.Config, okRate float64, top int, port string) {
	m := runModel{
		config:       config,
		okRate:       okRate,
		top:          top,
		port:         port,
		table:        setupTable(),
		progressChan: make(chan struct{}, len(config.Servers)*config.Sample.Samples),
	}
	m.progress = progress.New(progress.WithScaledGradient("#68b1b1", "#6ea4ff"))

	if _, err := sugar.RunProgramWithErrors(m); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

type runModel struct {
	config ntprank.Config
	okRate float64
	top    int
	port   string

	progress     progress.Model
	progressChan chan struct{}
	attempts     int

	table table.Model
	done  bool
	best  *ntprank.Ranked
	err   error
}

type measureResultMessage struct {
	ranked []ntprank.Ranked
	best   *ntprank.Ranked
}
type measureErrorMessage error
type progressUpdateMessage struct{}

func measureCommand(m runModel) tea.Cmd {
	return func() tea.Msg {
		collector := &ntprank.Collector{
			Querier:  &ntprank.Client{Port: m.port},
			Config:   m.config.Sample,
			Progress: m.progressChan,
		}
		stats, err := collector.CollectStats(context.Background(), m.config.Servers)
		if err != nil {
			return measureErrorMessage(err)
		}
		ranked, err := ntprank.RankServers(stats, m.config.Base, m.config.Rank)
		if err != nil {
			return measureErrorMessage(err)
		}
		best, err := ntprank.Recommend(ranked, m.okRate)
		if err != nil {
			return measureErrorMessage(err)
		}
		return measureResultMessage{ranked: ranked, best: best}
	}
}

func progressListenCommand(m runModel) tea.Cmd {
	return func() tea.Msg {
		<-m.progressChan
		return progressUpdateMessage{}
	}
}

func (m runModel) totalAttempts() int {
	total := len(m.config.Servers) * m.config.Sample.Samples
	if total < 1 {
		return 1
	}
	return total
}

func (m runModel) Init() tea.Cmd {
	return tea.Batch(measureCommand(m), progressListenCommand(m))
}

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.progress.Width = msg.Width - padding*2 - 4
		if m.progress.Width > maxWidth {
			m.progress.Width = maxWidth
		}
		return m, nil
	case progressUpdateMessage:
		m.attempts++
		return m, progressListenCommand(m)
	case measureResultMessage:
		m.done = true
		m.best = msg.best
		m.table.SetRows(rankedRows(msg.ranked, m.top))
		return m, nil
	case measureErrorMessage:
		m.err = msg
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m runModel) View() (s string) {
	if m.err != nil {
		return
	}

	s += ui.Title("ntprank") + "\n\n"
	if !m.done {
		s += m.progress.ViewAs(float64(m.attempts)/float64(m.totalAttempts())) + "\n\n"
		s += ui.Help(fmt.Sprintf("measuring %d servers, base %s", len(m.config.Servers), m.config.Base)) + "\n"
		return
	}

	s += ui.TableBase(m.table.View()) + "\n\n"
	s += recommendationLine(m.best) + "\n"
	s += ui.Help("q: exit") + "\n"
	return
}

func (m runModel) GetError() error {
	return m.err
}

func recommendationLine(best *ntprank.Ranked) string {
	if best == nil {
		return "No recommendation. Try lowering -ok-rate or increasing -samples."
	}
	return fmt.Sprintf("Recommended: %s (grade=%s, score=%.2f)", best.Server, best.Grade, best.Score)
}

func rankedRows(ranked []ntprank.Ranked, top int) []table.Row {
	if top > 0 && top < len(ranked) {
		ranked = ranked[:top]
	}
	rows := []table.Row{}
	for i, r := range ranked {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			r.Server,
			strconv.FormatFloat(r.Score, 'f', 2, 64),
			ui.GradeText(string(r.Grade)),
			strconv.FormatFloat(r.VsBaseMS, 'f', 2, 64),
			strconv.FormatFloat(r.AvgDelayMS, 'f', 2, 64),
			fmt.Sprintf("%d/%d", r.OK, r.Fail),
		})
	}
	return rows
}

func setupTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Server", Width: 22},
		{Title: "Score", Width: 8},
		{Title: "Grade", Width: 5},
		{Title: "Vs base (ms)", Width: 12},
		{Title: "Delay (ms)", Width: 10},
		{Title: "OK/Fail", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(7),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ui.TableGray).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func handlePlainCommand(config ntprank.Config, okRate float64, top int, port string) {
	collector := &ntprank.Collector{
		Querier: &ntprank.Client{Port: port},
		Config:  config.Sample,
	}
	stats, err := collector.CollectStats(context.Background(), config.Servers)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	ranked, err := ntprank.RankServers(stats, config.Base, config.Rank)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	best, err := ntprank.Recommend(ranked, okRate)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(ntprank.FormatRankedTable(ranked, top))
	fmt.Println()
	fmt.Println(recommendationLine(best))
}
