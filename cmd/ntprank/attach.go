package main

import (
	"fmt"
	"log"
	"net/rpc"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/timekit-kr/ntprank/internal/ui"
	"github.com/timekit-kr/ntprank/pkg/ntprank"
)

func handleAttachCommand(socket string) {
	m := attachModel{socket: socket, table: setupTable()}

	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

const fetchReportPeriod = time.Second * 5

type attachModel struct {
	socket string

	table            table.Model
	report           ntprank.Report
	daemonKillStatus string
}

var client *rpc.Client

type dialSocketMessage *rpc.Client
type fetchReportMessage ntprank.Report
type tickMsg time.Time

func dialSocketCommand(m attachModel) tea.Cmd {
	return func() tea.Msg {
		client, err := rpc.Dial("unix", m.socket)
		if err != nil {
			log.Fatalf("Error connecting to ntprank daemon: %v", err)
		}

		return dialSocketMessage(client)
	}
}

func fetchReportCommand() tea.Cmd {
	return func() tea.Msg {
		var report ntprank.Report
		err := client.Call("RPCServer.FetchReport", 0, &report)
		if err != nil {
			log.Fatalf("Error getting report from daemon: %v", err)
		}
		return fetchReportMessage(report)
	}
}

func stopDaemonCommand() tea.Cmd {
	return func() tea.Msg {
		killDaemon()
		return nil
	}
}

func tickCommand(duration time.Duration) tea.Cmd {
	return tea.Tick(duration, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m attachModel) Init() tea.Cmd {
	return dialSocketCommand(m)
}

func (m attachModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.table.Focused() {
				m.table.Blur()
			} else {
				m.table.Focus()
			}
		case "s":
			m.daemonKillStatus = "Stopping " + daemonName
			return m, tea.Sequence(stopDaemonCommand(), tea.Quit)
		case "ctrl+c", "q":
			return m, tea.Quit
		}

		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	case dialSocketMessage:
		client = msg
		return m, tickCommand(0)
	case fetchReportMessage:
		m.report = ntprank.Report(msg)
		m.table.SetRows(rankedRows(m.report.Ranked, 0))
		return m, nil
	case tickMsg:
		return m, tea.Batch(tickCommand(fetchReportPeriod), fetchReportCommand())
	default:
		return m, nil
	}
}

func (m attachModel) View() (s string) {
	s += ui.Title("ntprank monitor") + "\n"
	s += ui.TableBase(m.table.View()) + "\n\n"
	s += recommendationLine(m.report.Best) + "\n"
	if !m.report.Updated.IsZero() {
		s += ui.Help(fmt.Sprintf("measured %s ago", time.Since(m.report.Updated).Round(time.Second))) + "\n"
	}
	if m.daemonKillStatus != "" {
		s += m.daemonKillStatus + "\n"
	} else {
		s += ui.Help("q: exit, s: stop daemon") + "\n"
	}
	return
}
