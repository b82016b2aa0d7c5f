package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/arenainfra/podctl/domain"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

type EncodingType string

const (
	EncodingTable EncodingType = "table"
	EncodingYAML  EncodingType = "yaml"
	EncodingJSON  EncodingType = "json"
)

var allEncodings = []EncodingType{EncodingTable, EncodingYAML, EncodingJSON}

func Encodings() []string {
	out := make([]string, len(allEncodings))
	for i, e := range allEncodings {
		out[i] = string(e)
	}
	return out
}

// Pods writes the pod listing in the given encoding.
func Pods(w io.Writer, rows []domain.PodRow, output EncodingType) error {
	var err error
	switch output {
	case EncodingTable, "":
		err = podsTable(w, rows)
	case EncodingYAML:
		err = yaml.NewEncoder(w).Encode(rows)
	case EncodingJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(rows)
	default:
		err = fmt.Errorf("unknown output format: %q", output)
	}
	if err != nil {
		return fmt.Errorf("encoding pods as %q failed: %w", output, err)
	}
	return nil
}

func podsTable(w io.Writer, rows []domain.PodRow) error {
	if len(rows) == 0 {
		_, err := io.WriteString(w, "No pods found\n")
		return err
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"IP", "SSH Port", "Cost/hr", "Last Status Change", "Name", "Status", "GPU"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.PublicIP, row.SSHPort, row.CostPerHr, row.StatusTime, row.Name, row.Status, row.GPU})
	}
	t.Render()
	return nil
}

// KillSummary writes the end-of-run summary of a kill run, followed by a
// table of the pods that did not end up deleted.
func KillSummary(w io.Writer, report *domain.KillReport) {
	fmt.Fprintf(w, "\nSummary (%s):\n", report.Outcome)
	t := newTable(w)
	t.AppendRows([]table.Row{
		{"Selected", report.Selected},
		{"Stop requested", report.RequestedStop},
		{"Stop errors", report.StopErrors},
		{"Confirmed stopped", report.ConfirmedStopped},
		{"Timed out", report.TimedOut},
		{"Delete requested", report.RequestedDelete},
		{"Deleted", report.Deleted},
		{"Delete errors", report.DeleteErrors},
		{"Poll rounds", report.PollRounds},
		{"Duration", report.Duration.Round(time.Second).String()},
	})
	t.Render()

	leftovers := report.RecordsIn(domain.PodStateStopError, domain.PodStateStopTimeout, domain.PodStateDeleteError)
	if len(leftovers) == 0 {
		return
	}
	fmt.Fprintln(w, "\nPods needing attention:")
	lt := newTable(w)
	lt.AppendHeader(table.Row{"Name", "ID", "State", "Error"})
	for _, rec := range leftovers {
		msg := ""
		if rec.Err != nil {
			msg = rec.Err.Error()
		}
		lt.AppendRow(table.Row{rec.PodName, rec.PodID, string(rec.State), msg})
	}
	lt.Render()
}

// KeySummary writes the end-of-run summary of a key distribution run.
func KeySummary(w io.Writer, report *domain.KeyReport) {
	fmt.Fprintln(w, "\nSummary:")
	t := newTable(w)
	t.AppendRows([]table.Row{
		{"Hosts", report.Hosts},
		{"Commands", report.Attempted},
		{"Succeeded", report.Succeeded},
		{"Failed", report.Failed},
		{"Duration", report.Duration.Round(time.Millisecond).String()},
	})
	t.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	style := table.StyleLight
	style.Options.DrawBorder = false
	style.Format.Header = text.FormatUpper
	t.SetStyle(style)
	if width := terminalWidth(w); width > 0 {
		t.SetAllowedRowLength(width)
	}
	return t
}

// terminalWidth returns the column count of w when it is a terminal, 0 otherwise.
// COLUMNS overrides the detected size.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		return cols
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
