package main

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"patreonfetch/internal/config"
	"patreonfetch/internal/runner"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// renderSettings shows the persisted keys in file order.
func renderSettings(settings config.Settings) string {
	entries := settings.Entries()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Key, e.Value})
	}
	return renderTable([]string{"Setting", "Value"}, rows, nil)
}

// renderSummary prints the per-job table followed by the totals.
func renderSummary(summary runner.Summary, colorize bool) string {
	var b strings.Builder
	b.WriteString(renderSectionHeader("Summary", colorize))
	b.WriteString("\n")

	if len(summary.Results) > 0 {
		rows := make([][]string, 0, len(summary.Results))
		for _, res := range summary.Results {
			exit := "-"
			if res.State == runner.StateFailed {
				exit = strconv.Itoa(res.ExitCode)
			}
			rows = append(rows, []string{
				strconv.Itoa(res.Job.Index),
				res.Job.Creator,
				string(res.State),
				exit,
				humanize.Bytes(uint64(max(res.Bytes, 0))),
				res.Duration.Round(time.Second).String(),
			})
		}
		b.WriteString(renderTable(
			[]string{"#", "Creator", "Status", "Exit", "Size", "Duration"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight},
		))
		b.WriteString("\n")
	}

	b.WriteString(renderStatusLine("Succeeded", statusOK, strconv.Itoa(summary.Succeeded), colorize))
	b.WriteString("\n")
	failedKind := statusOK
	if summary.Failed > 0 {
		failedKind = statusError
	}
	b.WriteString(renderStatusLine("Failed", failedKind, strconv.Itoa(summary.Failed), colorize))
	if skipped := summary.Total - summary.Attempted; skipped > 0 {
		b.WriteString("\n")
		b.WriteString(renderStatusLine("Skipped", statusWarn, strconv.Itoa(skipped), colorize))
	}
	if summary.OutputRoot != "" {
		b.WriteString("\n")
		b.WriteString(renderStatusLine("Output", statusInfo, summary.OutputRoot, colorize))
	}
	return b.String()
}
