package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	titleStyle = color.New(color.Bold, color.FgWhite)
	labelStyle = color.New(color.FgHiBlue)
	hintStyle  = color.New(color.FgHiBlack)
)

// PrintTable renders rows left aligned with one space of padding.
func PrintTable(w io.Writer, headers []string, rows [][]string) error {
	table := tablewriter.NewTable(w)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Alignment.Global = tw.AlignLeft
		cfg.Row.Alignment.Global = tw.AlignLeft
		cfg.Header.Padding.Global = tw.Padding{Left: " ", Right: " "}
		cfg.Row.Padding.Global = tw.Padding{Left: " ", Right: " "}
	})

	table.Header(headers)
	if err := table.Bulk(rows); err != nil {
		return err
	}

	return table.Render()
}

func PrintTitle(w io.Writer, title string) {
	_, _ = titleStyle.Fprintln(w, title)
}

// PrintField prints "label: value"; empty values are skipped.
func PrintField(w io.Writer, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", labelStyle.Sprint(label+":"), value)
}

func PrintHint(w io.Writer, format string, args ...any) {
	_, _ = hintStyle.Fprintf(w, format, args...)
}
