package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/stockroom-app/variantd/pkg/gate"
	"github.com/stockroom-app/variantd/pkg/model"
	"github.com/stockroom-app/variantd/pkg/registry"
)

func statusLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}

// featureTable renders the enabled/disabled state of every feature under g.
func featureTable(g *gate.Gate) string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.Style().Format.Header = text.FormatDefault
	w.AppendHeader(table.Row{"Feature", "Title", "Status"})
	for _, s := range g.Statuses() {
		w.AppendRow(table.Row{s.Key, s.Title, statusLabel(s.Enabled)})
	}
	return w.Render()
}

// matrixTable renders the full availability matrix of the registry.
func matrixTable() string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.Style().Format.Header = text.FormatDefault
	header := table.Row{"Feature"}
	for _, v := range model.Variants() {
		header = append(header, v)
	}
	w.AppendHeader(header)
	for _, f := range registry.All() {
		row := table.Row{f.Key}
		for _, v := range model.Variants() {
			mark := "-"
			if f.Availability.In(v) {
				mark = "yes"
			}
			row = append(row, mark)
		}
		w.AppendRow(row)
	}
	return w.Render()
}
