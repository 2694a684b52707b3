package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"Streamflix/internal/catalog"
)

var (
	red = lipgloss.Color("160")

	headerStyle = lipgloss.NewStyle().Foreground(red).Bold(true).Align(lipgloss.Center)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func itemTable(items []catalog.Item) *table.Table {
	t := newTable("ID", "Title", "Year", "Genre", "Director", "IMDb")
	for _, it := range items {
		t.Row(
			fmt.Sprintf("%d", it.ID),
			truncate(it.Title, 40),
			fmt.Sprintf("%d", it.Year),
			truncate(strings.Join(it.Genre, ", "), 30),
			truncate(it.Director, 24),
			fmt.Sprintf("%.1f", it.IMDBRating),
		)
	}
	return t
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
