package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/shop"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
)

var panelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#5A5A5A")).
	Padding(0, 1)

func renderReceipt(r shop.Receipt) string {
	lines := []string{
		successStyle.Render("Purchase complete"),
		fmt.Sprintf("order %s", r.OrderID),
		fmt.Sprintf("total %.2f %s", r.Total, r.Currency),
	}
	return strings.Join(lines, "\n")
}

// renderFeed shows the event feed most recent first. Collapsed, only the
// count is printed.
func renderFeed(feed []string, expand bool) string {
	header := titleStyle.Render(fmt.Sprintf("Analytics events (%d)", len(feed)))
	if !expand {
		return header + "\n" + mutedStyle.Render("run with --expand to show every event")
	}

	panels := make([]string, 0, len(feed)+1)
	panels = append(panels, header)
	for _, text := range feed {
		panels = append(panels, panelStyle.Render(text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func renderEnvelope(env events.EventEnvelope, text string) string {
	meta := mutedStyle.Render(fmt.Sprintf("#%d %s %s", env.Sequence, env.PartitionKey, env.OccurredAt.Format("15:04:05")))
	return lipgloss.JoinVertical(lipgloss.Left, meta, panelStyle.Render(text))
}
