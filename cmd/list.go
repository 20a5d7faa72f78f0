package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"portdash/internal/scan"
)

var listVerbose bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one snapshot of listening services",
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := newScanner().Snapshot(cmd.Context())
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No listening services found.")
			return nil
		}
		fmt.Println(renderTable(records, listVerbose))
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listVerbose, "wide", false, "include CPU, memory and path columns")
	rootCmd.AddCommand(listCmd)
}

func renderTable(records []scan.ServiceRecord, wide bool) string {
	headers := []string{"PID", "Name", "Port", "Proto", "Uptime", "Fwd"}
	if wide {
		headers = append(headers, "CPU%", "MEM MB", "Path")
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		fwd := "no"
		if rec.Reachable {
			fwd = "yes"
		}
		row := []string{
			fmt.Sprintf("%d", rec.PID),
			rec.Name,
			fmt.Sprintf("%d", rec.Port),
			string(rec.Protocol),
			rec.UptimeString(),
			fwd,
		}
		if wide {
			row = append(row,
				fmt.Sprintf("%.1f", rec.CPUPercent),
				fmt.Sprintf("%.1f", rec.MemoryMB),
				rec.Path,
			)
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cellStyle := lipgloss.NewStyle().PaddingRight(1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	return t.Render()
}
