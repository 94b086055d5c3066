// Package output renders audit reports for the command line.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"sigs.k8s.io/yaml"

	"secretsAuditor/internal/config"
	"secretsAuditor/internal/models"
)

// Printer writes reports to w in one of the config.Output* formats.
type Printer struct {
	w      io.Writer
	format string
	styles styles
}

type styles struct {
	namespace lipgloss.Style
	empty     lipgloss.Style
	unused    lipgloss.Style
	used      lipgloss.Style
}

// NewPrinter returns a Printer for format. Colors are only emitted when w is a terminal.
func NewPrinter(w io.Writer, format string) (*Printer, error) {
	switch format {
	case config.OutputText, config.OutputTable, config.OutputJSON, config.OutputYAML:
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}

	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:      w,
		format: format,
		styles: styles{
			namespace: r.NewStyle().Foreground(lipgloss.Color("2")),
			empty:     r.NewStyle().Foreground(lipgloss.Color("3")),
			unused:    r.NewStyle().Foreground(lipgloss.Color("1")),
			used:      r.NewStyle().Foreground(lipgloss.Color("6")),
		},
	}, nil
}

// Print renders report.
func (p *Printer) Print(report models.AuditReport) error {
	switch p.format {
	case config.OutputTable:
		return p.printTable(report)
	case config.OutputJSON:
		return p.printJSON(report)
	case config.OutputYAML:
		return p.printYAML(report)
	default:
		return p.printText(report)
	}
}

func (p *Printer) printText(report models.AuditReport) error {
	var b strings.Builder
	for _, ns := range report.Namespaces {
		b.WriteString(p.styles.namespace.Render("+ Namespace : "+ns.Namespace) + "\n")
		if len(ns.UnusedSecrets) == 0 {
			b.WriteString(p.styles.empty.Render("  - No unused secrets found") + "\n")
		}
		for _, name := range ns.UnusedSecrets {
			b.WriteString(p.styles.unused.Render("  - "+name) + "\n")
		}
		for _, usage := range ns.UsedSecrets {
			line := fmt.Sprintf("  = %s (%s)", usage.Name, strings.Join(usage.Sources, ", "))
			b.WriteString(p.styles.used.Render(line) + "\n")
		}
	}

	if _, err := io.WriteString(p.w, b.String()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (p *Printer) printTable(report models.AuditReport) error {
	headers := []string{"Namespace", "Secret", "Status", "Sources"}

	table := tablewriter.NewWriter(p.w)
	table.Options(
		tablewriter.WithHeader(headers),
		tablewriter.WithRendition(
			tw.Rendition{
				Borders: tw.Border{
					Left:   tw.State(1),
					Top:    tw.State(1),
					Right:  tw.State(1),
					Bottom: tw.State(1),
				},
			},
		),
		tablewriter.WithAlignment(tw.MakeAlign(len(headers), tw.AlignLeft)),
	)

	for _, row := range tableRows(report) {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func tableRows(report models.AuditReport) [][]string {
	var rows [][]string
	for _, ns := range report.Namespaces {
		if len(ns.UnusedSecrets) == 0 && len(ns.UsedSecrets) == 0 {
			rows = append(rows, []string{ns.Namespace, "-", "clean", "-"})
			continue
		}
		for _, name := range ns.UnusedSecrets {
			rows = append(rows, []string{ns.Namespace, name, "unused", "-"})
		}
		for _, usage := range ns.UsedSecrets {
			rows = append(rows, []string{ns.Namespace, usage.Name, "used", strings.Join(usage.Sources, ", ")})
		}
	}
	return rows
}

func (p *Printer) printJSON(report models.AuditReport) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report as json: %w", err)
	}
	return nil
}

func (p *Printer) printYAML(report models.AuditReport) error {
	out, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report as yaml: %w", err)
	}
	if _, err := p.w.Write(out); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
