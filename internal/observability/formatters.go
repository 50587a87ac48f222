// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/talent-graph/internal/graph"
	"github.com/jonathan/talent-graph/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCompetencies outputs the normalized competencies derived from a job.
func (p *Printer) PrintCompetencies(competencies []types.Competency) {
	if len(competencies) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total competencies: %d\n\n", len(competencies)))

	count := min(len(competencies), maxItemsToShow)
	for i := 0; i < count; i++ {
		comp := competencies[i]
		sb.WriteString(fmt.Sprintf("• %s [%s]\n", comp.Name, comp.Importance))
		sb.WriteString(fmt.Sprintf("    %s  weight %.2f  threshold %.2f\n",
			comp.Category, comp.Weight, comp.MatchThreshold))
	}
	if len(competencies) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(competencies)-maxItemsToShow))
	}

	p.printBox("NORMALIZED COMPETENCIES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGraphSummary outputs node and edge counts by type for a built graph.
func (p *Printer) PrintGraphSummary(g *graph.Graph) {
	if g == nil {
		return
	}

	nodeCounts := make(map[graph.NodeType]int)
	for _, n := range g.Nodes() {
		nodeCounts[n.Type]++
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Nodes: %d   Edges: %d\n\n", len(g.Nodes()), len(g.Edges())))
	for _, nt := range []graph.NodeType{
		graph.NodeCandidate, graph.NodeProject, graph.NodeSkill, graph.NodeTool,
		graph.NodeExperience, graph.NodeEducation, graph.NodePublication, graph.NodeAward,
	} {
		if count := nodeCounts[nt]; count > 0 {
			sb.WriteString(fmt.Sprintf("  %-12s %d\n", nt, count))
		}
	}

	p.printBox("CAPABILITY GRAPH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatchResult outputs the match report with per-competency coverage.
func (p *Printer) PrintMatchResult(result *types.MatchResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match strength:    %.3f\n", result.MatchStrength))
	sb.WriteString(fmt.Sprintf("Required coverage: %s\n", result.RequiredCoverage))
	sb.WriteString(fmt.Sprintf("Optional coverage: %s\n", result.OptionalCoverage))
	sb.WriteString("\n")

	count := min(len(result.Matched), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := result.Matched[i]
		sb.WriteString(fmt.Sprintf("• %s: %s (%.2f, coverage %.2f)\n",
			m.Competency.Name, m.Status, m.Similarity, m.Coverage))
	}
	if len(result.Matched) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more\n", len(result.Matched)-maxItemsToShow))
	}

	if len(result.Missing) > 0 {
		sb.WriteString("\nMissing:\n")
		for i, comp := range result.Missing {
			if i >= maxItemsToShow {
				sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Missing)-maxItemsToShow))
				break
			}
			sb.WriteString(fmt.Sprintf("  • %s [%s]\n", comp.Name, comp.Importance))
		}
	}

	p.printBox("MATCH RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSelectedContent outputs the entities flagged for document emphasis.
func (p *Printer) PrintSelectedContent(selected *types.SelectedContent) {
	if selected == nil || (len(selected.ProjectIDs) == 0 && len(selected.SkillIDs) == 0) {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Match strength: %.3f\n\n", selected.MatchStrength))
	sb.WriteString(fmt.Sprintf("Projects selected: %d\n", len(selected.ProjectIDs)))
	for i, id := range selected.ProjectIDs {
		if i >= maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(selected.ProjectIDs)-maxItemsToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("  • %s\n", id))
	}
	sb.WriteString(fmt.Sprintf("Skills selected:   %d\n", len(selected.SkillIDs)))
	for i, id := range selected.SkillIDs {
		if i >= maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(selected.SkillIDs)-maxItemsToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("  • %s\n", id))
	}

	p.printBox("SELECTED CONTENT", strings.TrimSuffix(sb.String(), "\n"))
}
