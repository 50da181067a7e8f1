package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/ganttline/internal/domain"
)

// FormatProjectList renders the project table inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "UPDATED"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			p.DisplayID(),
			Bold(p.Name),
			Dim(p.UpdatedAt.Format("2006-01-02 15:04")),
		})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// FormatBaselineList renders saved baselines, newest first as given.
func FormatBaselineList(baselines []*domain.Baseline) string {
	headers := []string{"NAME", "CREATED", "TASKS"}
	rows := make([][]string, 0, len(baselines))
	for _, b := range baselines {
		rows = append(rows, []string{
			Bold(b.Name),
			b.CreatedAt.Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", len(b.Entries)),
		})
	}
	return RenderBox("Baselines", RenderTable(headers, rows))
}

// FormatTaskDetail renders a card for one task.
func FormatTaskDetail(t *domain.Task) string {
	var b strings.Builder
	line := func(label, value string) {
		b.WriteString(PadRight(Dim(label), 12) + value + "\n")
	}
	line("Status", StatusPill(t.Status))
	line("Priority", string(t.Priority))
	line("Start", ShortDate(t.StartDate))
	if t.IsMilestone {
		line("Type", StylePurple.Render("◆ Milestone"))
	} else {
		line("End", ShortDate(t.EndDate))
		line("Progress", RenderProgress(t.Progress, 20))
	}
	line("Assignee", domain.StrFromPtr(t.AssigneeName, Dim("--")))
	if len(t.Dependencies) > 0 {
		deps := make([]string, 0, len(t.Dependencies))
		for _, d := range t.Dependencies {
			deps = append(deps, fmt.Sprintf("%s (%s)", d.PredecessorID, d.Type))
		}
		line("Depends on", strings.Join(deps, ", "))
	}
	line("ID", TruncID(t.ID))
	return RenderBox(t.Title, strings.TrimRight(b.String(), "\n"))
}
