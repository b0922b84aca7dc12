package snapshot

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/envsnap/envsnap/internal/application"
	"github.com/envsnap/envsnap/internal/domain"
)

// RenderCapture renders the outcome of a capture: the snapshot summary plus
// any warnings about skipped package entries.
func RenderCapture(result application.CaptureResult) string {
	s := newStyles()

	lines := []string{
		s.success.Render(fmt.Sprintf("Captured environment %q", result.Snapshot.Name)),
		renderSummary(result.Snapshot, s),
	}

	for _, warning := range result.Warnings {
		lines = append(lines, s.warning.Render("warning: "+warning))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderList renders one line per stored snapshot.
func RenderList(snapshots []domain.Snapshot) string {
	s := newStyles()

	lines := []string{
		s.title.Render("Snapshots"),
		s.header.Render(fmt.Sprintf("stored: %d", len(snapshots))),
	}

	if len(snapshots) == 0 {
		lines = append(lines, s.empty.Render("No snapshots stored."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, snap := range snapshots {
		lines = append(lines, fmt.Sprintf("%s\t%s\tpython %s\t%d packages",
			s.name.Render(snap.Name), snap.Timestamp, snap.PythonVersion, snap.PackageCount()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderShow renders one snapshot in full.
func RenderShow(snap domain.Snapshot) string {
	s := newStyles()

	lines := []string{renderSummary(snap, s)}
	if len(snap.Packages) > 0 {
		specs := make([]string, 0, len(snap.Packages))
		for _, pkg := range snap.Packages {
			specs = append(specs, s.spec.Render("  "+pkg.Spec()))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, specs...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderRestore renders a restore report, dry-run or live.
func RenderRestore(report application.RestoreReport) string {
	s := newStyles()

	var lines []string
	if report.DryRun {
		lines = append(lines, s.title.Render(fmt.Sprintf("[dry run] Restoring %q", report.Snapshot.Name)))
	} else {
		lines = append(lines, s.title.Render(fmt.Sprintf("Restoring %q", report.Snapshot.Name)))
	}

	for _, warning := range report.Warnings {
		lines = append(lines, s.warning.Render("warning: "+warning))
	}

	if report.DryRun {
		if len(report.Specs) == 0 {
			lines = append(lines, s.empty.Render("Nothing to install."))
		} else {
			lines = append(lines, s.detail.Render("Would install:"))
			for _, spec := range report.Specs {
				lines = append(lines, s.spec.Render("  "+spec))
			}
		}
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.success.Render(fmt.Sprintf("Installed %d packages", report.Installed)))
	for _, failure := range report.Failures {
		lines = append(lines, s.failure.Render(fmt.Sprintf("failed: %s: %v", failure.Package.Spec(), failure.Err)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderSummary(snap domain.Snapshot, s styles) string {
	summaryLines := strings.Split(snap.Summary(), "\n")
	rendered := make([]string, 0, len(summaryLines))
	for _, line := range summaryLines {
		rendered = append(rendered, s.detail.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}
