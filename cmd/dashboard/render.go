package main

import (
	"dfss-dashboard/catalog"
	"dfss-dashboard/domain"
	"dfss-dashboard/observability"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

const dateLayout = "2006-01-02 15:04"

var (
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	danger  = color.New(color.FgRed)
	header  = color.New(color.BgBlack, color.FgGreen)
)

func newTable(out io.Writer, columns ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(columns)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func renderPage(out io.Writer, page catalog.Page, links []catalog.PageLink, taxonomy domain.Taxonomy, showOwner bool) {
	if page.TotalItems == 0 {
		fmt.Fprintln(out, warning.Render("No files found"))
		return
	}

	columns := []string{"ID", "Name", "Category", "Size", "Uploaded", "Status"}
	if showOwner {
		columns = append(columns, "Owner")
	}
	table := newTable(out, columns...)
	for _, record := range page.Items {
		row := []string{
			string(record.ID),
			record.OriginalFilename,
			string(record.Category(taxonomy)),
			formatSize(record.Size),
			formatDate(record.UploadDate),
			statusBadge(record.Status),
		}
		if showOwner {
			row = append(row, record.OwnerUsername)
		}
		table.Append(row)
	}
	table.Render()

	fmt.Fprintf(out, "\n%s  page %d of %d, %d file(s)\n", pageBar(links, page.PageIndex), page.PageIndex, page.TotalPages, page.TotalItems)
}

// pageBar draws the page links, the current page between brackets.
func pageBar(links []catalog.PageLink, current int) string {
	parts := make([]string, 0, len(links)+2)
	if current > 1 {
		parts = append(parts, "<")
	}
	for _, link := range links {
		switch {
		case link.Ellipsis:
			parts = append(parts, "...")
		case link.Number == current:
			parts = append(parts, "["+strconv.Itoa(link.Number)+"]")
		default:
			parts = append(parts, strconv.Itoa(link.Number))
		}
	}
	if last := len(links) - 1; last >= 0 && links[last].Number > current {
		parts = append(parts, ">")
	}
	return strings.Join(parts, " ")
}

func renderTask(out io.Writer, task domain.UploadTask) {
	line := fmt.Sprintf("%-40s %3d%%  %s", task.Name, task.ProgressPercent, task.State)
	switch task.State {
	case domain.TaskCompleted:
		fmt.Fprintf(out, "\r%s\n", success.Render(line))
	case domain.TaskFailed:
		fmt.Fprintf(out, "\r%s  %s\n", danger.Render(line), task.Err)
	default:
		fmt.Fprintf(out, "\r%s", line)
	}
}

func renderUploadStats(out io.Writer, stats observability.UploadStats) {
	fmt.Fprintf(out, "%d uploaded, %d failed, %s at %s/s\n",
		stats.Completed, stats.Failed, formatSize(int64(stats.BytesSent)), formatSize(int64(stats.BytesPerSec)))
}

func renderSummary(out io.Writer, summary catalog.Summary, taxonomy domain.Taxonomy) {
	fmt.Fprintln(out, header.Render(fmt.Sprintf(" %d file(s), %s ", summary.Files, formatSize(summary.TotalBytes))))
	if summary.Files == 0 {
		return
	}
	fmt.Fprintf(out, "Last upload %s\n\n", humanize.Time(summary.LastUpload))

	table := newTable(out, "Category", "Files")
	for _, category := range taxonomy.Categories() {
		table.Append([]string{string(category), strconv.Itoa(summary.ByCategory[category])})
	}
	table.Render()

	fmt.Fprintln(out, "\nRecent files")
	recent := newTable(out, "ID", "Name", "Size", "Uploaded")
	for _, record := range summary.Recent {
		recent.Append([]string{string(record.ID), record.OriginalFilename, formatSize(record.Size), formatDate(record.UploadDate)})
	}
	recent.Render()
}

func statusBadge(status domain.FileStatus) string {
	switch status {
	case domain.StatusCompleted:
		return success.Render(string(status))
	case domain.StatusPending:
		return warning.Render(string(status))
	default:
		return danger.Render(string(status))
	}
}

func queueBadge(status domain.QueueStatus) string {
	switch status {
	case domain.QueueCompleted:
		return success.Render("All files uploaded")
	case domain.QueueFailed:
		return danger.Render("Upload stopped")
	default:
		return warning.Render("Upload " + string(status))
	}
}

func formatSize(size int64) string {
	return humanize.Bytes(uint64(max(size, 0)))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}
