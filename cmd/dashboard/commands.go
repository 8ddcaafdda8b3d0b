package main

import (
	"context"
	"dfss-dashboard/domain"
	apperrors "dfss-dashboard/errors"
	"dfss-dashboard/infrastructure/localfs"
	"dfss-dashboard/observability"
	"dfss-dashboard/services"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

type command struct {
	svc       services.IDashboardService
	monitor   *observability.UploadMonitor
	out       io.Writer
	showOwner bool
}

func (c command) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(c.out)
	sortKey := fs.String("sort", string(domain.SortDateDesc),
		"ordering: "+strings.Join(lo.Map(domain.SortKeys, func(k domain.SortKey, _ int) string { return string(k) }), ", "))
	category := fs.String("category", string(domain.CategoryAll), "category filter")
	search := fs.String("search", "", "search term")
	page := fs.Int("page", 1, "page to show")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	key, ok := domain.ToSortKey(*sortKey)
	if !ok {
		return fmt.Errorf("unknown sort key %q: %w", *sortKey, errUsage)
	}
	view := c.svc.Catalog()
	cat, ok := domain.ToCategory(*category)
	if !ok || !view.Options().Taxonomy.Accepts(cat) {
		return fmt.Errorf("unknown category %q: %w", *category, errUsage)
	}

	if _, err := c.svc.Load(ctx); err != nil {
		return err
	}

	view.SetSort(key)
	view.SetCategory(cat)
	if *search != "" {
		view.SetSearch(*search)
	}
	current, changed := view.ChangePage(*page)
	if !changed {
		current = view.View()
		if *page != current.PageIndex {
			fmt.Fprintln(c.out, warning.Render(fmt.Sprintf("Page %d does not exist, showing page %d of %d",
				*page, current.PageIndex, current.TotalPages)))
		}
	}

	renderPage(c.out, current, view.PageRange(), view.Options().Taxonomy, c.showOwner)
	return nil
}

func (c command) upload(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("upload needs at least one path: %w", errUsage)
	}
	files, err := localfs.FromPaths(paths...)
	if err != nil {
		return err
	}

	tasks := c.svc.Select(files...)
	fmt.Fprintf(c.out, "%d file(s) selected\n", len(tasks))

	status, err := c.svc.Upload(ctx, func(task domain.UploadTask) {
		c.monitor.Observe(task)
		renderTask(c.out, task)
	})
	fmt.Fprintln(c.out, queueBadge(status))
	renderUploadStats(c.out, c.monitor.Stats())
	if err != nil {
		return fmt.Errorf("upload failed: %s: %w", apperrors.Message(err), err)
	}
	return nil
}

func (c command) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("delete needs exactly one file id: %w", errUsage)
	}
	deleted, err := c.svc.Delete(ctx, domain.FileID(args[0]))
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(c.out, warning.Render("File "+args[0]+" was not deleted"))
		return nil
	}
	fmt.Fprintln(c.out, success.Render("File "+args[0]+" deleted"))
	return nil
}

// download writes a file to -o, or to its original name in the working directory.
// The destination is only replaced once the whole content arrived.
func (c command) download(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("download", flag.ContinueOnError)
	fs.SetOutput(c.out)
	output := fs.String("o", "", "destination path")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("download needs exactly one file id: %w", errUsage)
	}
	id := domain.FileID(fs.Arg(0))
	// flags may also follow the id
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 0 {
		return fmt.Errorf("download needs exactly one file id: %w", errUsage)
	}

	path := *output
	if path == "" {
		if _, err := c.svc.Load(ctx); err != nil {
			return err
		}
		record, _ := c.svc.Record(id)
		path = downloadName(record, id)
	}

	dest, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(dest.Name())

	found, err := c.svc.Download(ctx, id, dest)
	if closeErr := dest.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("write %s: %w", path, closeErr)
	}
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintln(c.out, warning.Render("File "+string(id)+" was not found"))
		return nil
	}
	if err := os.Rename(dest.Name(), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	fmt.Fprintln(c.out, success.Render("File "+string(id)+" saved to "+path))
	return nil
}

// downloadName keeps the base name of the uploaded file, the id when there is none.
func downloadName(record domain.FileRecord, id domain.FileID) string {
	name := filepath.Base(record.OriginalFilename)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return string(id)
	}
	return name
}

func (c command) stats(ctx context.Context) error {
	if _, err := c.svc.Load(ctx); err != nil {
		return err
	}
	renderSummary(c.out, c.svc.Summary(), c.svc.Catalog().Options().Taxonomy)
	return nil
}
