package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/lessondump"
	"github.com/fwojciec/lessondump/extract"
	"github.com/fwojciec/lessondump/notion"
	"github.com/fwojciec/lessondump/sqlite"
	"golang.org/x/sync/errgroup"
)

const (
	driverRod      = "rod"
	driverChromedp = "chromedp"
)

// Destination names recorded in the export history.
const (
	DestinationFile   = "file"
	DestinationStdout = "stdout"
)

// NotionDestination names a Notion database in the export history.
func NotionDestination(databaseID string) string {
	return "notion:" + databaseID
}

// ResolveSettings applies the command's flags over the configured settings.
func (c *ExtractCmd) ResolveSettings(base lessondump.Settings) (lessondump.Settings, error) {
	s := base
	if c.Format != "" {
		format, err := lessondump.ParseExportFormat(c.Format)
		if err != nil {
			return s, err
		}
		s.Format = format
	}
	if c.NoSolution {
		s.ExtractSolution = false
	}
	if c.AutoOpen {
		s.AutoOpenSolution = true
	}
	if c.NoAutoOpen {
		s.AutoOpenSolution = false
	}
	if c.NoMetadata {
		s.IncludeMetadata = false
	}
	if c.NoChats {
		s.ExtractChats = false
	}
	return s, nil
}

// ResolveDriver returns the browser driver to use, flag over config.
func (c *ExtractCmd) ResolveDriver(configured string) (string, error) {
	driver := c.Driver
	if driver == "" {
		driver = configured
	}
	switch driver {
	case "", driverRod:
		return driverRod, nil
	case driverChromedp:
		return driverChromedp, nil
	}
	return "", lessondump.Errorf(lessondump.EINVALID, "unknown driver %q (want rod or chromedp)", driver)
}

// Run executes the extract command. Pages are processed one after another;
// a failed page is reported and the rest still run.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	if c.Notion && deps.Notes == nil {
		return lessondump.Errorf(lessondump.EINVALID, "notion token not configured")
	}

	var failed int
	for _, u := range c.URLs {
		if err := c.extractOne(deps, u); err != nil {
			if deps.Ctx.Err() != nil {
				return deps.Ctx.Err()
			}
			failed++
			fmt.Fprintf(deps.Stderr, "skip %s: %s\n", u, message(err))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d pages failed", failed, len(c.URLs))
	}
	return nil
}

func (c *ExtractCmd) extractOne(deps *Dependencies, url string) error {
	ctx := deps.Ctx
	if deps.Limiter != nil {
		if err := deps.Limiter.Wait(ctx, extract.Host(url)); err != nil {
			return err
		}
	}

	page, err := extract.OpenWithRetry(ctx, deps.Browser, url, deps.RetryDelays, deps.Logger)
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	rec, err := deps.Extractor.Extract(ctx, page)
	if err != nil {
		return err
	}
	for _, w := range rec.Warnings() {
		fmt.Fprintf(deps.Stderr, "warning: %s: %s\n", url, w)
	}

	format := deps.Settings.Format
	content, err := lessondump.FormatRecord(rec, format)
	if err != nil {
		return err
	}
	hash, err := sqlite.HashRecord(rec)
	if err != nil {
		return err
	}

	if c.Stdout {
		fmt.Fprintln(deps.Stdout, content)
	}

	var jobs []exportJob
	if !c.Stdout {
		jobs = append(jobs, exportJob{
			destination: DestinationFile,
			run: func(ctx context.Context) (string, error) {
				return deps.Files.WriteFile(lessondump.Filename(rec, format, deps.now()), []byte(content))
			},
		})
	}
	if c.Notion {
		databaseID, ok := notion.Route(deps.Databases, rec)
		if !ok {
			return lessondump.Errorf(lessondump.EINVALID, "no notion database configured for type %q (add one, or an %q fallback)", rec.ExerciseType, notion.FallbackType)
		}
		jobs = append(jobs, exportJob{
			destination: NotionDestination(databaseID),
			run: func(ctx context.Context) (string, error) {
				return deps.Notes.Send(ctx, rec, databaseID)
			},
		})
	}

	results := make([]string, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		g.Go(func() error {
			if !c.Force {
				prev, err := c.previousExport(gctx, deps, url, hash, job.destination)
				if err != nil {
					return err
				}
				if prev != nil {
					results[i] = fmt.Sprintf("unchanged since %s, skipped %s", prev.ExportedAt.Local().Format("2006-01-02 15:04"), job.destination)
					return nil
				}
			}

			location, err := job.run(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", job.destination, err)
			}
			results[i] = location
			return deps.Exports.CreateExport(gctx, &lessondump.Export{
				URL:          url,
				Title:        rec.Title,
				ExerciseType: rec.ExerciseType,
				Format:       format,
				Destination:  job.destination,
				ContentHash:  hash,
			})
		})
	}
	err = g.Wait()
	for _, r := range results {
		if r != "" {
			fmt.Fprintln(deps.Stdout, r)
		}
	}
	return err
}

type exportJob struct {
	destination string
	run         func(ctx context.Context) (string, error)
}

func (c *ExtractCmd) previousExport(ctx context.Context, deps *Dependencies, url, hash, destination string) (*lessondump.Export, error) {
	exports, err := deps.Exports.FindExports(ctx, lessondump.ExportFilter{
		URL:         &url,
		ContentHash: &hash,
		Destination: &destination,
		Limit:       1,
	})
	if err != nil {
		return nil, err
	}
	if len(exports) == 0 {
		return nil, nil
	}
	return exports[0], nil
}

// message returns the user-facing text of err. Application errors carry
// their own message; anything else is shown as is.
func message(err error) string {
	if lessondump.ErrorCode(err) == lessondump.EINTERNAL {
		return err.Error()
	}
	return lessondump.ErrorMessage(err)
}
