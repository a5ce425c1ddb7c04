package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fwojciec/logofetch"
	"github.com/fwojciec/logofetch/enrich"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	result, err := deps.Logos.FindLogos(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", logofetch.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(deps.Stdout, "Found %d logos on %s\n", result.Count, result.RequestedURL)
		if err := printLogos(deps.Stdout, result.Logos); err != nil {
			return err
		}
	}

	if deps.Writer == nil {
		return nil
	}

	saved := 0
	for _, logo := range result.Logos {
		path, err := deps.Writer.WriteAsset(deps.Ctx, result.RequestedURL, logo)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "skip %s: %s\n", logo.FileName, logofetch.ErrorMessage(err))
			continue
		}
		saved++
		if !c.JSON {
			fmt.Fprintf(deps.Stdout, "saved %s\n", path)
		}
	}
	if saved == 0 {
		return fmt.Errorf("no logos could be saved")
	}
	return nil
}

func printLogos(w io.Writer, logos []*logofetch.EnrichedAsset) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tTYPE\tSIZE\tFILE\tURL")
	for _, logo := range logos {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			logo.ID,
			logo.SourceType,
			logo.MIMEType,
			formatBytes(logo.ByteSize),
			logo.FileName,
			truncateURL(logo.OriginalURL, 60),
		)
	}
	return tw.Flush()
}

// printProgress reports settled assets on w, one line each.
func printProgress(w io.Writer) enrich.ProgressFunc {
	return func(ev enrich.ProgressEvent) {
		if ev.State != enrich.StateEnriching || ev.Completed == 0 {
			return
		}
		status := "ok"
		if ev.Err != nil {
			status = "dropped"
		}
		fmt.Fprintf(w, "[%d/%d] %s %s\n", ev.Completed, ev.Total, status, truncateURL(ev.URL, 60))
	}
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}

// truncateURL shortens a URL for display; data references are long.
func truncateURL(url string, maxLen int) string {
	if len(url) <= maxLen {
		return url
	}
	return url[:maxLen-3] + "..."
}
