package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/drivesum/drivesum/internal/units"
	"github.com/drivesum/drivesum/internal/verify"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// renderReport writes one line per matched record and one per revision.
// Verdict coloring is decided here; the verifier only hands out hints.
func renderReport(out io.Writer, report *verify.Report, base units.Base, colored bool) {
	if !report.Found {
		fmt.Fprintf(out, "%s: not found in remote storage\n", report.Name)
		return
	}

	fmt.Fprintf(out, "reference checksum: %s\n", report.Reference)
	for _, fileReport := range report.Files {
		file := fileReport.File
		fmt.Fprintf(out, "%s  id=%s  created=%s  size=%s\n",
			file.Name,
			file.ID,
			file.CreatedTime.Format(time.RFC3339),
			units.Format(file.Size, base, true),
		)

		if len(fileReport.Results) == 0 {
			fmt.Fprintln(out, "  no stored revisions")
			continue
		}

		for _, result := range fileReport.Results {
			rev := result.Revision
			fmt.Fprintf(out, "  [%s] revision=%s  modified=%s  name=%s  size=%s\n",
				marker(result.Verdict(), colored),
				rev.ID,
				rev.ModifiedTime.Format(time.RFC3339),
				rev.OriginalFilename,
				units.Format(rev.Size, base, true),
			)
		}
	}
}

func marker(v verify.Verdict, colored bool) string {
	if !colored {
		return v.Marker
	}
	switch v.Hint {
	case verify.StyleGood:
		return "\x1b[32m" + v.Marker + "\x1b[0m"
	case verify.StyleBad:
		return "\x1b[31m" + v.Marker + "\x1b[0m"
	}
	return v.Marker
}

func reportWriter() io.Writer {
	return colorable.NewColorableStdout()
}

func coloredOutput() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
