// Package verify implements the verification pipeline: resolve a reference
// checksum, locate the remote record by name, enumerate its stored
// revisions, and compare the reference against each revision's checksum.
package verify

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/drivesum/drivesum/internal/catalog"
	"github.com/drivesum/drivesum/internal/checksum"
	"github.com/rs/zerolog/log"
)

// ErrNoInput means the request named neither a local file nor a reference
// checksum, so there is nothing to verify against.
var ErrNoInput = errors.New("a local file or a reference checksum is required")

// Request describes one verification run. When Checksum is set it is used
// as-is and the local file is never read; otherwise Path is digested once.
// Exactly one of the two sources feeds a run.
type Request struct {
	Path     string
	Checksum string
	Name     string
	Digest   checksum.Digest
}

// Result is the verdict for a single stored revision.
type Result struct {
	Revision catalog.Revision
	Matched  bool
}

// FileReport groups the revision results of one matched catalog record.
type FileReport struct {
	File    catalog.File
	Results []Result
}

// Report aggregates a whole run. Found is false when the catalog returned
// no matching record; that is a reportable outcome, not an error, and
// individual mismatches never fail the run either.
type Report struct {
	Name      string
	Reference string
	Found     bool
	Files     []FileReport
}

// Verifier runs verification against a remote catalog.
type Verifier struct {
	catalog catalog.Service
}

func New(svc catalog.Service) *Verifier {
	return &Verifier{catalog: svc}
}

// Run executes one verification sequentially: reference resolution, remote
// lookup, then revision enumeration per matched record. The reference is
// compared against every revision's own checksum; the record's top-level
// checksum only describes its current content and is not consulted.
func (v *Verifier) Run(ctx context.Context, req Request) (*Report, error) {
	reference, name, err := resolveReference(req)
	if err != nil {
		return nil, err
	}

	report := &Report{Name: name, Reference: reference}

	files, err := v.catalog.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("remote lookup failed: %w", err)
	}
	if len(files) == 0 {
		log.Info().Str("name", name).Msg("no matching record in remote storage")
		return report, nil
	}
	report.Found = true

	for _, file := range files {
		revisions, err := v.catalog.ListRevisions(ctx, file.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to enumerate revisions of %s: %w", file.ID, err)
		}

		fileReport := FileReport{File: file}
		for _, rev := range revisions {
			fileReport.Results = append(fileReport.Results, Result{
				Revision: rev,
				Matched:  checksum.Equal(rev.Checksum, reference),
			})
		}
		report.Files = append(report.Files, fileReport)
	}

	return report, nil
}

// resolveReference picks the reference checksum and the remote name to look
// up. A caller-supplied checksum wins and suppresses local computation.
func resolveReference(req Request) (reference, name string, err error) {
	name = req.Name
	if name == "" && req.Path != "" {
		name = filepath.Base(req.Path)
	}

	if req.Checksum != "" {
		if name == "" {
			return "", "", errors.New("a remote name is required with a pre-supplied checksum")
		}
		return req.Checksum, name, nil
	}

	if req.Path == "" {
		return "", "", ErrNoInput
	}

	digest := req.Digest
	if digest == nil {
		digest = checksum.MD5
	}

	sum, err := checksum.SumFile(req.Path, digest)
	if err != nil {
		return "", "", err
	}
	log.Debug().Str("path", req.Path).Str("checksum", sum).Msg("computed local checksum")

	return sum, name, nil
}
