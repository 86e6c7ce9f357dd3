// Package importer implements bulk term import from CSV and Excel files.
// Only the first column is consumed; every cell becomes a draft term named
// after it.
package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ezbjus/bariwikiemerg/internal/domain"
)

// termRepo defines the term repository interface needed by import service.
type termRepo interface {
	Create(ctx context.Context, t *domain.Term) (*domain.Term, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
}

// Result reports the outcome of one import run.
type Result struct {
	Imported int
	Skipped  int
}

// Service implements bulk term import.
type Service struct {
	log   *slog.Logger
	terms termRepo
}

// NewService creates a new import service instance.
func NewService(logger *slog.Logger, terms termRepo) *Service {
	return &Service{
		log:   logger.With("service", "importer"),
		terms: terms,
	}
}

// Import reads term names from the first column of a CSV or Excel file and
// creates a draft term for each. The header cell of the first column is
// treated as a candidate term too, matching how the source spreadsheets are
// maintained (plain name lists without a real header row). Names whose slug
// already exists are counted as skipped; blank cells are ignored entirely.
// Fails with domain.ErrValidation for unsupported extensions and files
// with no cells at all, and with domain.ErrImport when the file cannot be
// parsed.
func (s *Service) Import(ctx context.Context, filename string, data []byte) (Result, error) {
	names, err := extractNames(filename, data)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		slug := domain.Slugify(name)
		exists, err := s.terms.ExistsBySlug(ctx, slug)
		if err != nil {
			return res, fmt.Errorf("check slug %q: %w", slug, err)
		}
		if exists {
			res.Skipped++
			continue
		}

		if _, err := s.terms.Create(ctx, domain.NewTerm(name)); err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("create term %q: %w", name, err)
		}
		res.Imported++
	}

	s.log.Info("import finished", "file", filename, "imported", res.Imported, "skipped", res.Skipped)
	return res, nil
}

// extractNames returns the first-column cells of the file, header first.
// A file that parses to zero cells is rejected as invalid input.
func extractNames(filename string, data []byte) ([]string, error) {
	var (
		names []string
		err   error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		names, err = firstColumnCSV(data)
	case ".xlsx", ".xls":
		names, err = firstColumnExcel(data)
	default:
		return nil, domain.NewValidationError("file", "only Excel or CSV files are supported")
	}
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, domain.NewValidationError("file", "file contains no data")
	}
	return names, nil
}

func firstColumnCSV(data []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var names []string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parse csv: %v", domain.ErrImport, err)
		}
		if len(record) > 0 {
			names = append(names, record[0])
		}
	}
	return names, nil
}

func firstColumnExcel(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", domain.ErrImport, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", domain.ErrImport)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read rows: %v", domain.ErrImport, err)
	}

	var names []string
	for _, row := range rows {
		if len(row) > 0 {
			names = append(names, row[0])
		}
	}
	return names, nil
}
