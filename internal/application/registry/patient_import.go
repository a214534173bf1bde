package registry

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/labqueue/backend/internal/domain/registry"
	"github.com/labqueue/backend/internal/domain/shared"
	csvimport "github.com/labqueue/backend/internal/infrastructure/import"
)

// Roster import column names. document_number, full_name, birth_date and
// gender are required; phone and email are optional.
const (
	colDocument  = "document_number"
	colFullName  = "full_name"
	colBirthDate = "birth_date"
	colGender    = "gender"
	colPhone     = "phone"
	colEmail     = "email"
)

const importBirthDateFormat = "2006-01-02"

// maxImportErrors caps how many row errors the response carries.
const maxImportErrors = 100

// ImportRoster bulk-registers patients from a CSV export. Rows whose
// document number is already on file are skipped so re-running the same
// file is harmless; rows that fail validation are reported by line without
// aborting the rest of the import.
func (s *PatientService) ImportRoster(ctx context.Context, r io.Reader, opts ...csvimport.Option) (*ImportRosterResponse, error) {
	parser, err := csvimport.NewParser(r, opts...)
	if err != nil {
		if errors.Is(err, csvimport.ErrEmptyFile) || errors.Is(err, csvimport.ErrInvalidEncoding) {
			return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
		}
		return nil, err
	}

	if err := parser.ParseHeader(); err != nil {
		if errors.Is(err, csvimport.ErrMissingHeader) {
			return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
		}
		return nil, err
	}

	if missing := parser.MissingHeaders(colDocument, colFullName, colBirthDate, colGender); len(missing) > 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Missing required columns: "+strings.Join(missing, ", "))
	}

	rows, err := parser.ReadAll()
	if err != nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", err.Error())
	}

	result := &ImportRosterResponse{TotalRows: len(rows)}
	rowErrors := csvimport.NewErrorList(maxImportErrors)
	seen := make(map[string]int, len(rows))

	for _, row := range rows {
		document := registry.NormalizeDocument(row.Get(colDocument))
		if document == "" {
			rowErrors.Add(row.Line, colDocument, "document number is required", "")
			continue
		}

		if firstLine, dup := seen[document]; dup {
			rowErrors.Add(row.Line, colDocument, "duplicate of line "+strconv.Itoa(firstLine), document)
			continue
		}
		seen[document] = row.Line

		exists, err := s.patientRepo.ExistsByDocument(ctx, document)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Skipped++
			continue
		}

		birthDate, err := time.Parse(importBirthDateFormat, row.Get(colBirthDate))
		if err != nil {
			rowErrors.Add(row.Line, colBirthDate, "expected date in YYYY-MM-DD format", row.Get(colBirthDate))
			continue
		}

		patient, err := registry.NewPatient(
			document,
			row.Get(colFullName),
			birthDate,
			row.Get(colGender),
			row.Get(colPhone),
			row.Get(colEmail),
		)
		if err != nil {
			rowErrors.Add(row.Line, "", domainErrorMessage(err), "")
			continue
		}

		if err := s.patientRepo.Save(ctx, patient); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, patient)
		result.Imported++
	}

	result.Failed = rowErrors.Total()
	result.Errors = rowErrors.Errors()
	result.ErrorsTruncated = rowErrors.Truncated()
	return result, nil
}

func domainErrorMessage(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

