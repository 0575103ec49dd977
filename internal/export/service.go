package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hrcopilot/resume-tracker/internal/repository"
)

// Service is a tiny façade over the candidate repository that produces XLSX
// bytes for exports.
type Service struct {
	repo   repository.CandidateRepository
	logger *slog.Logger
}

func NewService(repo repository.CandidateRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// ExportCandidatesXLSX returns an XLSX workbook (as bytes) of all candidate
// profiles, one row per candidate.
func (s *Service) ExportCandidatesXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	cands, err := s.repo.List(ctx, 10000, 0)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Candidates"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("new sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		s.logger.Warn("delete default sheet", "error", err)
	}

	headers := []string{
		"ID", "Name", "Email", "Phone", "Education", "Experience Years",
		"Current Position", "Current Company", "Skills", "Status", "Created At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for r, c := range cands {
		values := []any{
			c.ID.String(), c.Name, deref(c.Email), deref(c.Phone), deref(c.Education),
			derefInt(c.ExperienceYears), deref(c.CurrentPosition), deref(c.CurrentCompany),
			strings.Join(c.Skills, ", "), string(c.Status), c.CreatedAt.UTC().Format(time.RFC3339),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", r+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	s.logger.Info("candidates exported",
		"rows", len(cands),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) any {
	if n == nil {
		return ""
	}
	return *n
}
