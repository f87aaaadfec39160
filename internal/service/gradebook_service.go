package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bomino/newgrader/internal/models"
	appErrors "github.com/bomino/newgrader/pkg/errors"
	"github.com/bomino/newgrader/pkg/export"
)

// passingThreshold is the fixed percentage that counts as passing. It does
// not move with the configurable letter scale.
const passingThreshold = 60.0

var letterOrder = []string{"A", "B", "C", "D", "F"}

type gradebookClassReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type gradebookRosterReader interface {
	ListByClass(ctx context.Context, classID string) ([]models.Student, error)
}

type gradebookAssignmentReader interface {
	ListByClass(ctx context.Context, classID string) ([]models.Assignment, error)
}

type gradebookGradeReader interface {
	FetchByClass(ctx context.Context, classID string) ([]models.Grade, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type titledRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// GradebookService derives the class gradebook, summary report, and export
// files. Nothing here is persisted; every call recomputes from stored rows.
type GradebookService struct {
	classes     gradebookClassReader
	students    gradebookRosterReader
	assignments gradebookAssignmentReader
	grades      gradebookGradeReader
	csv         csvRenderer
	xlsx        titledRenderer
	pdf         titledRenderer
	logger      *zap.Logger
}

// NewGradebookService constructs GradebookService.
func NewGradebookService(classes gradebookClassReader, students gradebookRosterReader, assignments gradebookAssignmentReader, grades gradebookGradeReader, csv csvRenderer, xlsx, pdf titledRenderer, logger *zap.Logger) *GradebookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradebookService{
		classes:     classes,
		students:    students,
		assignments: assignments,
		grades:      grades,
		csv:         csv,
		xlsx:        xlsx,
		pdf:         pdf,
		logger:      logger,
	}
}

// Build assembles the full gradebook for a class under the given scale.
func (s *GradebookService) Build(ctx context.Context, classID string, scale models.GradeScale) (*models.GradebookReport, error) {
	class, err := s.classes.FindByID(ctx, classID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	roster, err := s.students.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	assignments, err := s.assignments.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	grades, err := s.grades.FetchByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grades")
	}

	points := make(map[string]map[string]*float64, len(roster))
	for _, g := range grades {
		if points[g.StudentID] == nil {
			points[g.StudentID] = make(map[string]*float64)
		}
		points[g.StudentID][g.AssignmentID] = g.Points
	}

	report := &models.GradebookReport{
		ClassID:      classID,
		ClassName:    class.Name,
		Assignments:  assignments,
		Rows:         make([]models.GradebookRow, 0, len(roster)),
		Distribution: make(map[string]int, len(letterOrder)),
		Scale:        scale,
	}
	for _, letter := range letterOrder {
		report.Distribution[letter] = 0
	}

	for _, student := range roster {
		row := models.GradebookRow{
			StudentID:   student.ID,
			StudentName: student.Name,
			Cells:       make([]models.GradebookCell, 0, len(assignments)),
		}
		weightedSum := 0.0
		totalWeight := 0.0
		for _, a := range assignments {
			cell := models.GradebookCell{AssignmentID: a.ID}
			if p := points[student.ID][a.ID]; p != nil {
				cell.Points = p
				if a.MaxPoints > 0 {
					weightedSum += *p / a.MaxPoints * 100 * a.Weight
					totalWeight += a.Weight
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		if totalWeight > 0 {
			avg := weightedSum / totalWeight
			row.WeightedAverage = &avg
			row.LetterGrade = scale.Letter(avg)
			report.Distribution[row.LetterGrade]++
		}
		report.Rows = append(report.Rows, row)
	}

	report.Statistics = computeStatistics(report.Rows)
	return report, nil
}

// computeStatistics aggregates over rows with a weighted average; ungraded
// students do not dilute the numbers.
func computeStatistics(rows []models.GradebookRow) models.ClassStatistics {
	stats := models.ClassStatistics{}
	total := 0.0
	for _, row := range rows {
		if row.WeightedAverage == nil {
			continue
		}
		avg := *row.WeightedAverage
		total += avg
		if stats.Highest == nil || avg > *stats.Highest {
			v := avg
			stats.Highest = &v
		}
		if stats.Lowest == nil || avg < *stats.Lowest {
			v := avg
			stats.Lowest = &v
		}
		if avg >= passingThreshold {
			stats.PassingCount++
		}
		stats.GradedCount++
	}
	if stats.GradedCount > 0 {
		mean := total / float64(stats.GradedCount)
		stats.Average = &mean
	}
	return stats
}

// Summary renders the plain-text class summary report.
func (s *GradebookService) Summary(ctx context.Context, classID string, scale models.GradeScale) (string, error) {
	report, err := s.Build(ctx, classID, scale)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("CLASS SUMMARY REPORT\n")
	b.WriteString("====================\n")
	fmt.Fprintf(&b, "Class: %s\n", report.ClassName)
	fmt.Fprintf(&b, "Total Students: %d\n", len(report.Rows))
	fmt.Fprintf(&b, "Total Assignments: %d\n\n", len(report.Assignments))

	b.WriteString("GRADE STATISTICS\n")
	b.WriteString("----------------\n")
	fmt.Fprintf(&b, "Class Average: %s\n", formatPercent(report.Statistics.Average))
	fmt.Fprintf(&b, "Highest Average: %s\n", formatPercent(report.Statistics.Highest))
	fmt.Fprintf(&b, "Lowest Average: %s\n", formatPercent(report.Statistics.Lowest))
	if report.Statistics.GradedCount > 0 {
		rate := float64(report.Statistics.PassingCount) / float64(report.Statistics.GradedCount) * 100
		fmt.Fprintf(&b, "Passing Rate: %d/%d (%.1f%%)\n\n", report.Statistics.PassingCount, report.Statistics.GradedCount, rate)
	} else {
		b.WriteString("Passing Rate: -\n\n")
	}

	b.WriteString("GRADE DISTRIBUTION\n")
	b.WriteString("------------------\n")
	for _, letter := range letterOrder {
		fmt.Fprintf(&b, "%s: %d students\n", letter, report.Distribution[letter])
	}
	b.WriteString("\n")

	b.WriteString("ASSIGNMENTS\n")
	b.WriteString("-----------\n")
	for _, a := range report.Assignments {
		fmt.Fprintf(&b, "- %s: %.1f pts (weight %.1f)\n", a.Name, a.MaxPoints, a.Weight)
	}
	b.WriteString("\n")

	b.WriteString("STUDENT GRADES\n")
	b.WriteString("--------------\n")
	for _, row := range report.Rows {
		if row.WeightedAverage != nil {
			fmt.Fprintf(&b, "%s: %.1f%% (%s)\n", row.StudentName, *row.WeightedAverage, row.LetterGrade)
		} else {
			fmt.Fprintf(&b, "%s: -\n", row.StudentName)
		}
	}
	return b.String(), nil
}

func formatPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

// Export renders the gradebook as a downloadable file. Supported formats
// are csv, xlsx and pdf.
func (s *GradebookService) Export(ctx context.Context, classID string, scale models.GradeScale, format string) ([]byte, string, string, error) {
	report, err := s.Build(ctx, classID, scale)
	if err != nil {
		return nil, "", "", err
	}

	data := buildGradebookDataset(report)
	title := fmt.Sprintf("Gradebook - %s", report.ClassName)
	base := fmt.Sprintf("gradebook_%s", sanitizeFilename(report.ClassName))

	var payload []byte
	var filename, contentType string
	switch strings.ToLower(format) {
	case "", "csv":
		filename, contentType = base+".csv", "text/csv"
		payload, err = s.csv.Render(data)
	case "xlsx":
		filename, contentType = base+".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		payload, err = s.xlsx.Render(data, title)
	case "pdf":
		filename, contentType = base+".pdf", "application/pdf"
		payload, err = s.pdf.Render(data, title)
	default:
		return nil, "", "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("gradebook exported",
		zap.String("class_id", classID),
		zap.String("format", format),
		zap.Int("rows", len(report.Rows)))
	return payload, filename, contentType, nil
}

func buildGradebookDataset(report *models.GradebookReport) export.Dataset {
	headers := make([]string, 0, len(report.Assignments)+3)
	headers = append(headers, "Student")
	for _, a := range report.Assignments {
		headers = append(headers, a.Name)
	}
	headers = append(headers, "Average", "Letter")

	rows := make([]map[string]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		record := map[string]string{"Student": row.StudentName}
		for i, a := range report.Assignments {
			if cell := row.Cells[i]; cell.Points != nil {
				record[a.Name] = fmt.Sprintf("%.1f", *cell.Points)
			} else {
				record[a.Name] = "-"
			}
		}
		if row.WeightedAverage != nil {
			record["Average"] = fmt.Sprintf("%.1f%%", *row.WeightedAverage)
			record["Letter"] = row.LetterGrade
		} else {
			record["Average"] = "-"
			record["Letter"] = "-"
		}
		rows = append(rows, record)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

func sanitizeFilename(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, name)
	if cleaned == "" {
		return "class"
	}
	return cleaned
}
