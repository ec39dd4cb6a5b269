package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/molisezx/luct-reporting/internal/models"
	"github.com/molisezx/luct-reporting/internal/policy"
	"github.com/molisezx/luct-reporting/pkg/config"
	appErrors "github.com/molisezx/luct-reporting/pkg/errors"
	"github.com/molisezx/luct-reporting/pkg/export"
)

type exportReportRepository interface {
	List(ctx context.Context, scope policy.Scope) ([]models.ReportDetail, error)
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type downloadClaims struct {
	FileName string `json:"file_name"`
	UserID   string `json:"user_id"`
	jwt.RegisteredClaims
}

// ExportService renders a caller's visible reports to CSV or PDF, stores
// the artifact, and issues a short-lived token for the download endpoint.
// The token ties the file to the requesting user.
type ExportService struct {
	reports   exportReportRepository
	storage   exportStorage
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	config    config.ExportConfig
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService constructs an ExportService instance. metrics may be nil.
func NewExportService(reports exportReportRepository, storage exportStorage, cfg config.ExportConfig, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ExportService{
		reports:   reports,
		storage:   storage,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		config:    cfg,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

var exportHeaders = []string{
	"Faculty", "Class", "Week", "Date", "Course", "Code", "Lecturer",
	"Present", "Registered", "Venue", "Time", "Topic", "Outcomes", "Recommendations",
}

// Export renders the caller's scoped reports in the requested format.
func (s *ExportService) Export(ctx context.Context, caller *models.UserInfo, req models.ExportRequest) (*models.ExportResponse, error) {
	decision := policy.Decide(caller.Role, policy.OpExportReports, caller.ID)
	if !decision.Allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role may not export reports")
	}

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf")
	}

	reports, err := s.reports.List(ctx, decision.Scope)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reports")
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: make([][]string, 0, len(reports))}
	for _, r := range reports {
		recommendations := ""
		if r.LecturerRecommendations != nil {
			recommendations = *r.LecturerRecommendations
		}
		dataset.Rows = append(dataset.Rows, []string{
			r.FacultyName,
			r.ClassName,
			r.WeekOfReporting,
			r.DateOfLecture.Format("2006-01-02"),
			r.CourseName,
			r.CourseCode,
			r.LecturerName,
			strconv.Itoa(r.ActualStudentsPresent),
			strconv.Itoa(r.TotalRegisteredStudents),
			r.Venue,
			r.ScheduledTime,
			r.TopicTaught,
			r.LearningOutcomes,
			recommendations,
		})
	}

	var payload []byte
	switch req.Format {
	case "csv":
		payload, err = s.csv.Render(dataset)
	case "pdf":
		payload, err = s.pdf.Render(dataset, "Lecture Reports")
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	fileName := fmt.Sprintf("reports_%s_%s.%s", time.Now().UTC().Format("20060102T150405"), uuid.NewString()[:8], req.Format)
	if _, err := s.storage.Save(fileName, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, err := s.signDownloadToken(fileName, caller.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download token")
	}
	s.metrics.RecordExport(req.Format)

	return &models.ExportResponse{
		FileName:      fileName,
		Format:        req.Format,
		RowCount:      len(reports),
		DownloadToken: token,
		ExpiresIn:     int64(s.config.DownloadTTL.Seconds()),
	}, nil
}

// OpenDownload verifies a download token and returns the file it names.
// The token must belong to the caller.
func (s *ExportService) OpenDownload(caller *models.UserInfo, token string) (*os.File, string, error) {
	claims, err := s.parseDownloadToken(token)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid download token")
	}
	if claims.UserID != caller.ID {
		return nil, "", appErrors.Clone(appErrors.ErrForbidden, "download token belongs to another user")
	}

	file, err := s.storage.Open(claims.FileName)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	return file, claims.FileName, nil
}

// Cleanup removes export files older than the download TTL. Intended to
// run on a ticker from main.
func (s *ExportService) Cleanup() {
	deleted, err := s.storage.CleanupOlderThan(s.config.DownloadTTL)
	if err != nil {
		s.logger.Warn("export cleanup failed", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Info("removed expired exports", zap.Int("count", len(deleted)))
	}
}

func (s *ExportService) signDownloadToken(fileName, userID string) (string, error) {
	now := time.Now().UTC()
	claims := &downloadClaims{
		FileName: fileName,
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.DownloadTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.DownloadSecret))
}

func (s *ExportService) parseDownloadToken(tokenString string) (*downloadClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &downloadClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.DownloadSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*downloadClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid download token claims")
	}
	return claims, nil
}
