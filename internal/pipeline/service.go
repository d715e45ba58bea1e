// Package pipeline orchestrates a folder run: OCR, metric extraction,
// scoring, aggregation, export, and publication.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/padmanaresh1986/fitness-app/internal/domain"
	"github.com/padmanaresh1986/fitness-app/internal/extract"
	"github.com/padmanaresh1986/fitness-app/internal/observability"
)

// ErrModelFailure marks a run aborted because the language model call failed.
// Malformed model output aborts the run as well, carrying
// *extract.ExtractionError instead.
var ErrModelFailure = errors.New("model completion failed")

// TextSource reads the visible text of one screenshot. A failure is
// recoverable: the image is skipped and the run continues.
type TextSource interface {
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

// Extractor turns a prompt into raw model output. A failure aborts the run.
type Extractor interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ImageLister enumerates screenshot files for a challenge-day folder.
type ImageLister interface {
	FolderPath(folderName string) string
	List(folderName string) ([]string, error)
}

// Store is the persistence surface the pipeline depends on.
type Store interface {
	ProcessedFilenames(ctx context.Context, folderName string) (map[string]struct{}, error)
	InsertWorkouts(ctx context.Context, workouts []domain.WorkoutRow) error
	WorkoutsForFolder(ctx context.Context, folderName string) ([]domain.WorkoutRow, error)
	ReplaceDailySummaries(ctx context.Context, folderName string, summaries []domain.DailySummaryRow) error
	AllDailySummaries(ctx context.Context) ([]domain.DailySummaryRow, error)
}

// Exporter renders workbooks onto local disk.
type Exporter interface {
	WriteDailyWorkbook(folderName string, workouts []domain.WorkoutRow, summaries []domain.DailySummaryRow, now time.Time) (path, name string, err error)
	WriteLeaderboardWorkbook(folderName string, entries []domain.LeaderboardRow) (string, error)
}

// Uploader pushes a local file to the shared repository.
type Uploader interface {
	Upload(ctx context.Context, localPath, repoPath string) (string, error)
}

// Publisher emits summary events after a run persists its rollups.
type Publisher interface {
	PublishDailySummaries(ctx context.Context, folderName string, summaries []domain.DailySummaryRow) error
}

// ImageOutcome is the terminal state of one image within a run.
type ImageOutcome string

const (
	// OutcomeNormalized means metrics were extracted and the row persisted.
	OutcomeNormalized ImageOutcome = "normalized"
	// OutcomeEmptyText means OCR produced no text; a zero-valued row was
	// persisted without consulting the model.
	OutcomeEmptyText ImageOutcome = "empty_text"
	// OutcomeOCRFailed means text extraction failed and the image was skipped.
	OutcomeOCRFailed ImageOutcome = "ocr_failed"
	// OutcomeAlreadyProcessed means a previous run stored this filename.
	OutcomeAlreadyProcessed ImageOutcome = "already_processed"
)

// ImageResult reports one image's outcome.
type ImageResult struct {
	Filename string
	Outcome  ImageOutcome
	Detail   string
}

// RunReport summarizes a completed folder run.
type RunReport struct {
	RunID            string
	FolderName       string
	Processed        int
	AlreadyProcessed int
	OCRSkipped       int
	Images           []ImageResult
	Summaries        []domain.DailySummaryRow
	WorkbookPath     string
	WorkbookURL      string
	LeaderboardURL   string
	Warnings         []string
}

// Option configures optional Service behaviour.
type Option func(*Service)

// WithLogger overrides the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service runs the extraction pipeline for one folder at a time.
type Service struct {
	lister    ImageLister
	ocr       TextSource
	llm       Extractor
	store     Store
	exporter  Exporter
	uploader  Uploader
	publisher Publisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewService constructs a Service. A nil uploader disables the repository
// push; a nil publisher disables event emission.
func NewService(lister ImageLister, ocr TextSource, llm Extractor, store Store, exporter Exporter, uploader Uploader, publisher Publisher, opts ...Option) *Service {
	s := &Service{
		lister:    lister,
		ocr:       ocr,
		llm:       llm,
		store:     store,
		exporter:  exporter,
		uploader:  uploader,
		publisher: publisher,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessFolder runs the whole pipeline for one challenge-day folder. Images
// are handled sequentially; OCR failures skip the image while model failures
// abort the run. Once rows and summaries are persisted, export, push, and
// publish failures degrade to report warnings.
func (s *Service) ProcessFolder(ctx context.Context, folderName string) (*RunReport, error) {
	start := s.now()
	report := &RunReport{RunID: uuid.NewString(), FolderName: folderName}

	filenames, err := s.lister.List(folderName)
	if err != nil {
		return nil, err
	}

	alreadyProcessed, err := s.store.ProcessedFilenames(ctx, folderName)
	if err != nil {
		return nil, fmt.Errorf("load processed filenames: %w", err)
	}

	var rows []domain.WorkoutRow
	for _, filename := range filenames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if _, ok := alreadyProcessed[filename]; ok {
			report.AlreadyProcessed++
			report.Images = append(report.Images, ImageResult{Filename: filename, Outcome: OutcomeAlreadyProcessed})
			recordImage(OutcomeAlreadyProcessed)
			continue
		}

		record, outcome, detail, err := s.processImage(ctx, folderName, filename)
		if err != nil {
			return nil, err
		}
		report.Images = append(report.Images, ImageResult{Filename: filename, Outcome: outcome, Detail: detail})
		recordImage(outcome)

		if outcome == OutcomeOCRFailed {
			report.OCRSkipped++
			continue
		}

		rows = append(rows, domain.NewWorkoutRow(folderName, filename, record, s.now()))
		report.Processed++
	}

	if len(rows) > 0 {
		if err := s.store.InsertWorkouts(ctx, rows); err != nil {
			return nil, fmt.Errorf("persist workouts: %w", err)
		}
	}

	stored, err := s.store.WorkoutsForFolder(ctx, folderName)
	if err != nil {
		return nil, fmt.Errorf("load stored workouts: %w", err)
	}
	if len(stored) == 0 {
		s.logger.Info("folder run finished with nothing to summarize",
			zap.String("run_id", report.RunID),
			zap.String("folder", folderName),
			zap.Int("ocr_skipped", report.OCRSkipped),
		)
		s.finishRun(start)
		return report, nil
	}

	tagged := make([]domain.TaggedRecord, 0, len(stored))
	for _, w := range stored {
		tagged = append(tagged, w.Tagged())
	}
	summaries := domain.AggregateDay(tagged)
	report.Summaries = summaries

	if err := s.store.ReplaceDailySummaries(ctx, folderName, summaries); err != nil {
		return nil, fmt.Errorf("replace daily summaries: %w", err)
	}

	s.exportAndPush(ctx, folderName, stored, summaries, report)
	s.publish(ctx, folderName, summaries, report)

	s.logger.Info("folder run complete",
		zap.String("run_id", report.RunID),
		zap.String("folder", folderName),
		zap.Int("processed", report.Processed),
		zap.Int("already_processed", report.AlreadyProcessed),
		zap.Int("ocr_skipped", report.OCRSkipped),
		zap.Int("summaries", len(summaries)),
		zap.Int("warnings", len(report.Warnings)),
	)
	s.finishRun(start)
	return report, nil
}

// processImage walks one image through the per-image states. The returned
// error is always fatal for the run.
func (s *Service) processImage(ctx context.Context, folderName, filename string) (domain.HealthMetricRecord, ImageOutcome, string, error) {
	imagePath := filepath.Join(s.lister.FolderPath(folderName), filename)

	text, err := s.ocr.ExtractText(ctx, imagePath)
	if err != nil {
		s.logger.Warn("ocr failed, skipping image",
			zap.String("folder", folderName),
			zap.String("filename", filename),
			zap.Error(err),
		)
		return domain.HealthMetricRecord{}, OutcomeOCRFailed, err.Error(), nil
	}

	if strings.TrimSpace(text) == "" {
		return domain.HealthMetricRecord{}, OutcomeEmptyText, "", nil
	}

	raw, err := s.llm.Complete(ctx, extract.BuildPrompt(text))
	if err != nil {
		return domain.HealthMetricRecord{}, "", "", fmt.Errorf("%w for %s: %v", ErrModelFailure, filename, err)
	}

	record, err := extract.ExtractAndNormalize(raw)
	if err != nil {
		return domain.HealthMetricRecord{}, "", "", fmt.Errorf("extract metrics from %s: %w", filename, err)
	}
	return record, OutcomeNormalized, "", nil
}

func (s *Service) exportAndPush(ctx context.Context, folderName string, workouts []domain.WorkoutRow, summaries []domain.DailySummaryRow, report *RunReport) {
	path, name, err := s.exporter.WriteDailyWorkbook(folderName, workouts, summaries, s.now())
	if err != nil {
		s.warn(report, "write daily workbook", err)
	} else {
		report.WorkbookPath = path
		if s.uploader != nil {
			url, err := s.uploader.Upload(ctx, path, fmt.Sprintf("data/%s/%s", folderName, name))
			if err != nil {
				s.warn(report, "push daily workbook", err)
			} else {
				report.WorkbookURL = url
			}
		}
	}

	s.rebuildLeaderboard(ctx, folderName, report)
}

func (s *Service) rebuildLeaderboard(ctx context.Context, folderName string, report *RunReport) {
	all, err := s.store.AllDailySummaries(ctx)
	if err != nil {
		s.warn(report, "load summaries for leaderboard", err)
		return
	}

	entries, err := domain.BuildLeaderboard(all)
	if err != nil {
		s.warn(report, "build leaderboard", err)
		return
	}
	observability.RecordLeaderboardSize(len(entries))

	path, err := s.exporter.WriteLeaderboardWorkbook(folderName, entries)
	if err != nil {
		s.warn(report, "write leaderboard workbook", err)
		return
	}

	if s.uploader != nil {
		url, err := s.uploader.Upload(ctx, path, fmt.Sprintf("data/%s/leaderboard.xlsx", folderName))
		if err != nil {
			s.warn(report, "push leaderboard workbook", err)
			return
		}
		report.LeaderboardURL = url
	}
}

func (s *Service) publish(ctx context.Context, folderName string, summaries []domain.DailySummaryRow, report *RunReport) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishDailySummaries(ctx, folderName, summaries); err != nil {
		s.warn(report, "publish summary events", err)
	}
}

func (s *Service) warn(report *RunReport, stage string, err error) {
	s.logger.Warn("post-persistence step failed",
		zap.String("run_id", report.RunID),
		zap.String("stage", stage),
		zap.Error(err),
	)
	report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %v", stage, err))
}

func (s *Service) finishRun(start time.Time) {
	end := s.now()
	recordRunDuration(end.Sub(start))
	observability.RecordRunCompleted(end)
}
