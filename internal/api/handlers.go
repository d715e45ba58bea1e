// Package api exposes HTTP handlers for the fitness challenge service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/padmanaresh1986/fitness-app/internal/auth"
	"github.com/padmanaresh1986/fitness-app/internal/domain"
	"github.com/padmanaresh1986/fitness-app/internal/excel"
	"github.com/padmanaresh1986/fitness-app/internal/extract"
	"github.com/padmanaresh1986/fitness-app/internal/images"
	"github.com/padmanaresh1986/fitness-app/internal/persistence"
	"github.com/padmanaresh1986/fitness-app/internal/pipeline"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FolderProcessor runs the extraction pipeline for one folder.
type FolderProcessor interface {
	ProcessFolder(ctx context.Context, folderName string) (*pipeline.RunReport, error)
}

// Store captures the read operations the handlers serve from.
type Store interface {
	AllDailySummaries(ctx context.Context) ([]domain.DailySummaryRow, error)
	SummariesForFolder(ctx context.Context, folderName string) ([]domain.DailySummaryRow, error)
	WorkoutsForFolder(ctx context.Context, folderName string) ([]domain.WorkoutRow, error)
	ListWorkouts(ctx context.Context, folderName string, cursor *domain.Cursor, limit int) ([]domain.WorkoutRow, *domain.Cursor, error)
}

// Handler coordinates HTTP requests with the pipeline and the store.
type Handler struct {
	processor FolderProcessor
	store     Store
}

// NewHandler builds a Handler.
func NewHandler(processor FolderProcessor, store Store) *Handler {
	return &Handler{processor: processor, store: store}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/folders/process", h.processFolder)
	mux.HandleFunc("/v1/folders/", h.folderSubresource)
	mux.HandleFunc("/v1/leaderboard", h.leaderboard)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) processFolder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeFitnessWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope fitness:write required")
		return
	}

	var req ProcessFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	report, err := h.processor.ProcessFolder(r.Context(), req.FolderName)
	if err != nil {
		var extractionErr *extract.ExtractionError
		switch {
		case errors.Is(err, images.ErrFolderNotFound):
			writeError(w, http.StatusNotFound, "not_found", "folder not found")
		case errors.As(err, &extractionErr), errors.Is(err, pipeline.ErrModelFailure):
			writeError(w, http.StatusBadGateway, "extraction_failed", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, toRunReportView(report))
}

func (h *Handler) folderSubresource(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/folders/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
		return
	}

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeFitnessRead) && !claims.HasScope(auth.ScopeFitnessWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope fitness:read required")
		return
	}

	folderName := parts[0]
	switch parts[1] {
	case "export":
		h.exportFolder(w, r, folderName)
	case "workouts":
		h.listWorkouts(w, r, folderName)
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
	}
}

// exportFolder rebuilds the folder's workbook from the store and streams it.
func (h *Handler) exportFolder(w http.ResponseWriter, r *http.Request, folderName string) {
	workouts, err := h.store.WorkoutsForFolder(r.Context(), folderName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if len(workouts) == 0 {
		writeError(w, http.StatusNotFound, "not_found", "no rows stored for folder")
		return
	}

	summaries, err := h.store.SummariesForFolder(r.Context(), folderName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	workbook, err := excel.BuildDailyWorkbook(workouts, summaries)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	defer workbook.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+excel.DailyWorkbookName(time.Now().UTC())+`"`)
	w.WriteHeader(http.StatusOK)
	_ = workbook.Write(w)
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request, folderName string) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			if parsed > 100 {
				parsed = 100
			}
			limit = parsed
		}
	}

	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	workouts, next, err := h.store.ListWorkouts(r.Context(), folderName, cursor, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]WorkoutView, 0, len(workouts))
	for _, workout := range workouts {
		items = append(items, toWorkoutView(workout))
	}

	writeJSON(w, http.StatusOK, ListWorkoutsResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeFitnessRead) && !claims.HasScope(auth.ScopeFitnessWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope fitness:read required")
		return
	}

	summaries, err := h.store.AllDailySummaries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	entries, err := domain.BuildLeaderboard(summaries)
	if err != nil {
		if errors.Is(err, domain.ErrNoSummaries) {
			writeError(w, http.StatusNotFound, "not_found", "no summaries recorded yet")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	views := make([]LeaderboardEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, toLeaderboardEntryView(entry))
	}
	writeJSON(w, http.StatusOK, LeaderboardResponse{Entries: views})
}

// ProcessFolderRequest is the payload for POST /v1/folders/process.
type ProcessFolderRequest struct {
	FolderName string `json:"folder_name"`
}

// Validate ensures request correctness.
func (r ProcessFolderRequest) Validate() error {
	name := strings.TrimSpace(r.FolderName)
	if name == "" {
		return errors.New("folder_name is required")
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return errors.New("folder_name must be a bare directory name")
	}
	return nil
}

// ImageResultView reports one image's outcome within a run.
type ImageResultView struct {
	Filename string `json:"filename"`
	Outcome  string `json:"outcome"`
	Detail   string `json:"detail,omitempty"`
}

// DailySummaryView is one participant's merged totals for the folder's day.
type DailySummaryView struct {
	UserID                 string  `json:"user_id"`
	TotalSteps             int     `json:"total_steps"`
	TotalCaloriesKcal      float64 `json:"total_calories_kcal"`
	TotalDistanceKm        float64 `json:"total_distance_km"`
	TotalActiveTimeMinutes float64 `json:"total_active_time_minutes"`
	WorkoutTypes           string  `json:"workout_types"`
	TotalPoints            int     `json:"total_points"`
}

// RunReportView is the response body for a completed folder run.
type RunReportView struct {
	RunID            string             `json:"run_id"`
	FolderName       string             `json:"folder_name"`
	Processed        int                `json:"processed"`
	AlreadyProcessed int                `json:"already_processed"`
	OCRSkipped       int                `json:"ocr_skipped"`
	Images           []ImageResultView  `json:"images"`
	Summaries        []DailySummaryView `json:"summaries"`
	WorkbookURL      string             `json:"workbook_url,omitempty"`
	LeaderboardURL   string             `json:"leaderboard_url,omitempty"`
	Warnings         []string           `json:"warnings,omitempty"`
}

// WorkoutView exposes one stored per-image row.
type WorkoutView struct {
	ID                string    `json:"id"`
	FolderName        string    `json:"folder_name"`
	Filename          string    `json:"filename"`
	UserID            string    `json:"user_id"`
	Steps             int       `json:"steps"`
	CaloriesKcal      *float64  `json:"calories_kcal,omitempty"`
	DistanceKm        *float64  `json:"distance_km,omitempty"`
	ActiveTimeMinutes *float64  `json:"active_time_minutes,omitempty"`
	WorkoutType       string    `json:"workout_type,omitempty"`
	TotalPoints       int       `json:"total_points"`
	CreatedAt         time.Time `json:"created_at"`
}

// ListWorkoutsResponse packages a page of stored rows.
type ListWorkoutsResponse struct {
	Items      []WorkoutView `json:"items"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// LeaderboardEntryView is one ranked participant.
type LeaderboardEntryView struct {
	Rank                   int     `json:"rank"`
	UserID                 string  `json:"user_id"`
	TotalSteps             int     `json:"total_steps"`
	TotalCaloriesKcal      float64 `json:"total_calories_kcal"`
	TotalDistanceKm        float64 `json:"total_distance_km"`
	TotalActiveTimeMinutes float64 `json:"total_active_time_minutes"`
	TotalPoints            int     `json:"total_points"`
	WorkoutTypes           string  `json:"workout_types"`
}

// LeaderboardResponse packages the ranked standings.
type LeaderboardResponse struct {
	Entries []LeaderboardEntryView `json:"entries"`
}

func toRunReportView(report *pipeline.RunReport) RunReportView {
	images := make([]ImageResultView, 0, len(report.Images))
	for _, img := range report.Images {
		images = append(images, ImageResultView{
			Filename: img.Filename,
			Outcome:  string(img.Outcome),
			Detail:   img.Detail,
		})
	}

	summaries := make([]DailySummaryView, 0, len(report.Summaries))
	for _, s := range report.Summaries {
		summaries = append(summaries, toDailySummaryView(s))
	}

	return RunReportView{
		RunID:            report.RunID,
		FolderName:       report.FolderName,
		Processed:        report.Processed,
		AlreadyProcessed: report.AlreadyProcessed,
		OCRSkipped:       report.OCRSkipped,
		Images:           images,
		Summaries:        summaries,
		WorkbookURL:      report.WorkbookURL,
		LeaderboardURL:   report.LeaderboardURL,
		Warnings:         report.Warnings,
	}
}

func toDailySummaryView(s domain.DailySummaryRow) DailySummaryView {
	return DailySummaryView{
		UserID:                 s.UserID,
		TotalSteps:             s.TotalSteps,
		TotalCaloriesKcal:      s.TotalCaloriesKcal,
		TotalDistanceKm:        s.TotalDistanceKm,
		TotalActiveTimeMinutes: s.TotalActiveTimeMinutes,
		WorkoutTypes:           s.WorkoutTypes,
		TotalPoints:            s.TotalPoints,
	}
}

func toWorkoutView(w domain.WorkoutRow) WorkoutView {
	return WorkoutView{
		ID:                w.ID,
		FolderName:        w.FolderName,
		Filename:          w.Filename,
		UserID:            w.UserID,
		Steps:             w.Steps,
		CaloriesKcal:      w.CaloriesKcal,
		DistanceKm:        w.DistanceKm,
		ActiveTimeMinutes: w.ActiveTimeMinutes,
		WorkoutType:       string(w.WorkoutType),
		TotalPoints:       w.TotalPoints,
		CreatedAt:         w.CreatedAt,
	}
}

func toLeaderboardEntryView(e domain.LeaderboardRow) LeaderboardEntryView {
	return LeaderboardEntryView{
		Rank:                   e.Rank,
		UserID:                 e.UserID,
		TotalSteps:             e.TotalSteps,
		TotalCaloriesKcal:      e.TotalCaloriesKcal,
		TotalDistanceKm:        e.TotalDistanceKm,
		TotalActiveTimeMinutes: e.TotalActiveTimeMinutes,
		TotalPoints:            e.TotalPoints,
		WorkoutTypes:           e.WorkoutTypes,
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
