package shootapi

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	authdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/auth/domain"
	authhandlers "github.com/Black-And-White-Club/archery-scorer/app/modules/auth/infrastructure/handlers"
	shootservice "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/application"
	shootdomain "github.com/Black-And-White-Club/archery-scorer/app/modules/shoot/domain"
	"github.com/Black-And-White-Club/archery-scorer/internal/httpserver"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/attr"
)

const (
	maxWorkbookBytes = 5 << 20
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Handlers serves shoots over HTTP.
type Handlers struct {
	service   shootservice.Service
	logger    *slog.Logger
	formatter shootdomain.Formatter
}

// NewHandlers creates shoot HTTP handlers.
func NewHandlers(service shootservice.Service, logger *slog.Logger, formatter shootdomain.Formatter) *Handlers {
	return &Handlers{service: service, logger: logger, formatter: formatter}
}

// Routes mounts the shoot API. auth guards every route.
func (h *Handlers) Routes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/api/shoots", func(r chi.Router) {
		r.Use(auth)
		r.Post("/", h.CreateShoot)
		r.Get("/", h.ListShoots)
		r.Route("/{shootID}", func(r chi.Router) {
			r.Get("/", h.GetShoot)
			r.Delete("/", h.DeleteShoot)
			r.Post("/arrows", h.RecordArrows)
			r.Put("/arrows/{arrowNumber}", h.EditArrow)
			r.Delete("/arrows/last", h.DeleteLastArrow)
			r.Get("/scorepad", h.GetScorePad)
			r.Get("/remaining", h.GetRemaining)
			r.Get("/export.xlsx", h.ExportWorkbook)
			r.Post("/import", h.ImportWorkbook)
			r.Get("/chart.png", h.RunningTotalChart)
			r.Post("/exports", h.RequestExport)
			r.Get("/exports/{exportID}", h.GetExport)
		})
	})
}

type createShootRequest struct {
	ArcherID  string `json:"archer_id,omitempty"`
	RoundID   *int64 `json:"round_id,omitempty"`
	SubTypeID int    `json:"sub_type_id,omitempty"`
	EndSize   int    `json:"end_size,omitempty"`
	Golds     string `json:"golds,omitempty"`
	Notes     string `json:"notes,omitempty"`
	ShotAt    string `json:"shot_at,omitempty"`
}

type shootResponse struct {
	ID        uuid.UUID `json:"id"`
	ArcherID  string    `json:"archer_id"`
	RoundID   *int64    `json:"round_id,omitempty"`
	SubTypeID int       `json:"sub_type_id"`
	EndSize   int       `json:"end_size"`
	Golds     string    `json:"golds"`
	Notes     string    `json:"notes,omitempty"`
	ShotAt    time.Time `json:"shot_at"`
}

func toShootResponse(s shootdomain.Shoot) shootResponse {
	return shootResponse{
		ID:        s.ID,
		ArcherID:  s.ArcherID,
		RoundID:   s.RoundID,
		SubTypeID: s.SubTypeID,
		EndSize:   s.EndSize,
		Golds:     s.Golds.String(),
		Notes:     s.Notes,
		ShotAt:    s.ShotAt,
	}
}

type recordArrowsRequest struct {
	Arrows []string `json:"arrows"`
}

type editArrowRequest struct {
	Value string `json:"value"`
}

type totalsResponse struct {
	Arrows int `json:"arrows"`
	Hits   int `json:"hits"`
	Score  int `json:"score"`
	Golds  int `json:"golds"`
}

func toTotals(t shootdomain.Totals) totalsResponse {
	return totalsResponse{Arrows: t.Arrows, Hits: t.Hits, Score: t.Score, Golds: t.Golds}
}

type remainingResponse struct {
	Current string `json:"current"`
	Later   string `json:"later,omitempty"`
	Total   int    `json:"total"`
}

type recordResponse struct {
	Recorded      int                `json:"recorded"`
	ArrowCount    int                `json:"arrow_count"`
	Totals        totalsResponse     `json:"totals"`
	Remaining     *remainingResponse `json:"remaining"`
	RoundComplete bool               `json:"round_complete"`
}

type rowResponse struct {
	Kind         string         `json:"kind"`
	Label        string         `json:"label"`
	Cells        []string       `json:"cells,omitempty"`
	Totals       totalsResponse `json:"totals"`
	RunningTotal int            `json:"running_total,omitempty"`
}

type scorePadResponse struct {
	ShootID uuid.UUID      `json:"shoot_id"`
	Round   string         `json:"round,omitempty"`
	Locale  string         `json:"locale"`
	Rows    []rowResponse  `json:"rows"`
	Totals  totalsResponse `json:"totals"`
	Average string         `json:"average"`
}

type exportResponse struct {
	ID          uuid.UUID  `json:"id"`
	ShootID     uuid.UUID  `json:"shoot_id"`
	Status      string     `json:"status"`
	Format      string     `json:"format"`
	Error       string     `json:"error,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func toExportResponse(e shootdomain.Export) exportResponse {
	return exportResponse{
		ID:          e.ID,
		ShootID:     e.ShootID,
		Status:      string(e.Status),
		Format:      e.Format,
		Error:       e.Error,
		RequestedAt: e.RequestedAt,
		CompletedAt: e.CompletedAt,
	}
}

func (h *Handlers) remaining(r *shootdomain.RemainingArrows) *remainingResponse {
	if r == nil {
		return nil
	}
	current, later := h.formatter.Remaining(r)
	return &remainingResponse{Current: current, Later: later, Total: r.Total()}
}

// CreateShoot starts a shoot for the caller, or for archer_id when the caller
// may write that archer's shoots.
func (h *Handlers) CreateShoot(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}

	var req createShootRequest
	if err := httpserver.DecodeJSON(r, &req); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ArcherID == "" {
		req.ArcherID = claims.ArcherID
	}
	if !claims.CanWrite(req.ArcherID) {
		httpserver.WriteError(w, http.StatusForbidden, "cannot create shoots for another archer")
		return
	}

	shoot, err := h.service.CreateShoot(r.Context(), shootservice.CreateShootRequest{
		ArcherID:  req.ArcherID,
		RoundID:   req.RoundID,
		SubTypeID: req.SubTypeID,
		EndSize:   req.EndSize,
		Golds:     req.Golds,
		Notes:     req.Notes,
		ShotAt:    req.ShotAt,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusCreated, toShootResponse(shoot))
}

// ListShoots lists the caller's shoots, newest first. ?archer= selects another
// archer when the caller may read their shoots.
func (h *Handlers) ListShoots(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return
	}
	archerID := r.URL.Query().Get("archer")
	if archerID == "" {
		archerID = claims.ArcherID
	}
	if !claims.CanRead(archerID) {
		httpserver.WriteError(w, http.StatusForbidden, "cannot read another archer's shoots")
		return
	}

	shoots, err := h.service.ListShoots(r.Context(), archerID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	out := make([]shootResponse, 0, len(shoots))
	for _, s := range shoots {
		out = append(out, toShootResponse(s))
	}
	httpserver.WriteJSON(w, http.StatusOK, out)
}

func (h *Handlers) GetShoot(w http.ResponseWriter, r *http.Request) {
	shoot, ok := h.authorizedShoot(w, r, false)
	if !ok {
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, toShootResponse(shoot))
}

func (h *Handlers) DeleteShoot(w http.ResponseWriter, r *http.Request) {
	shoot, ok := h.authorizedShoot(w, r, true)
	if !ok {
		return
	}
	if err := h.service.DeleteShoot(r.Context(), shoot.ID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordArrows appends arrows given in score pad notation.
func (h *Handlers) RecordArrows(w http.ResponseWriter, r *http.Request) {
	shoot, ok := h.authorizedShoot(w, r, true)
	if !ok {
		return
	}

	var req recordArrowsRequest
	if err := httpserver.DecodeJSON(r, &req); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	arrows := make([]shootdomain.Arrow, 0, len(req.Arrows))
	for i, raw := range req.Arrows {
		arrow, err := shootdomain.ParseArrow(raw)
		if err != nil {
			httpserver.WriteError(w, http.StatusBadRequest, fmt.Sprintf("arrow %d: %v", i+1, err))
			return
		}
		arrows = append(arrows, arrow)
	}

	result, err := h.service.RecordArrows(r.Context(), shoot.ID, arrows)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, recordResponse{
		Recorded:      result.Recorded,
		ArrowCount:    result.ArrowCount,
		Totals:        toTotals(result.Totals),
		Remaining:     h.remaining(result.Remaining),
		RoundComplete: result.RoundComplete,
	})
}

func (h *Handlers) EditArrow(w http.ResponseWriter, r *http.Request) {
	shoot, ok := h.authorizedShoot(w, r, true)
	if !ok {
		return
	}
	arrowNumber, err := strconv.Atoi(chi.URLParam(r, "arrowNumber"))
	if err != nil || arrowNumber < 1 {
		httpserver.WriteError(w, http.StatusBadRequest, "invalid arrow number")
		return
	}

	var req editArrowRequest
	if err := httpserver.DecodeJSON(r, &req); err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	arrow, err := shootdomain.ParseArrow(req.Value)
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.EditArrow(r.Context(), shoot.ID, arrowNumber, arrow); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeleteLastArrow(w http.ResponseWriter, r *http.Request) {
	shoot, ok := h.authorizedShoot(w, r, true)
	if !ok {
		return
	}
	count, err := h.service.DeleteLastArrow(r.Context(), shoot.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, map[string]int{"arrow_count": count})
}

// GetScorePad renders the score pad in ?lang=, else the first Accept-Language tag.
func (h *Handlers) GetScorePad(w http.ResponseWriter, r *http.Request) {
	shoot, ok := h.authorizedShoot(w, r, false)
	if !ok {
		return
	}
	locale := r.URL.Query().Get("lang")
	if locale == "" {
		locale = r.Header.Get("Accept-Language")
	}

	view, err := h.service.GetScorePad(r.Context(), shoot.ID, locale)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := scorePadResponse{
		ShootID: shoot.ID,
		Locale:  view.Locale,
		Rows:    make([]rowResponse, 0, len(view.Rows)),
		Totals:  toTotals(view.Totals),
		Average: view.Average,
	}
	if view.Round != nil {
		resp.Round = view.Round.Label()
	}
	for _, row := range view.Rows {
		resp.Rows = append(resp.Rows, rowResponse{
			Kind:         row.Kind.String(),
			Label:        row.Label,
			Cells:        row.Cells,
			Totals:       toTotals(row.Totals),
			RunningTotal: row.RunningTotal,
		})
	}
	httpserver.WriteJSON(w, http.StatusOK, resp)
}

// GetRemaining reports the arrows left in the round; remaining is null for
// practice shoots and completed rounds.
func (h *Handlers) GetRemaining(w http.ResponseWriter, r *http.Request) {
	shoot, ok := h.authorizedShoot(w, r, false)
	if !ok {
		return
	}
	remaining, err := h.service.GetRemainingArrows(r.Context(), shoot.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, map[string]*remainingResponse{"remaining": h.remaining(remaining)})
}

func (h *Handlers) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	shoot, ok := h.authorizedShoot(w, r, false)
	if !ok {
		return
	}
	data, err := h.service.ExportWorkbook(r.Context(), shoot.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeWorkbook(w, shoot.ID, data)
}

// ImportWorkbook appends the arrows of an XLSX score sheet posted as the body.
func (h *Handlers) ImportWorkbook(w http.ResponseWriter, r *http.Request) {
	shoot, ok := h.authorizedShoot(w, r, true)
	if !ok {
		return
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWorkbookBytes))
	if err != nil {
		httpserver.WriteError(w, http.StatusRequestEntityTooLarge, "workbook too large")
		return
	}

	count, err := h.service.ImportWorkbook(r.Context(), shoot.ID, data)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, map[string]int{"imported": count})
}

func (h *Handlers) RunningTotalChart(w http.ResponseWriter, r *http.Request) {
	shoot, ok := h.authorizedShoot(w, r, false)
	if !ok {
		return
	}
	png, err := h.service.RenderRunningTotalChart(r.Context(), shoot.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// RequestExport queues a workbook export and answers 202 with its status.
func (h *Handlers) RequestExport(w http.ResponseWriter, r *http.Request) {
	shoot, ok := h.authorizedShoot(w, r, false)
	if !ok {
		return
	}
	export, err := h.service.RequestExport(r.Context(), shoot.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusAccepted, toExportResponse(export))
}

// GetExport reports an export's status. A completed export is downloaded with
// ?download=true.
func (h *Handlers) GetExport(w http.ResponseWriter, r *http.Request) {
	shoot, ok := h.authorizedShoot(w, r, false)
	if !ok {
		return
	}
	exportID, err := uuid.Parse(chi.URLParam(r, "exportID"))
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "invalid export ID")
		return
	}

	export, err := h.service.GetExport(r.Context(), exportID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if export.ShootID != shoot.ID {
		httpserver.WriteError(w, http.StatusNotFound, shootservice.ErrExportNotFound.Error())
		return
	}

	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		if export.Status != shootdomain.ExportCompleted {
			httpserver.WriteError(w, http.StatusConflict, "export is "+string(export.Status))
			return
		}
		writeWorkbook(w, shoot.ID, export.Content)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, toExportResponse(export))
}

func writeWorkbook(w http.ResponseWriter, shootID uuid.UUID, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="shoot-%s.xlsx"`, shootID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func requireClaims(w http.ResponseWriter, r *http.Request) (*authdomain.Claims, bool) {
	claims, ok := authhandlers.ClaimsFromContext(r.Context())
	if !ok {
		httpserver.WriteError(w, http.StatusUnauthorized, "missing credentials")
		return nil, false
	}
	return claims, true
}

// authorizedShoot loads the shoot in the path. Shoots the caller cannot read
// are reported as missing; readable shoots the caller cannot change are 403.
func (h *Handlers) authorizedShoot(w http.ResponseWriter, r *http.Request, write bool) (shootdomain.Shoot, bool) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return shootdomain.Shoot{}, false
	}
	shootID, err := uuid.Parse(chi.URLParam(r, "shootID"))
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "invalid shoot ID")
		return shootdomain.Shoot{}, false
	}

	shoot, err := h.service.GetShoot(r.Context(), shootID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return shootdomain.Shoot{}, false
	}
	if !claims.CanRead(shoot.ArcherID) {
		httpserver.WriteError(w, http.StatusNotFound, fmt.Sprintf("%v: %s", shootservice.ErrShootNotFound, shootID))
		return shootdomain.Shoot{}, false
	}
	if write && !claims.CanWrite(shoot.ArcherID) {
		httpserver.WriteError(w, http.StatusForbidden, "cannot change another archer's shoot")
		return shootdomain.Shoot{}, false
	}
	return shoot, true
}

func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shootservice.ErrShootNotFound),
		errors.Is(err, shootservice.ErrArrowNotFound),
		errors.Is(err, shootservice.ErrExportNotFound):
		httpserver.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shootservice.ErrNoArrows):
		httpserver.WriteError(w, http.StatusConflict, err.Error())
	case shootservice.IsDomainFailure(err):
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.internalError(w, r, err)
	}
}

func (h *Handlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "Shoot request failed",
		attr.ExtractCorrelationID(r.Context()),
		attr.String("path", r.URL.Path),
		attr.Error(err),
	)
	httpserver.WriteError(w, http.StatusInternalServerError, "internal error")
}
