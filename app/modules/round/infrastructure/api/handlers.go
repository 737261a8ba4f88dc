package roundapi

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	authhandlers "github.com/Black-And-White-Club/archery-scorer/app/modules/auth/infrastructure/handlers"
	roundservice "github.com/Black-And-White-Club/archery-scorer/app/modules/round/application"
	"github.com/Black-And-White-Club/archery-scorer/app/modules/round/application/parsers"
	rounddomain "github.com/Black-And-White-Club/archery-scorer/app/modules/round/domain"
	"github.com/Black-And-White-Club/archery-scorer/internal/httpserver"
	"github.com/Black-And-White-Club/archery-scorer/internal/observability/attr"
)

const maxCatalogueBytes = 1 << 20

// Handlers serves the round catalogue over HTTP.
type Handlers struct {
	service roundservice.Service
	logger  *slog.Logger
}

// NewHandlers creates round HTTP handlers.
func NewHandlers(service roundservice.Service, logger *slog.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// Routes mounts the catalogue under the given router. auth guards every route.
func (h *Handlers) Routes(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Route("/api/rounds", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", h.ListRounds)
		r.Post("/import", h.ImportCatalogue)
		r.Get("/{roundID}", h.GetRound)
		r.Get("/{roundID}/structure", h.GetStructure)
	})
}

type roundResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	IsOutdoor   bool   `json:"is_outdoor"`
	IsMetric    bool   `json:"is_metric"`
}

func toResponse(r rounddomain.Round) roundResponse {
	return roundResponse{
		ID:          r.ID,
		Name:        r.Name,
		DisplayName: r.Label(),
		IsOutdoor:   r.IsOutdoor,
		IsMetric:    r.IsMetric,
	}
}

type legResponse struct {
	DistanceIndex int    `json:"distance_index"`
	ArrowCount    int    `json:"arrow_count"`
	Distance      int    `json:"distance"`
	Unit          string `json:"unit"`
}

type structureResponse struct {
	Round       roundResponse `json:"round"`
	SubTypeID   int           `json:"sub_type_id"`
	TotalArrows int           `json:"total_arrows"`
	Legs        []legResponse `json:"legs"`
}

// ListRounds returns the whole catalogue.
func (h *Handlers) ListRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := h.service.ListRounds(r.Context())
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	out := make([]roundResponse, 0, len(rounds))
	for _, round := range rounds {
		out = append(out, toResponse(round))
	}
	httpserver.WriteJSON(w, http.StatusOK, out)
}

// GetRound returns one round.
func (h *Handlers) GetRound(w http.ResponseWriter, r *http.Request) {
	roundID, err := strconv.ParseInt(chi.URLParam(r, "roundID"), 10, 64)
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "invalid round ID")
		return
	}

	round, err := h.service.GetRound(r.Context(), roundID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, toResponse(round))
}

// GetStructure returns the legs of one sub-type, selected with ?sub_type=.
func (h *Handlers) GetStructure(w http.ResponseWriter, r *http.Request) {
	roundID, err := strconv.ParseInt(chi.URLParam(r, "roundID"), 10, 64)
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, "invalid round ID")
		return
	}
	subTypeID := 0
	if v := r.URL.Query().Get("sub_type"); v != "" {
		if subTypeID, err = strconv.Atoi(v); err != nil || subTypeID < 0 {
			httpserver.WriteError(w, http.StatusBadRequest, "invalid sub_type")
			return
		}
	}

	round, structure, err := h.service.GetRoundStructure(r.Context(), roundID, subTypeID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	resp := structureResponse{
		Round:       toResponse(round),
		SubTypeID:   structure.SubTypeID,
		TotalArrows: structure.TotalArrows(),
		Legs:        make([]legResponse, 0, len(structure.Legs)),
	}
	for _, leg := range structure.Legs {
		resp.Legs = append(resp.Legs, legResponse{
			DistanceIndex: leg.DistanceIndex,
			ArrowCount:    leg.ArrowCount,
			Distance:      leg.Distance,
			Unit:          string(leg.Unit),
		})
	}
	httpserver.WriteJSON(w, http.StatusOK, resp)
}

// ImportCatalogue imports a YAML or HTML document posted as the request body.
// The format comes from ?format= or the Content-Type. Admins only.
func (h *Handlers) ImportCatalogue(w http.ResponseWriter, r *http.Request) {
	claims, ok := authhandlers.ClaimsFromContext(r.Context())
	if !ok || !claims.CanManageCatalogue() {
		httpserver.WriteError(w, http.StatusForbidden, "catalogue changes require the admin role")
		return
	}

	format, err := requestFormat(r)
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCatalogueBytes))
	if err != nil {
		httpserver.WriteError(w, http.StatusRequestEntityTooLarge, "catalogue document too large")
		return
	}

	count, err := h.service.ImportDocument(r.Context(), format, data)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, map[string]any{"format": format, "imported": count})
}

func requestFormat(r *http.Request) (parsers.Format, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		return parsers.ParseFormat(f)
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return "", errors.New("format query parameter or Content-Type required")
	}
	switch mediaType {
	case "text/html":
		return parsers.FormatHTML, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return parsers.FormatYAML, nil
	default:
		return parsers.ParseFormat(mediaType)
	}
}

func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, roundservice.ErrRoundNotFound), errors.Is(err, roundservice.ErrSubTypeNotFound):
		httpserver.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, roundservice.ErrInvalidCatalogue):
		httpserver.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.internalError(w, r, err)
	}
}

func (h *Handlers) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "Round request failed",
		attr.ExtractCorrelationID(r.Context()),
		attr.String("path", r.URL.Path),
		attr.Error(err),
	)
	httpserver.WriteError(w, http.StatusInternalServerError, "internal error")
}
