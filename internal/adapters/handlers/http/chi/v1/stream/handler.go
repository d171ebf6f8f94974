package stream

import (
	"beat-ingest/internal/adapters/handlers/http/chi/v1/httpapi"
	"beat-ingest/internal/core/domain"
	"beat-ingest/internal/core/port"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// HandlerV1 is the handler for v1 playback routes
type HandlerV1 struct {
	streamService port.StreamService
	logger        *slog.Logger
}

// NewStreamHandlerV1 creates HandlerV1
func NewStreamHandlerV1(service port.StreamService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		streamService: service,
		logger:        logger,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{assetID}/master", h.MasterV1)
	router.Get("/{assetID}/select", h.SelectV1)

	return router
}

// V1MasterResponse is the response to get the master playlist
type V1MasterResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// V1Quality is one ladder tier
type V1Quality struct {
	Name         string `json:"name"`
	BitrateBps   int64  `json:"bitrate_bps"`
	SampleRateHz int    `json:"sample_rate_hz"`
	Channels     int    `json:"channels"`
	Codec        string `json:"codec"`
}

// V1SelectResponse is the response to select a variant
type V1SelectResponse struct {
	Quality     V1Quality `json:"quality"`
	PlaylistURL string    `json:"playlist_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func assetIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "assetID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, httpapi.BadRequest("asset id " + strconv.Quote(raw) + " is not a uuid")
	}
	return id, nil
}

// MasterV1 presigns the master playlist of an asset
func (h *HandlerV1) MasterV1(w http.ResponseWriter, r *http.Request) {
	assetID, err := assetIDParam(r)
	if err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}

	url, err := h.streamService.MasterURL(r.Context(), assetID)
	if err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}
	httpapi.JSON(w, h.logger, http.StatusOK, V1MasterResponse{URL: url.URL, ExpiresAt: url.ExpiresAt})
}

// SelectV1 picks the variant matching the client bandwidth and constraints
func (h *HandlerV1) SelectV1(w http.ResponseWriter, r *http.Request) {
	assetID, err := assetIDParam(r)
	if err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}

	query := r.URL.Query()
	bandwidth, err := strconv.ParseInt(query.Get("bandwidth"), 10, 64)
	if err != nil || bandwidth < 0 {
		httpapi.Error(w, r, h.logger, httpapi.BadRequest("bandwidth must be a non-negative integer in bits per second"))
		return
	}
	constraints := domain.QualityConstraints{PreferredCodec: query.Get("codec")}
	if raw := query.Get("max_bitrate"); raw != "" {
		maxBitrate, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || maxBitrate < 0 {
			httpapi.Error(w, r, h.logger, httpapi.BadRequest("max_bitrate must be a non-negative integer"))
			return
		}
		constraints.MaxBitrateBps = maxBitrate
	}

	quality, url, err := h.streamService.SelectVariant(r.Context(), assetID, bandwidth, constraints)
	if err != nil {
		httpapi.Error(w, r, h.logger, err)
		return
	}

	httpapi.JSON(w, h.logger, http.StatusOK, V1SelectResponse{
		Quality: V1Quality{
			Name:         quality.Name,
			BitrateBps:   quality.BitrateBps,
			SampleRateHz: quality.SampleRateHz,
			Channels:     quality.Channels,
			Codec:        quality.Codec,
		},
		PlaylistURL: url.URL,
		ExpiresAt:   url.ExpiresAt,
	})
}
