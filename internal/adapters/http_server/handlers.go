package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_availability/internal/app"
	"hotel_availability/internal/domain"
)

const maxCommandBytes = 4096

type Handlers struct {
	Q *app.QueryService
	D *app.Dispatcher
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type availabilityResponse struct {
	HotelID   string `json:"hotelId"`
	RoomType  string `json:"roomType"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Available int    `json:"available"`
}

type rangeView struct {
	Start          string `json:"start"`
	End            string `json:"end"`
	AvailableRooms int    `json:"availableRooms"`
}

type searchResponse struct {
	HotelID  string      `json:"hotelId"`
	RoomType string      `json:"roomType"`
	From     string      `json:"from"`
	Days     int         `json:"days"`
	Ranges   []rangeView `json:"ranges"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/hotels/{id}/availability", h.availability)
	s.mux.Get("/v1/hotels/{id}/search", h.search)
	s.mux.Post("/v1/commands", h.command)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps query errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrHotelNotFound):
		writeProblem(w, http.StatusNotFound, "Hotel Not Found", err.Error())
	case errors.Is(err, domain.ErrMalformedCommand):
		writeProblem(w, http.StatusBadRequest, "Malformed Command", err.Error())
	case errors.Is(err, domain.ErrMalformedDate):
		writeProblem(w, http.StatusBadRequest, "Malformed Date", err.Error())
	case errors.Is(err, domain.ErrMalformedInteger):
		writeProblem(w, http.StatusBadRequest, "Malformed Integer", err.Error())
	default:
		log.Error().Err(err).Msg("query failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func roomTypeParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	rt := r.URL.Query().Get("roomType")
	if rt == "" {
		writeProblem(w, http.StatusBadRequest, "Missing roomType", "roomType query parameter is required")
		return "", false
	}
	return rt, true
}

func (h *Handlers) availability(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rt, ok := roomTypeParam(w, r)
	if !ok {
		return
	}
	start, end, err := app.ParseDateRange(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}

	n, err := h.Q.Availability(r.Context(), id, start, end, rt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, availabilityResponse{
		HotelID:   id,
		RoomType:  rt,
		Start:     domain.FormatDate(start),
		End:       domain.FormatDate(end),
		Available: n,
	})
}

func (h *Handlers) search(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rt, ok := roomTypeParam(w, r)
	if !ok {
		return
	}
	days, err := app.ParseDays(r.URL.Query().Get("days"))
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := h.Q.Search(r.Context(), id, days, rt)
	if err != nil {
		writeError(w, err)
		return
	}
	out := searchResponse{
		HotelID:  id,
		RoomType: rt,
		From:     domain.FormatDate(res.From),
		Days:     res.Days,
		Ranges:   make([]rangeView, 0, len(res.Ranges)),
	}
	for _, rg := range res.Ranges {
		out.Ranges = append(out.Ranges, rangeView{
			Start:          domain.FormatDate(rg.Start),
			End:            domain.FormatDate(rg.End),
			AvailableRooms: rg.AvailableRooms,
		})
	}
	writeJSON(w, r, out)
}

// command runs one console command sent as the request body.
func (h *Handlers) command(w http.ResponseWriter, r *http.Request) {
	b, err := io.ReadAll(io.LimitReader(r.Body, maxCommandBytes+1))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Unreadable Body", err.Error())
		return
	}
	if len(b) > maxCommandBytes {
		writeProblem(w, http.StatusRequestEntityTooLarge, "Command Too Large", "limit is "+strconv.Itoa(maxCommandBytes)+" bytes")
		return
	}

	out, err := h.D.Process(r.Context(), strings.TrimSpace(string(b)))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, out); err != nil {
		log.Error().Err(err).Msg("failed to write command result")
	}
}
