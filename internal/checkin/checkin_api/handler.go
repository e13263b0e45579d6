package checkin_api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-checkin/internal/checkin"
	"ms-checkin/internal/logger"
	"ms-checkin/internal/models"
	"ms-checkin/internal/qr"
	"ms-checkin/internal/sse"
	"ms-checkin/internal/utils"
)

type Handler struct {
	CheckService *checkin.Service
	Emitter      *sse.ScanEventEmitter
	Logger       *logger.Logger
}

func NewHandler(service *checkin.Service, emitter *sse.ScanEventEmitter, log *logger.Logger) *Handler {
	return &Handler{CheckService: service, Emitter: emitter, Logger: log}
}

// CheckIn handles POST /api/qr/check-in.
func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkin.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("요청 본문이 올바르지 않습니다.", err.Error()))
		return
	}
	if req.ActionCode == "" {
		req.ActionCode = models.ActionCheckedIn
	}

	result, err := h.CheckService.CheckIn(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse(result.Message, result))
}

// CheckOut handles POST /api/qr/check-out.
func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req checkin.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("요청 본문이 올바르지 않습니다.", err.Error()))
		return
	}

	result, err := h.CheckService.CheckOut(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse(result.Message, result))
}

// AdminForceCheck handles POST /api/qr/admin/force-check. No decode or
// precondition chain runs here; the requested status is logged as-is.
func (h *Handler) AdminForceCheck(w http.ResponseWriter, r *http.Request) {
	var req checkin.AdminForceCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("요청 본문이 올바르지 않습니다.", err.Error()))
		return
	}
	if req.StatusCode != models.StatusEntry && req.StatusCode != models.StatusExit {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("qr_check_status_code는 ENTRY 또는 EXIT이어야 합니다.", ""))
		return
	}

	if err := h.CheckService.AdminForceCheck(r.Context(), req); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse("강제 처리가 완료되었습니다.", nil))
}

// Resolve handles GET /api/qr/resolve?qrLinkToken=...&manualCode=...
// (manualCode and qrCode are accepted interchangeably).
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	linkToken := r.URL.Query().Get("qrLinkToken")
	manualCode := r.URL.Query().Get("manualCode")
	if manualCode == "" {
		manualCode = r.URL.Query().Get("qrCode")
	}

	scanCtx, err := h.CheckService.Resolve(r.Context(), linkToken, manualCode)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse("조회가 완료되었습니다.", scanCtx))
}

// StreamScans handles GET /api/qr/events/{eventID}/scans/stream as a
// server-sent event feed of check actions for one event.
func (h *Handler) StreamScans(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(chi.URLParam(r, "eventID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("eventID가 올바르지 않습니다.", err.Error()))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("streaming unsupported", ""))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := h.Emitter.Subscribe(r.Context(), eventID)
	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var bre *qr.BadRequestError
	if errors.As(err, &bre) {
		status := http.StatusBadRequest
		if bre.Kind == qr.KindTicketNotFound || bre.Kind == qr.KindAttendeeNotFound {
			status = http.StatusNotFound
		}
		writeJSON(w, status, utils.ErrorResponse(bre.Message, string(bre.Kind)))
		return
	}
	if h.Logger != nil {
		h.Logger.Error("API", err.Error())
	}
	writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("처리 중 오류가 발생했습니다.", err.Error()))
}

func writeJSON(w http.ResponseWriter, status int, body utils.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
