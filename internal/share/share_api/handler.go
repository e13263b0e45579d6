package share_api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ms-checkin/internal/share"
	"ms-checkin/internal/utils"
)

type Handler struct {
	ShareService *share.Service
}

// RegisterGuest handles POST /api/share/{shareTicketID}/guests.
func (h *Handler) RegisterGuest(w http.ResponseWriter, r *http.Request) {
	shareTicketID, err := strconv.ParseInt(chi.URLParam(r, "shareTicketID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("shareTicketID가 올바르지 않습니다.", err.Error()))
		return
	}

	var form share.GuestForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("요청 본문이 올바르지 않습니다.", err.Error()))
		return
	}
	if form.Name == "" || form.Email == "" {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("이름과 이메일은 필수입니다.", ""))
		return
	}

	attendee, err := h.ShareService.RegisterGuest(r.Context(), shareTicketID, form)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, utils.SuccessResponse("게스트 등록이 완료되었습니다.", attendee))
}

// ListGuests handles GET /api/share/{shareTicketID}/guests.
func (h *Handler) ListGuests(w http.ResponseWriter, r *http.Request) {
	shareTicketID, err := strconv.ParseInt(chi.URLParam(r, "shareTicketID"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse("shareTicketID가 올바르지 않습니다.", err.Error()))
		return
	}

	guests, err := h.ShareService.ListGuests(r.Context(), shareTicketID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, utils.SuccessResponse("게스트 목록 조회가 완료되었습니다.", guests))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, share.ErrShareTicketNotFound):
		writeJSON(w, http.StatusNotFound, utils.ErrorResponse(err.Error(), "SHARE_TICKET_NOT_FOUND"))
	case errors.Is(err, share.ErrShareTicketExpired):
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse(err.Error(), "SHARE_TICKET_EXPIRED"))
	case errors.Is(err, share.ErrGuestLimitReached):
		writeJSON(w, http.StatusBadRequest, utils.ErrorResponse(err.Error(), "GUEST_LIMIT_REACHED"))
	default:
		writeJSON(w, http.StatusInternalServerError, utils.ErrorResponse("처리 중 오류가 발생했습니다.", err.Error()))
	}
}

func writeJSON(w http.ResponseWriter, status int, body utils.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
