package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sharik/internal/database"
	"sharik/internal/models"
)

type createBookingRequest struct {
	ItemID int64     `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

type bookingResponse struct {
	ID       int64     `json:"id"`
	ItemID   int64     `json:"itemId"`
	ItemName string    `json:"itemName"`
	BookerID int64     `json:"bookerId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   string    `json:"status"`
}

func toBookingResponse(b *models.Booking) bookingResponse {
	return bookingResponse{
		ID:       b.ID,
		ItemID:   b.ItemID,
		ItemName: b.ItemName,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
		Status:   string(b.Status),
	}
}

func toBookingResponses(bookings []*models.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return out
}

// sharerID извлекает идентификатор пользователя из заголовка запроса.
func sharerID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(models.SharerUserHeader))
	if raw == "" {
		return 0, errors.New(models.SharerUserHeader + " header is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New(models.SharerUserHeader + " header is invalid")
	}
	return id, nil
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPost:
		var body createBookingRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		booking, err := s.bookings.Create(r.Context(), body.ItemID, userID, body.Start, body.End)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, toBookingResponse(booking))

	case http.MethodGet:
		state, err := models.ParseQueryState(r.URL.Query().Get("state"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		bookings, err := s.bookings.ListByBooker(r.Context(), userID, state)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingResponses(bookings))

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleBookingsByOwner(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, err := models.ParseQueryState(r.URL.Query().Get("state"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := s.bookings.ListByOwner(r.Context(), userID, state)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}

func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	const prefix = "/bookings/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	if rest == "" || strings.Contains(rest, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	bookingID, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || bookingID <= 0 {
		writeError(w, http.StatusBadRequest, "booking id is invalid")
		return
	}

	switch r.Method {
	case http.MethodGet:
		booking, err := s.bookings.Get(r.Context(), bookingID, userID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingResponse(booking))

	case http.MethodPatch:
		rawApproved := strings.TrimSpace(r.URL.Query().Get("approved"))
		approved, err := strconv.ParseBool(rawApproved)
		if err != nil {
			writeError(w, http.StatusBadRequest, "approved query parameter is required")
			return
		}

		var booking *models.Booking
		if approved {
			booking, err = s.bookings.Approve(r.Context(), bookingID, userID)
		} else {
			booking, err = s.bookings.Reject(r.Context(), bookingID, userID)
		}
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingResponse(booking))

	case http.MethodDelete:
		booking, err := s.bookings.Cancel(r.Context(), bookingID, userID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toBookingResponse(booking))

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleItems(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPost:
		var item models.Item
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&item); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		created, err := s.items.Create(r.Context(), userID, &item)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)

	case http.MethodGet:
		items, err := s.items.ListByOwner(r.Context(), userID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, items)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleItemSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	items, err := s.items.Search(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) handleItemByID(w http.ResponseWriter, r *http.Request) {
	const prefix = "/items/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)

	// /items/{id}/comment — комментарии к вещи.
	if idStr, ok := strings.CutSuffix(rest, "/comment"); ok {
		s.handleItemComment(w, r, idStr)
		return
	}

	if rest == "" || strings.Contains(rest, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	itemID, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || itemID <= 0 {
		writeError(w, http.StatusBadRequest, "item id is invalid")
		return
	}

	switch r.Method {
	case http.MethodGet:
		item, err := s.items.Get(r.Context(), itemID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)

	case http.MethodPatch:
		userID, err := sharerID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var patch models.ItemPatch
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		item, err := s.items.Update(r.Context(), itemID, userID, patch)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleItemComment(w http.ResponseWriter, r *http.Request, idStr string) {
	itemID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || itemID <= 0 {
		writeError(w, http.StatusBadRequest, "item id is invalid")
		return
	}

	switch r.Method {
	case http.MethodPost:
		userID, err := sharerID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		comment, err := s.items.AddComment(r.Context(), itemID, userID, body.Text)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, comment)

	case http.MethodGet:
		comments, err := s.items.Comments(r.Context(), itemID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, comments)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var user models.User
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	created, err := s.users.Create(r.Context(), &user)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *HTTPServer) handleUserByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	const prefix = "/users/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	userID, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, http.StatusBadRequest, "user id is invalid")
		return
	}
	user, err := s.users.Get(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.exporter == nil {
		writeError(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}

	start, end, err := parseExportRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := s.exporter.BuildBookingReport(r.Context(), start, end)
	if err != nil {
		s.logger.Error().Err(err).Msg("export error")
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func parseExportRange(r *http.Request) (time.Time, time.Time, error) {
	const layout = "2006-01-02"
	now := time.Now().UTC()
	start := now.AddDate(0, -1, 0)
	end := now.AddDate(0, 1, 0)

	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid from date; expected YYYY-MM-DD")
		}
		start = parsed
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		parsed, err := time.Parse(layout, raw)
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("invalid to date; expected YYYY-MM-DD")
		}
		end = parsed.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// writeServiceError переводит ошибки доменного слоя в HTTP-статусы.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, database.ErrBookingNotFound),
		errors.Is(err, database.ErrItemNotFound),
		errors.Is(err, database.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrNotAuthorized),
		errors.Is(err, models.ErrSelfBooking):
		status = http.StatusForbidden
	case errors.Is(err, database.ErrSlotUnavailable),
		errors.Is(err, database.ErrConcurrentModification),
		errors.Is(err, database.ErrDuplicateEmail),
		errors.Is(err, models.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, models.ErrInvalidInterval),
		errors.Is(err, models.ErrPastStart),
		errors.Is(err, models.ErrItemUnavailable),
		errors.Is(err, models.ErrNotRented),
		errors.Is(err, models.ErrInvalidItem),
		errors.Is(err, models.ErrInvalidComment),
		errors.Is(err, models.ErrInvalidUser):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("internal error")
		writeError(w, status, "internal error")
		return
	}

	writeError(w, status, err.Error())
}
