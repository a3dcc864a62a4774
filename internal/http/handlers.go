package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"vaanipay/internal/advisor"
	"vaanipay/internal/auth"
	"vaanipay/internal/core"
	"vaanipay/internal/insights"
	"vaanipay/internal/payment"
	"vaanipay/internal/savings"
	"vaanipay/internal/session"
)

type (
	transactionDTO struct {
		ID           string `json:"id"`
		Counterparty string `json:"counterparty"`
		Handle       string `json:"handle"`
		AmountPaise  int64  `json:"amount_paise"`
		Amount       string `json:"amount"`
		Category     string `json:"category"`
		Timestamp    string `json:"timestamp"`
	}

	shareDTO struct {
		Category   string `json:"category"`
		TotalPaise int64  `json:"total_paise"`
		Total      string `json:"total"`
		Percent    int    `json:"percent"`
	}

	viewDTO struct {
		BalancePaise     int64            `json:"balance_paise"`
		Balance          string           `json:"balance"`
		History          []transactionDTO `json:"history"`
		WeeklyTotalPaise int64            `json:"weekly_total_paise"`
		WeeklyTotal      string           `json:"weekly_total"`
		Breakdown        []shareDTO       `json:"breakdown"`
		SimulatorState   string           `json:"simulator_state"`
		Filter           string           `json:"filter"`
	}

	contactDTO struct {
		Name     string `json:"name"`
		Handle   string `json:"handle"`
		Category string `json:"category"`
	}

	payRequest struct {
		Handle   string `json:"handle"`
		Amount   string `json:"amount"`
		Category string `json:"category"`
	}

	repeatRequest struct {
		TransactionID string `json:"transaction_id"`
	}

	filterRequest struct {
		Filter string `json:"filter"`
	}

	assistantRequest struct {
		Question string `json:"question"`
	}

	assistantResponse struct {
		Answer string `json:"answer"`
	}

	authRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	errorResponse struct {
		Error string `json:"error"`
	}
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

func toViewDTO(v session.ViewState) viewDTO {
	out := viewDTO{
		BalancePaise:     v.Balance.Paise,
		Balance:          v.Balance.String(),
		History:          make([]transactionDTO, len(v.History)),
		WeeklyTotalPaise: v.WeeklyTotal.Paise,
		WeeklyTotal:      v.WeeklyTotal.String(),
		Breakdown:        make([]shareDTO, len(v.Breakdown)),
		SimulatorState:   string(v.SimulatorState),
		Filter:           v.Filter,
	}
	for i, rec := range v.History {
		out.History[i] = toTransactionDTO(rec)
	}
	for i, share := range v.Breakdown {
		out.Breakdown[i] = shareDTO{
			Category:   string(share.Category),
			TotalPaise: share.Total.Paise,
			Total:      share.Total.String(),
			Percent:    share.Percent,
		}
	}
	return out
}

func toTransactionDTO(rec core.TransactionRecord) transactionDTO {
	return transactionDTO{
		ID:           rec.ID,
		Counterparty: rec.CounterpartyName,
		Handle:       rec.CounterpartyHandle,
		AmountPaise:  rec.Amount.Paise,
		Amount:       rec.Amount.String(),
		Category:     string(rec.Category),
		Timestamp:    rec.Timestamp.Format(time.RFC3339),
	}
}

// handleView returns a fresh snapshot of the session: balance, history,
// weekly insights and simulator state.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, toViewDTO(s.session.View()))
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	contacts := s.session.Contacts()
	out := make([]contactDTO, len(contacts))
	for i, c := range contacts {
		out[i] = contactDTO{Name: c.Name, Handle: c.Handle, Category: string(c.Category)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handlePay(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req payRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	contact, ok := s.session.ContactByHandle(strings.TrimSpace(req.Handle))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown contact handle")
		return
	}

	paise, err := core.ParseDecimalToPaise(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	category := contact.Category
	if strings.TrimSpace(req.Category) != "" {
		category = core.CategoryOrOther(req.Category)
	}

	if err := s.session.RequestPayment(contact, core.Money{Paise: paise}, category); err != nil {
		s.writePaymentError(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, toViewDTO(s.session.View()))
}

func (s *Server) handleRepeat(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req repeatRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.session.RepeatPayment(strings.TrimSpace(req.TransactionID)); err != nil {
		switch {
		case errors.Is(err, payment.ErrPaymentInFlight),
			errors.Is(err, core.ErrInsufficientBalance),
			errors.Is(err, core.ErrInvalidAmount):
			s.writePaymentError(w, r, err)
		default:
			writeError(w, http.StatusNotFound, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusAccepted, toViewDTO(s.session.View()))
}

func (s *Server) writePaymentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInsufficientBalance):
		writeError(w, http.StatusUnprocessableEntity, "insufficient balance")
	case errors.Is(err, core.ErrInvalidAmount):
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
	case errors.Is(err, payment.ErrPaymentInFlight):
		writeError(w, http.StatusConflict, "a payment is already in flight")
	default:
		slog.ErrorContext(r.Context(), "Payment request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "payment failed")
	}
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req filterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	f, err := insights.ParseFilter(req.Filter)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "unknown category filter")
		return
	}

	s.session.SelectCategoryFilter(f)
	writeJSON(w, http.StatusOK, toViewDTO(s.session.View()))
}

func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	var req assistantRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusUnprocessableEntity, "question must not be empty")
		return
	}

	answer, err := s.assistant.Respond(r.Context(), req.Question)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "assistant unavailable")
		return
	}

	writeJSON(w, http.StatusOK, assistantResponse{Answer: answer})
}

func (s *Server) handleAdvisor(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, advisor.BuildReport())
}

func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, savings.BuildSummary())
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.handleAuth(w, r, func(req authRequest) (auth.Credentials, error) {
		return s.auth.SignInWithPassword(r.Context(), req.Email, req.Password)
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	s.handleAuth(w, r, func(req authRequest) (auth.Credentials, error) {
		return s.auth.SignUp(r.Context(), req.Email, req.Password)
	})
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request, fn func(authRequest) (auth.Credentials, error)) {
	if !requirePost(w, r) {
		return
	}
	var req authRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	creds, err := fn(req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrPasswordTooWeak):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusUnauthorized, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, creds)
}
