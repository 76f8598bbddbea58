package pos

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"cafe-pos/internal/domain"
	"cafe-pos/internal/menu"
	"cafe-pos/internal/printer"
	"cafe-pos/internal/queue"
	"cafe-pos/internal/remote"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusFor maps the error taxonomy onto HTTP: rejections are the caller's
// problem, everything else is the backend's.
func statusFor(err error) int {
	switch {
	case errors.Is(err, menu.ErrOffline):
		return http.StatusServiceUnavailable
	case !remote.IsTransient(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"online":  s.monitor.Online(),
		"slow":    s.monitor.Slow(),
		"pending": s.orders.PendingOffline(),
	})
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	o, err := s.orders.CreateOrder(r.Context(), req.Items)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, domain.CreateOrderResponse{
		ID:          o.ID,
		TokenNumber: o.TokenNumber,
		Total:       o.Total,
		Pending:     o.Pending,
	})
}

func (s *Server) handleTodayOrders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.orders.TodayOrders())
}

func (s *Server) handleTodayStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.orders.TodayStats())
}

func (s *Server) handlePending(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"pending": s.orders.PendingOffline()})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	n, err := s.orders.SyncQueue(r.Context())
	if errors.Is(err, queue.ErrSyncInFlight) {
		writeJSON(w, http.StatusAccepted, domain.SyncResponse{Synced: 0})
		return
	}
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, domain.SyncResponse{Synced: n})
}

func (s *Server) handleListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := s.menu.List(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	item, err := s.menu.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, menu.ErrOffline) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var item domain.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	item.ID = chi.URLParam(r, "id")
	if err := s.menu.Update(r.Context(), item); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleToggleMenuItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.menu.SetAvailable(r.Context(), chi.URLParam(r, "id"), body.Available); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.List(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	e, err := s.expenses.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePrintReceipt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TokenNumber int                `json:"token_number"`
		Items       []domain.OrderItem `json:"items"`
		Total       float64            `json:"total"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res := s.gateway.PrintReceipt(r.Context(), printer.Receipt{
		BusinessName: s.businessName,
		TokenNumber:  req.TokenNumber,
		Items:        req.Items,
		Total:        req.Total,
		PlacedAt:     time.Now(),
	})
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handlePrinterScan(w http.ResponseWriter, r *http.Request) {
	if s.thermal == nil {
		writeError(w, http.StatusNotImplemented, "no native printer on this platform; use the document fallback")
		return
	}
	devices, err := s.thermal.Scan(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, devices)
}

func (s *Server) handlePrinterConnect(w http.ResponseWriter, r *http.Request) {
	if s.thermal == nil {
		writeError(w, http.StatusNotImplemented, "no native printer on this platform; use the document fallback")
		return
	}
	var req struct {
		Address string `json:"address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}
	if err := s.thermal.Connect(r.Context(), req.Address); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"connected": true})
}

func (s *Server) handlePrinterDisconnect(w http.ResponseWriter, r *http.Request) {
	if s.thermal == nil {
		writeError(w, http.StatusNotImplemented, "no native printer on this platform")
		return
	}
	s.thermal.Disconnect(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
