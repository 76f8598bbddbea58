// Package pos is the terminal-local HTTP surface the touch UI talks to.
package pos

import (
	"context"
	"net/http"
	"strconv"

	"cafe-pos/internal/common/httpx"
	"cafe-pos/internal/common/logger"
	"cafe-pos/internal/expense"
	"cafe-pos/internal/menu"
	"cafe-pos/internal/network"
	"cafe-pos/internal/order"
	"cafe-pos/internal/printer"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	orders   *order.Service
	menu     *menu.Service
	expenses expense.RepositoryInterface
	gateway  *printer.Gateway
	thermal  *printer.Thermal // nil when the platform has no native printing
	monitor  *network.Monitor

	businessName string
	lg           *logger.Logger
}

func NewServer(
	orders *order.Service,
	menuSvc *menu.Service,
	expenses expense.RepositoryInterface,
	gateway *printer.Gateway,
	thermal *printer.Thermal,
	monitor *network.Monitor,
	businessName string,
	lg *logger.Logger,
) *Server {
	return &Server{
		orders:       orders,
		menu:         menuSvc,
		expenses:     expenses,
		gateway:      gateway,
		thermal:      thermal,
		monitor:      monitor,
		businessName: businessName,
		lg:           lg,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", s.handleCreateOrder)
		r.Get("/today", s.handleTodayOrders)
		r.Get("/stats", s.handleTodayStats)
	})

	r.Route("/queue", func(r chi.Router) {
		r.Get("/pending", s.handlePending)
		r.Post("/sync", s.handleSync)
	})

	r.Route("/menu", func(r chi.Router) {
		r.Get("/", s.handleListMenu)
		r.Post("/", s.handleCreateMenuItem)
		r.Put("/{id}", s.handleUpdateMenuItem)
		r.Patch("/{id}/availability", s.handleToggleMenuItem)
	})

	r.Route("/expenses", func(r chi.Router) {
		r.Get("/", s.handleListExpenses)
		r.Post("/", s.handleCreateExpense)
		r.Delete("/{id}", s.handleDeleteExpense)
	})

	r.Post("/print/receipt", s.handlePrintReceipt)
	r.Route("/printer", func(r chi.Router) {
		r.Get("/scan", s.handlePrinterScan)
		r.Post("/connect", s.handlePrinterConnect)
		r.Post("/disconnect", s.handlePrinterDisconnect)
	})

	return r
}

// Run serves until the context is canceled.
func (s *Server) Run(ctx context.Context, port int) error {
	s.lg.Info("service_started", map[string]any{"service": "pos-terminal", "port": port})
	srv := httpx.New(":"+strconv.Itoa(port), s.Routes())
	return srv.Run(ctx)
}
