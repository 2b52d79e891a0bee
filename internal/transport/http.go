package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"catering-service/internal/handler"
)

func NewRouter(orderHandler *handler.OrderHandler, inventoryHandler *handler.InventoryHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	orderHandler.RegisterRoutes(r)
	inventoryHandler.RegisterRoutes(r)

	return r
}
