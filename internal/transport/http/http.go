package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/retailworks/backoffice/internal/service/models/draft"
	"github.com/retailworks/backoffice/internal/service/models/lineitem"
	"github.com/retailworks/backoffice/internal/service/models/payment"
	"github.com/retailworks/backoffice/internal/service/models/product"
	"github.com/retailworks/backoffice/internal/service/models/salesorder"
	createdraft "github.com/retailworks/backoffice/internal/transport/http/create_draft"
	discarddraft "github.com/retailworks/backoffice/internal/transport/http/discard_draft"
	editadjustments "github.com/retailworks/backoffice/internal/transport/http/edit_adjustments"
	editlines "github.com/retailworks/backoffice/internal/transport/http/edit_lines"
	listorders "github.com/retailworks/backoffice/internal/transport/http/list_orders"
	listproducts "github.com/retailworks/backoffice/internal/transport/http/list_products"
	reconciledraft "github.com/retailworks/backoffice/internal/transport/http/reconcile_draft"
	submitdraft "github.com/retailworks/backoffice/internal/transport/http/submit_draft"
	viewdraft "github.com/retailworks/backoffice/internal/transport/http/view_draft"
	"github.com/retailworks/backoffice/pkg/http/middleware/trace"
	"github.com/retailworks/backoffice/pkg/logger"
)

type draftService interface {
	CreateDraft(ctx context.Context, session draft.SessionContext) (*draft.Snapshot, error)
	Snapshot(ctx context.Context, id uuid.UUID) (*draft.Snapshot, error)
	AddLine(ctx context.Context, id uuid.UUID, productID int64, quantity decimal.Decimal, unitPrice *decimal.Decimal) (*draft.Snapshot, error)
	UpdateLine(ctx context.Context, id uuid.UUID, productID int64, patch lineitem.Patch) (*draft.Snapshot, error)
	RemoveLine(ctx context.Context, id uuid.UUID, productID int64) (*draft.Snapshot, error)
	SetAdjustments(ctx context.Context, id uuid.UUID, adjustments draft.Adjustments) (*draft.Snapshot, error)
	Reconcile(ctx context.Context, id uuid.UUID) (*draft.Snapshot, error)
	Submit(ctx context.Context, id uuid.UUID, payments []payment.Record, notes string) (*salesorder.SalesOrder, error)
	Discard(ctx context.Context, id uuid.UUID) error
}

type catalogService interface {
	Products(ctx context.Context, storeID int64) ([]product.Product, error)
}

type historyService interface {
	GetOrders(ctx context.Context, model salesorder.QuerySalesOrdersModel) ([]salesorder.SalesOrder, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	drafts  draftService
	catalog catalogService
	history historyService
}

func NewHTTPTransport(
	drafts draftService,
	catalog catalogService,
	history historyService,
) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		drafts:  drafts,
		catalog: catalog,
		history: history,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", h.createDraft)
			r.Get("/{draftId}", h.viewDraft)
			r.Delete("/{draftId}", h.discardDraft)
			r.Post("/{draftId}/lines", h.addLine)
			r.Patch("/{draftId}/lines/{productId}", h.updateLine)
			r.Delete("/{draftId}/lines/{productId}", h.removeLine)
			r.Put("/{draftId}/adjustments", h.setAdjustments)
			r.Post("/{draftId}/reconcile", h.reconcileDraft)
			r.Post("/{draftId}/submit", h.submitDraft)
		})
		r.Get("/products", h.listProducts)
		r.Get("/orders", h.listOrders)
	})
}

func (h *HTTPTransport) createDraft(w http.ResponseWriter, r *http.Request) {
	createdraft.CreateDraft(w, r, h.drafts)
}

func (h *HTTPTransport) viewDraft(w http.ResponseWriter, r *http.Request) {
	viewdraft.ViewDraft(w, r, h.drafts)
}

func (h *HTTPTransport) discardDraft(w http.ResponseWriter, r *http.Request) {
	discarddraft.DiscardDraft(w, r, h.drafts)
}

func (h *HTTPTransport) addLine(w http.ResponseWriter, r *http.Request) {
	editlines.AddLine(w, r, h.drafts)
}

func (h *HTTPTransport) updateLine(w http.ResponseWriter, r *http.Request) {
	editlines.UpdateLine(w, r, h.drafts)
}

func (h *HTTPTransport) removeLine(w http.ResponseWriter, r *http.Request) {
	editlines.RemoveLine(w, r, h.drafts)
}

func (h *HTTPTransport) setAdjustments(w http.ResponseWriter, r *http.Request) {
	editadjustments.SetAdjustments(w, r, h.drafts)
}

func (h *HTTPTransport) reconcileDraft(w http.ResponseWriter, r *http.Request) {
	reconciledraft.ReconcileDraft(w, r, h.drafts)
}

func (h *HTTPTransport) submitDraft(w http.ResponseWriter, r *http.Request) {
	submitdraft.SubmitDraft(w, r, h.drafts)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	listproducts.ListProducts(w, r, h.catalog)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.history)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
