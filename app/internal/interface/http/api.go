package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domcart "example.com/localspark/app/internal/domain/cart"
	domevent "example.com/localspark/app/internal/domain/event"
	domfavorite "example.com/localspark/app/internal/domain/favorite"
	domnotification "example.com/localspark/app/internal/domain/notification"
	domorder "example.com/localspark/app/internal/domain/order"
	domproduct "example.com/localspark/app/internal/domain/product"
	domregistration "example.com/localspark/app/internal/domain/registration"
	domuser "example.com/localspark/app/internal/domain/user"
	"example.com/localspark/app/internal/infra/metrics"
	authuc "example.com/localspark/app/internal/usecase/auth"
	cartuc "example.com/localspark/app/internal/usecase/cart"
	categoryuc "example.com/localspark/app/internal/usecase/category"
	eventuc "example.com/localspark/app/internal/usecase/event"
	favoriteuc "example.com/localspark/app/internal/usecase/favorite"
	notificationuc "example.com/localspark/app/internal/usecase/notification"
	orderuc "example.com/localspark/app/internal/usecase/order"
	productuc "example.com/localspark/app/internal/usecase/product"
	registrationuc "example.com/localspark/app/internal/usecase/registration"
	sessionuc "example.com/localspark/app/internal/usecase/session"
	useruc "example.com/localspark/app/internal/usecase/user"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Realtime upgrades a request into a push connection for the owner.
type Realtime interface {
	Serve(w http.ResponseWriter, r *http.Request, ownerID string) error
}

type API struct {
	authSvc         *authuc.Service
	userSvc         *useruc.Service
	sessionSvc      *sessionuc.Service
	productSvc      *productuc.Service
	eventSvc        *eventuc.Service
	categorySvc     *categoryuc.Service
	cartSvc         *cartuc.Service
	favoriteSvc     *favoriteuc.Service
	registrationSvc *registrationuc.Service
	orderSvc        *orderuc.Service
	notificationSvc *notificationuc.Service
	tokenSvc        authuc.TokenService
	store           Pinger
	storeName       string
	realtime        Realtime
	authLimiter     *RateLimiter
	logger          *zap.Logger
	validator       *validator.Validate
	secureCookies   bool
}

type Dependencies struct {
	AuthService         *authuc.Service
	UserService         *useruc.Service
	SessionService      *sessionuc.Service
	ProductService      *productuc.Service
	EventService        *eventuc.Service
	CategoryService     *categoryuc.Service
	CartService         *cartuc.Service
	FavoriteService     *favoriteuc.Service
	RegistrationService *registrationuc.Service
	OrderService        *orderuc.Service
	NotificationService *notificationuc.Service
	TokenService        authuc.TokenService
	Store               Pinger
	StoreName           string
	Realtime            Realtime
	AuthRateLimit       float64
	AuthRateBurst       int
	Logger              *zap.Logger
	SecureCookies       bool
}

func NewAPI(deps Dependencies) *API {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit, burst := deps.AuthRateLimit, deps.AuthRateBurst
	if limit <= 0 {
		limit = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &API{
		authSvc:         deps.AuthService,
		userSvc:         deps.UserService,
		sessionSvc:      deps.SessionService,
		productSvc:      deps.ProductService,
		eventSvc:        deps.EventService,
		categorySvc:     deps.CategoryService,
		cartSvc:         deps.CartService,
		favoriteSvc:     deps.FavoriteService,
		registrationSvc: deps.RegistrationService,
		orderSvc:        deps.OrderService,
		notificationSvc: deps.NotificationService,
		tokenSvc:        deps.TokenService,
		store:           deps.Store,
		storeName:       deps.StoreName,
		realtime:        deps.Realtime,
		authLimiter:     NewRateLimiter(limit, burst),
		logger:          logger,
		validator:       validator.New(),
		secureCookies:   deps.SecureCookies,
	}
}

// AuthLimiter exposes the login/register limiter so idle entries can be pruned on a schedule.
func (a *API) AuthLimiter() *RateLimiter {
	return a.authLimiter
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(a.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(metrics.InstrumentHandler)

	r.Get("/health", a.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Get("/health/store", a.handleStoreHealth)
		r.Handle("/metrics", metrics.Handler())

		r.Get("/products", a.handleListProducts)
		r.Get("/products/{id}", a.handleGetProduct)
		r.Get("/events", a.handleListEvents)
		r.Get("/events/{id}", a.handleGetEvent)
		r.Get("/catalog/facets", a.handleFacets)

		r.Group(func(ar chi.Router) {
			ar.Use(a.authLimiter.Handler)
			ar.Use(a.sessionMiddleware)
			ar.With(contentTypeJSON).Post("/auth/register", a.handleRegister)
			ar.With(contentTypeJSON).Post("/auth/login", a.handleLogin)
		})

		r.Group(func(sr chi.Router) {
			sr.Use(a.optionalAuth)
			sr.Use(a.sessionMiddleware)

			sr.Route("/cart", func(cr chi.Router) {
				cr.Get("/", a.handleGetCart)
				cr.With(contentTypeJSON).Post("/", a.handleAddCartItem)
				cr.Delete("/", a.handleClearCart)
				cr.With(contentTypeJSON).Put("/{productID}", a.handleUpdateCartItem)
				cr.Delete("/{productID}", a.handleRemoveCartItem)
			})

			sr.Route("/favorites", func(fr chi.Router) {
				fr.Get("/", a.handleListFavorites)
				fr.With(contentTypeJSON).Post("/", a.handleAddFavorite)
				fr.Delete("/{kind}/{id}", a.handleRemoveFavorite)
				fr.Get("/{kind}/{id}/check", a.handleCheckFavorite)
				fr.Post("/{kind}/{id}/toggle", a.handleToggleFavorite)
			})

			sr.Get("/notifications", a.handleListNotifications)
			sr.Post("/notifications/{id}/read", a.handleMarkNotificationRead)
			sr.Get("/ws", a.handleWebsocket)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)
			pr.Get("/me", a.handleMe)
			pr.With(contentTypeJSON).Put("/me/location", a.handleUpdateLocation)
			pr.With(contentTypeJSON).Post("/me/checkout", a.handleCheckout)
			pr.Get("/me/orders", a.handleListMyOrders)
			pr.Get("/me/registrations", a.handleListMyRegistrations)
			pr.Post("/events/{id}/registration", a.handleRegisterForEvent)
			pr.Delete("/events/{id}/registration", a.handleCancelRegistration)
		})

		r.Group(func(ar chi.Router) {
			ar.Use(a.authMiddleware)
			ar.Use(a.requireRoles(domuser.RoleCodeAdmin))

			ar.Route("/admin", func(admin chi.Router) {
				admin.Route("/products", func(rr chi.Router) {
					rr.Get("/", a.handleListProductsAdmin)
					rr.With(contentTypeJSON).Post("/", a.handleCreateProduct)
					rr.Post("/import", a.handleImportProducts)
					rr.With(contentTypeJSON).Put("/{id}", a.handleUpdateProduct)
					rr.Delete("/{id}", a.handleDeleteProduct)
				})

				admin.Route("/events", func(rr chi.Router) {
					rr.With(contentTypeJSON).Post("/", a.handleCreateEvent)
					rr.With(contentTypeJSON).Put("/{id}", a.handleUpdateEvent)
					rr.Delete("/{id}", a.handleDeleteEvent)
					rr.Get("/{id}/registrations", a.handleListEventRegistrations)
				})

				admin.Route("/orders", func(rr chi.Router) {
					rr.Get("/", a.handleListOrders)
					rr.Get("/{id}", a.handleGetOrder)
					rr.With(contentTypeJSON).Patch("/{id}", a.handleUpdateOrderStatus)
				})

				admin.Get("/reports/catalog.xlsx", a.handleCatalogReport)
			})
		})
	})

	return r
}

func contentTypeJSON(next http.Handler) http.Handler {
	return chimw.AllowContentType("application/json")(next)
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

type page struct {
	Limit  int
	Offset int
}

// parsePage reads limit/offset, applying the default and clamping to the maximum.
func parsePage(r *http.Request) (page, error) {
	p := page{Limit: defaultPageLimit}
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return p, fmt.Errorf("invalid limit %q", v)
		}
		p.Limit = min(n, maxPageLimit)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, fmt.Errorf("invalid offset %q", v)
		}
		p.Offset = n
	}
	return p, nil
}

func parseFloatQuery(r *http.Request, key string) (*float64, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, v)
	}
	return &f, nil
}

func writeList(w http.ResponseWriter, data any, total int, p page) {
	writeJSON(w, http.StatusOK, map[string]any{
		"data":   data,
		"total":  total,
		"limit":  p.Limit,
		"offset": p.Offset,
	})
}

func (a *API) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domproduct.ErrProductNotFound),
		errors.Is(err, domevent.ErrEventNotFound),
		errors.Is(err, domcart.ErrItemNotFound),
		errors.Is(err, domfavorite.ErrFavoriteNotFound),
		errors.Is(err, domuser.ErrUserNotFound),
		errors.Is(err, domregistration.ErrRegistrationNotFound),
		errors.Is(err, domorder.ErrOrderNotFound),
		errors.Is(err, domnotification.ErrNotificationNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domfavorite.ErrAlreadyFavorite),
		errors.Is(err, domregistration.ErrAlreadyRegistered),
		errors.Is(err, domuser.ErrUsernameTaken),
		errors.Is(err, domproduct.ErrSKUExists):
		respondError(w, http.StatusConflict, err)
	case errors.Is(err, domproduct.ErrOutOfStock),
		errors.Is(err, domproduct.ErrInvalidProduct),
		errors.Is(err, domregistration.ErrEventFull),
		errors.Is(err, domregistration.ErrEventEnded),
		errors.Is(err, domcart.ErrInvalidQuantity),
		errors.Is(err, domorder.ErrEmptyCart),
		errors.Is(err, domorder.ErrInvalidPayment),
		errors.Is(err, domorder.ErrInvalidStatus),
		errors.Is(err, domevent.ErrInvalidSchedule),
		errors.Is(err, domevent.ErrInvalidEvent),
		errors.Is(err, domuser.ErrInvalidUsername),
		errors.Is(err, domuser.ErrInvalidCredential):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domuser.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domfavorite.ErrInvalidKind):
		respondError(w, http.StatusBadRequest, err)
	default:
		a.logger.Error("request failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, errors.New("internal server error"))
	}
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleStoreHealth(w http.ResponseWriter, r *http.Request) {
	if a.store == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "store": a.storeName})
		return
	}
	if err := a.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"store":  a.storeName,
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "store": a.storeName})
}
