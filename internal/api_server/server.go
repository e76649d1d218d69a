package apiserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/townplan/assessment-portal/internal/auth"
	"github.com/townplan/assessment-portal/internal/catalog"
	"github.com/townplan/assessment-portal/internal/config"
	"github.com/townplan/assessment-portal/internal/events"
	handlers "github.com/townplan/assessment-portal/internal/handlers/v1"
	"github.com/townplan/assessment-portal/internal/objectstore"
	"github.com/townplan/assessment-portal/internal/service"
	"github.com/townplan/assessment-portal/internal/store"
	"github.com/townplan/assessment-portal/pkg/metrics"
	"github.com/townplan/assessment-portal/pkg/middleware"
)

const (
	gracefulShutdownTimeout = 5 * time.Second
)

type Server struct {
	cfg         *config.Config
	store       store.Store
	objects     objectstore.Store
	catalog     *catalog.Catalog
	eventWriter *events.EventProducer
	listener    net.Listener
}

// New returns a new instance of the portal API server.
func New(
	cfg *config.Config,
	store store.Store,
	objects objectstore.Store,
	cat *catalog.Catalog,
	eventWriter *events.EventProducer,
	listener net.Listener,
) *Server {
	return &Server{
		cfg:         cfg,
		store:       store,
		objects:     objects,
		catalog:     cat,
		eventWriter: eventWriter,
		listener:    listener,
	}
}

func (s *Server) Run(ctx context.Context) error {
	zap.S().Named("api_server").Info("Initializing API server")

	authenticator, err := auth.NewAuthenticator(s.cfg.Service.Auth)
	if err != nil {
		return err
	}

	router := chi.NewRouter()

	metricMiddleware := metrics.NewMiddleware("api_server")
	metricMiddleware.MustRegisterDefault()

	router.Use(
		metricMiddleware.Handler,
		cors.Handler(cors.Options{
			AllowedOrigins:   []string{"https://*", "http://*"},
			AllowedMethods:   []string{"GET", "PUT", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
		authenticator.Authenticator,
		middleware.RequestID,
		middleware.Logger(),
		chiMiddleware.Recoverer,
	)

	h := handlers.NewPortalHandler(
		service.NewJobService(s.store, s.catalog),
		service.NewDocumentService(s.store, s.objects, s.catalog, s.eventWriter),
		service.NewAssessmentService(s.store, s.catalog, s.eventWriter),
		service.NewTicketService(s.store, s.eventWriter),
	)
	h.Routes(router)

	srv := http.Server{Addr: s.cfg.Service.Address, Handler: router}

	go func() {
		<-ctx.Done()
		zap.S().Named("api_server").Infof("Shutdown signal received: %s", ctx.Err())
		ctxTimeout, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		_ = srv.Shutdown(ctxTimeout)
		zap.S().Named("api_server").Info("api server terminated")
	}()

	zap.S().Named("api_server").Infof("Listening on %s...", s.listener.Addr().String())
	if err := srv.Serve(s.listener); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
