package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/eskrenkovic/movie-duel/internal/config"
	"github.com/eskrenkovic/movie-duel/internal/modules/auth"
	authcommands "github.com/eskrenkovic/movie-duel/internal/modules/auth/commands"
	authdomain "github.com/eskrenkovic/movie-duel/internal/modules/auth/domain"
	"github.com/eskrenkovic/movie-duel/internal/modules/core"
	gamesession "github.com/eskrenkovic/movie-duel/internal/modules/game-session"
	gamesessioncommands "github.com/eskrenkovic/movie-duel/internal/modules/game-session/commands"
	gamesessiondomain "github.com/eskrenkovic/movie-duel/internal/modules/game-session/domain"
	gamesessionqueries "github.com/eskrenkovic/movie-duel/internal/modules/game-session/queries"
	"github.com/eskrenkovic/movie-duel/internal/modules/movies"
	moviesqueries "github.com/eskrenkovic/movie-duel/internal/modules/movies/queries"

	"github.com/eskrenkovic/mediator-go"
	"github.com/eskrenkovic/migrate-go"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server interface {
	Start() error
	Stop(ctx context.Context) error
}

var _ Server = &HTTPServer{}

// HTTPServer acts as the composition root for an application.
//
// Handlers are registered with the package level mediator, so only one
// HTTPServer may be built per process.
type HTTPServer struct {
	server  *http.Server
	handler http.Handler
	db      *sql.DB
	logger  *zap.Logger
}

type repositories struct {
	sessions gamesession.SessionRepository
	users    auth.UserRepository
}

func NewHTTPServer(conf config.Config) (*HTTPServer, error) {
	baseCtx := context.Background()

	logger := conf.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	zap.ReplaceGlobals(logger)

	var db *sql.DB
	var repos repositories

	switch conf.Store {
	case "", config.StoreMemory:
		repos = repositories{
			sessions: gamesession.NewMemorySessionRepository(),
			users:    auth.NewMemoryUserRepository(),
		}
	case config.StorePostgres:
		var err error
		db, err = sql.Open("postgres", conf.DatabaseURL)
		if err != nil {
			return nil, err
		}

		if err := migrate.Run(baseCtx, db, conf.MigrationsPath); err != nil {
			_ = db.Close()
			return nil, err
		}

		repos = repositories{
			sessions: gamesession.NewPostgresSessionRepository(db),
			users:    auth.NewPostgresUserRepository(db),
		}
	default:
		return nil, fmt.Errorf("unsupported store '%s'", conf.Store)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	requestLoggingBehavior := core.RequestLoggingBehavior{Logger: logger}
	handlerErrorLoggingBehavior := core.HandlerErrorLoggingBehavior{Logger: logger}
	requestValidationBehavior := core.RequestValidationBehavior{}
	requestMetricsBehavior := core.NewRequestMetricsBehavior(registry)

	mediator.RegisterPipelineBehavior(&requestLoggingBehavior)
	mediator.RegisterPipelineBehavior(requestMetricsBehavior)
	mediator.RegisterPipelineBehavior(&handlerErrorLoggingBehavior)
	mediator.RegisterPipelineBehavior(&requestValidationBehavior)

	if err := registerHandlers(conf, repos, registry); err != nil {
		return nil, err
	}

	handler := newRouter(conf, registry)

	server := &http.Server{
		Addr:    net.JoinHostPort("", strconv.Itoa(conf.Port)),
		Handler: handler,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}

	return &HTTPServer{
		server:  server,
		handler: handler,
		db:      db,
		logger:  logger,
	}, nil
}

func registerHandlers(conf config.Config, repos repositories, registry prometheus.Registerer) error {
	// game-session

	sessionMetrics := gamesession.NewMetrics(registry)

	createSessionHandler := gamesessioncommands.NewCreateSessionCommandHandler(repos.sessions, sessionMetrics)
	err := mediator.RegisterRequestHandler[gamesessioncommands.CreateSessionCommand, gamesessioncommands.CreateSessionResponse](
		createSessionHandler,
	)
	if err != nil {
		return err
	}

	joinSessionHandler := gamesessioncommands.NewJoinSessionCommandHandler(repos.sessions)
	err = mediator.RegisterRequestHandler[gamesessioncommands.JoinSessionCommand, gamesessioncommands.SuccessResponse](
		joinSessionHandler,
	)
	if err != nil {
		return err
	}

	selectMovieHandler := gamesessioncommands.NewSelectMovieCommandHandler(repos.sessions)
	err = mediator.RegisterRequestHandler[gamesessioncommands.SelectMovieCommand, gamesessioncommands.SuccessResponse](
		selectMovieHandler,
	)
	if err != nil {
		return err
	}

	performActionHandler := gamesessioncommands.NewPerformActionCommandHandler(repos.sessions, sessionMetrics)
	err = mediator.RegisterRequestHandler[gamesessioncommands.PerformActionCommand, gamesessioncommands.PerformActionResponse](
		performActionHandler,
	)
	if err != nil {
		return err
	}

	getSessionHandler := gamesessionqueries.NewGetSessionQueryHandler(repos.sessions)
	err = mediator.RegisterRequestHandler[gamesessionqueries.GetSessionQuery, gamesessiondomain.SessionView](
		getSessionHandler,
	)
	if err != nil {
		return err
	}

	// auth

	authenticateHandler := authcommands.NewAuthenticateCommandHandler(repos.users, authdomain.NewSHA256PasswordHasher())
	err = mediator.RegisterRequestHandler[authcommands.AuthenticateCommand, authcommands.AuthenticateResponse](
		authenticateHandler,
	)
	if err != nil {
		return err
	}

	// movies

	var tmdbBaseURL string
	if conf.TMDB.BaseURL != nil {
		tmdbBaseURL = conf.TMDB.BaseURL.String()
	}

	catalog := movies.NewClient(movies.Config{
		BaseURL: tmdbBaseURL,
		APIKey:  conf.TMDB.APIKey,
		Timeout: conf.TMDB.Timeout,
	})

	searchMoviesHandler := moviesqueries.NewSearchMoviesQueryHandler(catalog)
	err = mediator.RegisterRequestHandler[moviesqueries.SearchMoviesQuery, []movies.Movie](
		searchMoviesHandler,
	)
	if err != nil {
		return err
	}

	getMovieHandler := moviesqueries.NewGetMovieQueryHandler(catalog)
	return mediator.RegisterRequestHandler[moviesqueries.GetMovieQuery, movies.MovieDetails](
		getMovieHandler,
	)
}

func newRouter(conf config.Config, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(core.CorrelationIDHTTPMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Use(core.CORSHTTPMiddleware)

		r.Get("/health", handleHealth)

		r.Post("/auth", authcommands.HandleAuthenticate)

		r.Post("/games", gamesessioncommands.HandleCreateGameSession)
		r.Get("/games/{gameId}", gamesessionqueries.HandleGetSession)
		r.Post("/games/{gameId}/join", gamesessioncommands.HandleJoinSession)
		r.Post("/games/{gameId}/select-movie", gamesessioncommands.HandleSelectMovie)
		r.Post("/games/{gameId}/action", gamesessioncommands.HandlePerformAction)

		r.Get("/movies/search", moviesqueries.HandleSearchMovies)
		r.Get("/movies/{id}", moviesqueries.HandleGetMovie)
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Handle("/*", http.FileServer(http.Dir(conf.PublicPath)))

	return r
}

type healthResponse struct {
	Status string `json:"status"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	core.WriteOK(w, r, healthResponse{Status: "OK"})
}

// Handler exposes the router so tests can drive it without a listener.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

func (s *HTTPServer) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)

	if s.db != nil {
		if closeErr := s.db.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}

	_ = s.logger.Sync()

	return err
}
