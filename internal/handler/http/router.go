package http

import (
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "typoteka/docs" // swagger docs
	"typoteka/internal/common/pagination"
	"typoteka/internal/handler/http/article"
	authhttp "typoteka/internal/handler/http/auth"
	"typoteka/internal/handler/http/category"
	"typoteka/internal/handler/http/comment"
	"typoteka/internal/handler/http/flash"
	"typoteka/internal/handler/http/middleware"
	"typoteka/internal/handler/http/requestid"
	"typoteka/internal/handler/http/search"
	"typoteka/internal/handler/http/user"
	flashstore "typoteka/internal/infra/flash"
	"typoteka/internal/observability/tracing"
	artUC "typoteka/internal/usecase/article"
	commentUC "typoteka/internal/usecase/comment"
	searchUC "typoteka/internal/usecase/search"
	userUC "typoteka/internal/usecase/user"
)

// DefaultRequestTimeout bounds a request when RouterConfig leaves it unset.
const DefaultRequestTimeout = 10 * time.Second

// Services are the use cases served over HTTP.
type Services struct {
	Articles *artUC.Service
	Comments *commentUC.Service
	Search   *searchUC.Service
	Users    *userUC.Service
	Tokens   authhttp.TokenVerifier
	Flash    flashstore.Store
}

// RouterConfig holds the transport settings of the router.
type RouterConfig struct {
	Logger         *slog.Logger
	Pagination     pagination.Config
	CORS           middleware.CORSConfig
	LoginLimiter   *middleware.RateLimiter
	RequestTimeout time.Duration
	// Health is mounted on /health; nil serves a storage-less report.
	Health  *HealthHandler
	Version string
}

// NewRouter mounts every route and wraps the mux in the middleware chain:
// request id, tracing, access log, panic recovery, metrics, security headers,
// CORS, input limits and the request timeout, outermost first.
func NewRouter(svc Services, cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Pagination.MaxLimit == 0 {
		cfg.Pagination = pagination.DefaultConfig()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	health := cfg.Health
	if health == nil {
		health = &HealthHandler{Version: cfg.Version}
	}
	limit := func(h http.Handler) http.Handler { return h }
	if cfg.LoginLimiter != nil {
		limit = cfg.LoginLimiter.Limit
	}
	require := authhttp.Require(svc.Tokens)

	mux := http.NewServeMux()
	article.Register(mux, svc.Articles, cfg.Pagination, svc.Flash, require)
	comment.Register(mux, svc.Comments, svc.Flash, require)
	category.Register(mux, svc.Articles, cfg.Pagination)
	search.Register(mux, svc.Search)
	user.Register(mux, svc.Users, limit)
	if svc.Flash != nil {
		flash.Register(mux, svc.Flash)
	}

	mux.Handle("GET /health", health)
	mux.Handle("GET /ready", &ReadyHandler{DB: health.DB})
	mux.Handle("GET /live", &LiveHandler{})
	mux.Handle("GET /metrics", MetricsHandler())
	mux.Handle("GET "+middleware.SwaggerPrefix, httpSwagger.WrapHandler)

	return Chain(mux,
		requestid.Middleware,
		tracing.Middleware,
		Logging(cfg.Logger),
		Recover(cfg.Logger),
		MetricsMiddleware,
		middleware.SecurityHeaders,
		middleware.CORS(cfg.CORS, cfg.Logger),
		InputValidation(),
		Timeout(cfg.RequestTimeout),
	)
}
