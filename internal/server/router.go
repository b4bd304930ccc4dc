package server

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/smartnlp/internal/server/archive"
	"github.com/iudanet/smartnlp/internal/server/handlers"
	"github.com/iudanet/smartnlp/internal/server/identity"
	"github.com/iudanet/smartnlp/internal/server/middleware"
	"github.com/iudanet/smartnlp/internal/server/storage"
)

// maxJSONBodySize ограничивает JSON тела запросов
const maxJSONBodySize = 1 << 20

// Deps зависимости HTTP роутера
type Deps struct {
	Logger     *slog.Logger
	Identity   *identity.Store
	Operations storage.OperationStorage
	Backend    handlers.NLPBackend
	Archive    archive.Archive
	DB         handlers.Pinger
	Limiter    *middleware.RateLimiter // nil отключает ограничение частоты
	Version    string
}

// NewRouter собирает все маршруты сервера
func NewRouter(d Deps) http.Handler {
	authHandler := handlers.NewAuthHandler(d.Logger, d.Identity)
	nlpHandler := handlers.NewNLPHandler(d.Logger, d.Backend, d.Operations, d.Archive)
	healthHandler := handlers.NewHealthHandler(d.Logger, d.Version, d.DB)

	required := middleware.RequireAuth(d.Logger, d.Identity)
	optional := middleware.OptionalAuth(d.Logger, d.Identity)

	limited := func(h http.Handler) http.Handler {
		if d.Limiter == nil {
			return h
		}
		return d.Limiter.Middleware(h)
	}

	// limitBody ограничивает размер тела; для multipart действует свой лимит в handler
	limitBody := func(h http.HandlerFunc) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodySize)
			h(w, r)
		})
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)

	// Auth
	mux.Handle("POST /auth/register", limited(limitBody(authHandler.Register)))
	mux.Handle("POST /auth/login", limited(limitBody(authHandler.Login)))
	mux.Handle("POST /auth/logout", required(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /auth/me", required(http.HandlerFunc(authHandler.Me)))

	// NLP операции: аутентификация необязательна
	mux.Handle("POST /nlp/translate", middleware.Chain(limitBody(nlpHandler.Translate), limited, optional))
	mux.Handle("POST /nlp/summarize", middleware.Chain(limitBody(nlpHandler.Summarize), limited, optional))
	mux.Handle("POST /nlp/speech-to-text", middleware.Chain(http.HandlerFunc(nlpHandler.SpeechToText), limited, optional))
	mux.Handle("POST /nlp/text-to-speech", middleware.Chain(limitBody(nlpHandler.TextToSpeech), limited, optional))

	// История пользователя
	mux.Handle("GET /nlp/history", middleware.Chain(http.HandlerFunc(nlpHandler.History), limited, required))
	mux.Handle("DELETE /nlp/history", middleware.Chain(http.HandlerFunc(nlpHandler.ClearHistory), limited, required))

	mux.HandleFunc("GET /nlp/health", nlpHandler.Health)

	return middleware.Chain(mux,
		middleware.Recovery(d.Logger),
		middleware.Logging(d.Logger, "/health"),
	)
}
