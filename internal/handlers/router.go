package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"messenger-service/internal/middleware"
	"messenger-service/internal/observability"
	"messenger-service/internal/service"
)

type RouterDeps struct {
	Chats       ChatService
	Accounts    AccountService
	DB          Pinger
	Events      service.EventEmitter
	Logger      *slog.Logger
	ServiceName string
	Debug       bool
}

// NewRouter assembles the HTTP surface wrapped in CORS handling.
func NewRouter(deps RouterDeps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		otelgin.Middleware(deps.ServiceName),
		observability.HTTPMetricsMiddleware(),
		middleware.RequestLogger(deps.Logger),
	)

	chatHandler := NewChatHandler(deps.Chats)
	authHandler := NewAuthHandler(deps.Accounts)

	chats := router.Group("/chats", middleware.Identity())
	chats.GET("", chatHandler.Get)
	chats.POST("", chatHandler.Post)

	router.POST("/auth", authHandler.Post)

	RegisterOpsRoutes(router, deps.DB)
	RegisterDebugRoutes(router, deps.Events, deps.Debug)

	return middleware.CORS(router)
}
