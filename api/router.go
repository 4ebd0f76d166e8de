package api

import (
	"github.com/gin-gonic/gin"
	"github.com/nemopss/fin-records/auth"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(h *Handler, gate *auth.Gate, log zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(log), Recovery(log))

	r.GET("/health", h.Health)
	r.POST("/users", h.Register)
	r.POST("/sessions", h.Login)

	protected := r.Group("/", gate.Middleware())
	protected.GET("/transactions", h.GetTransactions)
	protected.POST("/transactions", h.CreateTransaction)
	protected.POST("/transactions/import", h.ImportTransactions)
	protected.GET("/transactions/:id", h.GetTransaction)
	protected.PUT("/transactions/:id", h.UpdateTransaction)
	protected.DELETE("/transactions/:id", h.DeleteTransaction)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
