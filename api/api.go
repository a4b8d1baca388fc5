package api

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"poolreturns/internal/calculator"
	"poolreturns/internal/logger"
	"poolreturns/internal/repository"
	"poolreturns/internal/service"
)

type ApiHandler struct {
	SubgraphRepository repository.SubgraphRepository
	HistoryService     service.HistoryService
	LPReturnsService   service.LPReturnsService
	CalculatorConfig   calculator.Config
	Logger             *zap.SugaredLogger
}

func (m ApiHandler) Router() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to poolreturns"})
	})
	router.POST("/windowMetrics", m.windowMetrics)
	router.POST("/historicalReturns", m.historicalReturns)
	router.POST("/lpReturns", m.lpReturns)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.Router().Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, 500)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(c.Request.Context()).Errorw("request failed", "error", err, "code", code)
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

// logRequestMiddleware tags every request with an id and embeds a
// request-scoped logger in the context for downstream layers.
func (m ApiHandler) logRequestMiddleware(c *gin.Context) {
	requestID := uuid.NewString()
	requestLogger := m.Logger.With(
		"requestID", requestID,
		"path", c.Request.URL.Path,
	)
	c.Request = c.Request.WithContext(logger.AddToContext(c.Request.Context(), requestLogger))
	c.Header("X-Request-Id", requestID)

	start := time.Now()
	c.Next()
	requestLogger.Infow("handled request",
		"status", c.Writer.Status(),
		"duration", time.Since(start),
	)
}
