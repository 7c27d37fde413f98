// Package server wires every HTTP-facing package into one gin engine.
package server

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"LabCV-backend/internal/detection"
	"LabCV-backend/internal/inventory"
	"LabCV-backend/internal/ledger"
	"LabCV-backend/internal/platform/apierr"
	"LabCV-backend/internal/platform/config"
	"LabCV-backend/internal/platform/logging"
	"LabCV-backend/internal/platform/metrics"
	"LabCV-backend/internal/students"
	"LabCV-backend/internal/transactions"
)

const APIPrefix = "/api/v1"

var defaultCORSOrigins = []string{"http://localhost:3000"}

func NewRouter(cfg *config.Config, conn *sql.DB, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(logging.Gin(logger), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == config.ModeDev {
		// CORS（開発中のみ必要）
		origins := cfg.Server.CORSOrigins
		if len(origins) == 0 {
			origins = defaultCORSOrigins
		}
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowHeaders:     []string{"Origin", "Content-Type", logging.HeaderRequestID},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", logging.HeaderRequestID},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) {
		if err := conn.PingContext(c.Request.Context()); err != nil {
			c.String(http.StatusServiceUnavailable, "db unavailable")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	adapter := detection.FromConfig(cfg.Detection, logger).WithCatalog(inventory.NewStore(conn))

	api := r.Group(APIPrefix)
	inventory.RegisterRoutes(api, inventory.NewService(conn, logger))
	students.RegisterRoutes(api, students.NewService(conn, logger))
	ledger.RegisterRoutes(api, ledger.NewService(conn, logger))
	detection.RegisterRoutes(api, adapter)
	transactions.RegisterRoutes(api, transactions.NewService(transactions.NewSQLRepository(conn), adapter, m, logger))

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, apierr.Body(apierr.CodeNotFound, "route not found"))
			return
		}
		c.Status(http.StatusNotFound)
	})
	return r
}
