// Package api provides the REST status API for running routes
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/james-see/miditoolbox/pkg/device"
	"github.com/james-see/miditoolbox/pkg/filter"
	"github.com/james-see/miditoolbox/pkg/router"
)

// @title MIDI Toolbox API
// @version 1.0
// @description Status of running MIDI routes
// @host localhost:8080
// @BasePath /api/v1

const shutdownTimeout = 5 * time.Second

// StatsSource exposes per-route statistics
type StatsSource interface {
	Stats() []router.Stats
}

// PortLister enumerates the ports of the MIDI system
type PortLister interface {
	Inputs() ([]device.PortInfo, error)
	Outputs() ([]device.PortInfo, error)
}

type server struct {
	routes StatsSource
	ports  PortLister
}

// NewHandler builds the gin engine. ports may be nil.
func NewHandler(routes StatsSource, ports PortLister, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &server{routes: routes, ports: ports}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(logger))

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/routes", s.listRoutes)
		v1.GET("/routes/:id", s.getRoute)
		v1.GET("/filters", listFilters)
		v1.GET("/ports", s.listPorts)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// Serve runs the API on addr until ctx is canceled
func Serve(ctx context.Context, addr string, h http.Handler, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("status api listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "miditoolbox",
	})
}

// listRoutes godoc
// @Summary List routes
// @Description Returns statistics for every running route
// @Tags routes
// @Produce json
// @Success 200 {object} map[string][]router.Stats
// @Router /api/v1/routes [get]
func (s *server) listRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"routes": s.routes.Stats()})
}

// getRoute godoc
// @Summary Get one route
// @Description Returns statistics for the route with the given id
// @Tags routes
// @Produce json
// @Param id path int true "Route id"
// @Success 200 {object} router.Stats
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/routes/{id} [get]
func (s *server) getRoute(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "route id must be an integer"})
		return
	}
	for _, st := range s.routes.Stats() {
		if st.ID == id {
			c.JSON(http.StatusOK, st)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

// listFilters godoc
// @Summary List filter presets
// @Description Returns the names accepted in a route's filters list
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/filters [get]
func listFilters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"filters": filter.Presets(),
		"default": filter.DefaultPreset,
	})
}

// listPorts godoc
// @Summary List MIDI ports
// @Description Returns the numbered input and output ports
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]device.PortInfo
// @Failure 500 {object} map[string]string
// @Failure 501 {object} map[string]string
// @Router /api/v1/ports [get]
func (s *server) listPorts(c *gin.Context) {
	if s.ports == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "port listing unavailable"})
		return
	}
	ins, err := s.ports.Inputs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	outs, err := s.ports.Outputs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"inputs": ins, "outputs": outs})
}
