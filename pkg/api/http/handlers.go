package http

import (
	"net/http"

	"github.com/aescanero/booking-api/internal/application/health"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse represents a liveness response
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// StatusResponse represents a status or readiness response
type StatusResponse struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Database    string `json:"database"`
	Version     string `json:"version"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// handleHealth handles liveness checks. It never touches the database.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: s.version,
	})
}

// handleStatus reports the service and database status
func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.statusResponse(c, "online"))
}

// handleReady handles readiness checks; the database must be reachable
func (s *Server) handleReady(c *gin.Context) {
	resp := s.statusResponse(c, "ready")
	if resp.Database != string(health.DatabaseConnected) {
		resp.Status = "unavailable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) statusResponse(c *gin.Context, status string) StatusResponse {
	database := health.DatabaseUnknown
	if s.database != nil {
		st := s.database.Check(c.Request.Context())
		database = st.Database
		if !st.Healthy {
			s.logger.Warn("database check failed",
				zap.String("error", st.Error),
				zap.String("request_id", c.GetString(requestIDKey)))
		}
	}

	return StatusResponse{
		Status:      status,
		Environment: s.environment,
		Database:    string(database),
		Version:     s.version,
	}
}

// handleNotFound handles requests for unknown routes
func (s *Server) handleNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error: ErrorDetail{
			Code:    "NOT_FOUND",
			Message: "Route not found",
			Details: c.Request.URL.Path,
		},
	})
}

// handleMethodNotAllowed handles requests with an unsupported method
func (s *Server) handleMethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ErrorResponse{
		Error: ErrorDetail{
			Code:    "METHOD_NOT_ALLOWED",
			Message: "Method not allowed",
			Details: c.Request.Method,
		},
	})
}
