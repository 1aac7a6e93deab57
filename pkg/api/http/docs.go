package http

import (
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"
)

const apiTitle = "Booking App API"

const swaggerUIPage = `<!DOCTYPE html>
<html>
<head>
<link type="text/css" rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
<title>%[1]s - Swagger UI</title>
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
const ui = SwaggerUIBundle({
    url: '%[2]s',
    dom_id: '#swagger-ui',
    layout: 'BaseLayout',
    deepLinking: true,
    showExtensions: true,
    showCommonExtensions: true,
    presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
})
</script>
</body>
</html>
`

const reDocPage = `<!DOCTYPE html>
<html>
<head>
<title>%[1]s - ReDoc</title>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body { margin: 0; padding: 0; }</style>
</head>
<body>
<redoc spec-url="%[2]s"></redoc>
<script src="https://cdn.jsdelivr.net/npm/redoc@next/bundles/redoc.standalone.js"></script>
</body>
</html>
`

func (s *Server) openAPIURL() string {
	return s.prefix + "/openapi.json"
}

// handleSwaggerUI serves the interactive API documentation
func (s *Server) handleSwaggerUI(c *gin.Context) {
	page := fmt.Sprintf(swaggerUIPage, html.EscapeString(apiTitle), html.EscapeString(s.openAPIURL()))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// handleReDoc serves the ReDoc rendering of the API documentation
func (s *Server) handleReDoc(c *gin.Context) {
	page := fmt.Sprintf(reDocPage, html.EscapeString(apiTitle), html.EscapeString(s.openAPIURL()))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// handleOpenAPI serves the OpenAPI description of the routes
func (s *Server) handleOpenAPI(c *gin.Context) {
	c.JSON(http.StatusOK, s.openAPIDocument())
}

func (s *Server) openAPIDocument() gin.H {
	jsonResponse := func(description, schema string) gin.H {
		return gin.H{
			"description": description,
			"content": gin.H{
				"application/json": gin.H{
					"schema": gin.H{"$ref": "#/components/schemas/" + schema},
				},
			},
		}
	}

	return gin.H{
		"openapi": "3.1.0",
		"info": gin.H{
			"title":       apiTitle,
			"description": "API for booking application",
			"version":     s.version,
		},
		"paths": gin.H{
			s.prefix + "/health": gin.H{
				"get": gin.H{
					"tags":        []string{"status"},
					"summary":     "Health Check",
					"description": "Liveness check; succeeds whenever the process is serving requests.",
					"operationId": "health_check",
					"responses": gin.H{
						"200": jsonResponse("Successful Response", "HealthResponse"),
					},
				},
			},
			s.prefix + "/status": gin.H{
				"get": gin.H{
					"tags":        []string{"status"},
					"summary":     "Status",
					"description": "Returns detailed status of the API and its dependencies.",
					"operationId": "status",
					"responses": gin.H{
						"200": jsonResponse("Successful Response", "StatusResponse"),
					},
				},
			},
			s.prefix + "/ready": gin.H{
				"get": gin.H{
					"tags":        []string{"status"},
					"summary":     "Readiness",
					"description": "Readiness check; fails while the database is unreachable.",
					"operationId": "readiness",
					"responses": gin.H{
						"200": jsonResponse("Ready", "StatusResponse"),
						"503": jsonResponse("Database unreachable", "StatusResponse"),
					},
				},
			},
		},
		"components": gin.H{
			"schemas": gin.H{
				"HealthResponse": gin.H{
					"type":     "object",
					"required": []string{"status", "version"},
					"properties": gin.H{
						"status":  gin.H{"type": "string", "example": "healthy"},
						"version": gin.H{"type": "string", "example": s.version},
					},
				},
				"StatusResponse": gin.H{
					"type":     "object",
					"required": []string{"status", "environment", "database", "version"},
					"properties": gin.H{
						"status":      gin.H{"type": "string", "example": "online"},
						"environment": gin.H{"type": "string", "example": "development"},
						"database": gin.H{
							"type": "string",
							"enum": []string{"connected", "disconnected", "unknown"},
						},
						"version": gin.H{"type": "string", "example": s.version},
					},
				},
			},
		},
	}
}
