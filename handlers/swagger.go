package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves the API description:
// - GET /swagger/index.html  -> Swagger UI page loading doc.json
// - GET /swagger/doc.json    -> OpenAPI document
func RegisterSwagger(r gin.IRouter) {
	r.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	r.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>shopseed-api - Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "shopseed-api", "version": "v0.1.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } }
  },
  "paths": {
    "/api/seed/runs": {
      "post": {
        "summary": "Apply the customers seed plan",
        "security": [ { "bearer": [] } ],
        "responses": {
          "201": { "description": "all steps applied, run report returned" },
          "401": { "description": "missing or invalid operator token" },
          "409": { "description": "another seed run holds the lock" },
          "422": { "description": "a step failed, run report returned" },
          "429": { "description": "rate limited" }
        }
      },
      "get": {
        "summary": "List recent seed runs, newest first",
        "parameters": [ { "name": "limit", "in": "query", "schema": { "type": "integer", "minimum": 1, "maximum": 500 } } ],
        "responses": { "200": { "description": "run reports" }, "400": { "description": "bad limit" } }
      }
    },
    "/api/seed/plan": { "get": { "summary": "List the plan steps", "responses": { "200": { "description": "steps" } } } },
    "/api/seed/verify": { "get": { "summary": "Check plan post-conditions against the collection", "responses": { "200": { "description": "ok flag and violations" } } } },
    "/api/customers": { "get": { "summary": "List customers by id", "responses": { "200": { "description": "customers" } } } },
    "/api/customers/{id}": {
      "get": {
        "summary": "Get one customer",
        "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "integer" } } ],
        "responses": { "200": { "description": "customer" }, "400": { "description": "non-integer id" }, "404": { "description": "not found" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`
