package http

import "github.com/gin-gonic/gin"

// Register mounts every handler on r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/metrics/json", h.MetricsJSON)

	r.POST("/extract", h.Extract)
	r.POST("/tokenize", h.Tokenize)

	r.GET("/tools", h.ListTools)
	r.POST("/tools/execute", h.ExecuteTool)

	r.GET("/results", h.ListResults)
	r.GET("/results/:id", h.GetResult)
}
