package http

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/markscan/internal/report"
	"github.com/GriffinCanCode/markscan/internal/shared/id"
)

// ListResults lists stored result IDs
func (h *Handlers) ListResults(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "result store disabled"})
		return
	}

	ids, err := h.store.List()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": ids, "count": len(ids)})
}

// GetResult returns one stored report
func (h *Handlers) GetResult(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "result store disabled"})
		return
	}

	rid := c.Param("id")
	if !id.IsValid(rid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid result id"})
		return
	}

	var rep report.Report
	if err := h.store.Load(id.ResultID(rid), &rep); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
