package http

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/audit"
	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/store"
)

// MaxSnapshotBytes caps the body accepted by PUT /api/data.
const MaxSnapshotBytes = 10 << 20

// DataController serves the raw snapshot document read and written by
// remote HTTP gateways.
type DataController struct {
	gateway store.Gateway
	auditor *audit.Auditor
}

// NewDataController creates the controller. auditor may be nil.
func NewDataController(gateway store.Gateway, auditor *audit.Auditor) *DataController {
	return &DataController{gateway: gateway, auditor: auditor}
}

// Get returns the stored snapshot, or 204 when there is nothing usable.
func (controller *DataController) Get(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	snap, err := controller.gateway.Load(c.Request.Context())
	if errors.Is(err, entities.ErrSnapshotNotFound) || errors.Is(err, entities.ErrInvalidSnapshot) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		respondInternalError(c, err, "load data")
		return
	}
	c.JSON(http.StatusOK, snap)
}

// Put replaces the stored snapshot. Documents without users, books and
// reviews arrays are rejected.
func (controller *DataController) Put(c *gin.Context) {
	c.Header("Cache-Control", "no-store")

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxSnapshotBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid_body"})
		return
	}

	snap, err := entities.DecodeSnapshot(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid_shape"})
		return
	}

	if controller.auditor != nil {
		if _, err := controller.auditor.SaveJSON(snap); err != nil {
			log.Printf("[AUDIT] Failed to record snapshot upload: %v", err)
		}
	}

	if err := controller.gateway.Save(c.Request.Context(), snap); err != nil {
		log.Printf("Internal error (save data): %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "write_failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
