package workforce

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"workforce-backend/internal/shared/server/respond"
)

// Handler exposes dev-only seeding routes for the in-memory repository.
type Handler struct {
	Memory *MemoryRepo
}

// NewHandler constructs a Handler.
func NewHandler(memory *MemoryRepo) *Handler {
	return &Handler{Memory: memory}
}

// RegisterDevRoutes attaches seeding routes. Only mounted when ENV=dev and
// the in-memory repository is in use.
func (h *Handler) RegisterDevRoutes(rg *gin.RouterGroup) {
	rg.POST("/workforce/seed", h.seed)
}

func (h *Handler) seed(c *gin.Context) {
	if h.Memory == nil {
		respond.Error(c, http.StatusConflict, "not_available", "seeding requires the in-memory repository", nil)
		return
	}

	var snap Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid snapshot payload", nil)
		return
	}
	assignIDs(&snap)
	h.Memory.Replace(snap)

	respond.OK(c, gin.H{
		"jobs":              len(snap.Jobs),
		"shifts":            len(snap.Shifts),
		"payments":          len(snap.Payments),
		"complianceRecords": len(snap.ComplianceRecords),
	})
}

func assignIDs(snap *Snapshot) {
	for i := range snap.Jobs {
		if snap.Jobs[i].ID == "" {
			snap.Jobs[i].ID = uuid.NewString()
		}
	}
	for i := range snap.Shifts {
		if snap.Shifts[i].ID == "" {
			snap.Shifts[i].ID = uuid.NewString()
		}
	}
	for i := range snap.Payments {
		if snap.Payments[i].ID == "" {
			snap.Payments[i].ID = uuid.NewString()
		}
	}
	for i := range snap.ComplianceRecords {
		if snap.ComplianceRecords[i].ID == "" {
			snap.ComplianceRecords[i].ID = uuid.NewString()
		}
	}
}
