package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bookfolio/bookfolio/internal/database"
)

// CatalogCounts summarizes the catalog size in the health response.
type CatalogCounts struct {
	Authors int64 `json:"authors"`
	Books   int64 `json:"books"`
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
	Catalog *CatalogCounts    `json:"catalog,omitempty"`
}

type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

// Status reports service health. A healthy response includes the catalog
// counts, so the endpoint doubles as a cheap liveness and sanity check.
func (h *HealthController) Status(c *gin.Context) {
	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  make(map[string]string),
	}

	if h.db == nil {
		resp.Checks["database"] = "not configured"
	} else if err := h.ping(); err != nil {
		resp.Status = "unhealthy"
		resp.Checks["database"] = "error: " + err.Error()
	} else {
		resp.Checks["database"] = "ok"
		totalAuthors, totalBooks, err := h.db.GetStats()
		if err != nil {
			resp.Status = "unhealthy"
			resp.Checks["catalog"] = "error: " + err.Error()
		} else {
			resp.Catalog = &CatalogCounts{Authors: totalAuthors, Books: totalBooks}
		}
	}

	statusCode := http.StatusOK
	if resp.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, resp)
}

func (h *HealthController) ping() error {
	sqlDB, err := h.db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
