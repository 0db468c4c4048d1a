package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/repolens/repolens/internal/models"
	"github.com/repolens/repolens/internal/services"
	"github.com/repolens/repolens/pkg/logger"
)

type StatsHandler struct {
	changesets    services.ChangesetSource
	users         services.UserDirectory
	exportService *services.ExportService
}

func NewStatsHandler(
	changesets services.ChangesetSource,
	users services.UserDirectory,
	exportService *services.ExportService,
) *StatsHandler {
	return &StatsHandler{
		changesets:    changesets,
		users:         users,
		exportService: exportService,
	}
}

// newSession creates a report session scoped to this request. Sessions
// memoize per repository and must not be shared between requests.
func (h *StatsHandler) newSession(c *gin.Context) *services.ContributorStatsService {
	return services.NewContributorStatsService(c.Param("id"), h.changesets, h.users)
}

// CommitsPerAuthor returns the per-author commit activity series,
// ordered by total commits descending
func (h *StatsHandler) CommitsPerAuthor(c *gin.Context) {
	data, err := h.newSession(c).CommitsPerAuthor()
	if err != nil {
		logger.WithError(err).Errorf("Failed to build per-author stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute statistics"})
		return
	}
	if data == nil {
		data = []*models.AuthorActivity{}
	}

	c.JSON(http.StatusOK, data)
}

// CommitsPerAuthorGlobal returns the global contributor totals table,
// ordered by name ascending
func (h *StatsHandler) CommitsPerAuthorGlobal(c *gin.Context) {
	summary, err := h.newSession(c).CommitsPerAuthorGlobal()
	if err != nil {
		logger.WithError(err).Errorf("Failed to build global stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute statistics"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ExportGlobal downloads the global totals table as an xlsx workbook
func (h *StatsHandler) ExportGlobal(c *gin.Context) {
	summary, err := h.newSession(c).CommitsPerAuthorGlobal()
	if err != nil {
		logger.WithError(err).Errorf("Failed to build global stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute statistics"})
		return
	}

	workbook, err := h.exportService.BuildContributionWorkbook(summary)
	if err != nil {
		logger.WithError(err).Errorf("Failed to build workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}
	defer workbook.Close()

	buf, err := workbook.WriteToBuffer()
	if err != nil {
		logger.WithError(err).Errorf("Failed to serialize workbook")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build export"})
		return
	}

	filename := fmt.Sprintf("contributors-%s.xlsx", c.Param("id"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
