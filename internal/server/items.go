package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/menu-extractor/internal/common"
	"github.com/joseph-ayodele/menu-extractor/internal/repository"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func filterFrom(c *gin.Context) repository.ListFilter {
	return repository.ListFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
}

// ListItems returns stored items filtered by ?category= and ?search=.
func (h *Handler) ListItems(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := h.store.List(ctx, filterFrom(c))
	if err != nil {
		common.LoggerFromContext(ctx, h.logger).Error("items.list_failed", "error", err)
		writeError(c, common.Storage("Failed to fetch menu items", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": nonNil(items)})
}

// DeleteItem removes ?id=. Deleting an unknown id succeeds.
func (h *Handler) DeleteItem(c *gin.Context) {
	ctx := c.Request.Context()
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		writeError(c, common.InvalidInput("Item ID is required"))
		return
	}
	if err := h.store.Delete(ctx, id); err != nil {
		common.LoggerFromContext(ctx, h.logger).Error("items.delete_failed", "id", id, "error", err)
		writeError(c, common.Storage("Failed to delete item", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

// ListCategories returns the distinct stored categories.
func (h *Handler) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()
	cats, err := h.store.ListCategories(ctx)
	if err != nil {
		common.LoggerFromContext(ctx, h.logger).Error("categories.list_failed", "error", err)
		writeError(c, common.Storage("Failed to fetch categories", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": nonNil(cats)})
}

// ExportItems streams the filtered items as an XLSX attachment.
func (h *Handler) ExportItems(c *gin.Context) {
	ctx := c.Request.Context()
	xlsx, err := h.exporter.ExportMenuItemsXLSX(ctx, filterFrom(c))
	if err != nil {
		common.LoggerFromContext(ctx, h.logger).Error("export.xlsx.failed", "error", err)
		writeError(c, common.Storage("Failed to export menu items", err))
		return
	}
	name := fmt.Sprintf("menu-items-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, xlsxContentType, xlsx)
}
