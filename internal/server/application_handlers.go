package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jatrack/internal/model"
)

// pageResponse is the envelope wire shape.
type pageResponse struct {
	Content       []model.Application `json:"content"`
	Page          int                 `json:"page"`
	Size          int                 `json:"size"`
	TotalElements int64               `json:"totalElements"`
	TotalPages    int                 `json:"totalPages"`
	First         bool                `json:"first"`
	Last          bool                `json:"last"`
}

// sortColumns whitelists sortable fields (wire name -> column).
var sortColumns = map[string]string{
	"appliedDate": "applied_date",
	"company":     "company",
	"roleTitle":   "role_title",
	"status":      "status",
	"id":          "id",
}

func (h *httpHandler) handleSearch(c *gin.Context) {
	userID := currentUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	if page < 0 {
		page = 0
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if size <= 0 {
		size = 10
	}
	if size > 1000 {
		size = 1000
	}

	query := h.db.Model(&applicationRecord{}).Where("user_id = ?", userID)

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if _, ok := model.ParseStatus(status); !ok {
			c.String(http.StatusBadRequest, "unknown status "+status)
			return
		}
		query = query.Where("status = ?", status)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"lower(company) LIKE ? OR lower(role_title) LIKE ? OR lower(notes) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		h.logger.Error("application count failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "search failed")
		return
	}

	var rows []applicationRecord
	err := query.
		Order(orderClause(c.DefaultQuery("sort", "appliedDate,desc"))).
		Limit(size).
		Offset(page * size).
		Find(&rows).Error
	if err != nil {
		h.logger.Error("application search failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "search failed")
		return
	}

	totalPages := int((total + int64(size) - 1) / int64(size))
	content := make([]model.Application, 0, len(rows))
	for _, r := range rows {
		content = append(content, r.toModel())
	}

	c.JSON(http.StatusOK, pageResponse{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		First:         page == 0,
		Last:          page+1 >= totalPages,
	})
}

// orderClause turns "field,dir" into a safe ORDER BY. Unknown fields fall
// back to the applied-date default.
func orderClause(sort string) string {
	field, dir, _ := strings.Cut(sort, ",")
	col, ok := sortColumns[strings.TrimSpace(field)]
	if !ok {
		col = "applied_date"
	}
	if strings.EqualFold(strings.TrimSpace(dir), "desc") {
		return col + " DESC, id DESC"
	}
	return col + " ASC, id ASC"
}

func (h *httpHandler) handleCreate(c *gin.Context) {
	var payload model.Application
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.String(http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	row := applicationRecord{UserID: currentUserID(c)}
	row.applyModel(payload)
	if err := h.db.Create(&row).Error; err != nil {
		h.logger.Error("application create failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "create failed")
		return
	}
	c.JSON(http.StatusOK, row.toModel())
}

func (h *httpHandler) handleGet(c *gin.Context) {
	row, ok := h.findOwned(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, row.toModel())
}

func (h *httpHandler) handleUpdate(c *gin.Context) {
	row, ok := h.findOwned(c)
	if !ok {
		return
	}

	var payload model.Application
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.String(http.StatusBadRequest, "invalid request body")
		return
	}
	if err := payload.Validate(); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	// Whole-record replacement: every field is taken from the payload, so an
	// omitted field clears the stored one.
	row.applyModel(payload)
	if err := h.db.Save(&row).Error; err != nil {
		h.logger.Error("application update failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "update failed")
		return
	}
	c.JSON(http.StatusOK, row.toModel())
}

func (h *httpHandler) handleDelete(c *gin.Context) {
	row, ok := h.findOwned(c)
	if !ok {
		return
	}
	if err := h.db.Delete(&applicationRecord{}, row.ID).Error; err != nil {
		h.logger.Error("application delete failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "delete failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// findOwned loads the path id scoped to the authenticated user; foreign and
// missing rows are both 404.
func (h *httpHandler) findOwned(c *gin.Context) (applicationRecord, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.String(http.StatusNotFound, "application not found")
		return applicationRecord{}, false
	}
	var row applicationRecord
	err = h.db.Where("id = ? AND user_id = ?", id, currentUserID(c)).First(&row).Error
	if err != nil {
		c.String(http.StatusNotFound, "application not found")
		return applicationRecord{}, false
	}
	return row, true
}
