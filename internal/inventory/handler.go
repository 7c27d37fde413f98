package inventory

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"LabCV-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/inventory", h.ListItems)
	r.POST("/inventory", h.CreateItem)
	r.GET("/inventory/lookup", h.Lookup) // ?name=
	r.GET("/inventory/:item_id", h.GetItem)
	r.PUT("/inventory/:item_id", h.UpdateQuantity)
	r.DELETE("/inventory/:item_id", h.DeleteItem)
}

func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.svc.ListItems(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *Handler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid json or missing name"))
		return
	}
	res, err := h.svc.CreateItem(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.Header("Location", "/inventory/"+strconv.FormatInt(res.ID, 10))
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) GetItem(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	res, err := h.svc.GetItem(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) UpdateQuantity(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid json or missing quantity"))
		return
	}
	res, err := h.svc.UpdateQuantity(c.Request.Context(), id, *req.Quantity)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteItem(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) Lookup(c *gin.Context) {
	res, err := h.svc.Lookup(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ---------- helpers ----------

func itemID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "item_id must be a positive number"))
		return 0, false
	}
	return id, true
}

func respondErr(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(apierr.HTTPStatus(err), apierr.FromErr(err))
}
