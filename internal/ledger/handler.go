package ledger

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"LabCV-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/history", h.FullHistory)
	r.GET("/students/:student_id/history", h.StudentHistory)
}

// GET /history
// ?format=csv で CSV ダウンロード（?encoding=utf-8|shift_jis）
func (h *Handler) FullHistory(c *gin.Context) {
	if strings.EqualFold(c.Query("format"), "csv") {
		h.exportCSV(c)
		return
	}
	res, err := h.svc.FullHistory(c.Request.Context(), pageFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) StudentHistory(c *gin.Context) {
	res, err := h.svc.StudentHistory(c.Request.Context(), c.Param("student_id"), pageFrom(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) exportCSV(c *gin.Context) {
	encName := c.DefaultQuery("encoding", CSVEncodingUTF8)
	var buf bytes.Buffer
	if err := h.svc.ExportCSV(c.Request.Context(), &buf, encName); err != nil {
		respondErr(c, err)
		return
	}
	charset := "utf-8"
	if enc := strings.ToLower(encName); enc != CSVEncodingUTF8 && enc != "utf8" && enc != "" {
		charset = "shift_jis"
	}
	c.Header("Content-Disposition", `attachment; filename="equipment_log.csv"`)
	c.Data(http.StatusOK, "text/csv; charset="+charset, buf.Bytes())
}

func pageFrom(c *gin.Context) Page {
	return Page{
		Limit:  atoiDef(c.Query("limit"), 0),
		Offset: atoiDef(c.Query("offset"), 0),
	}
}

func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func respondErr(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(apierr.HTTPStatus(err), apierr.FromErr(err))
}
