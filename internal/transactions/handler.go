package transactions

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"LabCV-backend/internal/detection"
	"LabCV-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/transactions", h.Submit)
	r.POST("/transactions/detect", h.SubmitDetected)
}

// POST /transactions
// JSON のほか、フォーム送信（student_id, action, equipment=カンマ区切り）も受け付ける
func (h *Handler) Submit(c *gin.Context) {
	var req Request
	var err error
	if strings.HasPrefix(c.ContentType(), "application/json") {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBind(&req)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid request body"))
		return
	}
	res, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(statusOf(res), res)
}

// POST /transactions/detect (multipart: student_id, action, image)
func (h *Handler) SubmitDetected(c *gin.Context) {
	img, ct, err := detection.ReadImage(c)
	if err != nil {
		respondErr(c, err)
		return
	}
	res, err := h.svc.SubmitDetected(c.Request.Context(), c.PostForm("student_id"), c.PostForm("action"), img, ct)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(statusOf(res), res)
}

// 1件でも成功すれば 200。全明細失敗は 422。
func statusOf(res Result) int {
	if res.Succeeded == 0 {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func respondErr(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(apierr.HTTPStatus(err), apierr.FromErr(err))
}
