package students

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"LabCV-backend/internal/platform/apierr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/students", h.Register)
	r.GET("/students", h.ListStudents)
	r.GET("/students/:student_id", h.GetStudent)
}

// POST /students
// 新規なら 201、登録済みなら 200（内容は変更しない）
func (h *Handler) Register(c *gin.Context) {
	var req RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierr.Body(apierr.CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	res, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		c.JSON(apierr.HTTPStatus(err), apierr.FromErr(err))
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
		c.Header("Location", "/students/"+res.Student.StudentID)
	}
	c.JSON(status, res)
}

func (h *Handler) GetStudent(c *gin.Context) {
	res, err := h.svc.GetStudent(c.Request.Context(), c.Param("student_id"))
	if err != nil {
		_ = c.Error(err)
		c.JSON(apierr.HTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) ListStudents(c *gin.Context) {
	list, err := h.svc.ListStudents(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(apierr.HTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "total": len(list)})
}
