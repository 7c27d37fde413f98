package detection

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"LabCV-backend/internal/platform/apierr"
)

// MaxImageBytes はアップロード画像の上限
const MaxImageBytes = 10 << 20

type Handler struct{ adapter *Adapter }

func RegisterRoutes(r gin.IRoutes, a *Adapter) {
	h := &Handler{adapter: a}

	r.POST("/detections", h.Recognize)
}

// POST /detections (multipart: image)
func (h *Handler) Recognize(c *gin.Context) {
	if !h.adapter.Enabled() {
		err := apierr.ErrUnavailable("detection is not configured")
		c.JSON(apierr.HTTPStatus(err), apierr.FromErr(err))
		return
	}
	img, ct, err := ReadImage(c)
	if err != nil {
		_ = c.Error(err)
		c.JSON(apierr.HTTPStatus(err), apierr.FromErr(err))
		return
	}
	names, err := h.adapter.Recognize(c.Request.Context(), img, ct)
	if err != nil {
		_ = c.Error(err)
		c.JSON(apierr.HTTPStatus(err), apierr.FromErr(err))
		return
	}
	c.JSON(http.StatusOK, RecognizeResponse{EquipmentNames: names})
}

// ReadImage は multipart の "image" フィールドを読み出す
func ReadImage(c *gin.Context) ([]byte, string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, "", apierr.ErrInvalid("image file required")
	}
	if fh.Size > MaxImageBytes {
		return nil, "", apierr.ErrInvalid("image too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", apierr.ErrInvalid("image unreadable")
	}
	defer f.Close()

	buf, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return nil, "", apierr.ErrInvalid("image unreadable")
	}
	if len(buf) == 0 || len(buf) > MaxImageBytes {
		return nil, "", apierr.ErrInvalid("image must be 1 byte to 10MiB")
	}
	return buf, fh.Header.Get("Content-Type"), nil
}
