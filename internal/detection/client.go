package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"LabCV-backend/internal/platform/apierr"
)

const maxResponseBytes = 1 << 20

// HTTPDetector は検出サービスへ multipart の "image" を POST し、
// {"detections":[{"label":"beaker","confidence":0.92}]} を受け取る。
type HTTPDetector struct {
	endpoint string
	client   *http.Client
}

func NewHTTPDetector(endpoint string, timeout time.Duration) *HTTPDetector {
	return &HTTPDetector{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type detectResponse struct {
	Detections []Detection `json:"detections"`
}

func (d *HTTPDetector) Detect(ctx context.Context, image []byte, contentType string) ([]Detection, error) {
	if len(image) == 0 {
		return nil, apierr.ErrInvalid("image required")
	}
	if contentType == "" {
		contentType = http.DetectContentType(image)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="image"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("detect: build request: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("detect: build request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("detect: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, apierr.ErrUnavailable(fmt.Sprintf("detector unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, apierr.ErrUnavailable(fmt.Sprintf("detector returned %d", resp.StatusCode))
	}

	var out detectResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("detect: decode response: %w", err)
	}
	return out.Detections, nil
}
