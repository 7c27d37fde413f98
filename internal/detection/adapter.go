package detection

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"LabCV-backend/internal/platform/apierr"
	"LabCV-backend/internal/platform/config"
)

type Adapter struct {
	detector      Detector
	catalog       Catalog
	labels        map[string]string // 小文字化したラベル -> 在庫名
	minConfidence float64
	logger        *zap.Logger
}

// NewAdapter: labels が空ならラベルをそのまま在庫名として扱う
func NewAdapter(d Detector, labels map[string]string, minConfidence float64, logger *zap.Logger) *Adapter {
	norm := make(map[string]string, len(labels))
	for k, v := range labels {
		k = normalizeLabel(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		norm[k] = v
	}
	return &Adapter{detector: d, labels: norm, minConfidence: minConfidence, logger: logger}
}

// FromConfig: endpoint 未設定なら検出器なし（Enabled() == false）
func FromConfig(cfg config.DetectionConfig, logger *zap.Logger) *Adapter {
	var d Detector
	if strings.TrimSpace(cfg.Endpoint) != "" {
		d = NewHTTPDetector(cfg.Endpoint, cfg.Timeout)
	}
	return NewAdapter(d, cfg.Labels, cfg.MinConfidence, logger)
}

// WithCatalog: 在庫に無い名前を結果から落とす
func (a *Adapter) WithCatalog(c Catalog) *Adapter {
	a.catalog = c
	return a
}

func (a *Adapter) Enabled() bool { return a != nil && a.detector != nil }

// Recognize は画像から在庫名の集合（重複なし・昇順）を返す。
// 信頼度不足・対応表に無いラベル・在庫に無い名前は黙って捨てる。
func (a *Adapter) Recognize(ctx context.Context, image []byte, contentType string) ([]string, error) {
	if !a.Enabled() {
		return nil, apierr.ErrUnavailable("detection is not configured")
	}
	dets, err := a.detector.Detect(ctx, image, contentType)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(dets))
	names := []string{}
	for _, d := range dets {
		if d.Confidence < a.minConfidence {
			continue
		}
		name, ok := a.mapLabel(d.Label)
		if !ok {
			a.logger.Debug("unmapped detection label dropped", zap.String("label", d.Label))
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		if a.catalog != nil {
			_, known, err := a.catalog.Lookup(ctx, name)
			if err != nil {
				return nil, err
			}
			if !known {
				a.logger.Debug("detected name not in inventory", zap.String("name", name))
				continue
			}
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)

	a.logger.Info("image recognised",
		zap.Int("detections", len(dets)),
		zap.Strings("equipment_names", names),
	)
	return names, nil
}

func (a *Adapter) mapLabel(label string) (string, bool) {
	if len(a.labels) == 0 {
		name := strings.TrimSpace(label)
		return name, name != ""
	}
	name, ok := a.labels[normalizeLabel(label)]
	return name, ok
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(strings.ReplaceAll(s, "_", " ")), " "))
}
