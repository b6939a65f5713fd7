package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/nguyentranbao-ct/reuse/internal/config"
	"github.com/nguyentranbao-ct/reuse/internal/models"
	"github.com/nguyentranbao-ct/reuse/internal/repo/activity"
	"github.com/nguyentranbao-ct/reuse/internal/repo/catalog"
	"github.com/nguyentranbao-ct/reuse/pkg/logger"
	"github.com/nguyentranbao-ct/reuse/pkg/util"
)

type selection struct {
	source models.SourceConfig
	result models.ProbeResult
}

type sourceSelector struct {
	cfg      config.SourcesConfig
	catalog  catalog.Client
	recorder activity.Recorder
	log      *zap.SugaredLogger

	probeLatency *prometheus.HistogramVec
	selected     *prometheus.CounterVec

	last atomic.Pointer[selection]
}

func NewSourceSelector(cfg *config.Config, catalogClient catalog.Client, recorder activity.Recorder) (SourceSelector, error) {
	probeLatency, err := util.GetHistogramVec("source_probe_duration_seconds", "tier", "status")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	selected, err := util.GetCounterVec("source_selected_total", "tier")
	if err != nil {
		return nil, fmt.Errorf("get counter vec: %w", err)
	}
	return &sourceSelector{
		cfg:          cfg.Sources,
		catalog:      catalogClient,
		recorder:     recorder,
		log:          logger.MustNamed("source_selector"),
		probeLatency: probeLatency,
		selected:     selected,
	}, nil
}

func sourceOf(tier models.SourceTier, c config.SourceConfig) models.SourceConfig {
	return models.SourceConfig{
		Tier:         tier,
		BaseURL:      c.BaseURL,
		ProductsPath: c.ProductsPath,
		Shape:        c.Shape,
	}
}

func (s *sourceSelector) Probe(ctx context.Context) (models.SourceConfig, models.ProbeResult) {
	primaryErr := s.probe(ctx, models.TierPrimary, s.cfg.Primary)
	if primaryErr == nil {
		return s.choose(ctx, sourceOf(models.TierPrimary, s.cfg.Primary), models.ProbeResult{
			Success: true,
			Message: "connected to primary source " + s.cfg.Primary.BaseURL,
		})
	}

	secondaryErr := s.probe(ctx, models.TierSecondary, s.cfg.Secondary)
	if secondaryErr == nil {
		return s.choose(ctx, sourceOf(models.TierSecondary, s.cfg.Secondary), models.ProbeResult{
			Success: true,
			Message: "connected to secondary source " + s.cfg.Secondary.BaseURL,
		})
	}

	return s.choose(ctx, models.MockSource(), models.ProbeResult{
		Success: false,
		Message: fmt.Sprintf("primary unavailable (%v); secondary unavailable (%v); using mock data", primaryErr, secondaryErr),
	})
}

func (s *sourceSelector) probe(ctx context.Context, tier models.SourceTier, c config.SourceConfig) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ProbeTimeout)
	defer cancel()

	start := time.Now()
	err := s.catalog.Probe(ctx, c.BaseURL+c.ProbePath)
	status := "ok"
	if err != nil {
		status = "error"
		s.log.Debugw("source probe failed", "tier", tier, "url", c.BaseURL+c.ProbePath, "error", err)
	}
	s.probeLatency.WithLabelValues(string(tier), status).Observe(time.Since(start).Seconds())
	return err
}

func (s *sourceSelector) choose(ctx context.Context, src models.SourceConfig, result models.ProbeResult) (models.SourceConfig, models.ProbeResult) {
	s.selected.WithLabelValues(string(src.Tier)).Inc()

	prev := s.last.Swap(&selection{source: src, result: result})
	if prev == nil || prev.source.Tier != src.Tier {
		s.log.Infow("product source selected", "tier", src.Tier, "message", result.Message)
		if err := s.recorder.Record(ctx, models.Activity{
			Action: models.ActivitySourceSelected,
			Tier:   src.Tier,
			Detail: result.Message,
		}); err != nil {
			s.log.Errorw("failed to record source selection", "error", err)
		}
	}
	return src, result
}

func (s *sourceSelector) Current() (models.SourceConfig, models.ProbeResult, bool) {
	last := s.last.Load()
	if last == nil {
		return models.SourceConfig{}, models.ProbeResult{}, false
	}
	return last.source, last.result, true
}
