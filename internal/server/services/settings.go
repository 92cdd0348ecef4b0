package services

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/logging"
	"github.com/dmitrijs2005/backoffice/internal/server/repositories/repomanager"
)

// Compiled-in setting keys.
const (
	SettingOverdueFollowupDays        = "overdue_followup_days"
	SettingOverdueEscalationDays      = "overdue_escalation_days"
	SettingPerformanceExcellentHours  = "performance_excellent_hours"
	SettingPerformanceAcceptableHours = "performance_acceptable_hours"
)

var defaultSettings = map[string]string{
	SettingOverdueFollowupDays:        "1",
	SettingOverdueEscalationDays:      "1",
	SettingPerformanceExcellentHours:  "24",
	SettingPerformanceAcceptableHours: "72",
}

// DefaultSettings returns a copy of the compiled-in defaults.
func DefaultSettings() map[string]string {
	return maps.Clone(defaultSettings)
}

// SettingsService merges persisted overrides with compiled defaults. It
// re-reads the store on every call and fails open to the defaults.
type SettingsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	defaults    map[string]string
	timeout     time.Duration
	logger      logging.Logger
}

// NewSettingsService binds the service to db. A non-positive timeout means the
// store round-trip is bounded only by the caller's context.
func NewSettingsService(db *sql.DB, m repomanager.RepositoryManager, timeout time.Duration, l logging.Logger) *SettingsService {
	return &SettingsService{
		db:          db,
		repomanager: m,
		defaults:    DefaultSettings(),
		timeout:     timeout,
		logger:      l.With("module", "settings"),
	}
}

// GetAll returns every compiled key with its persisted override if any, plus
// any extra persisted keys. Store failures are logged and the defaults
// returned in full.
func (s *SettingsService) GetAll(ctx context.Context) map[string]string {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	rows, err := s.repomanager.Settings(s.db).All(ctx)
	if err != nil {
		s.logger.Error(ctx, "settings store unavailable, using defaults", "err", err)
		return maps.Clone(s.defaults)
	}

	out := maps.Clone(s.defaults)
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out
}

// LookupNumber resolves key to a finite number: the merged value if it
// parses, else the compiled default. ok is false when neither parses.
func (s *SettingsService) LookupNumber(ctx context.Context, key string) (float64, bool) {
	if v, ok := parseNumber(s.GetAll(ctx)[key]); ok {
		return v, true
	}
	if v, ok := parseNumber(s.defaults[key]); ok {
		return v, true
	}
	return 0, false
}

// GetNumber is LookupNumber for callers that cannot handle absence. A key
// with neither a numeric value nor a compiled default yields NaN.
func (s *SettingsService) GetNumber(ctx context.Context, key string) float64 {
	v, ok := s.LookupNumber(ctx, key)
	if !ok {
		s.logger.Warn(ctx, "no numeric value or default for setting", "key", key)
		return math.NaN()
	}
	return v
}

// Set persists an override for one of the compiled keys.
func (s *SettingsService) Set(ctx context.Context, key, value string) error {
	if _, known := s.defaults[key]; !known {
		return fmt.Errorf("%w: setting %q", common.ErrorNotFound, key)
	}
	if err := s.repomanager.Settings(s.db).Upsert(ctx, key, value); err != nil {
		s.logger.Error(ctx, "settings upsert failed", "key", key, "err", err)
		return common.ErrorInternal
	}
	return nil
}

// Reset drops the override for key so the compiled default applies again.
func (s *SettingsService) Reset(ctx context.Context, key string) error {
	err := s.repomanager.Settings(s.db).Delete(ctx, key)
	switch {
	case err == nil:
		return nil
	case common.IsNotFound(err):
		return err
	default:
		s.logger.Error(ctx, "settings delete failed", "key", key, "err", err)
		return common.ErrorInternal
	}
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
