package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/logging"
	"github.com/dmitrijs2005/backoffice/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettingsService(repo *fakeSettingsRepo, timeout time.Duration) *SettingsService {
	return NewSettingsService(nil, &fakeRepoManager{s: repo}, timeout, logging.NopLogger{})
}

func TestDefaultSettings_IsACopy(t *testing.T) {
	d := DefaultSettings()
	d[SettingOverdueFollowupDays] = "99"
	assert.Equal(t, "1", DefaultSettings()[SettingOverdueFollowupDays])
}

func TestGetAll_MergesOverDefaults(t *testing.T) {
	repo := &fakeSettingsRepo{rows: []models.Setting{{Key: "overdue_followup_days", Value: "3"}}}

	got := newSettingsService(repo, 0).GetAll(context.Background())

	assert.Equal(t, map[string]string{
		"overdue_followup_days":        "3",
		"overdue_escalation_days":      "1",
		"performance_excellent_hours":  "24",
		"performance_acceptable_hours": "72",
	}, got)
}

func TestGetAll_KeepsExtraPersistedKeys(t *testing.T) {
	repo := &fakeSettingsRepo{rows: []models.Setting{{Key: "report_footer", Value: "internal"}}}

	got := newSettingsService(repo, 0).GetAll(context.Background())

	assert.Len(t, got, 5)
	assert.Equal(t, "internal", got["report_footer"])
}

func TestGetAll_StoreFailureReturnsDefaults(t *testing.T) {
	repo := &fakeSettingsRepo{allErr: errDBDown}

	got := newSettingsService(repo, 0).GetAll(context.Background())

	assert.Equal(t, DefaultSettings(), got)
}

func TestGetAll_ReadsStoreEveryCall(t *testing.T) {
	repo := &fakeSettingsRepo{}
	s := newSettingsService(repo, 0)

	s.GetAll(context.Background())
	repo.rows = []models.Setting{{Key: "overdue_followup_days", Value: "5"}}
	got := s.GetAll(context.Background())

	assert.Equal(t, 2, repo.calls)
	assert.Equal(t, "5", got["overdue_followup_days"])
}

func TestGetAll_AppliesTimeout(t *testing.T) {
	repo := &fakeSettingsRepo{}
	newSettingsService(repo, time.Second).GetAll(context.Background())

	require.NotNil(t, repo.sawCtx)
	deadline, ok := repo.sawCtx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
}

func TestGetNumber(t *testing.T) {
	tests := []struct {
		name string
		rows []models.Setting
		err  error
		key  string
		want float64
	}{
		{name: "stored numeric", rows: []models.Setting{{Key: "performance_excellent_hours", Value: "36"}}, key: "performance_excellent_hours", want: 36},
		{name: "stored decimal", rows: []models.Setting{{Key: "overdue_followup_days", Value: " 1.5 "}}, key: "overdue_followup_days", want: 1.5},
		{name: "non numeric falls back", rows: []models.Setting{{Key: "performance_excellent_hours", Value: "abc"}}, key: "performance_excellent_hours", want: 24},
		{name: "empty falls back", rows: []models.Setting{{Key: "performance_acceptable_hours", Value: ""}}, key: "performance_acceptable_hours", want: 72},
		{name: "infinity falls back", rows: []models.Setting{{Key: "overdue_escalation_days", Value: "Inf"}}, key: "overdue_escalation_days", want: 1},
		{name: "missing uses default", key: "overdue_escalation_days", want: 1},
		{name: "store down uses default", err: errDBDown, key: "performance_acceptable_hours", want: 72},
		{name: "extra numeric key", rows: []models.Setting{{Key: "report_days", Value: "7"}}, key: "report_days", want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSettingsService(&fakeSettingsRepo{rows: tt.rows, allErr: tt.err}, 0)
			assert.Equal(t, tt.want, s.GetNumber(context.Background(), tt.key))
		})
	}
}

func TestGetNumber_UnknownKeyWithoutDefault(t *testing.T) {
	s := newSettingsService(&fakeSettingsRepo{rows: []models.Setting{{Key: "typo_key", Value: "x"}}}, 0)

	assert.True(t, math.IsNaN(s.GetNumber(context.Background(), "typo_key")))
	assert.True(t, math.IsNaN(s.GetNumber(context.Background(), "never_heard_of_it")))

	_, ok := s.LookupNumber(context.Background(), "never_heard_of_it")
	assert.False(t, ok)
}

func TestSet(t *testing.T) {
	repo := &fakeSettingsRepo{}
	s := newSettingsService(repo, 0)

	require.NoError(t, s.Set(context.Background(), "overdue_followup_days", "4"))
	assert.Equal(t, "4", repo.upserted["overdue_followup_days"])

	assert.ErrorIs(t, s.Set(context.Background(), "unknown", "1"), common.ErrorNotFound)

	repo.upsertErr = errDBDown
	assert.ErrorIs(t, s.Set(context.Background(), "overdue_followup_days", "5"), common.ErrorInternal)
}

func TestReset(t *testing.T) {
	repo := &fakeSettingsRepo{}
	s := newSettingsService(repo, 0)
	require.NoError(t, s.Reset(context.Background(), "overdue_followup_days"))

	repo.deleteErr = common.ErrorNotFound
	assert.ErrorIs(t, s.Reset(context.Background(), "overdue_followup_days"), common.ErrorNotFound)

	repo.deleteErr = errDBDown
	assert.ErrorIs(t, s.Reset(context.Background(), "overdue_followup_days"), common.ErrorInternal)
}
