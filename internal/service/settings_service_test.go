package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomino/newgrader/internal/models"
	appErrors "github.com/bomino/newgrader/pkg/errors"
)

type mockSettingRepo struct {
	values map[string]string
}

func (m *mockSettingRepo) Get(ctx context.Context, key string) (*models.Setting, error) {
	if v, ok := m.values[key]; ok {
		return &models.Setting{Key: key, Value: v}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSettingRepo) Upsert(ctx context.Context, key, value string) error {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

func TestGradeScaleDefaultsWhenUnset(t *testing.T) {
	svc := NewSettingsService(&mockSettingRepo{}, nil, nil)

	scale, err := svc.GradeScale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultGradeScale(), scale)
}

func TestGradeScaleDefaultsOnCorruptValue(t *testing.T) {
	repo := &mockSettingRepo{values: map[string]string{models.SettingKeyGradeScale: "{not json"}}
	svc := NewSettingsService(repo, nil, nil)

	scale, err := svc.GradeScale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultGradeScale(), scale)
}

func TestUpdateGradeScaleRoundTrip(t *testing.T) {
	repo := &mockSettingRepo{}
	svc := NewSettingsService(repo, nil, nil)

	updated, err := svc.UpdateGradeScale(context.Background(), UpdateGradeScaleRequest{AMin: 92, BMin: 84, CMin: 76, DMin: 68})
	require.NoError(t, err)
	assert.Equal(t, 92, updated.AMin)

	stored, err := svc.GradeScale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestUpdateGradeScaleRejectsNonDescending(t *testing.T) {
	svc := NewSettingsService(&mockSettingRepo{}, nil, nil)

	_, err := svc.UpdateGradeScale(context.Background(), UpdateGradeScaleRequest{AMin: 80, BMin: 85, CMin: 70, DMin: 60})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.UpdateGradeScale(context.Background(), UpdateGradeScaleRequest{AMin: 90, BMin: 90, CMin: 70, DMin: 60})
	require.Error(t, err)
}

func TestGradeScaleLetterBoundaries(t *testing.T) {
	scale := models.DefaultGradeScale()

	assert.Equal(t, "A", scale.Letter(90))
	assert.Equal(t, "B", scale.Letter(89.9))
	assert.Equal(t, "C", scale.Letter(70))
	assert.Equal(t, "D", scale.Letter(60))
	assert.Equal(t, "F", scale.Letter(59.9))
}
