package service

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bomino/newgrader/internal/models"
	appErrors "github.com/bomino/newgrader/pkg/errors"
)

type settingRepository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, key, value string) error
}

// UpdateGradeScaleRequest replaces the stored letter-grade thresholds.
type UpdateGradeScaleRequest struct {
	AMin int `json:"a_min" validate:"min=0,max=100"`
	BMin int `json:"b_min" validate:"min=0,max=100"`
	CMin int `json:"c_min" validate:"min=0,max=100"`
	DMin int `json:"d_min" validate:"min=0,max=100"`
}

// SettingsService manages teacher-level configuration, currently just the
// grade scale.
type SettingsService struct {
	settings  settingRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs SettingsService.
func NewSettingsService(settings settingRepository, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{settings: settings, validator: validate, logger: logger}
}

// GradeScale returns the stored scale, falling back to the default when
// none has been saved or the stored value cannot be decoded.
func (s *SettingsService) GradeScale(ctx context.Context) (models.GradeScale, error) {
	setting, err := s.settings.Get(ctx, models.SettingKeyGradeScale)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.DefaultGradeScale(), nil
		}
		return models.GradeScale{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade scale")
	}
	var scale models.GradeScale
	if err := json.Unmarshal([]byte(setting.Value), &scale); err != nil {
		s.logger.Warn("stored grade scale unreadable, using default", zap.Error(err))
		return models.DefaultGradeScale(), nil
	}
	if err := scale.Validate(); err != nil {
		s.logger.Warn("stored grade scale invalid, using default", zap.Error(err))
		return models.DefaultGradeScale(), nil
	}
	return scale, nil
}

// UpdateGradeScale validates and persists new thresholds.
func (s *SettingsService) UpdateGradeScale(ctx context.Context, req UpdateGradeScaleRequest) (models.GradeScale, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.GradeScale{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade scale payload")
	}
	scale := models.GradeScale{AMin: req.AMin, BMin: req.BMin, CMin: req.CMin, DMin: req.DMin}
	if err := scale.Validate(); err != nil {
		return models.GradeScale{}, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	raw, err := json.Marshal(scale)
	if err != nil {
		return models.GradeScale{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode grade scale")
	}
	if err := s.settings.Upsert(ctx, models.SettingKeyGradeScale, string(raw)); err != nil {
		return models.GradeScale{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save grade scale")
	}
	s.logger.Info("grade scale updated",
		zap.Int("a_min", scale.AMin),
		zap.Int("b_min", scale.BMin),
		zap.Int("c_min", scale.CMin),
		zap.Int("d_min", scale.DMin))
	return scale, nil
}
