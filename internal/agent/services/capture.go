// Package services holds the application services the capture/UI layer talks
// to: saving captured readings and the SMS-code login flow.
package services

import (
	"context"
	"fmt"

	"github.com/careview/vitalsync/internal/agent/models"
	"github.com/careview/vitalsync/internal/agent/repositories/readings"
	syncengine "github.com/careview/vitalsync/internal/agent/sync"
	"github.com/google/uuid"
)

// NewReading is the capture input before the agent assigns identity and time.
type NewReading struct {
	DeviceId             string
	DeviceName           string
	Type                 models.ReadingType
	Value                *float64
	Value2               *float64
	HeartRate            *float64
	Unit                 string
	MeasurementCondition *string
}

// SaveResult reports what happened to a captured reading. Saved means the
// reading is durably stored locally; Synced means the EMR accepted it right
// away. Saved without Synced is the normal offline outcome.
type SaveResult struct {
	Saved     bool
	Synced    bool
	ReadingId string
}

type CaptureService interface {
	SaveAndSync(ctx context.Context, input NewReading) (SaveResult, error)
	History(ctx context.Context) ([]*models.Reading, error)
}

type captureService struct {
	repo   readings.Repository
	engine *syncengine.Engine
	clock  syncengine.Clock
}

func NewCaptureService(repo readings.Repository, engine *syncengine.Engine, clock syncengine.Clock) CaptureService {
	return &captureService{repo: repo, engine: engine, clock: clock}
}

// SaveAndSync assigns the reading its id and capture timestamp, persists it
// with synced=false, then hands it to the sync engine for an immediate
// attempt. Sync failures never surface here; the reading simply stays queued.
func (s *captureService) SaveAndSync(ctx context.Context, input NewReading) (SaveResult, error) {
	r := &models.Reading{
		Id:                   uuid.NewString(),
		DeviceId:             input.DeviceId,
		DeviceName:           input.DeviceName,
		Type:                 input.Type,
		Value:                input.Value,
		Value2:               input.Value2,
		HeartRate:            input.HeartRate,
		Unit:                 input.Unit,
		TS:                   s.clock.Now().UnixMilli(),
		Synced:               false,
		MeasurementCondition: input.MeasurementCondition,
	}

	if err := s.repo.Save(ctx, r); err != nil {
		return SaveResult{ReadingId: r.Id}, fmt.Errorf("saving error: %w", err)
	}

	synced := s.engine.SubmitReading(ctx, r)
	return SaveResult{Saved: true, Synced: synced, ReadingId: r.Id}, nil
}

// History lists every stored reading, newest first.
func (s *captureService) History(ctx context.Context) ([]*models.Reading, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving readings: %w", err)
	}
	return rows, nil
}
