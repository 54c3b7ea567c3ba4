package emr

import "github.com/careview/vitalsync/internal/agent/models"

// SyncRequest is the body POSTed to the vitals sync endpoint.
type SyncRequest struct {
	PatientId int            `json:"patient_id"`
	Vitals    []VitalPayload `json:"vitals"`
}

// VitalPayload is the wire form of a single reading. Id carries the
// client-generated reading id the server dedups on.
type VitalPayload struct {
	Id                   string   `json:"id"`
	Type                 string   `json:"type"`
	Value                *float64 `json:"value"`
	Value2               *float64 `json:"value2,omitempty"`
	HeartRate            *float64 `json:"heartRate,omitempty"`
	Unit                 string   `json:"unit"`
	TS                   int64    `json:"ts"`
	MeasurementCondition *string  `json:"measurement_condition,omitempty"`
}

// PayloadFromReading converts a stored reading to its wire form.
func PayloadFromReading(r *models.Reading) VitalPayload {
	return VitalPayload{
		Id:                   r.Id,
		Type:                 string(r.Type),
		Value:                r.Value,
		Value2:               r.Value2,
		HeartRate:            r.HeartRate,
		Unit:                 r.Unit,
		TS:                   r.TS,
		MeasurementCondition: r.MeasurementCondition,
	}
}

// SyncResponse is the per-batch outcome returned by the vitals sync endpoint.
// A 207 response carries the same shape with a nonzero Summary.Errors.
type SyncResponse struct {
	Success       bool        `json:"success"`
	Summary       SyncSummary `json:"summary"`
	Results       SyncResults `json:"results"`
	SyncTimestamp string      `json:"sync_timestamp"`
}

type SyncSummary struct {
	TotalReceived     int `json:"total_received"`
	Inserted          int `json:"inserted"`
	DuplicatesSkipped int `json:"duplicates_skipped"`
	Errors            int `json:"errors"`
}

type SyncResults struct {
	Inserted   []InsertedItem  `json:"inserted"`
	Duplicates []DuplicateItem `json:"duplicates"`
	Errors     []ErrorItem     `json:"errors"`
}

// InsertedItem reports a freshly stored reading. Id is the server-side row id,
// AppReadingId the client-generated reading id.
type InsertedItem struct {
	Id           int    `json:"id"`
	AppReadingId string `json:"app_reading_id"`
}

// DuplicateItem reports a reading the server already held. Duplicates are
// treated identically to fresh inserts by callers.
type DuplicateItem struct {
	AppReadingId string `json:"app_reading_id"`
}

// ErrorItem reports a reading the server rejected.
type ErrorItem struct {
	AppReadingId string `json:"app_reading_id"`
	Error        string `json:"error"`
}

// SyncedIds collects the ids the server accepted, inserted and duplicates
// alike.
func (r *SyncResponse) SyncedIds() []string {
	ids := make([]string, 0, len(r.Results.Inserted)+len(r.Results.Duplicates))
	for _, item := range r.Results.Inserted {
		if item.AppReadingId != "" {
			ids = append(ids, item.AppReadingId)
		}
	}
	for _, item := range r.Results.Duplicates {
		if item.AppReadingId != "" {
			ids = append(ids, item.AppReadingId)
		}
	}
	return ids
}
