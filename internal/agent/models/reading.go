// Package models holds the value types shared across the agent: captured
// readings, paired devices, and the patient profile.
package models

// ReadingType identifies the kind of measurement a reading carries.
type ReadingType string

const (
	// ReadingTypeBP is a blood pressure reading: Value is systolic, Value2
	// diastolic, HeartRate the pulse.
	ReadingTypeBP ReadingType = "BP"

	// ReadingTypeScale is a weight reading; only Value is set.
	ReadingTypeScale ReadingType = "SCALE"

	// ReadingTypeBG is a blood glucose reading; Value carries the level and
	// MeasurementCondition the fasting/post-meal context.
	ReadingTypeBG ReadingType = "BG"
)

// Reading is one captured measurement. Id is client-generated and is what the
// EMR dedups on; TS is the capture time in epoch milliseconds. Synced flips
// to true only after the EMR has acknowledged the reading.
type Reading struct {
	Id                   string
	DeviceId             string
	DeviceName           string
	Type                 ReadingType
	Value                *float64
	Value2               *float64
	HeartRate            *float64
	Unit                 string
	TS                   int64
	Synced               bool
	MeasurementCondition *string
}
