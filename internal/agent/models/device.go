package models

// Device is a paired measurement device. BottleCode is the glucose test
// strip bottle code, set only for BG meters.
type Device struct {
	Id         string
	Name       string
	Type       ReadingType
	MAC        string
	Model      string
	BottleCode string
}
