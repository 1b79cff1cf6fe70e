package model

import (
	"fmt"
	"time"
)

// UnknownLocation is what a skipped location renders as.
const UnknownLocation = "unknown"

type IntakeRecord struct {
	UserID             int64     `json:"userID"`
	DisplayName        string    `json:"displayName"`
	Username           string    `json:"username,omitempty"`
	HelpNeeded         string    `json:"helpNeeded"`
	Location           *Location `json:"location,omitempty"` // nil until the location question is answered
	Contacts           string    `json:"contacts"`
	AdditionalContacts string    `json:"additionalContacts,omitempty"`
	StartedAt          time.Time `json:"startedAt"`
}

// Location is either a pair of coordinates or the unknown sentinel.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Unknown   bool    `json:"unknown,omitempty"`
}

func NewLocation(latitude, longitude float64) *Location {
	return &Location{Latitude: latitude, Longitude: longitude}
}

// SkippedLocation returns the sentinel stored when the user sends /skip.
func SkippedLocation() *Location {
	return &Location{Unknown: true}
}

func (l *Location) String() string {
	if l == nil || l.Unknown {
		return UnknownLocation
	}
	return fmt.Sprintf("%f, %f", l.Latitude, l.Longitude)
}

// Reference is the number the user can quote when following up on a request.
func (r IntakeRecord) Reference() string {
	return fmt.Sprintf("%d", r.UserID)
}
