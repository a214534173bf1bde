package queueing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/shared"
)

// StationStatus represents the operational state of a workstation
type StationStatus string

const (
	StationStatusAvailable   StationStatus = "AVAILABLE"
	StationStatusBusy        StationStatus = "BUSY"
	StationStatusBreak       StationStatus = "BREAK"
	StationStatusMaintenance StationStatus = "MAINTENANCE"
	StationStatusOffline     StationStatus = "OFFLINE"
)

func validStationStatus(status StationStatus) bool {
	switch status {
	case StationStatusAvailable, StationStatusBusy, StationStatusBreak,
		StationStatusMaintenance, StationStatusOffline:
		return true
	}
	return false
}

// Station represents a staffed workstation that calls and attends tickets
type Station struct {
	shared.BaseAggregateRoot
	Code            string        `gorm:"type:varchar(10);uniqueIndex;not null"`
	Name            string        `gorm:"type:varchar(100);not null"`
	Description     string        `gorm:"type:text"`
	Status          StationStatus `gorm:"type:varchar(20);not null;default:'OFFLINE';index"`
	CurrentTicketID *uuid.UUID    `gorm:"type:uuid"`
	IsActive        bool          `gorm:"not null;default:true;index"`
}

// TableName returns the database table name
func (Station) TableName() string {
	return "stations"
}

// NewStation creates a new workstation, initially offline
func NewStation(code, name, description string) (*Station, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Station code cannot be empty")
	}
	if len(code) > 10 {
		return nil, shared.NewDomainError("INVALID_CODE", "Station code cannot exceed 10 characters")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Station name cannot be empty")
	}

	return &Station{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Description:       description,
		Status:            StationStatusOffline,
		IsActive:          true,
	}, nil
}

// Update modifies the mutable station fields
func (s *Station) Update(name, description string) error {
	if name != "" {
		s.Name = strings.TrimSpace(name)
	}
	s.Description = description
	s.Touch()
	s.IncrementVersion()
	return nil
}

// IsAvailableForTickets reports whether the station can take a new ticket
func (s *Station) IsAvailableForTickets() bool {
	return s.IsActive && s.Status == StationStatusAvailable
}

// SetStatus changes the operational status. A station holding a ticket
// must release it first; the BUSY status is only entered via AssignTicket.
func (s *Station) SetStatus(status StationStatus) error {
	if !validStationStatus(status) {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown station status %q", status))
	}
	if status == StationStatusBusy {
		return shared.NewDomainError("INVALID_STATE", "Busy status is set by assigning a ticket")
	}
	if s.CurrentTicketID != nil {
		return shared.NewDomainError("INVALID_STATE", "Station must release its current ticket before changing status")
	}
	s.Status = status
	s.Touch()
	s.IncrementVersion()
	return nil
}

// AssignTicket marks the station busy with the given ticket
func (s *Station) AssignTicket(ticketID uuid.UUID) error {
	if !s.IsAvailableForTickets() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Station %s is not available (status %s)", s.Code, s.Status))
	}
	s.CurrentTicketID = &ticketID
	s.Status = StationStatusBusy
	s.Touch()
	s.IncrementVersion()
	return nil
}

// ReleaseTicket frees the station after its ticket completes or is cancelled
func (s *Station) ReleaseTicket() {
	if s.CurrentTicketID == nil {
		return
	}
	s.CurrentTicketID = nil
	s.Status = StationStatusAvailable
	s.Touch()
	s.IncrementVersion()
}

// Deactivate takes the station out of service entirely
func (s *Station) Deactivate() error {
	if s.CurrentTicketID != nil {
		return shared.NewDomainError("INVALID_STATE", "Station must release its current ticket before deactivation")
	}
	if !s.IsActive {
		return nil
	}
	s.IsActive = false
	s.Status = StationStatusOffline
	s.Touch()
	s.IncrementVersion()
	return nil
}
