package catalog

import (
	"regexp"
	"strings"

	"github.com/labqueue/backend/internal/domain/shared"
)

// Priority bounds for service types. Priority 1 is the highest.
const (
	MinPriority = 1
	MaxPriority = 5

	DefaultPriority           = 3
	DefaultAverageTimeMinutes = 10
	DefaultColor              = "#3B82F6"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ServiceType represents a service offered by the laboratory that patients
// can queue for (lab tests, results pickup, sample collection, ...).
type ServiceType struct {
	shared.BaseAggregateRoot
	Code               string `gorm:"type:varchar(10);uniqueIndex;not null"`
	Name               string `gorm:"type:varchar(100);not null"`
	Description        string `gorm:"type:text"`
	TicketPrefix       string `gorm:"type:varchar(5);uniqueIndex;not null"`
	Priority           int    `gorm:"not null;default:3"`
	AverageTimeMinutes int    `gorm:"not null;default:10"`
	Color              string `gorm:"type:varchar(7);not null;default:'#3B82F6'"`
	IsActive           bool   `gorm:"not null;default:true;index"`
}

// TableName returns the database table name
func (ServiceType) TableName() string {
	return "service_types"
}

// NewServiceType creates a new service type with validated invariants.
// An empty ticketPrefix defaults to the first letter of the code.
func NewServiceType(code, name, description, ticketPrefix string, priority, averageTimeMinutes int, color string) (*ServiceType, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validateCode(code); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Service type name cannot be empty")
	}

	ticketPrefix = strings.ToUpper(strings.TrimSpace(ticketPrefix))
	if ticketPrefix == "" {
		ticketPrefix = code[:1]
	}
	if err := validateTicketPrefix(ticketPrefix); err != nil {
		return nil, err
	}

	if priority == 0 {
		priority = DefaultPriority
	}
	if err := validatePriority(priority); err != nil {
		return nil, err
	}

	if averageTimeMinutes == 0 {
		averageTimeMinutes = DefaultAverageTimeMinutes
	}
	if averageTimeMinutes < 1 {
		return nil, shared.NewDomainError("INVALID_AVERAGE_TIME", "Average time must be at least 1 minute")
	}

	if color == "" {
		color = DefaultColor
	}
	if err := validateColor(color); err != nil {
		return nil, err
	}

	st := &ServiceType{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Code:               code,
		Name:               name,
		Description:        description,
		TicketPrefix:       ticketPrefix,
		Priority:           priority,
		AverageTimeMinutes: averageTimeMinutes,
		Color:              color,
		IsActive:           true,
	}

	st.AddDomainEvent(NewServiceTypeCreatedEvent(st))
	return st, nil
}

// Update modifies the mutable fields of the service type
func (st *ServiceType) Update(name, description string, priority, averageTimeMinutes int, color string) error {
	if name != "" {
		st.Name = strings.TrimSpace(name)
	}
	st.Description = description

	if priority != 0 {
		if err := validatePriority(priority); err != nil {
			return err
		}
		st.Priority = priority
	}

	if averageTimeMinutes != 0 {
		if averageTimeMinutes < 1 {
			return shared.NewDomainError("INVALID_AVERAGE_TIME", "Average time must be at least 1 minute")
		}
		st.AverageTimeMinutes = averageTimeMinutes
	}

	if color != "" {
		if err := validateColor(color); err != nil {
			return err
		}
		st.Color = color
	}

	st.Touch()
	st.IncrementVersion()
	return nil
}

// Activate marks the service type as active
func (st *ServiceType) Activate() {
	if st.IsActive {
		return
	}
	st.IsActive = true
	st.Touch()
	st.IncrementVersion()
}

// Deactivate marks the service type as inactive. Existing tickets keep
// their reference; only new ticket creation is blocked.
func (st *ServiceType) Deactivate() {
	if !st.IsActive {
		return
	}
	st.IsActive = false
	st.Touch()
	st.IncrementVersion()
}

func validateCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Service type code cannot be empty")
	}
	if len(code) > 10 {
		return shared.NewDomainError("INVALID_CODE", "Service type code cannot exceed 10 characters")
	}
	return nil
}

func validateTicketPrefix(prefix string) error {
	if prefix == "" {
		return shared.NewDomainError("INVALID_TICKET_PREFIX", "Ticket prefix cannot be empty")
	}
	if len(prefix) > 5 {
		return shared.NewDomainError("INVALID_TICKET_PREFIX", "Ticket prefix cannot exceed 5 characters")
	}
	return nil
}

func validatePriority(priority int) error {
	if priority < MinPriority || priority > MaxPriority {
		return shared.NewDomainError("INVALID_PRIORITY", "Priority must be between 1 and 5")
	}
	return nil
}

func validateColor(color string) error {
	if !colorPattern.MatchString(color) {
		return shared.NewDomainError("INVALID_COLOR", "Color must be a hex value like #3B82F6")
	}
	return nil
}
