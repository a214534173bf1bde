package catalog

import (
	"github.com/labqueue/backend/internal/domain/shared"
)

// Event types emitted by the catalog context
const (
	EventServiceTypeCreated     = "service_type.created"
	EventServiceTypeDeactivated = "service_type.deactivated"
)

// ServiceTypeCreatedEvent is emitted when a new service type is registered
type ServiceTypeCreatedEvent struct {
	shared.BaseDomainEvent
	Code         string `json:"code"`
	Name         string `json:"name"`
	TicketPrefix string `json:"ticket_prefix"`
}

// NewServiceTypeCreatedEvent creates a ServiceTypeCreatedEvent
func NewServiceTypeCreatedEvent(st *ServiceType) *ServiceTypeCreatedEvent {
	return &ServiceTypeCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventServiceTypeCreated, "ServiceType", st.ID),
		Code:            st.Code,
		Name:            st.Name,
		TicketPrefix:    st.TicketPrefix,
	}
}
