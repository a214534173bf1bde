package notification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/labqueue/backend/internal/domain/catalog"
	"github.com/labqueue/backend/internal/domain/notification"
	"github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/domain/registry"
	"github.com/labqueue/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Sender delivers a notification over some transport (SMS gateway,
// push service, in-house display bridge). The dispatcher only logs
// and hands over; delivery details live behind this interface.
type Sender interface {
	Send(ctx context.Context, log *notification.NotificationLog) error
}

// Dispatcher listens for ticket call and transfer events and turns them
// into notification log entries. Every produced notification is persisted
// regardless of delivery outcome so the history survives transport failures.
type Dispatcher struct {
	notificationRepo notification.NotificationLogRepository
	ticketRepo       queueing.TicketRepository
	patientRepo      registry.PatientRepository
	stationRepo      queueing.StationRepository
	serviceTypeRepo  catalog.ServiceTypeRepository
	sender           Sender
	logger           *zap.Logger
}

// NewDispatcher creates a dispatcher without a delivery transport.
// Notifications are marked sent immediately; attach one with WithSender.
func NewDispatcher(
	notificationRepo notification.NotificationLogRepository,
	ticketRepo queueing.TicketRepository,
	patientRepo registry.PatientRepository,
	stationRepo queueing.StationRepository,
	serviceTypeRepo catalog.ServiceTypeRepository,
	logger *zap.Logger,
) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		notificationRepo: notificationRepo,
		ticketRepo:       ticketRepo,
		patientRepo:      patientRepo,
		stationRepo:      stationRepo,
		serviceTypeRepo:  serviceTypeRepo,
		logger:           logger,
	}
}

// WithSender sets the delivery transport
func (d *Dispatcher) WithSender(sender Sender) *Dispatcher {
	d.sender = sender
	return d
}

// EventTypes returns the event types this handler is interested in
func (d *Dispatcher) EventTypes() []string {
	return []string{queueing.EventTicketCalled, queueing.EventTicketTransferred}
}

// Handle turns a ticket event into a notification log entry
func (d *Dispatcher) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *queueing.TicketCalledEvent:
		return d.handleCalled(ctx, e)
	case *queueing.TicketTransferredEvent:
		return d.handleTransferred(ctx, e)
	default:
		d.logger.Error("unexpected event type", zap.String("event_type", event.EventType()))
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

func (d *Dispatcher) handleCalled(ctx context.Context, event *queueing.TicketCalledEvent) error {
	stationName := "ventanilla"
	if station, err := d.stationRepo.FindByID(ctx, event.StationID); err == nil {
		stationName = station.Name
	}

	message := fmt.Sprintf("Turno %s: acérquese a %s", event.TicketNumber, stationName)
	return d.record(ctx, event.AggregateID(), notification.NotificationTypeCall, message)
}

func (d *Dispatcher) handleTransferred(ctx context.Context, event *queueing.TicketTransferredEvent) error {
	serviceName := "otro servicio"
	if serviceType, err := d.serviceTypeRepo.FindByID(ctx, event.ToServiceID); err == nil {
		serviceName = serviceType.Name
	}

	message := fmt.Sprintf("Turno %s: su atención continúa en %s", event.TicketNumber, serviceName)
	return d.record(ctx, event.AggregateID(), notification.NotificationTypeTransfer, message)
}

// record persists the notification and attempts delivery. Delivery
// failures are captured on the log row instead of failing the event.
func (d *Dispatcher) record(ctx context.Context, ticketID uuid.UUID, notifType notification.NotificationType, message string) error {
	log, err := notification.NewNotificationLog(ticketID, notifType, d.recipient(ctx, ticketID), message)
	if err != nil {
		return err
	}

	if d.sender != nil {
		if sendErr := d.sender.Send(ctx, log); sendErr != nil {
			d.logger.Warn("notification delivery failed",
				zap.String("ticket_id", ticketID.String()),
				zap.Error(sendErr))
			log.MarkFailed(sendErr.Error())
		} else {
			log.MarkSent()
		}
	} else {
		log.MarkSent()
	}

	return d.notificationRepo.Save(ctx, log)
}

// recipient resolves the patient's contact for a ticket, preferring
// phone over email. An empty recipient means display-only delivery.
func (d *Dispatcher) recipient(ctx context.Context, ticketID uuid.UUID) string {
	ticket, err := d.ticketRepo.FindByID(ctx, ticketID)
	if err != nil {
		return ""
	}
	patient, err := d.patientRepo.FindByID(ctx, ticket.PatientID)
	if err != nil {
		return ""
	}
	if patient.Phone != "" {
		return patient.Phone
	}
	return patient.Email
}

// Ensure Dispatcher implements shared.EventHandler
var _ shared.EventHandler = (*Dispatcher)(nil)
