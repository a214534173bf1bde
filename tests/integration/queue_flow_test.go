package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labqueue/backend/internal/application/catalog"
	"github.com/labqueue/backend/internal/application/queueing"
	"github.com/labqueue/backend/internal/application/registry"
	domainqueueing "github.com/labqueue/backend/internal/domain/queueing"
	"github.com/labqueue/backend/internal/infrastructure/persistence"
)

func seedService(t *testing.T, s *testStack, code, prefix string) catalog.ServiceTypeResponse {
	t.Helper()
	resp, err := s.services.Create(context.Background(), catalog.CreateServiceTypeRequest{
		Code:               code,
		Name:               "Servicio " + code,
		TicketPrefix:       prefix,
		Priority:           3,
		AverageTimeMinutes: 10,
	})
	require.NoError(t, err)
	return *resp
}

func seedStation(t *testing.T, s *testStack, code string) queueing.StationResponse {
	t.Helper()
	created, err := s.stations.Create(context.Background(), queueing.CreateStationRequest{
		Code: code,
		Name: "Ventanilla " + code,
	})
	require.NoError(t, err)

	// Stations come up offline; bring it online so it can take calls
	resp, err := s.stations.SetStatus(context.Background(), created.ID, queueing.SetStationStatusRequest{
		Status: string(domainqueueing.StationStatusAvailable),
	})
	require.NoError(t, err)
	return *resp
}

func seedPatient(t *testing.T, s *testStack, document string) registry.PatientResponse {
	t.Helper()
	resp, err := s.patients.Create(context.Background(), registry.CreatePatientRequest{
		DocumentNumber: document,
		FullName:       "Paciente " + document,
		BirthDate:      time.Date(1988, 4, 12, 0, 0, 0, 0, time.UTC),
		Gender:         "F",
	})
	require.NoError(t, err)
	return *resp
}

func TestTicketLifecycle(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	actor := queueing.Actor{}

	svc := seedService(t, s, "LAB", "L")
	station := seedStation(t, s, "V01")
	first := seedPatient(t, s, "10000001")
	second := seedPatient(t, s, "10000002")

	ticket1, err := s.tickets.Create(ctx, queueing.CreateTicketRequest{
		PatientID:     first.ID,
		ServiceTypeID: svc.ID,
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, "L001", ticket1.TicketNumber)
	assert.Equal(t, "WAITING", ticket1.Status)
	assert.Equal(t, 1, ticket1.Position)

	ticket2, err := s.tickets.Create(ctx, queueing.CreateTicketRequest{
		PatientID:     second.ID,
		ServiceTypeID: svc.ID,
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, "L002", ticket2.TicketNumber)
	assert.Equal(t, 2, ticket2.Position)

	state, err := s.queues.GetState(ctx, svc.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, state.QueueLength)

	// A patient cannot hold two active tickets for the same service
	_, err = s.tickets.Create(ctx, queueing.CreateTicketRequest{
		PatientID:     first.ID,
		ServiceTypeID: svc.ID,
	}, actor)
	require.Error(t, err)

	called, err := s.tickets.Call(ctx, ticket1.ID, queueing.CallTicketRequest{StationID: station.ID}, actor)
	require.NoError(t, err)
	assert.Equal(t, "CALLED", called.Status)
	require.NotNil(t, called.StationID)
	assert.Equal(t, station.ID, *called.StationID)
	assert.NotNil(t, called.CalledAt)

	// The called ticket left the waiting line, ticket2 is next
	pos, err := s.tickets.Position(ctx, ticket2.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, pos.PeopleAhead)

	attended, err := s.tickets.Attend(ctx, ticket1.ID, actor)
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", attended.Status)

	completed, err := s.tickets.Complete(ctx, ticket1.ID, queueing.CompleteTicketRequest{Notes: "sin novedad"}, actor)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	// Completing frees the station for the next call
	freed, err := s.stations.GetByID(ctx, station.ID)
	require.NoError(t, err)
	assert.Equal(t, "AVAILABLE", freed.Status)
	assert.Nil(t, freed.CurrentTicketID)

	state, err = s.queues.GetState(ctx, svc.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, state.QueueLength)
}

func TestTicketTransferMovesQueues(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	actor := queueing.Actor{}

	lab := seedService(t, s, "LAB", "L")
	xray := seedService(t, s, "RX", "R")
	patient := seedPatient(t, s, "20000001")

	ticket, err := s.tickets.Create(ctx, queueing.CreateTicketRequest{
		PatientID:     patient.ID,
		ServiceTypeID: lab.ID,
	}, actor)
	require.NoError(t, err)

	moved, err := s.tickets.Transfer(ctx, ticket.ID, queueing.TransferTicketRequest{
		TargetServiceTypeID: xray.ID,
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, xray.ID, moved.ServiceTypeID)
	assert.Equal(t, "WAITING", moved.Status)
	assert.Equal(t, 1, moved.Position)

	labState, err := s.queues.GetState(ctx, lab.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, labState.QueueLength)

	xrayState, err := s.queues.GetState(ctx, xray.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, xrayState.QueueLength)
}

func TestTicketCancelAndNoShow(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	actor := queueing.Actor{}

	svc := seedService(t, s, "LAB", "L")
	station := seedStation(t, s, "V01")
	patient := seedPatient(t, s, "30000001")

	ticket, err := s.tickets.Create(ctx, queueing.CreateTicketRequest{
		PatientID:     patient.ID,
		ServiceTypeID: svc.ID,
	}, actor)
	require.NoError(t, err)

	cancelled, err := s.tickets.Cancel(ctx, ticket.ID, queueing.CancelTicketRequest{Reason: "paciente se retira"}, actor)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)

	// Cancelling again is rejected
	_, err = s.tickets.Cancel(ctx, ticket.ID, queueing.CancelTicketRequest{}, actor)
	require.Error(t, err)

	// A called patient who never shows up is marked NO_SHOW and the
	// station is released
	other, err := s.tickets.Create(ctx, queueing.CreateTicketRequest{
		PatientID:     patient.ID,
		ServiceTypeID: svc.ID,
	}, actor)
	require.NoError(t, err)

	_, err = s.tickets.Call(ctx, other.ID, queueing.CallTicketRequest{StationID: station.ID}, actor)
	require.NoError(t, err)

	noShow, err := s.tickets.Cancel(ctx, other.ID, queueing.CancelTicketRequest{NoShow: true}, actor)
	require.NoError(t, err)
	assert.Equal(t, "NO_SHOW", noShow.Status)

	freed, err := s.stations.GetByID(ctx, station.ID)
	require.NoError(t, err)
	assert.Equal(t, "AVAILABLE", freed.Status)
}

func TestQuickTicketRegistersUnknownPatient(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	actor := queueing.Actor{}

	svc := seedService(t, s, "LAB", "L")

	// Unknown document without registration data is rejected
	_, err := s.tickets.QuickCreate(ctx, queueing.QuickTicketRequest{
		DocumentNumber: "40000001",
		ServiceTypeID:  svc.ID,
	}, actor)
	require.Error(t, err)

	birth := time.Date(1975, 9, 30, 0, 0, 0, 0, time.UTC)
	ticket, err := s.tickets.QuickCreate(ctx, queueing.QuickTicketRequest{
		DocumentNumber: "40000001",
		ServiceTypeID:  svc.ID,
		FullName:       "Carmen Quispe",
		BirthDate:      &birth,
		Gender:         "F",
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, "L001", ticket.TicketNumber)

	// The patient is now on file and reused on the next visit
	registered, err := s.patients.GetByDocument(ctx, "40000001")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, ticket.PatientID)
}

func TestTicketNumbersSurviveIssueRaces(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	actor := queueing.Actor{}

	svc := seedService(t, s, "LAB", "L")
	patient := seedPatient(t, s, "60000001")

	first, err := s.tickets.Create(ctx, queueing.CreateTicketRequest{
		PatientID:     patient.ID,
		ServiceTypeID: svc.ID,
	}, actor)
	require.NoError(t, err)
	require.Equal(t, "L001", first.TicketNumber)

	// Simulate a racing issuer: the first attempt produces the number the
	// existing ticket already holds, so the unique index rejects the insert
	// and the repository retries with fresh counts.
	repo := persistence.NewGormTicketRepository(s.db)
	other := seedPatient(t, s, "60000002")
	attempts := 0
	ticket, err := repo.Issue(ctx, svc.ID, time.Now(), func(sequence, position int) (*domainqueueing.Ticket, error) {
		attempts++
		if attempts == 1 {
			sequence = 1 // collides with L001
		}
		return domainqueueing.NewTicket(other.ID, svc.ID, "L", sequence, position, 3, 0)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "L002", ticket.TicketNumber)

	// Both tickets are on file under distinct numbers
	numbers := map[string]bool{}
	for _, doc := range []string{"L001", "L002"} {
		found, err := repo.FindByNumber(ctx, doc, time.Now())
		require.NoError(t, err)
		numbers[found.TicketNumber] = true
	}
	assert.Len(t, numbers, 2)
}

func TestQueueSummaryAndCleanup(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()
	actor := queueing.Actor{}

	svc := seedService(t, s, "LAB", "L")
	station := seedStation(t, s, "V01")

	for i, doc := range []string{"50000001", "50000002", "50000003"} {
		p := seedPatient(t, s, doc)
		ticket, err := s.tickets.Create(ctx, queueing.CreateTicketRequest{
			PatientID:     p.ID,
			ServiceTypeID: svc.ID,
		}, actor)
		require.NoError(t, err)
		if i == 0 {
			_, err = s.tickets.Call(ctx, ticket.ID, queueing.CallTicketRequest{StationID: station.ID}, actor)
			require.NoError(t, err)
			_, err = s.tickets.Attend(ctx, ticket.ID, actor)
			require.NoError(t, err)
			_, err = s.tickets.Complete(ctx, ticket.ID, queueing.CompleteTicketRequest{}, actor)
			require.NoError(t, err)
		}
	}

	summary, err := s.queues.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalWaiting)
	assert.Equal(t, int64(1), summary.CompletedToday)

	// Nothing is stale yet, cleanup touches no tickets
	cleaned, err := s.queues.CleanupStale(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, cleaned)
}
