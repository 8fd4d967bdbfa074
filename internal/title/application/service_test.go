package application_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	personDomain "github.com/mateusmacedo/go-transit/internal/person/domain"
	"github.com/mateusmacedo/go-transit/internal/title/application"
	"github.com/mateusmacedo/go-transit/internal/title/domain"
	"github.com/mateusmacedo/go-transit/internal/title/infrastructure"
	pkgApp "github.com/mateusmacedo/go-transit/pkg/application"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/document"
	zapAdapter "github.com/mateusmacedo/go-transit/pkg/infrastructure/zaplogger/adapter"
)

type personIndex map[uuid.UUID]personDomain.Person

func (idx personIndex) GetByID(_ context.Context, id uuid.UUID) (personDomain.Person, bool) {
	p, ok := idx[id]
	return p, ok
}

type recordingBus struct {
	mu     sync.Mutex
	events []string
}

func (b *recordingBus) RegisterHandler(string, pkgApp.EventHandler[pkgApp.DomainEvent, string]) {}

func (b *recordingBus) Publish(_ context.Context, event pkgApp.DomainEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event.EventName()+":"+event.Payload())
	return nil
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

var today = time.Date(2025, time.April, 10, 9, 0, 0, 0, time.Local)

func person(t *testing.T, idx personIndex, birthYear int, employee, handicap bool) personDomain.Person {
	t.Helper()
	birth := time.Date(birthYear, time.January, 1, 0, 0, 0, 0, time.Local)
	p := personDomain.NewRider("Ana", "Silva", birth, handicap)
	if employee {
		p = personDomain.NewEmployee("Rui", "Costa", birth, handicap, "M-1", personDomain.FunctionTechnical)
	}
	p.ID = uuid.New()
	idx[p.ID] = p
	return p
}

type fixture struct {
	service *application.Service
	bus     *recordingBus
	clock   *clock
}

func newFixture(t *testing.T, dir string, idx personIndex) fixture {
	t.Helper()
	ctx := context.Background()
	logger := zapAdapter.NewZapAppLoggerFrom(zap.NewNop())

	store, err := document.NewFileStore(dir, "titres.json")
	require.NoError(t, err)

	c := &clock{now: today}
	bus := &recordingBus{}
	repo := infrastructure.NewJSONTitleRepository(ctx, store, idx, logger)
	return fixture{
		service: application.NewService(ctx, repo, application.DefaultPricing(), c.Now, bus, logger),
		bus:     bus,
		clock:   c,
	}
}

func TestService_CreateTicket(t *testing.T) {
	ctx := context.Background()
	idx := personIndex{}
	f := newFixture(t, t.TempDir(), idx)
	owner := person(t, idx, 1990, false, false)

	ticket, err := f.service.CreateTicket(ctx, owner, domain.PaymentCash)
	require.NoError(t, err)

	assert.Equal(t, 1, ticket.SequenceID)
	assert.Equal(t, 50, ticket.Price)
	assert.Equal(t, owner.ID, ticket.PersonID)
	assert.Equal(t, today, ticket.PurchasedAt)
	assert.True(t, f.service.IsValid(ticket))
	assert.Equal(t, []string{"TitleIssued:1"}, f.bus.events)
}

func TestService_CreateTicketValidatesInput(t *testing.T) {
	ctx := context.Background()
	idx := personIndex{}
	f := newFixture(t, t.TempDir(), idx)
	owner := person(t, idx, 1990, false, false)

	_, err := f.service.CreateTicket(ctx, owner, "CHEQUE")
	assert.ErrorIs(t, err, domain.ErrInvalidPayment)

	_, err = f.service.CreateTicket(ctx, personDomain.Person{}, domain.PaymentCash)
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)
	assert.Empty(t, f.service.GetAll(ctx))
}

func TestService_CreateCardWithoutDiscountConsumesNothing(t *testing.T) {
	ctx := context.Background()
	idx := personIndex{}
	f := newFixture(t, t.TempDir(), idx)
	adult := person(t, idx, 1985, false, false)

	_, err := f.service.CreateCard(ctx, adult, domain.PaymentCard)
	require.ErrorIs(t, err, domain.ErrNoApplicableDiscount)
	assert.Empty(t, f.service.GetAll(ctx))
	assert.Empty(t, f.bus.events)

	ticket, err := f.service.CreateTicket(ctx, adult, domain.PaymentCard)
	require.NoError(t, err)
	assert.Equal(t, 1, ticket.SequenceID)
}

func TestService_CreateCardAppliesBestDiscount(t *testing.T) {
	ctx := context.Background()
	idx := personIndex{}
	f := newFixture(t, t.TempDir(), idx)
	employee := person(t, idx, 1985, true, true)

	quote, err := f.service.Quote(ctx, employee)
	require.NoError(t, err)
	assert.Equal(t, domain.TierSolidarity, quote.Tier)

	card, err := f.service.CreateCard(ctx, employee, domain.PaymentMobile)
	require.NoError(t, err)
	assert.Equal(t, domain.TierSolidarity, card.Card.Tier)
	assert.Equal(t, 2500, card.Price)
	assert.Equal(t, domain.PaymentMobile, card.Payment)
	assert.True(t, f.service.IsValid(card))
}

func TestService_UseTicket(t *testing.T) {
	ctx := context.Background()
	idx := personIndex{}
	f := newFixture(t, t.TempDir(), idx)
	owner := person(t, idx, 1990, false, false)

	ticket, err := f.service.CreateTicket(ctx, owner, domain.PaymentCash)
	require.NoError(t, err)

	assert.True(t, f.service.UseTicket(ctx, ticket))
	assert.False(t, f.service.UseTicket(ctx, ticket))

	stored, found := f.service.GetByID(ctx, ticket.SequenceID)
	require.True(t, found)
	assert.True(t, stored.Ticket.Used)
	assert.Equal(t, domain.StateUsed, f.service.State(stored))

	assert.False(t, f.service.UseTicket(ctx, domain.Title{SequenceID: 99}))
	assert.Equal(t, []string{"TitleIssued:1", "TicketUsed:1"}, f.bus.events)
}

func TestService_UseTicketBoughtYesterday(t *testing.T) {
	ctx := context.Background()
	idx := personIndex{}
	f := newFixture(t, t.TempDir(), idx)
	owner := person(t, idx, 1990, false, false)

	ticket, err := f.service.CreateTicket(ctx, owner, domain.PaymentCash)
	require.NoError(t, err)

	f.clock.now = today.AddDate(0, 0, 1)
	assert.False(t, f.service.IsValid(ticket))
	assert.Equal(t, domain.StateExpired, f.service.State(ticket))
	assert.False(t, f.service.UseTicket(ctx, ticket))
}

func TestService_UseTicketRejectsCards(t *testing.T) {
	ctx := context.Background()
	idx := personIndex{}
	f := newFixture(t, t.TempDir(), idx)
	young := person(t, idx, 2010, false, false)

	card, err := f.service.CreateCard(ctx, young, domain.PaymentCash)
	require.NoError(t, err)
	assert.False(t, f.service.UseTicket(ctx, card))
}

func TestService_SequenceResumesAfterReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	idx := personIndex{}
	f := newFixture(t, dir, idx)
	owner := person(t, idx, 1990, false, false)

	for i := 0; i < 3; i++ {
		_, err := f.service.CreateTicket(ctx, owner, domain.PaymentCash)
		require.NoError(t, err)
	}
	require.True(t, f.service.Delete(ctx, 3))

	reloaded := newFixture(t, dir, idx)
	assert.Equal(t, f.service.GetAll(ctx), reloaded.service.GetAll(ctx))

	next, err := reloaded.service.CreateTicket(ctx, owner, domain.PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, 3, next.SequenceID)
}

func TestService_SaveAdvancesSequence(t *testing.T) {
	ctx := context.Background()
	idx := personIndex{}
	f := newFixture(t, t.TempDir(), idx)
	owner := person(t, idx, 1990, false, false)

	imported := domain.NewTicket(40, owner, 50, domain.PaymentCash, today)
	_, err := f.service.Save(ctx, imported)
	require.NoError(t, err)

	next, err := f.service.CreateTicket(ctx, owner, domain.PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, 41, next.SequenceID)

	unnumbered := domain.NewTicket(0, owner, 50, domain.PaymentCash, today)
	saved, err := f.service.Save(ctx, unnumbered)
	require.NoError(t, err)
	assert.Equal(t, 42, saved.SequenceID)

	imported.Price = 45
	_, err = f.service.Save(ctx, imported)
	require.NoError(t, err)
	all := f.service.GetAll(ctx)
	require.Len(t, all, 3)
	assert.Equal(t, 45, all[0].Price)

	_, err = f.service.Save(ctx, domain.Title{Kind: "Pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)
}

func TestService_GetForPersonAndDelete(t *testing.T) {
	ctx := context.Background()
	idx := personIndex{}
	f := newFixture(t, t.TempDir(), idx)
	ana := person(t, idx, 1990, false, false)
	rui := person(t, idx, 1990, false, false)

	a1, _ := f.service.CreateTicket(ctx, ana, domain.PaymentCash)
	_, _ = f.service.CreateTicket(ctx, rui, domain.PaymentCash)
	a2, _ := f.service.CreateTicket(ctx, ana, domain.PaymentCash)

	forAna := f.service.GetForPerson(ctx, ana.ID)
	require.Len(t, forAna, 2)
	assert.Equal(t, a1.SequenceID, forAna[0].SequenceID)
	assert.Equal(t, a2.SequenceID, forAna[1].SequenceID)

	assert.True(t, f.service.Delete(ctx, a1.SequenceID))
	assert.False(t, f.service.Delete(ctx, a1.SequenceID))
	assert.Len(t, f.service.GetForPerson(ctx, ana.ID), 1)
	assert.Contains(t, f.bus.events, "TitleDeleted:"+strconv.Itoa(a1.SequenceID))
}

func TestService_ConcurrentIssueAndUse(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	idx := personIndex{}
	f := newFixture(t, dir, idx)
	owner := person(t, idx, 2001, false, false)

	shared, err := f.service.CreateTicket(ctx, owner, domain.PaymentCash)
	require.NoError(t, err)

	const workers = 25
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ids        []int
		errs       []error
		ownUses    int
		sharedUses int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticket, ticketErr := f.service.CreateTicket(ctx, owner, domain.PaymentCard)
			card, cardErr := f.service.CreateCard(ctx, owner, domain.PaymentMobile)
			usedOwn := ticketErr == nil && f.service.UseTicket(ctx, ticket)
			usedShared := f.service.UseTicket(ctx, shared)
			_ = f.service.GetAll(ctx)

			mu.Lock()
			defer mu.Unlock()
			errs = append(errs, ticketErr, cardErr)
			ids = append(ids, ticket.SequenceID, card.SequenceID)
			if usedOwn {
				ownUses++
			}
			if usedShared {
				sharedUses++
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, workers, ownUses)
	assert.Equal(t, 1, sharedUses)

	unique := map[int]bool{shared.SequenceID: true}
	for _, id := range ids {
		assert.False(t, unique[id], "sequence id %d issued twice", id)
		unique[id] = true
	}

	all := f.service.GetAll(ctx)
	require.Len(t, all, 2*workers+1)
	for _, title := range all {
		assert.True(t, unique[title.SequenceID])
		assert.LessOrEqual(t, title.SequenceID, 2*workers+1)
		if title.Kind == domain.KindTicket {
			assert.Equal(t, domain.StateUsed, f.service.State(title), title.SequenceID)
		}
	}

	reloaded := newFixture(t, dir, idx)
	assert.ElementsMatch(t, all, reloaded.service.GetAll(ctx))

	next, err := reloaded.service.CreateTicket(ctx, owner, domain.PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, 2*workers+2, next.SequenceID)
}
