package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	personDomain "github.com/mateusmacedo/go-transit/internal/person/domain"
)

var (
	filedAt  = time.Date(2025, time.April, 10, 9, 0, 0, 0, time.Local)
	resolved = filedAt.Add(2 * time.Hour)
)

func newFiled() Complaint {
	p := personDomain.NewRider("Ana", "Silva", time.Date(1990, 1, 1, 0, 0, 0, 0, time.Local), false)
	p.ID = uuid.New()
	return NewComplaint(uuid.New(), p, "bus late", CategoryService, filedAt)
}

func TestComplaint_Resolve(t *testing.T) {
	c := newFiled()
	require.NoError(t, c.Resolve("sorry", resolved))

	assert.Equal(t, StatusResolved, c.Status)
	require.NotNil(t, c.ResolvedAt)
	assert.Equal(t, resolved, *c.ResolvedAt)
	require.NotNil(t, c.Response)
	assert.Equal(t, "sorry", *c.Response)
}

func TestComplaint_RejectRequiresText(t *testing.T) {
	c := newFiled()
	assert.ErrorIs(t, c.Reject("  ", resolved), ErrResponseRequired)
	assert.Equal(t, StatusFiled, c.Status)
	assert.Nil(t, c.ResolvedAt)

	require.NoError(t, c.Reject("no", resolved))
	assert.Equal(t, StatusRejected, c.Status)
}

func TestComplaint_CancelSetsOnlyDate(t *testing.T) {
	c := newFiled()
	require.NoError(t, c.Cancel(resolved))

	assert.Equal(t, StatusCancelled, c.Status)
	assert.NotNil(t, c.ResolvedAt)
	assert.Nil(t, c.Response)
}

func TestComplaint_TerminalStatesAreFinal(t *testing.T) {
	for _, apply := range []func(*Complaint) error{
		func(c *Complaint) error { return c.Resolve("ok", resolved) },
		func(c *Complaint) error { return c.Reject("no", resolved) },
		func(c *Complaint) error { return c.Cancel(resolved) },
	} {
		c := newFiled()
		require.NoError(t, apply(&c))
		before := c.Clone()

		assert.ErrorIs(t, c.Resolve("again", resolved.Add(time.Hour)), ErrTerminalStatus)
		assert.ErrorIs(t, c.Reject("again", resolved.Add(time.Hour)), ErrTerminalStatus)
		assert.ErrorIs(t, c.Cancel(resolved.Add(time.Hour)), ErrTerminalStatus)
		assert.Equal(t, before, c)
	}
}

func TestComplaint_InvalidTarget(t *testing.T) {
	c := newFiled()
	assert.ErrorIs(t, c.Transition(StatusFiled, "x", resolved), ErrInvalidTransition)
	assert.ErrorIs(t, c.Transition("ARCHIVE", "x", resolved), ErrInvalidTransition)
	assert.Equal(t, StatusFiled, c.Status)
}

func TestParseCategoryAndStatus(t *testing.T) {
	cat, err := ParseCategory("PAIEMENT")
	require.NoError(t, err)
	assert.Equal(t, "Paiement", cat.Label())

	_, err = ParseCategory("payment")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = ParseStatus("FERME")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusFiled.IsTerminal())
}
