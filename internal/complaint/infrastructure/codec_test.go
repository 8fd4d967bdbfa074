package infrastructure

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateusmacedo/go-transit/internal/complaint/domain"
)

func TestComplaintCodec_EncodesNullsUntilProcessed(t *testing.T) {
	c := domain.Complaint{
		ID:          uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		PersonID:    uuid.MustParse("0b8f3c52-2c43-4a3f-8f8e-1f3a4b5c6d7e"),
		Description: "bus late",
		Category:    domain.CategoryService,
		Status:      domain.StatusFiled,
		FiledAt:     time.Date(2025, 4, 10, 9, 0, 0, 0, time.Local),
	}

	data, err := ComplaintCodec{}.Encode([]domain.Complaint{c})
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"id": "11111111-2222-3333-4444-555555555555",
		"personneId": "0b8f3c52-2c43-4a3f-8f8e-1f3a4b5c6d7e",
		"description": "bus late",
		"type": "SERVICE",
		"etat": "EN_COURS",
		"dateReclamation": "2025-04-10T09:00:00",
		"dateTraitement": null,
		"reponse": null
	}]`, string(data))
}

func TestComplaintCodec_RoundTripProcessed(t *testing.T) {
	resolvedAt := time.Date(2025, 4, 11, 10, 30, 0, 0, time.Local)
	response := "refunded"
	in := []domain.Complaint{{
		ID:          uuid.New(),
		PersonID:    uuid.New(),
		Description: "double charge",
		Category:    domain.CategoryPayment,
		Status:      domain.StatusResolved,
		FiledAt:     time.Date(2025, 4, 10, 9, 0, 0, 0, time.Local),
		ResolvedAt:  &resolvedAt,
		Response:    &response,
	}}

	data, err := ComplaintCodec{}.Encode(in)
	require.NoError(t, err)
	out, err := ComplaintCodec{}.Decode(data, nil)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestComplaintCodec_SkipsInvalidRecords(t *testing.T) {
	doc := []byte(`[
		{"id": "11111111-2222-3333-4444-555555555555", "personneId": "0b8f3c52-2c43-4a3f-8f8e-1f3a4b5c6d7e", "description": "a", "type": "AUTRE", "etat": "ANNULE", "dateReclamation": "2025-04-10T09:00", "dateTraitement": "2025-04-10T10:00"},
		{"personneId": "0b8f3c52-2c43-4a3f-8f8e-1f3a4b5c6d7e", "dateReclamation": "2025-04-10T09:00"},
		{"id": "21111111-2222-3333-4444-555555555555", "personneId": "0b8f3c52-2c43-4a3f-8f8e-1f3a4b5c6d7e", "etat": "OUVERT", "dateReclamation": "2025-04-10T09:00"}
	]`)

	skipped := map[int]error{}
	out, err := ComplaintCodec{}.Decode(doc, func(i int, err error) { skipped[i] = err })
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, domain.StatusCancelled, out[0].Status)
	assert.NotNil(t, out[0].ResolvedAt)
	assert.Nil(t, out[0].Response)

	assert.ErrorIs(t, skipped[1], errMissingID)
	assert.ErrorIs(t, skipped[2], domain.ErrInvalidStatus)
}
