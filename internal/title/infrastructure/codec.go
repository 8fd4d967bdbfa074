package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mateusmacedo/go-transit/internal/title/domain"
	"github.com/mateusmacedo/go-transit/pkg/application"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/codec"
)

var errMissingSequenceID = errors.New("missing currentId")

type commonData struct {
	CurrentID    int    `json:"currentId"`
	DateAchat    string `json:"dateAchat"`
	Prix         int    `json:"prix"`
	PersonneID   string `json:"personneId"`
	ModePaiement string `json:"modePaiement,omitempty"`
}

type ticketData struct {
	commonData
	Used bool `json:"used"`
}

type cardData struct {
	commonData
	Type *string `json:"type"`
}

type titleData struct {
	CurrentID    *int           `json:"currentId"`
	DateAchat    string         `json:"dateAchat"`
	Prix         *codec.FlexInt `json:"prix"`
	PersonneID   string         `json:"personneId"`
	ModePaiement *string        `json:"modePaiement"`
	Used         *bool          `json:"used"`
	Type         *string        `json:"type"`
}

// NewTitleCodec decodifica o documento de títulos. O dono de cada título é resolvido
// em persons; um título cujo dono não existe é rejeitado. Categoria de cartão
// desconhecida é descartada com aviso e o cartão é mantido.
func NewTitleCodec(persons domain.PersonLookup, logger application.AppLogger) *codec.Polymorphic[domain.Title] {
	d := titleDecoder{persons: persons, logger: logger}

	return codec.NewPolymorphic[domain.Title]("title", func(t domain.Title) string { return string(t.Kind) }).
		Register(string(domain.KindTicket), codec.Variant[domain.Title]{
			Encode: encodeTicket,
			Decode: d.decodeTicket,
		}).
		Register(string(domain.KindPersonalCard), codec.Variant[domain.Title]{
			Encode: encodeCard,
			Decode: d.decodeCard,
		}, "CartePersonnelle")
}

func toCommonData(t domain.Title) commonData {
	return commonData{
		CurrentID:    t.SequenceID,
		DateAchat:    codec.FormatDateTime(t.PurchasedAt),
		Prix:         t.Price,
		PersonneID:   t.PersonID.String(),
		ModePaiement: string(t.Payment),
	}
}

func encodeTicket(t domain.Title) (any, error) {
	data := ticketData{commonData: toCommonData(t)}
	if t.Ticket != nil {
		data.Used = t.Ticket.Used
	}
	return data, nil
}

func encodeCard(t domain.Title) (any, error) {
	data := cardData{commonData: toCommonData(t)}
	if t.Card != nil && t.Card.Tier != "" {
		tier := string(t.Card.Tier)
		data.Type = &tier
	}
	return data, nil
}

type titleDecoder struct {
	persons domain.PersonLookup
	logger  application.AppLogger
}

func (d titleDecoder) decodeCommon(raw json.RawMessage, kind domain.Kind) (domain.Title, titleData, error) {
	var data titleData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.Title{}, data, err
	}
	if data.CurrentID == nil {
		return domain.Title{}, data, errMissingSequenceID
	}

	purchasedAt, err := codec.ParseDateTime(data.DateAchat)
	if err != nil {
		return domain.Title{}, data, err
	}

	personID, err := uuid.Parse(data.PersonneID)
	if err != nil {
		return domain.Title{}, data, fmt.Errorf("parsing personneId %q: %w", data.PersonneID, err)
	}
	if _, found := d.persons.GetByID(context.Background(), personID); !found {
		return domain.Title{}, data, fmt.Errorf("%w: %s", domain.ErrPersonNotFound, personID)
	}

	t := domain.Title{
		SequenceID:  *data.CurrentID,
		Kind:        kind,
		PurchasedAt: purchasedAt,
		PersonID:    personID,
	}
	if data.Prix != nil {
		t.Price = int(*data.Prix)
	}
	if data.ModePaiement != nil {
		t.Payment = domain.PaymentMode(*data.ModePaiement)
	}
	return t, data, nil
}

func (d titleDecoder) decodeTicket(raw json.RawMessage) (domain.Title, error) {
	t, data, err := d.decodeCommon(raw, domain.KindTicket)
	if err != nil {
		return domain.Title{}, err
	}
	t.Ticket = &domain.TicketDetails{Used: data.Used != nil && *data.Used}
	return t, nil
}

func (d titleDecoder) decodeCard(raw json.RawMessage) (domain.Title, error) {
	t, data, err := d.decodeCommon(raw, domain.KindPersonalCard)
	if err != nil {
		return domain.Title{}, err
	}
	t.Card = &domain.CardDetails{}
	if data.Type != nil {
		tier, ok := domain.ParseCardTier(*data.Type)
		if !ok {
			application.LogWarn(context.Background(), d.logger, "unknown card tier, clearing", nil, map[string]interface{}{
				"current_id": t.SequenceID,
				"type":       *data.Type,
			})
			return t, nil
		}
		t.Card.Tier = tier
	}
	return t, nil
}
