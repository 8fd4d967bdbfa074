package infrastructure

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mateusmacedo/go-transit/internal/complaint/domain"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/codec"
)

var errMissingID = errors.New("missing complaint id")

// complaintData é o registro gravado em reclamations.json.
type complaintData struct {
	ID              string  `json:"id"`
	PersonneID      string  `json:"personneId"`
	Description     string  `json:"description"`
	Type            *string `json:"type"`
	Etat            *string `json:"etat"`
	DateReclamation string  `json:"dateReclamation"`
	DateTraitement  *string `json:"dateTraitement"`
	Reponse         *string `json:"reponse"`
}

// ComplaintCodec lê e grava o documento de reclamações, um array de registros simples.
type ComplaintCodec struct{}

func (ComplaintCodec) Encode(complaints []domain.Complaint) ([]byte, error) {
	return codec.EncodeArray(complaints, func(c domain.Complaint) (any, error) {
		return toComplaintData(c), nil
	})
}

func (ComplaintCodec) Decode(data []byte, skip codec.SkipFunc) ([]domain.Complaint, error) {
	return codec.DecodeArray(data, decodeComplaint, skip)
}

func toComplaintData(c domain.Complaint) complaintData {
	data := complaintData{
		ID:              c.ID.String(),
		PersonneID:      c.PersonID.String(),
		Description:     c.Description,
		DateReclamation: codec.FormatDateTime(c.FiledAt),
		Reponse:         c.Response,
	}
	if c.Category != "" {
		category := string(c.Category)
		data.Type = &category
	}
	if c.Status != "" {
		status := string(c.Status)
		data.Etat = &status
	}
	if c.ResolvedAt != nil {
		resolvedAt := codec.FormatDateTime(*c.ResolvedAt)
		data.DateTraitement = &resolvedAt
	}
	return data
}

func decodeComplaint(raw json.RawMessage) (domain.Complaint, error) {
	var data complaintData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.Complaint{}, err
	}
	if data.ID == "" {
		return domain.Complaint{}, errMissingID
	}

	id, err := uuid.Parse(data.ID)
	if err != nil {
		return domain.Complaint{}, fmt.Errorf("parsing complaint id %q: %w", data.ID, err)
	}
	personID, err := uuid.Parse(data.PersonneID)
	if err != nil {
		return domain.Complaint{}, fmt.Errorf("parsing personneId %q: %w", data.PersonneID, err)
	}
	filedAt, err := codec.ParseDateTime(data.DateReclamation)
	if err != nil {
		return domain.Complaint{}, err
	}

	c := domain.Complaint{
		ID:          id,
		PersonID:    personID,
		Description: data.Description,
		Status:      domain.StatusFiled,
		FiledAt:     filedAt,
		Response:    data.Reponse,
	}
	if data.Type != nil {
		if c.Category, err = domain.ParseCategory(*data.Type); err != nil {
			return domain.Complaint{}, err
		}
	}
	if data.Etat != nil {
		if c.Status, err = domain.ParseStatus(*data.Etat); err != nil {
			return domain.Complaint{}, err
		}
	}
	if data.DateTraitement != nil {
		resolvedAt, err := codec.ParseDateTime(*data.DateTraitement)
		if err != nil {
			return domain.Complaint{}, err
		}
		c.ResolvedAt = &resolvedAt
	}
	return c, nil
}
