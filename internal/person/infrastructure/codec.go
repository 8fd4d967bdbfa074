package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mateusmacedo/go-transit/internal/person/domain"
	"github.com/mateusmacedo/go-transit/pkg/application"
	"github.com/mateusmacedo/go-transit/pkg/infrastructure/codec"
)

var errMissingID = errors.New("missing person id")

type riderData struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	FamilyName  string  `json:"familyName"`
	BirthDate   *string `json:"birthDate"`
	HasHandicap bool    `json:"hasHandicap"`
}

type employeeData struct {
	riderData
	Matricule string  `json:"matricule"`
	Fonction  *string `json:"fonction"`
}

type personData struct {
	ID          *string `json:"id"`
	Name        string  `json:"name"`
	FamilyName  string  `json:"familyName"`
	BirthDate   *string `json:"birthDate"`
	HasHandicap bool    `json:"hasHandicap"`
	Matricule   *string `json:"matricule"`
	Fonction    *string `json:"fonction"`
}

// NewPersonCodec decodifica o documento de pessoas; registros sem id são rejeitados.
func NewPersonCodec(logger application.AppLogger) *codec.Polymorphic[domain.Person] {
	return newPersonCodec(logger, true)
}

// NewPersonInputCodec aceita pessoas ainda sem id, como nos corpos de criação via HTTP.
func NewPersonInputCodec(logger application.AppLogger) *codec.Polymorphic[domain.Person] {
	return newPersonCodec(logger, false)
}

func newPersonCodec(logger application.AppLogger, requireID bool) *codec.Polymorphic[domain.Person] {
	d := personDecoder{logger: logger, requireID: requireID}

	return codec.NewPolymorphic[domain.Person]("person", func(p domain.Person) string { return string(p.Kind) }).
		Register(string(domain.KindRider), codec.Variant[domain.Person]{
			Encode: encodeRider,
			Decode: d.decodeRider,
		}, "Usager").
		Register(string(domain.KindEmployee), codec.Variant[domain.Person]{
			Encode: encodeEmployee,
			Decode: d.decodeEmployee,
		}, "Employe")
}

func toRiderData(p domain.Person) riderData {
	data := riderData{
		Name:        p.Name,
		FamilyName:  p.FamilyName,
		HasHandicap: p.HasHandicap,
	}
	if p.HasBirthDate() {
		birthDate := codec.FormatDate(p.BirthDate)
		data.BirthDate = &birthDate
	}
	if p.ID != uuid.Nil {
		data.ID = p.ID.String()
	}
	return data
}

func encodeRider(p domain.Person) (any, error) {
	return toRiderData(p), nil
}

func encodeEmployee(p domain.Person) (any, error) {
	data := employeeData{riderData: toRiderData(p)}
	if p.Employee != nil {
		data.Matricule = p.Employee.Matricule
		if p.Employee.Function != "" {
			fonction := string(p.Employee.Function)
			data.Fonction = &fonction
		}
	}
	return data, nil
}

type personDecoder struct {
	logger    application.AppLogger
	requireID bool
}

func (d personDecoder) decodeCommon(raw json.RawMessage, kind domain.Kind) (domain.Person, personData, error) {
	var data personData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.Person{}, data, err
	}

	p := domain.Person{
		Kind:        kind,
		Name:        data.Name,
		FamilyName:  data.FamilyName,
		HasHandicap: data.HasHandicap,
	}

	switch {
	case data.ID != nil && *data.ID != "":
		id, err := uuid.Parse(*data.ID)
		if err != nil {
			return domain.Person{}, data, fmt.Errorf("parsing person id %q: %w", *data.ID, err)
		}
		p.ID = id
	case d.requireID:
		return domain.Person{}, data, errMissingID
	}

	// Data ausente ou null fica zerada; Save é quem a exige.
	if data.BirthDate != nil && *data.BirthDate != "" {
		birthDate, err := codec.ParseDate(*data.BirthDate)
		if err != nil {
			return domain.Person{}, data, err
		}
		p.BirthDate = birthDate
	}
	return p, data, nil
}

func (d personDecoder) decodeRider(raw json.RawMessage) (domain.Person, error) {
	p, _, err := d.decodeCommon(raw, domain.KindRider)
	return p, err
}

func (d personDecoder) decodeEmployee(raw json.RawMessage) (domain.Person, error) {
	p, data, err := d.decodeCommon(raw, domain.KindEmployee)
	if err != nil {
		return domain.Person{}, err
	}

	details := &domain.EmployeeDetails{}
	if data.Matricule != nil {
		details.Matricule = *data.Matricule
	}
	if data.Fonction != nil {
		function, ok := domain.ParseJobFunction(*data.Fonction)
		if !ok {
			application.LogWarn(context.Background(), d.logger, "invalid job function, using default", nil, map[string]interface{}{
				"person_id": p.ID.String(),
				"fonction":  *data.Fonction,
				"default":   string(domain.FunctionAdmin),
			})
			function = domain.FunctionAdmin
		}
		details.Function = function
	}
	p.Employee = details
	return p, nil
}
