package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidPerson = errors.New("invalid person")

// Kind distingue as variantes de pessoa.
type Kind string

const (
	KindRider    Kind = "Rider"
	KindEmployee Kind = "Employee"
)

// JobFunction é a função de um funcionário; o valor é o nome gravado em disco.
type JobFunction string

const (
	FunctionDriver     JobFunction = "CHAUFFEUR"
	FunctionController JobFunction = "CONTROLEUR"
	FunctionAdmin      JobFunction = "ADMINISTRATIF"
	FunctionTechnical  JobFunction = "TECHNIQUE"
)

var functionLabels = map[JobFunction]string{
	FunctionDriver:     "Chauffeur",
	FunctionController: "Contrôleur",
	FunctionAdmin:      "Administratif",
	FunctionTechnical:  "Technique",
}

func ParseJobFunction(s string) (JobFunction, bool) {
	f := JobFunction(s)
	_, ok := functionLabels[f]
	return f, ok
}

func (f JobFunction) Label() string {
	return functionLabels[f]
}

// EmployeeDetails só existe para KindEmployee. Function vazio significa função não informada.
type EmployeeDetails struct {
	Matricule string      `json:"matricule"`
	Function  JobFunction `json:"function,omitempty"`
}

type Person struct {
	ID          uuid.UUID        `json:"id"`
	Kind        Kind             `json:"kind"`
	Name        string           `json:"name"`
	FamilyName  string           `json:"familyName"`
	BirthDate   time.Time        `json:"birthDate"`
	HasHandicap bool             `json:"hasHandicap"`
	Employee    *EmployeeDetails `json:"employee,omitempty"`
}

func NewRider(name, familyName string, birthDate time.Time, hasHandicap bool) Person {
	return Person{
		Kind:        KindRider,
		Name:        name,
		FamilyName:  familyName,
		BirthDate:   birthDate,
		HasHandicap: hasHandicap,
	}
}

func NewEmployee(name, familyName string, birthDate time.Time, hasHandicap bool, matricule string, function JobFunction) Person {
	p := NewRider(name, familyName, birthDate, hasHandicap)
	p.Kind = KindEmployee
	p.Employee = &EmployeeDetails{Matricule: matricule, Function: function}
	return p
}

func (p Person) IsEmployee() bool {
	return p.Kind == KindEmployee
}

// HasBirthDate é falso para registros lidos sem data de nascimento.
func (p Person) HasBirthDate() bool {
	return !p.BirthDate.IsZero()
}

// Age é a diferença entre anos civis, sem considerar mês e dia.
func (p Person) Age(now time.Time) int {
	return now.Year() - p.BirthDate.Year()
}

func (p Person) FullName() string {
	return p.Name + " " + p.FamilyName
}

func (p Person) Clone() Person {
	if p.Employee != nil {
		details := *p.Employee
		p.Employee = &details
	}
	return p
}

func (p Person) Validate() error {
	switch p.Kind {
	case KindRider:
		if p.Employee != nil {
			return fmt.Errorf("%w: rider with employee details", ErrInvalidPerson)
		}
	case KindEmployee:
		if p.Employee == nil {
			return fmt.Errorf("%w: employee without details", ErrInvalidPerson)
		}
		if p.Employee.Function != "" {
			if _, ok := ParseJobFunction(string(p.Employee.Function)); !ok {
				return fmt.Errorf("%w: unknown function %q", ErrInvalidPerson, p.Employee.Function)
			}
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPerson, p.Kind)
	}
	if p.BirthDate.IsZero() {
		return fmt.Errorf("%w: birth date is required", ErrInvalidPerson)
	}
	return nil
}

type PersonRepository interface {
	All(ctx context.Context) []Person
	Find(ctx context.Context, id uuid.UUID) (Person, bool)
	Upsert(ctx context.Context, person Person) bool
	Remove(ctx context.Context, id uuid.UUID) bool
	Len(ctx context.Context) int
}
