package domain

import (
	"errors"
	"time"

	personDomain "github.com/mateusmacedo/go-transit/internal/person/domain"
)

// ErrNoApplicableDiscount indica que a pessoa não tem direito a nenhum cartão.
var ErrNoApplicableDiscount = errors.New("no applicable discount")

type Discount struct {
	Tier       CardTier `json:"tier"`
	Multiplier float64  `json:"multiplier"`
	Price      int      `json:"price"`
}

type discountRule struct {
	tier       CardTier
	multiplier float64
	applies    func(p personDomain.Person, now time.Time) bool
}

// A ordem importa: em caso de empate vence a primeira regra.
var discountRules = []discountRule{
	{tier: TierPartner, multiplier: 0.6, applies: func(p personDomain.Person, _ time.Time) bool {
		return p.IsEmployee()
	}},
	{tier: TierSolidarity, multiplier: 0.5, applies: func(p personDomain.Person, _ time.Time) bool {
		return p.HasHandicap
	}},
	{tier: TierJunior, multiplier: 0.7, applies: func(p personDomain.Person, now time.Time) bool {
		return p.HasBirthDate() && p.Age(now) < 25
	}},
	{tier: TierSenior, multiplier: 0.75, applies: func(p personDomain.Person, now time.Time) bool {
		return p.HasBirthDate() && p.Age(now) > 65
	}},
}

// BestDiscount aplica cada desconto ao preço base e fica com o menor resultado.
func BestDiscount(person personDomain.Person, basePrice int, now time.Time) (Discount, error) {
	best := float64(basePrice)
	var found *discountRule

	for i := range discountRules {
		rule := &discountRules[i]
		if !rule.applies(person, now) {
			continue
		}
		if price := float64(basePrice) * rule.multiplier; price < best {
			best = price
			found = rule
		}
	}

	if found == nil {
		return Discount{}, ErrNoApplicableDiscount
	}
	return Discount{Tier: found.tier, Multiplier: found.multiplier, Price: int(best)}, nil
}
