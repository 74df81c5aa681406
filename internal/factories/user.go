package factories

import "github.com/chrisdamba/ridesim/internal/models"

func (g *Generator) NewUser(city string) *models.User {
	return &models.User{
		ID:         g.ID(),
		City:       city,
		Name:       g.Name(),
		Address:    g.Address(),
		CreditCard: g.CreditCardNumber(),
	}
}
