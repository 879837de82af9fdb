package domain

import "time"

type Customer struct {
	ID        ID
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCustomer(name, email string) *Customer {
	now := time.Now()
	return &Customer{
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
