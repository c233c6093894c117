package domain

import "time"

type Customer struct {
	ID           int32     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Groups       []string  `json:"groups"`
	PaymentToken string    `json:"-"`
	PushToken    *string   `json:"-"`
	CreatedOn    time.Time `json:"created_on"`
}

func (c *Customer) InGroup(group string) bool {
	for _, g := range c.Groups {
		if g == group {
			return true
		}
	}
	return false
}

type PaymentCard struct {
	ID         string `json:"id"`
	CustomerID int32  `json:"customer_id"`
	Token      string `json:"-"`
	Brand      string `json:"brand"`
	Last4      string `json:"last4"`
}
