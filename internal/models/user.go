package models

// User is the authenticated identity returned by the auth endpoints.
// Role distinguishes ordering customers from delivery riders.
type User struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone"`
	Role    string `json:"role"`
	Address string `json:"address,omitempty"`
}

const (
	RoleCustomer = "customer"
	RoleRider    = "rider"
)

// Customer builds the checkout identity for the user, falling back to the
// given address when the profile has none.
func (u User) Customer(address string) Customer {
	if address == "" {
		address = u.Address
	}
	return Customer{
		Name:    u.Name,
		Phone:   u.Phone,
		Email:   u.Email,
		Address: address,
	}
}
