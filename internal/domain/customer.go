package domain

// Customer is a single record of the customer snapshot.
// CustomerID is unique within a snapshot and defines the listing order.
type Customer struct {
	CustomerID       int64  `json:"customerId" mapstructure:"customerId" db:"customer_id"`
	FullName         string `json:"fullName" mapstructure:"fullName" db:"full_name" validate:"required"`
	Email            string `json:"email" mapstructure:"email" db:"email" validate:"omitempty,email"`
	RegistrationDate string `json:"registrationDate" mapstructure:"registrationDate" db:"registration_date"`
}
