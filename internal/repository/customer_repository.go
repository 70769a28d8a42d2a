package repository

import (
	"context"
	"fmt"

	"github.com/nurlyy/customer_data/internal/domain"
	"github.com/nurlyy/customer_data/pkg/validator"
)

// CustomerSource loads the customer snapshot once at startup
type CustomerSource interface {
	// Load returns every customer record of the source
	Load(ctx context.Context) ([]domain.Customer, error)
}

// ValidateCustomers checks every loaded record against its validate tags
func ValidateCustomers(v *validator.CustomValidator, customers []domain.Customer) error {
	for i := range customers {
		if err := v.Validate(customers[i]); err != nil {
			return fmt.Errorf("%w: record %d (customerId=%d): %v",
				domain.ErrInvalidDataset, i, customers[i].CustomerID, err)
		}
	}
	return nil
}
