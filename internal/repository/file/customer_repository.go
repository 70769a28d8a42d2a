package file

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/nurlyy/customer_data/internal/domain"
	"github.com/nurlyy/customer_data/internal/repository"
	"github.com/nurlyy/customer_data/pkg/logger"
	"github.com/nurlyy/customer_data/pkg/validator"
)

// customersKey is the top-level key holding the customer list
const customersKey = "customers"

// CustomerRepository reads customers from a YAML, JSON or TOML file
type CustomerRepository struct {
	path      string
	validator *validator.CustomValidator
	logger    logger.Logger
}

var _ repository.CustomerSource = (*CustomerRepository)(nil)

// NewCustomerRepository creates a file backed customer source
func NewCustomerRepository(path string, v *validator.CustomValidator, logger logger.Logger) *CustomerRepository {
	return &CustomerRepository{
		path:      path,
		validator: v,
		logger:    logger,
	}
}

// Load reads and validates the customer list
func (r *CustomerRepository) Load(ctx context.Context) ([]domain.Customer, error) {
	v := viper.New()
	v.SetConfigFile(r.path)

	if err := v.ReadInConfig(); err != nil {
		r.logger.Error("Failed to read customer dataset", err, map[string]interface{}{
			"path": r.path,
		})
		return nil, fmt.Errorf("failed to read customer dataset %s: %w", r.path, err)
	}

	var customers []domain.Customer
	if err := v.UnmarshalKey(customersKey, &customers); err != nil {
		return nil, fmt.Errorf("failed to decode customers from %s: %w", r.path, err)
	}

	if err := repository.ValidateCustomers(r.validator, customers); err != nil {
		return nil, err
	}

	r.logger.Info("Customer dataset loaded", map[string]interface{}{
		"path":      r.path,
		"customers": len(customers),
	})
	return customers, nil
}
