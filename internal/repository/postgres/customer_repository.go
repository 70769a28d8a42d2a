package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nurlyy/customer_data/internal/domain"
	"github.com/nurlyy/customer_data/internal/repository"
	"github.com/nurlyy/customer_data/pkg/logger"
	"github.com/nurlyy/customer_data/pkg/validator"
)

// CustomerRepository reads the customer snapshot from PostgreSQL
type CustomerRepository struct {
	db        *sqlx.DB
	validator *validator.CustomValidator
	logger    logger.Logger
}

var _ repository.CustomerSource = (*CustomerRepository)(nil)

// NewCustomerRepository creates a PostgreSQL backed customer source
func NewCustomerRepository(db *sqlx.DB, v *validator.CustomValidator, logger logger.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:        db,
		validator: v,
		logger:    logger,
	}
}

// Load selects every customer row
func (r *CustomerRepository) Load(ctx context.Context) ([]domain.Customer, error) {
	query := `
		SELECT
			customer_id, full_name, COALESCE(email, '') AS email,
			COALESCE(registration_date, '') AS registration_date
		FROM customers
		ORDER BY customer_id
	`

	customers := []domain.Customer{}
	if err := r.db.SelectContext(ctx, &customers, query); err != nil {
		r.logger.Error("Failed to load customers", err)
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}

	if err := repository.ValidateCustomers(r.validator, customers); err != nil {
		return nil, err
	}

	r.logger.Info("Customer dataset loaded from PostgreSQL", map[string]interface{}{
		"customers": len(customers),
	})
	return customers, nil
}
