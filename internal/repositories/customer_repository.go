package repositories

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"recycle-backend/internal/apperr"
	"recycle-backend/internal/models"
)

const customerColumns = `customer_id, customer_name, contact_no, email, address, city, state,
		est_waste_qty, poc, user_type, reference, status, area_id, latitude, longitude,
		created_by, updated_by, created_at, updated_at`

type CustomerRepository struct {
	DB *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{DB: db}
}

// Create inserts a new customer row. Unique-constraint violations are
// classified by constraint name into a Conflict error naming the duplicate
// field, so callers never parse database error text.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO b2c_customer_master
			(customer_id, customer_name, contact_no, email, address, city, state,
			 est_waste_qty, poc, user_type, reference, status, area_id, latitude, longitude,
			 created_by, updated_by)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)`,
		c.ID, c.Name, c.ContactNo, c.Email, c.Address, c.City, c.State,
		c.EstWasteQty, c.POC, c.UserType, c.Reference, c.Status, c.AreaID,
		c.Latitude, c.Longitude, c.CreatedBy, c.UpdatedBy,
	)
	if err != nil {
		return translateUnique(err)
	}
	return nil
}

// translateUnique maps a 23505 unique violation to a Conflict error naming
// the duplicate field, by constraint name. Other errors pass through.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return apperr.Conflict("Email already registered. Please login instead.")
		}
		return apperr.Conflict("Mobile number already registered. Please login instead.")
	}
	return err
}

func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM b2c_customer_master WHERE customer_id=$1`, id)
	return scanCustomer(row)
}

// FindByMobile locates a customer by 10-digit mobile number. Historical rows
// store the number in several encodings, so the exact candidates are tried
// first and a suffix match is the fallback.
func (r *CustomerRepository) FindByMobile(ctx context.Context, mobile string) (*models.Customer, error) {
	candidates := []string{"+91" + mobile, "+91/" + mobile, "91" + mobile, mobile}

	row := r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM b2c_customer_master
		 WHERE contact_no = ANY($1) LIMIT 1`, candidates)
	c, err := scanCustomer(row)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	row = r.DB.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM b2c_customer_master
		 WHERE contact_no LIKE '%' || $1 LIMIT 1`, mobile)
	return scanCustomer(row)
}

// NextID allocates the next numeric customer id. IDs are strings in the
// master table; non-numeric legacy ids are ignored and the sequence starts
// at 1001.
func (r *CustomerRepository) NextID(ctx context.Context) (string, error) {
	var next string
	err := r.DB.QueryRow(ctx,
		`SELECT GREATEST(COALESCE(MAX(customer_id::BIGINT), 0) + 1, 1001)::TEXT
		 FROM b2c_customer_master
		 WHERE customer_id ~ '^[0-9]+$'`).Scan(&next)
	if err != nil {
		return "", err
	}
	return next, nil
}

// Update applies the given column values to one customer row. The audit
// columns are always touched.
func (r *CustomerRepository) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	b := NewUpdateBuilder()
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		b.Set(col, fields[col])
	}
	b.Set("updated_by", "APP")
	query, args := b.Build("b2c_customer_master", "customer_id", id)
	tag, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return translateUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(
		&c.ID, &c.Name, &c.ContactNo, &c.Email, &c.Address, &c.City, &c.State,
		&c.EstWasteQty, &c.POC, &c.UserType, &c.Reference, &c.Status, &c.AreaID,
		&c.Latitude, &c.Longitude, &c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
