package repositories

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"recycle-backend/internal/apperr"
)

func TestTranslateUniqueEmail(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "b2c_customer_master_email_key"}

	err := translateUnique(pgErr)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, 409, apperr.HTTPStatus(err))
	assert.Equal(t, "Email already registered. Please login instead.", apperr.MessageOf(err))
}

func TestTranslateUniqueMobile(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "b2c_customer_master_contact_no_key"}

	err := translateUnique(pgErr)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "Mobile number already registered. Please login instead.", apperr.MessageOf(err))
}

func TestTranslateUniquePassesOtherErrorsThrough(t *testing.T) {
	fk := &pgconn.PgError{Code: "23503", ConstraintName: "some_fk"}
	assert.Equal(t, error(fk), translateUnique(fk))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, translateUnique(plain))
}
