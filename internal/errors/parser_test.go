package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{"Nil error", nil, "", InternalServerError},
		{"Record not found option set", gorm.ErrRecordNotFound, "get option set", SetNotFound},
		{"Record not found rule", gorm.ErrRecordNotFound, "get rule", RuleNotFound},
		{"Record not found product", gorm.ErrRecordNotFound, "get product", ProductNotFound},
		{"Record not found unqualified", gorm.ErrRecordNotFound, "lookup", ResourceNotFound},
		{
			"Postgres unique violation on value token",
			&pq.Error{Code: "23505", Constraint: "idx_option_token"},
			"create value",
			OptionTokenExists,
		},
		{
			"Postgres unique violation on product assignment",
			&pq.Error{Code: "23505", Constraint: "idx_product_set"},
			"assign set",
			SetAlreadyAssigned,
		},
		{
			"Postgres unique violation on email",
			&pq.Error{Code: "23505", Constraint: "idx_users_email"},
			"register",
			AuthEmailAlreadyExists,
		},
		{
			"Postgres foreign key to missing option set",
			&pq.Error{Code: "23503", Detail: "Key (option_set_id)=(9) is not present"},
			"create option",
			SetNotFound,
		},
		{
			"Postgres not null violation",
			&pq.Error{Code: "23502", Column: "name"},
			"create option set",
			ValidationRequired,
		},
		{
			"SQLite unique violation string",
			errors.New("UNIQUE constraint failed: option_values.option_id, option_values.value"),
			"create value",
			OptionTokenExists,
		},
		{
			"Connection refused",
			fmt.Errorf("dial tcp: connection refused"),
			"cache",
			InternalExternalAPI,
		},
		{"Unknown error", errors.New("boom"), "create option set", InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}

	t.Run("Wrapped pq error still parses", func(t *testing.T) {
		wrapped := fmt.Errorf("create value: %w", &pq.Error{Code: "23505", Constraint: "idx_option_token"})
		info := ParseError(wrapped, "create value")
		assert.Equal(t, OptionTokenExists, info.Code)
	})
}
