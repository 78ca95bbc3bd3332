package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newExpenseService(db *gorm.DB) ExpenseService {
	return NewExpenseService(repository.NewExpenseRepository(db))
}

func TestCreateExpenseParsesDate(t *testing.T) {
	db := newTestDB(t)
	svc := newExpenseService(db)

	res, err := svc.CreateExpense(context.Background(), CreateExpenseRequest{
		Category: "Rent",
		Amount:   money(t, "1500.00"),
		Date:     "2026-08-01",
		Note:     "August shop rent",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-08-01", res.Date)
	assert.Equal(t, "1500.00", res.Amount)
	assert.Equal(t, "Rent", res.Category)
}

func TestCreateExpenseRejectsBadDate(t *testing.T) {
	db := newTestDB(t)
	svc := newExpenseService(db)

	_, err := svc.CreateExpense(context.Background(), CreateExpenseRequest{
		Category: "Rent",
		Amount:   money(t, "1500.00"),
		Date:     "01/08/2026",
	})
	var ve *apperror.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "date", ve.Field)
}

func TestUpdateExpenseDateOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newExpenseService(db)
	expense := seedExpense(t, db, "Utilities", "200.00", time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC))

	res, err := svc.UpdateExpense(context.Background(), expense.ID.String(), UpdateExpenseRequest{
		Date: strPtr("2026-07-20"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-07-20", res.Date)
	assert.Equal(t, "Utilities", res.Category)
	assert.Equal(t, "200.00", res.Amount)
}

func TestDeleteExpenseThenGetIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newExpenseService(db)
	expense := seedExpense(t, db, "Ads", "50.00", time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC))

	require.NoError(t, svc.DeleteExpense(context.Background(), expense.ID.String()))

	_, err := svc.GetExpense(context.Background(), expense.ID.String())
	var nfe *apperror.NotFoundError
	require.ErrorAs(t, err, &nfe)
}

func TestListExpensesReturnsTotal(t *testing.T) {
	db := newTestDB(t)
	svc := newExpenseService(db)
	seedExpense(t, db, "Rent", "1500.00", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	seedExpense(t, db, "Ads", "50.00", time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC))

	expenses, total, err := svc.ListExpenses(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, expenses, 2)
}
