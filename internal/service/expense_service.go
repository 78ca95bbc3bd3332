package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const expenseDateLayout = "2006-01-02"

type CreateExpenseRequest struct {
	Category string          `json:"category" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Date     string          `json:"date" binding:"required"` // YYYY-MM-DD
	Note     string          `json:"note"`
}

type UpdateExpenseRequest struct {
	Category *string          `json:"category"`
	Amount   *decimal.Decimal `json:"amount"`
	Date     *string          `json:"date"` // YYYY-MM-DD
	Note     *string          `json:"note"`
}

type ExpenseResponse struct {
	ID        string `json:"id"`
	Category  string `json:"category"`
	Amount    string `json:"amount"`
	Date      string `json:"date"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ExpenseService interface {
	ListExpenses(ctx context.Context, page, limit int) ([]ExpenseResponse, int64, error)
	GetExpense(ctx context.Context, id string) (ExpenseResponse, error)
	CreateExpense(ctx context.Context, req CreateExpenseRequest) (ExpenseResponse, error)
	UpdateExpense(ctx context.Context, id string, req UpdateExpenseRequest) (ExpenseResponse, error)
	DeleteExpense(ctx context.Context, id string) error
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
}

func NewExpenseService(expenseRepo repository.ExpenseRepository) ExpenseService {
	return &expenseService{expenseRepo: expenseRepo}
}

func toExpenseResponse(e *model.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        e.ID.String(),
		Category:  e.Category,
		Amount:    e.Amount.StringFixed(2),
		Date:      e.Date.Format(expenseDateLayout),
		Note:      e.Note,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
		UpdatedAt: e.UpdatedAt.Format(time.RFC3339),
	}
}

func parseExpenseDate(value string) (time.Time, error) {
	date, err := time.Parse(expenseDateLayout, value)
	if err != nil {
		return time.Time{}, &apperror.ValidationError{Field: "date", Message: "expected YYYY-MM-DD"}
	}
	return date, nil
}

func (s *expenseService) ListExpenses(ctx context.Context, page, limit int) ([]ExpenseResponse, int64, error) {
	expenses, total, err := s.expenseRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}

	res := make([]ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		res = append(res, toExpenseResponse(&expenses[i]))
	}
	return res, total, nil
}

func (s *expenseService) GetExpense(ctx context.Context, id string) (ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return ExpenseResponse{}, err
	}
	return toExpenseResponse(expense), nil
}

func (s *expenseService) CreateExpense(ctx context.Context, req CreateExpenseRequest) (ExpenseResponse, error) {
	date, err := parseExpenseDate(req.Date)
	if err != nil {
		return ExpenseResponse{}, err
	}

	expense := model.Expense{
		Category: req.Category,
		Amount:   req.Amount,
		Date:     date,
		Note:     req.Note,
	}
	if err := s.expenseRepo.Create(ctx, &expense); err != nil {
		return ExpenseResponse{}, fmt.Errorf("failed to create expense: %w", err)
	}
	return toExpenseResponse(&expense), nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, id string, req UpdateExpenseRequest) (ExpenseResponse, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return ExpenseResponse{}, err
	}

	if req.Category != nil {
		expense.Category = *req.Category
	}
	if req.Amount != nil {
		expense.Amount = *req.Amount
	}
	if req.Date != nil {
		date, err := parseExpenseDate(*req.Date)
		if err != nil {
			return ExpenseResponse{}, err
		}
		expense.Date = date
	}
	if req.Note != nil {
		expense.Note = *req.Note
	}

	if err := s.expenseRepo.Update(ctx, expense); err != nil {
		return ExpenseResponse{}, fmt.Errorf("failed to update expense: %w", err)
	}
	return toExpenseResponse(expense), nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, id string) error {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return err
	}
	if err := s.expenseRepo.Delete(ctx, expense.ID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

func (s *expenseService) findExpense(ctx context.Context, id string) (*model.Expense, error) {
	expenseID, err := uuid.Parse(id)
	if err != nil {
		return nil, &apperror.NotFoundError{Entity: "expense", ID: id}
	}
	expense, err := s.expenseRepo.FindByID(ctx, expenseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperror.NotFoundError{Entity: "expense", ID: id}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return expense, nil
}
