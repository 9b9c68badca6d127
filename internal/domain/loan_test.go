package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeStatus(t *testing.T) {
	due := date(2026, 3, 10)
	lateReturn := date(2026, 3, 12)
	earlyReturn := date(2026, 3, 8)

	tests := []struct {
		name       string
		returnDate *time.Time
		today      time.Time
		want       string
	}{
		{"before due date", nil, date(2026, 3, 5), LoanStatusActive},
		{"on due date", nil, due, LoanStatusActive},
		{"past due date", nil, date(2026, 3, 11), LoanStatusOverdue},
		{"returned on time", &earlyReturn, date(2026, 3, 20), LoanStatusReturned},
		{"returned late stays returned", &lateReturn, date(2026, 3, 20), LoanStatusReturned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loan := &Loan{DueDate: due, ReturnDate: tt.returnDate}
			assert.Equal(t, tt.want, loan.ComputeStatus(tt.today))
		})
	}
}

func TestDaysLate(t *testing.T) {
	due := date(2026, 3, 10)

	t.Run("on time is zero", func(t *testing.T) {
		loan := &Loan{DueDate: due}
		assert.Equal(t, 0, loan.DaysLate(due))
		assert.Equal(t, 0, loan.DaysLate(date(2026, 3, 5)))
	})

	t.Run("open loan counts from today", func(t *testing.T) {
		loan := &Loan{DueDate: due}
		assert.Equal(t, 2, loan.DaysLate(date(2026, 3, 12)))
	})

	t.Run("returned loan counts from return date", func(t *testing.T) {
		returned := date(2026, 3, 13)
		loan := &Loan{DueDate: due, ReturnDate: &returned}
		// today no longer matters once the return is recorded
		assert.Equal(t, 3, loan.DaysLate(date(2026, 4, 1)))
	})
}
