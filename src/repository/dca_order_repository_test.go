package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"dcaexecutor/src/model"
)

func TestFindDue_QueryShape(t *testing.T) {
	mockDB, mock := newMockDB(t)
	repo := &DCAOrderRepository{db: mockDB}

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	due := time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "token_from", "token_to", "amount",
		"frequency", "next_execution", "is_active", "created_at", "updated_at",
	}).AddRow(uint(1), uint(7), "USDC", "WETH", "50",
		model.FrequencyDaily, due, true, due, due)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "dca_orders" WHERE is_active = $1 AND next_execution <= $2 ORDER BY next_execution ASC LIMIT $3`)).
		WithArgs(true, now, 10).
		WillReturnRows(rows)

	orders, err := repo.FindDue(context.Background(), now, 0)
	if err != nil {
		t.Fatalf("unexpected error fetching due orders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 due order, got %d", len(orders))
	}
	if orders[0].TokenFrom != "USDC" || !orders[0].Amount.Equal(d("50")) {
		t.Fatalf("unexpected order: %+v", orders[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

func TestFindDue_OldestFirstAndLimited(t *testing.T) {
	db := newTestDB(t)
	repo := &DCAOrderRepository{db: db}

	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	seed := []model.DCAOrder{
		{UserID: 1, TokenFrom: "USDC", TokenTo: "WETH", Amount: d("10"), Frequency: model.FrequencyDaily, NextExecution: now.Add(-1 * time.Hour), IsActive: true},
		{UserID: 1, TokenFrom: "USDC", TokenTo: "SOL", Amount: d("20"), Frequency: model.FrequencyHourly, NextExecution: now.Add(-3 * time.Hour), IsActive: true},
		{UserID: 2, TokenFrom: "WETH", TokenTo: "SOL", Amount: d("30"), Frequency: model.FrequencyWeekly, NextExecution: now.Add(-2 * time.Hour), IsActive: true},
		{UserID: 2, TokenFrom: "WETH", TokenTo: "USDC", Amount: d("40"), Frequency: model.FrequencyDaily, NextExecution: now.Add(time.Hour), IsActive: true},
		{UserID: 3, TokenFrom: "SOL", TokenTo: "USDC", Amount: d("50"), Frequency: model.FrequencyDaily, NextExecution: now.Add(-4 * time.Hour), IsActive: false},
	}
	for i := range seed {
		if err := db.Create(&seed[i]).Error; err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	// gorm omits zero-value fields carrying a `default` tag, so force the
	// intended inactive state past the column's default:true
	if err := db.Model(&seed[4]).Update("is_active", false).Error; err != nil {
		t.Fatalf("seed state fixup failed: %v", err)
	}

	orders, err := repo.FindDue(context.Background(), now, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected batch of 2, got %d", len(orders))
	}
	// oldest-due first: the -3h order, then the -2h one; the cancelled -4h
	// order must never appear
	if !orders[0].Amount.Equal(d("20")) || !orders[1].Amount.Equal(d("30")) {
		t.Fatalf("wrong ordering: %s then %s", orders[0].Amount, orders[1].Amount)
	}
}

func TestCancel_IsTerminalAndAppendsRecord(t *testing.T) {
	db := newTestDB(t)
	repo := &DCAOrderRepository{db: db}

	order := model.DCAOrder{
		UserID:        5,
		TokenFrom:     "USDC",
		TokenTo:       "WETH",
		Amount:        d("100"),
		Frequency:     model.FrequencyMonthly,
		NextExecution: time.Now().Add(time.Hour),
		IsActive:      true,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if err := repo.Cancel(context.Background(), &order, d("1.5"), d("98.5")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var stored model.DCAOrder
	if err := db.First(&stored, order.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if stored.IsActive {
		t.Fatalf("cancelled order still active")
	}

	var records []model.Transaction
	if err := db.Where("order_id = ?", order.ID).Find(&records).Error; err != nil {
		t.Fatalf("history fetch failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected exactly one cancellation record, got %d", len(records))
	}
	if records[0].Status != model.TxStatusCancelled {
		t.Fatalf("unexpected record status: %s", records[0].Status)
	}
	if !records[0].Amount.Equal(d("98.5")) {
		t.Fatalf("refund figure not carried: %s", records[0].Amount)
	}
}
