package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"dcaexecutor/src/connectors"
	"dcaexecutor/src/database"
	"dcaexecutor/src/model"
	"dcaexecutor/src/repository"
	"dcaexecutor/src/scheduler"
	"dcaexecutor/src/sync"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.AutoMigrateModels(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return gdb
}

func newControlFixture(t *testing.T, feedBody string, feedStatus int) (*sync.Engine, *scheduler.Scheduler) {
	t.Helper()

	gdb := newTestDB(t)
	if err := gdb.Create(&model.Gateway{Name: "Uniswap V2", Slug: "uniswap-v2"}).Error; err != nil {
		t.Fatalf("failed to seed gateway: %v", err)
	}

	feedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(feedStatus)
		_, _ = w.Write([]byte(feedBody))
	}))
	t.Cleanup(feedSrv.Close)

	engine := sync.New(
		connectors.NewFeedClient(feedSrv.URL, 2*time.Second),
		(&repository.GatewayRepository{}).WithDB(gdb),
		(&repository.TokenRepository{}).WithDB(gdb),
		(&repository.TradingPairRepository{}).WithDB(gdb),
		"uniswap-v2",
		decimal.NewFromInt(1),
	)
	sched := scheduler.New(
		(&repository.DCAOrderRepository{}).WithDB(gdb),
		(&repository.TransactionRepository{}).WithDB(gdb),
		scheduler.NewSimulatedSettlement(),
		10,
	)
	return engine, sched
}

func TestRunSyncHandler_ReturnsResultJSON(t *testing.T) {
	engine, _ := newControlFixture(t, `{"tokens":{},"pairs":[]}`, http.StatusOK)

	rec := httptest.NewRecorder()
	runSyncHandler(engine)(rec, httptest.NewRequest(http.MethodPost, "/sync", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result sync.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	assert.False(t, result.Skipped)
	assert.Equal(t, 0, result.Updated)
}

func TestRunSyncHandler_FeedDown502(t *testing.T) {
	engine, _ := newControlFixture(t, `upstream broken`, http.StatusBadGateway)

	rec := httptest.NewRecorder()
	runSyncHandler(engine)(rec, httptest.NewRequest(http.MethodPost, "/sync", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	assert.Contains(t, body["error"], "liquidity feed unavailable")
}

func TestRunTickHandler_Returns202(t *testing.T) {
	_, sched := newControlFixture(t, `{"tokens":{},"pairs":[]}`, http.StatusOK)

	rec := httptest.NewRecorder()
	runTickHandler(sched)(rec, httptest.NewRequest(http.MethodPost, "/scheduler/tick", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	assert.Equal(t, "ok", body["status"])
}
