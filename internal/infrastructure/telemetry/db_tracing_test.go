package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/erp/ledgerreport/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint
	Name string
}

func openTracedDB(t *testing.T, cfg telemetry.DBTracingConfig) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	require.NoError(t, db.Create(&tracedRow{Name: "Main"}).Error)

	require.NoError(t, telemetry.NewDBTracingPlugin(cfg, zap.NewNop()).RegisterOtelGorm(db))
	return db
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	sr := setupTestTracer(t)
	db := openTracedDB(t, telemetry.DefaultDBTracingConfig())

	var rows []tracedRow
	require.NoError(t, db.WithContext(context.Background()).Find(&rows).Error)
	assert.Empty(t, sr.Ended())
}

func TestDBTracingPlugin_QuerySpans(t *testing.T) {
	sr := setupTestTracer(t)
	db := openTracedDB(t, telemetry.DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Hour,
		DBSystem:        "sqlite",
	})

	ctx, parent := telemetry.StartSpan(context.Background(), "report.project_balance")
	var rows []tracedRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	parent.End()

	require.Len(t, rows, 1)
	var found bool
	for _, s := range sr.Ended() {
		if s.Parent().SpanID() == parent.SpanContext().SpanID() {
			found = true
			_, slow := attrValue(s.Attributes(), "db.slow_query")
			assert.False(t, slow)
		}
	}
	assert.True(t, found, "query span should be a child of the report span")
}
