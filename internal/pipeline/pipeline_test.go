package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pipeerrors "avgsales/internal/errors"
	"avgsales/internal/store"
)

// averagesRow mirrors one row of the final Averages table.
type averagesRow struct {
	Store         string
	Item          string
	AvgSalesPc    float64
	AvgSalesRub   float64
	DaysWithData  int64
	TotalSalesRub float64
	TotalSalesPc  float64
	MaxStockPc    float64
}

// newScenarioState opens an in-memory database pre-seeded with raw tables in
// the reference feed layout, so the transformation stages can run without the
// ingestion stages.
func newScenarioState(t *testing.T) *State {
	t.Helper()

	db, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := defaultTestConfig(t)
	cfg.Inputs.LoadFiles = false

	ctx := context.Background()
	ddl := []string{
		`CREATE TABLE parquet_data (final_store_id VARCHAR, final_item_id VARCHAR, dt DATE, stock DOUBLE)`,
		`CREATE TABLE trade_points ("Код склада" VARCHAR, "Тип склада" VARCHAR)`,
		`CREATE TABLE indicators ("Код Склада" VARCHAR, "Код товара" VARCHAR, "Дата" TIMESTAMP,
			"Отгрузки, шт." DOUBLE, "Отгрузки, руб." DOUBLE)`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(ctx, stmt))
	}

	return &State{DB: db, Loader: store.NewLoader(db, nil), Config: cfg}
}

func seed(t *testing.T, state *State, stmts ...string) {
	t.Helper()
	for _, stmt := range stmts {
		require.NoError(t, state.DB.Exec(context.Background(), stmt))
	}
}

func runTransformations(t *testing.T, state *State) {
	t.Helper()

	manager := NewManager(nil, DefaultStages()...)
	require.NoError(t, manager.Run(context.Background(), state))
}

func queryAverages(t *testing.T, state *State) []averagesRow {
	t.Helper()

	rows, err := state.DB.Query(context.Background(),
		`SELECT Store, Item, Avg_sales_pc, Avg_sales_rub, Days_with_data,
		        Total_sales_rub, Total_sales_pc, Max_stock_pc
		 FROM Averages ORDER BY Store, Item`)
	require.NoError(t, err)
	defer rows.Close()

	var result []averagesRow
	for rows.Next() {
		var r averagesRow
		require.NoError(t, rows.Scan(&r.Store, &r.Item, &r.AvgSalesPc, &r.AvgSalesRub,
			&r.DaysWithData, &r.TotalSalesRub, &r.TotalSalesPc, &r.MaxStockPc))
		result = append(result, r)
	}
	require.NoError(t, rows.Err())
	return result
}

// Scenario: one day with both signals positive survives, one all-zero day is
// dropped by the activity filter.
func TestPipeline_Scenario(t *testing.T) {
	state := newScenarioState(t)
	seed(t, state,
		`INSERT INTO trade_points VALUES ('S1', 'Маленький склад')`,
		`INSERT INTO parquet_data VALUES
			('S1', 'I1', DATE '2025-02-01', 5),
			('S1', 'I1', DATE '2025-02-02', 0)`,
		`INSERT INTO indicators VALUES
			('S1', 'I1', TIMESTAMP '2025-02-01 13:45:00', 3, 30)`,
	)

	runTransformations(t, state)

	ctx := context.Background()
	var combined int
	require.NoError(t, state.DB.QueryRow(ctx, "SELECT count(*) FROM combined_view").Scan(&combined))
	assert.Equal(t, 1, combined, "the all-zero day must be dropped")

	result := queryAverages(t, state)
	require.Len(t, result, 1)
	row := result[0]
	assert.Equal(t, "S1", row.Store)
	assert.Equal(t, "I1", row.Item)
	assert.InDelta(t, 3, row.AvgSalesPc, 1e-9)
	assert.InDelta(t, 30, row.AvgSalesRub, 1e-9)
	assert.Equal(t, int64(1), row.DaysWithData)
	assert.InDelta(t, 30, row.TotalSalesRub, 1e-9)
	assert.InDelta(t, 3, row.TotalSalesPc, 1e-9)
	assert.InDelta(t, 5, row.MaxStockPc, 1e-9)
}

// Stores outside the outlet class and dates outside the window contribute
// nothing, on either side of the join.
func TestPipeline_FilterCorrectness(t *testing.T) {
	state := newScenarioState(t)
	seed(t, state,
		`INSERT INTO trade_points VALUES ('S1', 'Маленький склад'), ('S2', 'Большой склад')`,
		`INSERT INTO parquet_data VALUES
			('S1', 'I1', DATE '2025-02-01', 5),
			('S2', 'I1', DATE '2025-02-01', 9),
			('S1', 'I1', DATE '2025-01-13', 7),
			('S1', 'I1', DATE '2025-04-01', 7)`,
		`INSERT INTO indicators VALUES
			('S2', 'I1', TIMESTAMP '2025-02-01 10:00:00', 4, 40),
			('S1', 'I1', TIMESTAMP '2024-12-31 10:00:00', 8, 80)`,
	)

	runTransformations(t, state)

	ctx := context.Background()
	var stocks int
	require.NoError(t, state.DB.QueryRow(ctx, "SELECT count(*) FROM Stocks").Scan(&stocks))
	assert.Equal(t, 1, stocks, "only in-class, in-window stock rows survive")

	var sales int
	require.NoError(t, state.DB.QueryRow(ctx, "SELECT count(*) FROM Sales").Scan(&sales))
	assert.Equal(t, 0, sales, "out-of-class and out-of-window sales are excluded")

	result := queryAverages(t, state)
	require.Len(t, result, 1)
	assert.Equal(t, "S1", result[0].Store)
	assert.InDelta(t, 0, result[0].TotalSalesPc, 1e-9)
	assert.InDelta(t, 5, result[0].MaxStockPc, 1e-9)
}

// Sales present on a day with no stock row still flow through the outer join.
func TestPipeline_OuterJoinKeepsSalesOnlyDays(t *testing.T) {
	state := newScenarioState(t)
	seed(t, state,
		`INSERT INTO trade_points VALUES ('S1', 'Маленький склад')`,
		`INSERT INTO indicators VALUES
			('S1', 'I1', TIMESTAMP '2025-02-01 09:00:00', 2, 20),
			('S1', 'I1', TIMESTAMP '2025-02-01 17:30:00', 4, 40),
			('S1', 'I1', TIMESTAMP '2025-02-03 09:00:00', 6, 60)`,
	)

	runTransformations(t, state)

	result := queryAverages(t, state)
	require.Len(t, result, 1)
	row := result[0]
	// Two calendar days: intra-day rows are summed before averaging
	assert.Equal(t, int64(2), row.DaysWithData)
	assert.InDelta(t, 6, row.AvgSalesPc, 1e-9)
	assert.InDelta(t, 12, row.TotalSalesPc, 1e-9)
	assert.InDelta(t, 120, row.TotalSalesRub, 1e-9)
	assert.InDelta(t, 0, row.MaxStockPc, 1e-9)
}

// Re-running the full transformation chain against unchanged inputs yields an
// identical Averages table: every stage replaces its output wholesale.
func TestPipeline_RerunIdempotence(t *testing.T) {
	state := newScenarioState(t)
	seed(t, state,
		`INSERT INTO trade_points VALUES ('S1', 'Маленький склад')`,
		`INSERT INTO parquet_data VALUES
			('S1', 'I1', DATE '2025-02-01', 5),
			('S1', 'I2', DATE '2025-02-02', 3)`,
		`INSERT INTO indicators VALUES
			('S1', 'I1', TIMESTAMP '2025-02-01 12:00:00', 3, 30)`,
	)

	runTransformations(t, state)
	first := queryAverages(t, state)

	runTransformations(t, state)
	second := queryAverages(t, state)

	assert.Equal(t, first, second)
}

// With loading skipped on a cold store, the first transformation fails with a
// query error because its input table does not exist.
func TestPipeline_ColdStoreWithoutLoad(t *testing.T) {
	db, err := store.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := defaultTestConfig(t)
	cfg.Inputs.LoadFiles = false
	state := &State{DB: db, Loader: store.NewLoader(db, nil), Config: cfg}

	manager := NewManager(nil, DefaultStages()...)
	err = manager.Run(context.Background(), state)

	require.Error(t, err)
	assert.True(t, pipeerrors.IsType(err, pipeerrors.ErrTypeQuery))
	assert.Contains(t, err.Error(), StageIDStockFilter)
}

func TestQueryStage_ValidateRejectsBadTableName(t *testing.T) {
	state := newScenarioState(t)
	state.Config.Tables.Stock = "parquet data; DROP TABLE x"

	err := NewStockFilterStage().Validate(state)
	require.Error(t, err)
	assert.True(t, pipeerrors.IsType(err, pipeerrors.ErrTypeConfig))
}
