package pipeline

import (
	"fmt"

	"avgsales/internal/config"
	"avgsales/internal/store"
)

// Derived tables owned by the pipeline. Replaced wholesale on every run.
const (
	TableStocks   = "Stocks"
	TableSales    = "Sales"
	TableAverages = "Averages"
	ViewCombined  = "combined_view"
)

// eligibleStoresSubquery selects the store identifiers belonging to the
// target outlet class. Both the stock filter and the sales aggregation embed
// this same subquery, which keeps the two sides of the later join scoped to
// an identical store set.
func eligibleStoresSubquery(cfg *config.Config) string {
	return fmt.Sprintf(`SELECT %s
        FROM %s
        WHERE %s = %s`,
		store.QuoteIdent(cfg.Schema.DirStore),
		cfg.Tables.TradePoints,
		store.QuoteIdent(cfg.Schema.DirClass),
		store.QuoteString(cfg.Filter.OutletClass))
}

// stockFilterSQL derives Stocks: on-hand rows for eligible stores inside the
// report window, renamed to the stable Store/Item/Dt/Stock_pc schema.
func stockFilterSQL(cfg *config.Config) string {
	return fmt.Sprintf(`CREATE OR REPLACE TABLE %s AS
    SELECT
        %s AS Store,
        %s AS Item,
        %s AS Dt,
        %s AS Stock_pc
    FROM %s
    WHERE %s IN (
        %s
    )
    AND %s BETWEEN %s AND %s`,
		TableStocks,
		store.QuoteIdent(cfg.Schema.StockStore),
		store.QuoteIdent(cfg.Schema.StockItem),
		store.QuoteIdent(cfg.Schema.StockDate),
		store.QuoteIdent(cfg.Schema.StockQty),
		cfg.Tables.Stock,
		store.QuoteIdent(cfg.Schema.StockStore),
		eligibleStoresSubquery(cfg),
		store.QuoteIdent(cfg.Schema.StockDate),
		store.QuoteString(cfg.Filter.StartDate),
		store.QuoteString(cfg.Filter.EndDate))
}

// salesAggregationSQL derives Sales: per (store, item, day) sums of shipped
// units and currency from the raw indicator feed, under the same outlet-class
// and window filter as the stock side. Timestamps are cast to pure dates.
func salesAggregationSQL(cfg *config.Config) string {
	dateExpr := store.QuoteIdent(cfg.Schema.SalesDate) + "::DATE"
	return fmt.Sprintf(`CREATE OR REPLACE TABLE %s AS
    SELECT
        %s AS Store,
        %s AS Item,
        %s AS Dt,
        SUM(%s) AS Sales_pc,
        SUM(%s) AS Sales_rub
    FROM %s
    WHERE %s IN (
        %s
    )
    AND %s BETWEEN %s AND %s
    GROUP BY 1, 2, 3`,
		TableSales,
		store.QuoteIdent(cfg.Schema.SalesStore),
		store.QuoteIdent(cfg.Schema.SalesItem),
		dateExpr,
		store.QuoteIdent(cfg.Schema.SalesUnits),
		store.QuoteIdent(cfg.Schema.SalesAmount),
		cfg.Tables.Indicators,
		store.QuoteIdent(cfg.Schema.SalesStore),
		eligibleStoresSubquery(cfg),
		dateExpr,
		store.QuoteString(cfg.Filter.StartDate),
		store.QuoteString(cfg.Filter.EndDate))
}

// combinerSQL derives the transient combined view: a full outer join of Sales
// and Stocks on (Dt, Store, Item), nulls coalesced to zero, all-zero rows
// dropped. The activity filter tests the pre-coalesce columns; a row survives
// only if one side contributed a strictly positive signal.
func combinerSQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE TEMP VIEW %s AS
    SELECT
        COALESCE(s.Dt, st.Dt) AS Dt,
        COALESCE(s.Store, st.Store) AS Store,
        COALESCE(s.Item, st.Item) AS Item,
        COALESCE(s.Sales_pc, 0) AS Sales_pc,
        COALESCE(s.Sales_rub, 0) AS Sales_rub,
        COALESCE(st.Stock_pc, 0) AS Stock_pc
    FROM %s s
    FULL OUTER JOIN %s st
        ON s.Dt = st.Dt AND s.Store = st.Store AND s.Item = st.Item
    WHERE s.Sales_pc > 0 OR st.Stock_pc > 0`,
		ViewCombined, TableSales, TableStocks)
}

// averagingSQL derives the final Averages table: per (store, item) means,
// totals, contributing-day count, and maximum observed stock. The mean is
// conditional on recorded activity; days dropped by the combiner's activity
// filter do not dilute it. No ordering: output order carries no meaning.
func averagingSQL() string {
	return fmt.Sprintf(`CREATE OR REPLACE TABLE %s AS
    SELECT
        Store,
        Item,
        AVG(Sales_pc)  AS Avg_sales_pc,
        AVG(Sales_rub) AS Avg_sales_rub,
        COUNT(*)       AS Days_with_data,
        SUM(Sales_rub) AS Total_sales_rub,
        SUM(Sales_pc)  AS Total_sales_pc,
        MAX(Stock_pc)  AS Max_stock_pc
    FROM %s
    GROUP BY Store, Item`,
		TableAverages, ViewCombined)
}
