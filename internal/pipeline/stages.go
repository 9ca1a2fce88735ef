package pipeline

import (
	"context"
	"log/slog"

	pipeerrors "avgsales/internal/errors"
	"avgsales/internal/store"
)

// Stage identifiers
const (
	StageIDLoadStock       = "load_stock"
	StageIDLoadTradePoints = "load_trade_points"
	StageIDLoadIndicators  = "load_indicators"
	StageIDStockFilter     = "stock_filter"
	StageIDSalesAggregate  = "sales_aggregate"
	StageIDCombine         = "combine"
	StageIDAverage         = "average"
)

// loadStage ingests one group of source files. All three load stages are
// skipped together when the run is configured to reuse tables from a prior
// ingestion (inputs.load_files=false).
type loadStage struct {
	baseStage
	request func(state *State) store.LoadRequest
}

func (s *loadStage) ShouldRun(state *State) (bool, string) {
	if !state.Config.Inputs.LoadFiles {
		return false, "file loading disabled, reusing previously loaded tables"
	}
	return true, ""
}

func (s *loadStage) Validate(state *State) error {
	if err := s.baseStage.Validate(state); err != nil {
		return err
	}
	if state.Loader == nil {
		return pipeerrors.ConfigInvalid("no loader in pipeline state", nil)
	}
	return nil
}

func (s *loadStage) Execute(ctx context.Context, state *State) error {
	return state.Loader.Load(ctx, s.request(state))
}

// NewLoadStockStage ingests the stock feed parts into the raw stock table.
func NewLoadStockStage() Stage {
	return &loadStage{
		baseStage: baseStage{id: StageIDLoadStock, name: "Stock Feed Ingestion"},
		request: func(state *State) store.LoadRequest {
			return store.LoadRequest{
				Paths:     state.Config.Inputs.StockFiles,
				Table:     state.Config.Tables.Stock,
				Format:    store.FormatParquet,
				Overwrite: true,
			}
		},
	}
}

// NewLoadTradePointsStage ingests the trade-point directory.
func NewLoadTradePointsStage() Stage {
	return &loadStage{
		baseStage: baseStage{id: StageIDLoadTradePoints, name: "Trade Point Directory Ingestion"},
		request: func(state *State) store.LoadRequest {
			return store.LoadRequest{
				Paths:     []string{state.Config.Inputs.TradePointsFile},
				Table:     state.Config.Tables.TradePoints,
				Format:    store.FormatCSV,
				Overwrite: true,
			}
		},
	}
}

// NewLoadIndicatorsStage ingests the indicator feed parts.
func NewLoadIndicatorsStage() Stage {
	return &loadStage{
		baseStage: baseStage{id: StageIDLoadIndicators, name: "Indicator Feed Ingestion"},
		request: func(state *State) store.LoadRequest {
			return store.LoadRequest{
				Paths:     state.Config.Inputs.IndicatorFiles,
				Table:     state.Config.Tables.Indicators,
				Format:    store.FormatParquet,
				Overwrite: true,
			}
		},
	}
}

// queryStage executes one derived-table transformation. The SQL is built per
// run from configuration; any engine failure is terminal.
type queryStage struct {
	baseStage
	buildSQL func(state *State) string
	// rawTables are the configurable input table names the statement
	// interpolates; they must pass the identifier allow-list.
	rawTables func(state *State) []string
}

func (s *queryStage) Validate(state *State) error {
	if err := s.baseStage.Validate(state); err != nil {
		return err
	}
	if s.rawTables != nil {
		for _, table := range s.rawTables(state) {
			if err := store.ValidateTableName(table); err != nil {
				return pipeerrors.ConfigInvalid("invalid source table name", err)
			}
		}
	}
	return nil
}

func (s *queryStage) Execute(ctx context.Context, state *State) error {
	logger := state.Logger
	if logger == nil {
		logger = slog.Default()
	}
	query := s.buildSQL(state)
	logger.Debug("executing transformation", slog.String("stage", s.id))
	if err := state.DB.Exec(ctx, query); err != nil {
		return pipeerrors.QueryFailed(s.id, err)
	}
	return nil
}

// NewStockFilterStage derives the Stocks table.
func NewStockFilterStage() Stage {
	return &queryStage{
		baseStage: baseStage{id: StageIDStockFilter, name: "Stock Filtering"},
		buildSQL:  func(state *State) string { return stockFilterSQL(state.Config) },
		rawTables: func(state *State) []string {
			return []string{state.Config.Tables.Stock, state.Config.Tables.TradePoints}
		},
	}
}

// NewSalesAggregationStage derives the Sales table.
func NewSalesAggregationStage() Stage {
	return &queryStage{
		baseStage: baseStage{id: StageIDSalesAggregate, name: "Sales Aggregation"},
		buildSQL:  func(state *State) string { return salesAggregationSQL(state.Config) },
		rawTables: func(state *State) []string {
			return []string{state.Config.Tables.Indicators, state.Config.Tables.TradePoints}
		},
	}
}

// NewCombinerStage derives the transient combined view.
func NewCombinerStage() Stage {
	return &queryStage{
		baseStage: baseStage{id: StageIDCombine, name: "Sales/Stock Combination"},
		buildSQL:  func(state *State) string { return combinerSQL() },
	}
}

// NewAveragingStage derives the final Averages table.
func NewAveragingStage() Stage {
	return &queryStage{
		baseStage: baseStage{id: StageIDAverage, name: "Average Calculation"},
		buildSQL:  func(state *State) string { return averagingSQL() },
	}
}

// DefaultStages returns the full pipeline in execution order. Ordering is a
// correctness requirement: each stage reads the table the previous one wrote.
func DefaultStages() []Stage {
	return []Stage{
		NewLoadStockStage(),
		NewLoadTradePointsStage(),
		NewLoadIndicatorsStage(),
		NewStockFilterStage(),
		NewSalesAggregationStage(),
		NewCombinerStage(),
		NewAveragingStage(),
	}
}
