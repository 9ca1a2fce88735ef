package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// DateLayout is the calendar-date layout used for the report window.
const DateLayout = "2006-01-02"

// Config represents the complete pipeline configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" envconfig:"DATABASE"`
	Inputs   InputsConfig   `yaml:"inputs" envconfig:"INPUTS"`
	Tables   TablesConfig   `yaml:"tables" envconfig:"TABLES"`
	Schema   SchemaConfig   `yaml:"schema" envconfig:"SCHEMA"`
	Filter   FilterConfig   `yaml:"filter" envconfig:"FILTER"`
	Export   ExportConfig   `yaml:"export" envconfig:"EXPORT"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// DatabaseConfig locates the embedded analytical database file. The file is
// opened exclusively by one run; concurrent runs are not supported.
type DatabaseConfig struct {
	Path string `yaml:"path" envconfig:"PATH" default:"analysis.db" validate:"required"`
}

// InputsConfig lists the source extracts to ingest. LoadFiles selects whether
// ingestion is (re)performed or the pipeline proceeds against tables already
// present from a prior run.
type InputsConfig struct {
	StockFiles      []string `yaml:"stock_files" envconfig:"STOCK_FILES" default:"static/data_part_1.parquet,static/data_part_2.parquet,static/data_part_3.parquet,static/data_part_4.parquet,static/data_part_5.parquet" validate:"min=1"`
	TradePointsFile string   `yaml:"trade_points_file" envconfig:"TRADE_POINTS_FILE" default:"static/Справочник ТТ.csv" validate:"required"`
	IndicatorFiles  []string `yaml:"indicator_files" envconfig:"INDICATOR_FILES" default:"static/Данные по показателям_1.parquet,static/Данные по показателям_2.parquet,static/Данные по показателям_3.parquet,static/Данные по показателям_4.parquet,static/Данные по показателям_5.parquet" validate:"min=1"`
	LoadFiles       bool     `yaml:"load_files" envconfig:"LOAD_FILES" default:"true"`
}

// TablesConfig names the raw ingestion tables. Derived tables (Stocks, Sales,
// Averages) are owned by the pipeline stages and are not configurable.
type TablesConfig struct {
	Stock       string `yaml:"stock" envconfig:"STOCK" default:"parquet_data" validate:"required"`
	TradePoints string `yaml:"trade_points" envconfig:"TRADE_POINTS" default:"trade_points" validate:"required"`
	Indicators  string `yaml:"indicators" envconfig:"INDICATORS" default:"indicators" validate:"required"`
}

// SchemaConfig maps the source extracts' column names. Defaults match the
// reference feeds, which carry Russian column headers.
type SchemaConfig struct {
	StockStore string `yaml:"stock_store" envconfig:"STOCK_STORE" default:"final_store_id" validate:"required"`
	StockItem  string `yaml:"stock_item" envconfig:"STOCK_ITEM" default:"final_item_id" validate:"required"`
	StockDate  string `yaml:"stock_date" envconfig:"STOCK_DATE" default:"dt" validate:"required"`
	StockQty   string `yaml:"stock_qty" envconfig:"STOCK_QTY" default:"stock" validate:"required"`

	DirStore string `yaml:"dir_store" envconfig:"DIR_STORE" default:"Код склада" validate:"required"`
	DirClass string `yaml:"dir_class" envconfig:"DIR_CLASS" default:"Тип склада" validate:"required"`

	SalesStore  string `yaml:"sales_store" envconfig:"SALES_STORE" default:"Код Склада" validate:"required"`
	SalesItem   string `yaml:"sales_item" envconfig:"SALES_ITEM" default:"Код товара" validate:"required"`
	SalesDate   string `yaml:"sales_date" envconfig:"SALES_DATE" default:"Дата" validate:"required"`
	SalesUnits  string `yaml:"sales_units" envconfig:"SALES_UNITS" default:"Отгрузки, шт." validate:"required"`
	SalesAmount string `yaml:"sales_amount" envconfig:"SALES_AMOUNT" default:"Отгрузки, руб." validate:"required"`
}

// FilterConfig is the single shared definition of the outlet-class filter and
// the report date window. Both the stock filter stage and the sales
// aggregation stage consume this one value; the join in the combiner is only
// meaningful because the two sides are scoped identically.
type FilterConfig struct {
	OutletClass string `yaml:"outlet_class" envconfig:"OUTLET_CLASS" default:"Маленький склад" validate:"required"`
	StartDate   string `yaml:"start_date" envconfig:"START_DATE" default:"2025-01-14" validate:"required,datetime=2006-01-02"`
	EndDate     string `yaml:"end_date" envconfig:"END_DATE" default:"2025-03-31" validate:"required,datetime=2006-01-02"`
}

// ExportConfig controls the report output. The delimiter/quote/header
// defaults are fixed formatting expected by downstream consumers.
type ExportConfig struct {
	OutputDir  string `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"." validate:"required"`
	FilePrefix string `yaml:"file_prefix" envconfig:"FILE_PREFIX" default:"avg_sales" validate:"required"`
	Delimiter  string `yaml:"delimiter" envconfig:"DELIMITER" default:";" validate:"required,len=1"`
	Quote      string `yaml:"quote" envconfig:"QUOTE" default:"\"" validate:"required,len=1"`
	Header     bool   `yaml:"header" envconfig:"HEADER" default:"true"`
	XLSX       bool   `yaml:"xlsx" envconfig:"XLSX" default:"false"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/avgsales.log"`
}

// Load builds the configuration in layers: struct-tag defaults, then
// AVGSALES_* environment variables, then the optional YAML file. A config
// file named explicitly on the command line is the strongest layer.
func Load(configFile string) (*Config, error) {
	var cfg Config

	// Defaults from struct tags plus environment overrides
	if err := envconfig.Process("AVGSALES", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Overlay from config file if given; unset keys keep their values
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks structural constraints and the window ordering.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	start, err := time.Parse(DateLayout, c.Filter.StartDate)
	if err != nil {
		return fmt.Errorf("invalid filter start date %q: %w", c.Filter.StartDate, err)
	}
	end, err := time.Parse(DateLayout, c.Filter.EndDate)
	if err != nil {
		return fmt.Errorf("invalid filter end date %q: %w", c.Filter.EndDate, err)
	}
	if end.Before(start) {
		return fmt.Errorf("filter end date %s precedes start date %s", c.Filter.EndDate, c.Filter.StartDate)
	}
	return nil
}
