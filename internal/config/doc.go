// Package config provides the immutable configuration for a pipeline run.
//
// Configuration is layered: struct-tag defaults, then AVGSALES_* environment
// variables, then an optional YAML file named on the command line. The loaded
// Config is passed explicitly into the loader and the pipeline stages so that
// several pipeline configurations can coexist in tests.
//
// FilterConfig is deliberately a single value shared by the stock filter and
// sales aggregation stages: the outlet-class filter and date window must stay
// in lock-step on both sides for the combiner's join to be meaningful.
package config
