// Package pipeline implements the average-sales report pipeline: three bulk
// ingestion stages (stock feed, trade-point directory, indicator feed)
// followed by four SQL transformations run in strict order against the
// embedded database.
//
//	Stocks        — stock rows for eligible stores inside the report window
//	Sales         — per (store, item, day) sums of shipped units and currency
//	combined_view — full outer join of the two, zeros coalesced, dead rows dropped
//	Averages      — per (store, item) means, totals, day count, max stock
//
// Every derived table is replaced wholesale each run (CREATE OR REPLACE), so
// a rerun after an interrupted run is self-healing. The outlet-class filter
// and date window are read from one shared config.FilterConfig so the stock
// and sales sides can never drift apart.
package pipeline
