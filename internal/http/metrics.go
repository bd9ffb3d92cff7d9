package http

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

// counters tracks request totals for the plain-text metrics endpoint.
type counters struct {
	requestsTotal       atomic.Int64
	requestErrors       atomic.Int64
	transactionsCreated atomic.Int64
	rateLimited         atomic.Int64
	cacheHits           atomic.Int64
	cacheMisses         atomic.Int64
}

func (c *counters) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "http_requests_total %d\n", c.requestsTotal.Load())
	fmt.Fprintf(w, "http_request_errors_total %d\n", c.requestErrors.Load())
	fmt.Fprintf(w, "transactions_created_total %d\n", c.transactionsCreated.Load())
	fmt.Fprintf(w, "rate_limited_total %d\n", c.rateLimited.Load())
	fmt.Fprintf(w, "cache_hits_total %d\n", c.cacheHits.Load())
	fmt.Fprintf(w, "cache_misses_total %d\n", c.cacheMisses.Load())
}
