package metrics

import "time"

// NilMetricsEngine implements MetricsEngine and discards everything.
// The server code can use this if it doesn't want to export metrics anywhere.
type NilMetricsEngine struct{}

var _ MetricsEngine = &NilMetricsEngine{}

func (me *NilMetricsEngine) RecordConnectionAccept(success bool) {}

func (me *NilMetricsEngine) RecordConnectionClose(success bool) {}

func (me *NilMetricsEngine) RecordRequest(labels Labels) {}

func (me *NilMetricsEngine) RecordRequestTime(labels Labels, length time.Duration) {}

func (me *NilMetricsEngine) RecordImps(labels ImpLabels, count int) {}

func (me *NilMetricsEngine) RecordOutcome(labels OutcomeLabels) {}

func (me *NilMetricsEngine) RecordBidPrice(labels ImpLabels, cpm float64) {}

func (me *NilMetricsEngine) RecordTransportError(errorClass string) {}
