package metrics

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MetricsEngineMock is mock for the MetricsEngine interface
type MetricsEngineMock struct {
	mock.Mock
}

// RecordConnectionAccept mock
func (me *MetricsEngineMock) RecordConnectionAccept(success bool) {
	me.Called(success)
}

// RecordConnectionClose mock
func (me *MetricsEngineMock) RecordConnectionClose(success bool) {
	me.Called(success)
}

// RecordRequest mock
func (me *MetricsEngineMock) RecordRequest(labels Labels) {
	me.Called(labels)
}

// RecordRequestTime mock
func (me *MetricsEngineMock) RecordRequestTime(labels Labels, length time.Duration) {
	me.Called(labels, length)
}

// RecordImps mock
func (me *MetricsEngineMock) RecordImps(labels ImpLabels, count int) {
	me.Called(labels, count)
}

// RecordOutcome mock
func (me *MetricsEngineMock) RecordOutcome(labels OutcomeLabels) {
	me.Called(labels)
}

// RecordBidPrice mock
func (me *MetricsEngineMock) RecordBidPrice(labels ImpLabels, cpm float64) {
	me.Called(labels, cpm)
}

// RecordTransportError mock
func (me *MetricsEngineMock) RecordTransportError(errorClass string) {
	me.Called(errorClass)
}
