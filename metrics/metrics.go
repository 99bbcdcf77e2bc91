package metrics

import (
	"time"
)

// Labels defines the labels that can be attached to auction-level metrics.
type Labels struct {
	RequestStatus RequestStatus
}

// ImpLabels defines metric labels describing the impression type.
type ImpLabels struct {
	MediaType string
}

// OutcomeLabels defines metric labels describing the outcome pushed for a bid slot.
type OutcomeLabels struct {
	Status       OutcomeStatus
	RejectReason RejectReason
}

// RequestStatus : The request return status
type RequestStatus string

const (
	RequestStatusOK             RequestStatus = "ok"
	RequestStatusNoValidImps    RequestStatus = "no_valid_imps"
	RequestStatusTransportError RequestStatus = "transport_error"
	RequestStatusBadInput       RequestStatus = "bad_input"
)

func RequestStatuses() []RequestStatus {
	return []RequestStatus{
		RequestStatusOK,
		RequestStatusNoValidImps,
		RequestStatusTransportError,
		RequestStatusBadInput,
	}
}

// OutcomeStatus mirrors the bid status handed to the host framework.
type OutcomeStatus string

const (
	OutcomeBid   OutcomeStatus = "bid"
	OutcomeNoBid OutcomeStatus = "no_bid"
)

func OutcomeStatuses() []OutcomeStatus {
	return []OutcomeStatus{
		OutcomeBid,
		OutcomeNoBid,
	}
}

// RejectReason groups free-text rejection reasons into a bounded label set.
type RejectReason string

const (
	RejectReasonNone              RejectReason = "none"
	RejectReasonInvalidSlot       RejectReason = "invalid_slot"
	RejectReasonTransportError    RejectReason = "transport_error"
	RejectReasonMissingInResponse RejectReason = "missing_in_response"
)

func RejectReasons() []RejectReason {
	return []RejectReason{
		RejectReasonNone,
		RejectReasonInvalidSlot,
		RejectReasonTransportError,
		RejectReasonMissingInResponse,
	}
}

// MetricsEngine is a generic interface to record metrics into the desired backend
type MetricsEngine interface {
	RecordConnectionAccept(success bool)
	RecordConnectionClose(success bool)
	RecordRequest(labels Labels)
	RecordRequestTime(labels Labels, length time.Duration)
	RecordImps(labels ImpLabels, count int)
	RecordOutcome(labels OutcomeLabels)
	RecordBidPrice(labels ImpLabels, cpm float64)
	RecordTransportError(errorClass string)
}
