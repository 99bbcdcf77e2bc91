// Package errortypes classifies the errors produced while bridging a header-bidding
// auction to the exchange. Fatal errors leave the affected slots without a bid.
// Warnings report data that was dropped while the outcome was still produced.
package errortypes

// Kind identifies the class of an error. Warning kinds start at 10000.
type Kind int

const (
	KindUnknown Kind = iota
	KindTimeout
	KindBadInput
	KindBadServerResponse
	KindFailedToRequestBids
)

const (
	KindUnknownWarning Kind = iota + 10000
	KindNoValidImpressions
	KindUnknownMediaType
	KindInvalidNativeMarkup
	KindOpaqueResponse
)

var kindNames = map[Kind]string{
	KindUnknown:             "unknown",
	KindTimeout:             "timeout",
	KindBadInput:            "bad_input",
	KindBadServerResponse:   "bad_server_response",
	KindFailedToRequestBids: "failed_to_request_bids",
	KindUnknownWarning:      "unknown_warning",
	KindNoValidImpressions:  "no_valid_impressions",
	KindUnknownMediaType:    "unknown_media_type",
	KindInvalidNativeMarkup: "invalid_native_markup",
	KindOpaqueResponse:      "opaque_response",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// IsWarning reports whether errors of this kind leave the outcome intact.
func (k Kind) IsWarning() bool {
	return k >= KindUnknownWarning
}

// Classified is implemented by every error type in this package.
type Classified interface {
	error
	Kind() Kind
}

// KindOf returns the kind of err, or KindUnknown for errors from other packages.
func KindOf(err error) Kind {
	if c, ok := err.(Classified); ok {
		return c.Kind()
	}
	return KindUnknown
}

// IsWarning reports whether err is a Warning. Unclassified errors count as fatal.
func IsWarning(err error) bool {
	return KindOf(err).IsWarning()
}

// ContainsFatalError reports whether any error in errs is fatal.
func ContainsFatalError(errs []error) bool {
	for _, err := range errs {
		if !IsWarning(err) {
			return true
		}
	}
	return false
}

// Split separates errs into fatal errors and warnings, preserving order.
func Split(errs []error) (fatal []error, warnings []error) {
	for _, err := range errs {
		if IsWarning(err) {
			warnings = append(warnings, err)
		} else {
			fatal = append(fatal, err)
		}
	}
	return fatal, warnings
}

// Timeout means the exchange did not answer before the auction deadline.
type Timeout struct {
	Message string
}

func (err *Timeout) Error() string { return err.Message }
func (err *Timeout) Kind() Kind    { return KindTimeout }

// BadInput means a bid slot could not be translated because of what the host sent,
// such as an unsupported media type or a missing required field. It rejects one slot
// and never aborts the auction.
type BadInput struct {
	Message string
}

func (err *BadInput) Error() string { return err.Message }
func (err *BadInput) Kind() Kind    { return KindBadInput }

// BadServerResponse covers a non-2xx status or an undecodable body from the exchange.
// Connection failures are FailedToRequestBids.
type BadServerResponse struct {
	Message string
}

func (err *BadServerResponse) Error() string { return err.Message }
func (err *BadServerResponse) Kind() Kind    { return KindBadServerResponse }

// FailedToRequestBids means the exchange request could not be built or sent.
type FailedToRequestBids struct {
	Message string
}

func (err *FailedToRequestBids) Error() string { return err.Message }
func (err *FailedToRequestBids) Kind() Kind    { return KindFailedToRequestBids }

// Warning is the only non-fatal error type.
type Warning struct {
	Message     string
	WarningKind Kind
}

func (err *Warning) Error() string { return err.Message }

func (err *Warning) Kind() Kind {
	if !err.WarningKind.IsWarning() {
		return KindUnknownWarning
	}
	return err.WarningKind
}
