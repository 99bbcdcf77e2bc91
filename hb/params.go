package hb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

var jsonNull = []byte("null")

// RawParams is a decoded JSON object whose values are kept verbatim.
type RawParams map[string]json.RawMessage

// Has reports whether key is present with a non-null value.
func (p RawParams) Has(key string) bool {
	value, ok := p[key]
	return ok && !isNull(value)
}

// Pick returns the present, non-null values for the given keys.
func (p RawParams) Pick(keys []string) RawParams {
	picked := make(RawParams, len(keys))
	for _, key := range keys {
		if p.Has(key) {
			picked[key] = p[key]
		}
	}
	return picked
}

func isNull(value json.RawMessage) bool {
	return len(value) == 0 || bytes.Equal(bytes.TrimSpace(value), jsonNull)
}

// BidderParams are the exchange-specific parameters of a bid slot.
//
// Decoding never fails on a wrongly typed value: the field is left unset and the
// problem is kept for Err, so one bad slot cannot spoil the whole auction.
type BidderParams struct {
	BidFloor    *float64
	BidFloorCur *string
	Instl       *int8
	Video       *VideoParams
	Native      *NativeFormatParams

	// Raw keeps every key as sent, for emptiness checks and verbatim passthroughs.
	Raw RawParams

	err error
}

func (p *BidderParams) UnmarshalJSON(b []byte) error {
	var raw RawParams
	if err := json.Unmarshal(b, &raw); err != nil {
		*p = BidderParams{err: fmt.Errorf("expected an object, got %s", b)}
		return nil
	}

	params := BidderParams{Raw: raw}
	d := fieldDecoder{raw: raw}
	params.BidFloor = d.float("bidFloor")
	params.BidFloorCur = d.text("bidFloorCur")
	if instl := d.integer("instl"); instl != nil {
		if *instl < math.MinInt8 || *instl > math.MaxInt8 {
			d.fail("instl", fmt.Errorf("%d is out of range", *instl))
		} else {
			value := int8(*instl)
			params.Instl = &value
		}
	}
	if raw.Has("video") {
		params.Video = &VideoParams{}
		d.nested("video", params.Video, func() error { return params.Video.err })
	}
	if raw.Has("native") {
		params.Native = &NativeFormatParams{}
		d.nested("native", params.Native, func() error { return params.Native.err })
	}

	params.err = d.err
	*p = params
	return nil
}

func (p BidderParams) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Raw)
}

// IsEmpty reports whether the slot carried no bidder parameters at all.
func (p *BidderParams) IsEmpty() bool {
	return p == nil || (len(p.Raw) == 0 && p.err == nil)
}

// Err returns the first parameter whose value could not be decoded, prefixed by its key.
func (p *BidderParams) Err() error {
	if p == nil {
		return nil
	}
	return p.err
}

// VideoParams is the "video" sub-object of the bidder parameters.
type VideoParams struct {
	// MIMEs is nil when the key is absent.
	MIMEs []string
	// Protocols is nil when the key is absent. A single value is normalized to a one-element list.
	// Elements are protocol names, numeric strings or numbers.
	Protocols []any
	// Skippable is nil when the key is absent.
	Skippable *bool

	Raw RawParams

	err error
}

func (v *VideoParams) UnmarshalJSON(b []byte) error {
	var raw RawParams
	if err := json.Unmarshal(b, &raw); err != nil {
		*v = VideoParams{err: fmt.Errorf("expected an object, got %s", b)}
		return nil
	}

	params := VideoParams{Raw: raw}
	d := fieldDecoder{raw: raw}
	if raw.Has("mimes") {
		mimes, err := decodeStringOrList(raw["mimes"])
		if err != nil {
			d.fail("mimes", err)
		} else {
			params.MIMEs = mimes
		}
	}
	if raw.Has("protocols") {
		var protocols any
		if err := json.Unmarshal(raw["protocols"], &protocols); err != nil {
			d.fail("protocols", err)
		} else if list, ok := protocols.([]any); ok {
			params.Protocols = list
		} else {
			params.Protocols = []any{protocols}
		}
	}
	if raw.Has("skippable") {
		skippable, err := decodeFlag(raw["skippable"])
		if err != nil {
			d.fail("skippable", err)
		} else {
			params.Skippable = &skippable
		}
	}

	params.err = d.err
	*v = params
	return nil
}

func (v VideoParams) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Raw)
}

// NativeFormatParams is the "native" sub-object of the bidder parameters.
type NativeFormatParams struct {
	Context        *int64
	ContextSubType *int64
	PlacementType  *int64

	Raw RawParams

	err error
}

func (n *NativeFormatParams) UnmarshalJSON(b []byte) error {
	var raw RawParams
	if err := json.Unmarshal(b, &raw); err != nil {
		*n = NativeFormatParams{err: fmt.Errorf("expected an object, got %s", b)}
		return nil
	}

	params := NativeFormatParams{Raw: raw}
	d := fieldDecoder{raw: raw}
	params.Context = d.integer("context")
	params.ContextSubType = d.integer("contextSubType")
	params.PlacementType = d.integer("placementType")

	params.err = d.err
	*n = params
	return nil
}

func (n NativeFormatParams) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Raw)
}

// fieldDecoder reads typed values out of a parameter object and remembers the
// first one that did not fit.
type fieldDecoder struct {
	raw RawParams
	err error
}

func (d *fieldDecoder) fail(key string, err error) {
	if d.err == nil {
		d.err = fmt.Errorf("%s: %v", key, err)
	}
}

func (d *fieldDecoder) float(key string) *float64 {
	value, err := decodeFloat(d.raw[key])
	if err != nil {
		d.fail(key, err)
		return nil
	}
	return value
}

func (d *fieldDecoder) text(key string) *string {
	if !d.raw.Has(key) {
		return nil
	}
	var text string
	if err := json.Unmarshal(d.raw[key], &text); err != nil {
		d.fail(key, fmt.Errorf("expected a string, got %s", d.raw[key]))
		return nil
	}
	return &text
}

func (d *fieldDecoder) integer(key string) *int64 {
	if !d.raw.Has(key) {
		return nil
	}
	var number float64
	if err := json.Unmarshal(d.raw[key], &number); err != nil || number != math.Trunc(number) {
		d.fail(key, fmt.Errorf("expected an integer, got %s", d.raw[key]))
		return nil
	}
	value := int64(number)
	return &value
}

// nested decodes an object-valued parameter into target and surfaces its own field error.
func (d *fieldDecoder) nested(key string, target json.Unmarshaler, nestedErr func() error) {
	if err := target.UnmarshalJSON(d.raw[key]); err != nil {
		d.fail(key, err)
		return
	}
	if err := nestedErr(); err != nil {
		d.fail(key, err)
	}
}

// NativeAssetParams describes one requested native asset.
type NativeAssetParams struct {
	Required bool  `json:"required,omitempty"`
	Len      int64 `json:"len,omitempty"`
}

// NativeParams are the native capability parameters declared on the slot itself.
type NativeParams struct {
	// Type is the shorthand discriminator, e.g. "image".
	Type        string             `json:"type,omitempty"`
	Title       *NativeAssetParams `json:"title,omitempty"`
	Image       *NativeAssetParams `json:"image,omitempty"`
	SponsoredBy *NativeAssetParams `json:"sponsoredBy,omitempty"`
	ClickURL    *NativeAssetParams `json:"clickUrl,omitempty"`
	Body        *NativeAssetParams `json:"body,omitempty"`
	Icon        *NativeAssetParams `json:"icon,omitempty"`

	keys int
}

func (n *NativeParams) UnmarshalJSON(b []byte) error {
	var raw RawParams
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	type nativeParams NativeParams
	var params nativeParams
	if err := json.Unmarshal(b, &params); err != nil {
		return err
	}
	params.keys = len(raw)

	*n = NativeParams(params)
	return nil
}

// IsTypeShorthand reports whether the parameters consist of the "type" discriminator only.
func (n *NativeParams) IsTypeShorthand() bool {
	return n != nil && n.keys == 1 && n.Type != ""
}

func decodeFloat(value json.RawMessage) (*float64, error) {
	if isNull(value) {
		return nil, nil
	}

	var number float64
	if err := json.Unmarshal(value, &number); err == nil {
		return &number, nil
	}

	var text string
	if err := json.Unmarshal(value, &text); err != nil {
		return nil, fmt.Errorf("expected a number, got %s", value)
	}
	number, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("expected a number, got %s", value)
	}
	return &number, nil
}

func decodeFlag(value json.RawMessage) (bool, error) {
	var flag bool
	if err := json.Unmarshal(value, &flag); err == nil {
		return flag, nil
	}

	var number float64
	if err := json.Unmarshal(value, &number); err != nil {
		return false, fmt.Errorf("expected a boolean, got %s", value)
	}
	return number != 0, nil
}

func decodeStringOrList(value json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(value, &list); err == nil {
		return list, nil
	}

	var single string
	if err := json.Unmarshal(value, &single); err != nil {
		return nil, fmt.Errorf("expected a string or a list of strings, got %s", value)
	}
	return []string{single}, nil
}
