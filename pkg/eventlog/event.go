package eventlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// HtlcEvent is a router HTLC event as streamed by lnd's SubscribeHtlcEvents,
// in its JSON form. 64-bit integers are encoded as strings and decoded from
// either strings or numbers.
//
// An event decoded from JSON keeps its original bytes, and those bytes are
// what ToFailedHtlc stores as the record's extra field. Events built in Go
// are marshaled instead.
type HtlcEvent struct {
	IncomingChannelID uint64         `json:"incoming_channel_id,string,omitempty"`
	OutgoingChannelID uint64         `json:"outgoing_channel_id,string,omitempty"`
	IncomingHtlcID    uint64         `json:"incoming_htlc_id,string,omitempty"`
	OutgoingHtlcID    uint64         `json:"outgoing_htlc_id,string,omitempty"`
	TimestampNs       uint64         `json:"timestamp_ns,string,omitempty"`
	EventType         string         `json:"event_type,omitempty"`
	LinkFailEvent     *LinkFailEvent `json:"link_fail_event,omitempty"`

	raw json.RawMessage
}

// UnmarshalJSON decodes the modelled fields and keeps the compacted input.
func (e *HtlcEvent) UnmarshalJSON(data []byte) error {
	var wire struct {
		IncomingChannelID flexUint64     `json:"incoming_channel_id"`
		OutgoingChannelID flexUint64     `json:"outgoing_channel_id"`
		IncomingHtlcID    flexUint64     `json:"incoming_htlc_id"`
		OutgoingHtlcID    flexUint64     `json:"outgoing_htlc_id"`
		TimestampNs       flexUint64     `json:"timestamp_ns"`
		EventType         string         `json:"event_type"`
		LinkFailEvent     *LinkFailEvent `json:"link_fail_event"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return err
	}

	*e = HtlcEvent{
		IncomingChannelID: uint64(wire.IncomingChannelID),
		OutgoingChannelID: uint64(wire.OutgoingChannelID),
		IncomingHtlcID:    uint64(wire.IncomingHtlcID),
		OutgoingHtlcID:    uint64(wire.OutgoingHtlcID),
		TimestampNs:       uint64(wire.TimestampNs),
		EventType:         wire.EventType,
		LinkFailEvent:     wire.LinkFailEvent,
		raw:               compact.Bytes(),
	}
	return nil
}

// LinkFailEvent describes a forward rejected by the outgoing link.
type LinkFailEvent struct {
	Info          *HtlcInfo `json:"info,omitempty"`
	WireFailure   string    `json:"wire_failure,omitempty"`
	FailureDetail string    `json:"failure_detail,omitempty"`
	FailureString string    `json:"failure_string,omitempty"`
}

// HtlcInfo carries the amounts and timelocks of a forward.
type HtlcInfo struct {
	IncomingTimelock uint32 `json:"incoming_timelock,omitempty"`
	OutgoingTimelock uint32 `json:"outgoing_timelock,omitempty"`
	IncomingAmtMsat  uint64 `json:"incoming_amt_msat,string,omitempty"`
	OutgoingAmtMsat  uint64 `json:"outgoing_amt_msat,string,omitempty"`
}

// UnmarshalJSON accepts the msat amounts as strings or numbers.
func (i *HtlcInfo) UnmarshalJSON(data []byte) error {
	var wire struct {
		IncomingTimelock uint32     `json:"incoming_timelock"`
		OutgoingTimelock uint32     `json:"outgoing_timelock"`
		IncomingAmtMsat  flexUint64 `json:"incoming_amt_msat"`
		OutgoingAmtMsat  flexUint64 `json:"outgoing_amt_msat"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*i = HtlcInfo{
		IncomingTimelock: wire.IncomingTimelock,
		OutgoingTimelock: wire.OutgoingTimelock,
		IncomingAmtMsat:  uint64(wire.IncomingAmtMsat),
		OutgoingAmtMsat:  uint64(wire.OutgoingAmtMsat),
	}
	return nil
}

// flexUint64 decodes a JSON number or a quoted decimal string.
type flexUint64 uint64

func (u *flexUint64) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid unsigned integer %s: %w", data, err)
	}
	*u = flexUint64(v)
	return nil
}

// ParseHtlcEvent decodes a JSON HTLC event.
func ParseHtlcEvent(data []byte) (*HtlcEvent, error) {
	var event HtlcEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	return &event, nil
}

// Validate checks that the event carries everything a FailedHtlcRecord needs.
func (e *HtlcEvent) Validate() error {
	if e == nil {
		return fmt.Errorf("%w: nil htlc event", ErrInvalidEvent)
	}
	if e.LinkFailEvent == nil || e.LinkFailEvent.Info == nil {
		return fmt.Errorf("%w: htlc event has no link_fail_event.info", ErrInvalidEvent)
	}
	if e.TimestampNs == 0 {
		return fmt.Errorf("%w: htlc event has no timestamp", ErrInvalidEvent)
	}
	return nil
}

// ToFailedHtlc converts a link-fail event into a FailedHtlcRecord.
// The date is rounded to the nearest millisecond and the amount to the nearest sat.
func (e *HtlcEvent) ToFailedHtlc() (*FailedHtlcRecord, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	extra := []byte(e.raw)
	if extra == nil {
		var err error
		if extra, err = json.Marshal(e); err != nil {
			return nil, fmt.Errorf("%w: serialize htlc event: %v", ErrInvalidEvent, err)
		}
	}

	return &FailedHtlcRecord{
		Date:     int64(roundDiv(e.TimestampNs, 1_000_000)),
		FromChan: strconv.FormatUint(e.IncomingChannelID, 10),
		ToChan:   strconv.FormatUint(e.OutgoingChannelID, 10),
		Sats:     int64(roundDiv(e.LinkFailEvent.Info.IncomingAmtMsat, 1000)),
		Extra:    string(extra),
	}, nil
}

// roundDiv divides with halves rounded up.
func roundDiv(n, d uint64) uint64 {
	return n/d + boolToUint(n%d*2 >= d)
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
