package domain

import (
	"fmt"

	"github.com/goccy/go-json"
)

// ParseKind validates a wire kind string.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindIdentify, KindDeviceInfo, KindAppLaunch, KindFirstLaunch, KindFocus, KindGeneric, KindBase:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

func EncodePayload(p Payload) ([]byte, error) {
	if p == nil {
		return nil, ErrMalformedEvent
	}
	return json.Marshal(p)
}

// DecodePayload restores the concrete shape for kind. An empty body is
// accepted for shapes without fields.
func DecodePayload(kind Kind, raw []byte) (Payload, error) {
	if len(raw) == 0 {
		raw = []byte("{}")
	}
	switch kind {
	case KindIdentify:
		return Identify{}, nil
	case KindFirstLaunch:
		return FirstLaunch{}, nil
	case KindDeviceInfo:
		var p DeviceInfo
		return decodeInto(raw, &p, func() Payload { return p })
	case KindAppLaunch:
		var p AppLaunch
		return decodeInto(raw, &p, func() Payload { return p })
	case KindFocus:
		var p Focus
		return decodeInto(raw, &p, func() Payload { return p })
	case KindGeneric:
		var p Generic
		return decodeInto(raw, &p, func() Payload { return p })
	case KindBase:
		var p Base
		return decodeInto(raw, &p, func() Payload { return p })
	default:
		return nil, fmt.Errorf("%w: %w: %q", ErrMalformedEvent, ErrUnknownKind, kind)
	}
}

func decodeInto(raw []byte, dst any, get func() Payload) (Payload, error) {
	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	return get(), nil
}
