package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrEventNotFound  = errors.New("event not found")
	ErrMalformedEvent = errors.New("malformed event payload")
	ErrUnknownKind    = errors.New("unknown event kind")
)

// GroupKeyPrefix is prepended to the actor id to form the session group key.
const GroupKeyPrefix = "CID:"

// DeviceInfoCounterPrefix is exactly 14 bytes long; the cube classifier
// takes the bin name from that offset.
const DeviceInfoCounterPrefix = "iOSDeviceInfo:"

type Kind string

const (
	KindIdentify    Kind = "identify"
	KindDeviceInfo  Kind = "device_info"
	KindAppLaunch   Kind = "app_launch"
	KindFirstLaunch Kind = "first_launch"
	KindFocus       Kind = "focus"
	KindGeneric     Kind = "generic"
	KindBase        Kind = "base"
)

// Payload is the closed set of event shapes. Only types in this package
// implement it.
type Payload interface {
	Kind() Kind
	payload()
}

type Identify struct{}

type DeviceInfo struct {
	Info map[string]string `json:"info"`
}

type AppLaunch struct {
	BinaryVersion string `json:"binary_version"`
}

type FirstLaunch struct{}

type Focus struct {
	GainedFocus bool `json:"gained_focus"`
}

type Generic struct {
	Event  string            `json:"event"`
	Source string            `json:"source"`
	Fields map[string]string `json:"fields,omitempty"`
}

type Base struct {
	Description string `json:"description"`
}

func (Identify) Kind() Kind    { return KindIdentify }
func (DeviceInfo) Kind() Kind  { return KindDeviceInfo }
func (AppLaunch) Kind() Kind   { return KindAppLaunch }
func (FirstLaunch) Kind() Kind { return KindFirstLaunch }
func (Focus) Kind() Kind       { return KindFocus }
func (Generic) Kind() Kind     { return KindGeneric }
func (Base) Kind() Kind        { return KindBase }

func (Identify) payload()    {}
func (DeviceInfo) payload()  {}
func (AppLaunch) payload()   {}
func (FirstLaunch) payload() {}
func (Focus) payload()       {}
func (Generic) payload()     {}
func (Base) payload()        {}

type Event struct {
	ID        uint64
	Timestamp uint64 // unix ms, assigned on receipt
	DeviceID  string
	ClientID  string
	Payload   Payload
}

// ActorID is the device id, or the client id when the device is unknown.
func (e *Event) ActorID() string {
	if e.DeviceID != "" {
		return e.DeviceID
	}
	return e.ClientID
}

// GroupKey returns "" for events without an actor.
func (e *Event) GroupKey() string {
	actor := e.ActorID()
	if actor == "" {
		return ""
	}
	return GroupKeyPrefix + actor
}

// CounterName is the per-session counter this event increments, or "".
func (e *Event) CounterName() string {
	switch p := e.Payload.(type) {
	case DeviceInfo:
		model := p.Info["deviceModel"]
		if model == "" {
			model = p.Info["model"]
		}
		if model == "" {
			return ""
		}
		return DeviceInfoCounterPrefix + model
	case Generic:
		if p.Event != "" {
			return p.Event
		}
		return p.Source
	case Identify, AppLaunch, FirstLaunch, Focus, Base:
		return ""
	default:
		return ""
	}
}

// SearchTerms lists the free-text fields of the event shape.
func (e *Event) SearchTerms() []string {
	switch p := e.Payload.(type) {
	case DeviceInfo:
		keys := make([]string, 0, len(p.Info))
		for k := range p.Info {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		terms := make([]string, 0, 2*len(keys))
		for _, k := range keys {
			terms = append(terms, k, p.Info[k])
		}
		return terms
	case AppLaunch:
		return []string{p.BinaryVersion}
	case Generic:
		return []string{p.Event, p.Source}
	case Base:
		return []string{p.Description}
	case Identify, FirstLaunch, Focus:
		return nil
	default:
		return nil
	}
}

// Describe renders a one-line human readable summary.
func (e *Event) Describe() string {
	switch p := e.Payload.(type) {
	case Identify:
		return "Identify"
	case DeviceInfo:
		parts := make([]string, 0, len(p.Info))
		for k, v := range p.Info {
			parts = append(parts, k+"="+v)
		}
		sort.Strings(parts)
		return "DeviceInfo " + strings.Join(parts, ", ")
	case AppLaunch:
		return "AppLaunch " + p.BinaryVersion
	case FirstLaunch:
		return "FirstLaunch"
	case Focus:
		if p.GainedFocus {
			return "Focus gained"
		}
		return "Focus lost"
	case Generic:
		return fmt.Sprintf("Generic %q from %q", p.Event, p.Source)
	case Base:
		return "Base " + p.Description
	default:
		return "Unknown"
	}
}
