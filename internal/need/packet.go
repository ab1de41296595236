// Package need solves document needs published on the message bus. A need is a
// JSON message with "@event_name":"behov" and an "@behov" list naming what is
// asked for; the solution is the same message republished with "@løsning" set.
package need

import (
	"encoding/json"
	"fmt"
	"slices"
)

const (
	keyEventName = "@event_name"
	keyNeeds     = "@behov"
	keySolution  = "@løsning"

	eventNeed = "behov"
)

// Packet is a parsed message. Unknown fields are kept so the solution carries the
// full original message.
type Packet struct {
	fields map[string]json.RawMessage
	needs  []string
}

// ParsePacket parses a message from the bus.
func ParsePacket(data []byte) (*Packet, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parse packet: %w", err)
	}
	p := &Packet{fields: fields}
	if raw, ok := fields[keyNeeds]; ok {
		if err := json.Unmarshal(raw, &p.needs); err != nil {
			return nil, fmt.Errorf("parse packet: %s: %w", keyNeeds, err)
		}
	}
	return p, nil
}

// IsOpenNeed reports whether the packet asks for something and is not yet solved.
func (p *Packet) IsOpenNeed() bool {
	name, _ := p.String(keyEventName)
	return name == eventNeed && !p.Has(keySolution)
}

// Needs returns the requested need names in message order.
func (p *Packet) Needs() []string {
	return slices.Clone(p.needs)
}

// Has reports whether key is present and not null.
func (p *Packet) Has(key string) bool {
	raw, ok := p.fields[key]
	return ok && string(raw) != "null"
}

// String returns a string field. ok is false when the field is absent, null or
// not a string.
func (p *Packet) String(key string) (value string, ok bool) {
	raw, present := p.fields[key]
	if !present {
		return "", false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}

// Raw returns a field as stored in the message. ok is false when the field is
// absent or null.
func (p *Packet) Raw(key string) (value json.RawMessage, ok bool) {
	if !p.Has(key) {
		return nil, false
	}
	return p.fields[key], true
}

// Require returns the string fields named by keys, or an error naming the first
// missing one.
func (p *Packet) Require(keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	for _, k := range keys {
		v, ok := p.String(k)
		if !ok || v == "" {
			return nil, fmt.Errorf("%w: missing %s", errInvalidMessage, k)
		}
		values[k] = v
	}
	return values, nil
}

// WithSolution returns the message with "@løsning" set to {need: solution}.
func (p *Packet) WithSolution(need string, solution any) ([]byte, error) {
	sol, err := json.Marshal(map[string]any{need: solution})
	if err != nil {
		return nil, fmt.Errorf("marshal solution: %w", err)
	}
	out := make(map[string]json.RawMessage, len(p.fields)+1)
	for k, v := range p.fields {
		out[k] = v
	}
	out[keySolution] = sol
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("marshal solution: %w", err)
	}
	return data, nil
}
