package state

import (
	"encoding/json"
	"maps"
)

// Persona describes a preset model/persona the user picked ("gpts").
// GID is the group identifier used for deduplication. Fields other than the
// typed ones are kept in Extra and written back unchanged.
type Persona struct {
	GID  string
	Name string
	Logo string
	Info string
	Link string

	Extra map[string]json.RawMessage
}

var personaFields = []string{"gid", "name", "logo", "info", "link"}

func (p *Persona) fieldPtr(name string) *string {
	switch name {
	case "gid":
		return &p.GID
	case "name":
		return &p.Name
	case "logo":
		return &p.Logo
	case "info":
		return &p.Info
	case "link":
		return &p.Link
	}
	return nil
}

// MarshalJSON writes the typed fields over Extra. An empty typed field leaves
// an Extra value of the same name in place; link is omitted when empty.
func (p Persona) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p.Extra)+len(personaFields))
	for k, v := range p.Extra {
		out[k] = v
	}
	for _, name := range personaFields {
		value := *p.fieldPtr(name)
		if value == "" {
			if _, kept := out[name]; kept || name == "link" {
				continue
			}
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		out[name] = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON splits an object into typed fields and Extra. A typed field
// holding a non-string value stays in Extra untouched.
func (p *Persona) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*p = Persona{}
	for _, name := range personaFields {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		if string(raw) == "null" {
			delete(fields, name)
			continue
		}
		if err := json.Unmarshal(raw, p.fieldPtr(name)); err != nil {
			continue
		}
		delete(fields, name)
	}
	if len(fields) > 0 {
		p.Extra = fields
	}
	return nil
}

// Clone returns a copy that shares no maps with p.
func (p Persona) Clone() Persona {
	p.Extra = maps.Clone(p.Extra)
	return p
}

func clonePersonaPtr(p *Persona) *Persona {
	if p == nil {
		return nil
	}
	c := p.Clone()
	return &c
}
