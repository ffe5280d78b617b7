package wizard

import "errors"

// Section is one slice of the shipment form with its own validation.
type Section string

const (
	SectionOrigin    Section = "origin"
	SectionPackages  Section = "packages"
	SectionPickup    Section = "pickup"
	SectionService   Section = "service"
	SectionRecipient Section = "recipient"
	SectionPayment   Section = "payment"
)

type State string

const (
	StateLocked    State = "locked"
	StateActive    State = "active"
	StateCompleted State = "completed"
)

var (
	ErrUnknownSection    = errors.New("unknown section")
	ErrSectionLocked     = errors.New("section is locked")
	ErrSectionNotActive  = errors.New("section is not active")
	ErrSectionIncomplete = errors.New("active section is incomplete")
	ErrNothingActive     = errors.New("no active section")
)

type event string

const (
	evComplete event = "complete"
	evActivate event = "activate"
	evLock     event = "lock"
)

// transitions is the allowed state changes per section. Anything not in the
// table is an illegal transition.
var transitions = map[State]map[event]State{
	StateLocked: {
		evActivate: StateActive,
	},
	StateActive: {
		evComplete: StateCompleted,
		evLock:     StateLocked,
	},
	StateCompleted: {
		evActivate: StateActive,
		evLock:     StateLocked,
	},
}

// Machine tracks progress through an ordered list of sections. Forward
// movement is gated on the active section's validation predicate; backward
// movement (edit) is always allowed and re-locks everything after the
// edited section.
type Machine struct {
	order  []Section
	states map[Section]State
}

// SectionsFor returns the section order for a chosen origin; the pickup
// details section only exists for pickup shipments.
func SectionsFor(pickup bool) []Section {
	if pickup {
		return []Section{SectionOrigin, SectionPackages, SectionPickup, SectionService, SectionRecipient, SectionPayment}
	}
	return []Section{SectionOrigin, SectionPackages, SectionService, SectionRecipient, SectionPayment}
}

func NewMachine(order []Section) *Machine {
	m := &Machine{order: order, states: make(map[Section]State, len(order))}
	for i, s := range order {
		if i == 0 {
			m.states[s] = StateActive
		} else {
			m.states[s] = StateLocked
		}
	}
	return m
}

func (m *Machine) apply(s Section, ev event) error {
	cur, ok := m.states[s]
	if !ok {
		return ErrUnknownSection
	}
	next, ok := transitions[cur][ev]
	if !ok {
		return ErrSectionNotActive
	}
	m.states[s] = next
	return nil
}

func (m *Machine) StateOf(s Section) State {
	st, ok := m.states[s]
	if !ok {
		return StateLocked
	}
	return st
}

func (m *Machine) Sections() []Section {
	out := make([]Section, len(m.order))
	copy(out, m.order)
	return out
}

// Active returns the currently editable section, if any. When every section
// is completed there is no active section and Complete reports true.
func (m *Machine) Active() (Section, bool) {
	for _, s := range m.order {
		if m.states[s] == StateActive {
			return s, true
		}
	}
	return "", false
}

func (m *Machine) Complete() bool {
	for _, s := range m.order {
		if m.states[s] != StateCompleted {
			return false
		}
	}
	return true
}

// Advance completes the active section if its validation predicate passes
// and activates the next locked one. No skipping ahead.
func (m *Machine) Advance(valid func(Section) bool) error {
	s, ok := m.Active()
	if !ok {
		return ErrNothingActive
	}
	if !valid(s) {
		return ErrSectionIncomplete
	}
	if err := m.apply(s, evComplete); err != nil {
		return err
	}
	for i, sec := range m.order {
		if sec != s {
			continue
		}
		if i+1 < len(m.order) {
			return m.apply(m.order[i+1], evActivate)
		}
		return nil
	}
	return ErrUnknownSection
}

// Edit reopens a completed section and re-locks every section after it, so
// later answers are revalidated in order.
func (m *Machine) Edit(s Section) error {
	switch m.StateOf(s) {
	case StateActive:
		return nil
	case StateLocked:
		return ErrSectionLocked
	}
	if err := m.apply(s, evActivate); err != nil {
		return err
	}
	seen := false
	for _, sec := range m.order {
		if sec == s {
			seen = true
			continue
		}
		if !seen {
			continue
		}
		if st := m.states[sec]; st == StateCompleted || st == StateActive {
			if err := m.apply(sec, evLock); err != nil {
				return err
			}
		}
	}
	return nil
}

// Reshape swaps the section order after an origin change, keeping the first
// section active and locking the rest. Only legal while the first section
// is the active one.
func (m *Machine) Reshape(order []Section) error {
	if act, ok := m.Active(); !ok || act != m.order[0] {
		return ErrSectionNotActive
	}
	nm := NewMachine(order)
	m.order = nm.order
	m.states = nm.states
	return nil
}

type SectionStatus struct {
	Section Section `json:"section"`
	State   State   `json:"state"`
}

func (m *Machine) Progress() []SectionStatus {
	out := make([]SectionStatus, 0, len(m.order))
	for _, s := range m.order {
		out = append(out, SectionStatus{Section: s, State: m.states[s]})
	}
	return out
}
