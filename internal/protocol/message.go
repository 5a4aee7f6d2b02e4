package protocol

import (
	"fmt"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
)

// Kind tags a message variant.
type Kind string

const (
	KindConnect        Kind = "connect"
	KindCluster        Kind = "cluster"
	KindRequestCluster Kind = "request_cluster"
	KindScreens        Kind = "screens"
	KindFocus          Kind = "focus"
	KindMotion         Kind = "motion"
	KindButtonPress    Kind = "button_press"
	KindButtonRelease  Kind = "button_release"
	KindKeyPress       Kind = "key_press"
	KindKeyRelease     Kind = "key_release"
	KindError          Kind = "error"
)

// IsGlobal reports whether messages of this kind go to every peer.
func (k Kind) IsGlobal() bool {
	return k == KindFocus
}

// IsFocused reports whether messages of this kind go only to the
// screen that currently owns input.
func (k Kind) IsFocused() bool {
	switch k {
	case KindMotion, KindButtonPress, KindButtonRelease, KindKeyPress, KindKeyRelease:
		return true
	}
	return false
}

// Known reports whether k is part of the vocabulary.
func (k Kind) Known() bool {
	switch k {
	case KindConnect, KindCluster, KindRequestCluster, KindScreens, KindFocus, KindError:
		return true
	}
	return k.IsFocused()
}

// Snapshot is the wire form of a cluster: screens in discovery order
// plus the screen that owns input, if any.
type Snapshot struct {
	Screens []domain.Screen `json:"screens"`
	Focused domain.ScreenID `json:"focused,omitempty"`
}

// Screen returns the screen with the given id.
func (s Snapshot) Screen(id domain.ScreenID) (domain.Screen, bool) {
	for _, scr := range s.Screens {
		if scr.ID == id {
			return scr, true
		}
	}
	return domain.Screen{}, false
}

// IDs returns the screen ids in order.
func (s Snapshot) IDs() []domain.ScreenID {
	ids := make([]domain.ScreenID, len(s.Screens))
	for i, scr := range s.Screens {
		ids[i] = scr.ID
	}
	return ids
}

// Message is a single protocol message. Only the fields used by Kind are set.
type Message struct {
	Kind Kind `json:"kind"`

	// Cluster is set for connect and cluster.
	Cluster *Snapshot `json:"cluster,omitempty"`

	// Screens is set for screens.
	Screens []domain.Screen `json:"screens,omitempty"`

	// Focus is set for focus.
	Focus domain.ScreenID `json:"focus,omitempty"`

	// DX and DY are set for motion.
	DX int `json:"dx,omitempty"`
	DY int `json:"dy,omitempty"`

	// Button is set for button_press and button_release.
	Button string `json:"button,omitempty"`

	// Key is set for key_press and key_release.
	Key string `json:"key,omitempty"`

	// Error carries a human readable reason for error replies on the
	// admin channel. Never sent between peers.
	Error string `json:"error,omitempty"`
}

// Connect announces a node's cluster view to its peers.
func Connect(s Snapshot) Message {
	return Message{Kind: KindConnect, Cluster: &s}
}

// Cluster carries an authoritative merged cluster view.
func Cluster(s Snapshot) Message {
	return Message{Kind: KindCluster, Cluster: &s}
}

// RequestCluster asks the receiver for its current cluster view.
func RequestCluster() Message {
	return Message{Kind: KindRequestCluster}
}

// Screens replaces the screen set wholesale.
func Screens(screens []domain.Screen) Message {
	return Message{Kind: KindScreens, Screens: screens}
}

// Focus hands input ownership to id.
func Focus(id domain.ScreenID) Message {
	return Message{Kind: KindFocus, Focus: id}
}

// Motion moves the focused pointer by (dx, dy).
func Motion(dx, dy int) Message {
	return Message{Kind: KindMotion, DX: dx, DY: dy}
}

// Button presses or releases a pointer button on the focused screen.
func Button(button string, pressed bool) Message {
	if pressed {
		return Message{Kind: KindButtonPress, Button: button}
	}
	return Message{Kind: KindButtonRelease, Button: button}
}

// Key presses or releases a key on the focused screen.
func Key(key string, pressed bool) Message {
	if pressed {
		return Message{Kind: KindKeyPress, Key: key}
	}
	return Message{Kind: KindKeyRelease, Key: key}
}

// Error reports a rejected admin request.
func Error(err error) Message {
	return Message{Kind: KindError, Error: err.Error()}
}

// Validate checks that the message carries the payload its kind needs.
func (m Message) Validate() error {
	switch m.Kind {
	case KindConnect, KindCluster:
		if m.Cluster == nil {
			return domain.ErrMalformedMessage.WithDetails(string(m.Kind) + " without cluster")
		}
		for _, s := range m.Cluster.Screens {
			if err := s.Validate(); err != nil {
				return err
			}
		}
		if m.Cluster.Focused != "" {
			if _, ok := m.Cluster.Screen(m.Cluster.Focused); !ok {
				return domain.ErrUnknownScreen.WithDetails("focused " + string(m.Cluster.Focused))
			}
		}
	case KindScreens:
		seen := make(map[domain.ScreenID]struct{}, len(m.Screens))
		for _, s := range m.Screens {
			if err := s.Validate(); err != nil {
				return err
			}
			if _, dup := seen[s.ID]; dup {
				return domain.ErrInvalidScreen.WithDetails("duplicate id " + string(s.ID))
			}
			seen[s.ID] = struct{}{}
		}
	case KindFocus:
		if m.Focus == "" {
			return domain.ErrMalformedMessage.WithDetails("focus without screen id")
		}
	case KindButtonPress, KindButtonRelease:
		if m.Button == "" {
			return domain.ErrMalformedMessage.WithDetails(string(m.Kind) + " without button")
		}
	case KindKeyPress, KindKeyRelease:
		if m.Key == "" {
			return domain.ErrMalformedMessage.WithDetails(string(m.Kind) + " without key")
		}
	case KindRequestCluster, KindMotion, KindError:
	default:
		return domain.ErrUnknownKind.WithDetails(fmt.Sprintf("%q", m.Kind))
	}
	return nil
}

// String renders the message for logs. Key names are never included.
func (m Message) String() string {
	switch m.Kind {
	case KindConnect, KindCluster:
		if m.Cluster != nil {
			return fmt.Sprintf("%s(%d screens)", m.Kind, len(m.Cluster.Screens))
		}
	case KindScreens:
		return fmt.Sprintf("%s(%d)", m.Kind, len(m.Screens))
	case KindFocus:
		return fmt.Sprintf("%s(%s)", m.Kind, m.Focus)
	case KindMotion:
		return fmt.Sprintf("%s(%d,%d)", m.Kind, m.DX, m.DY)
	case KindButtonPress, KindButtonRelease:
		return fmt.Sprintf("%s(%s)", m.Kind, m.Button)
	}
	return string(m.Kind)
}

// Envelope is a message together with the address it came from.
type Envelope struct {
	Message Message
	From    string
}
