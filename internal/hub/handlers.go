package hub

import (
	"errors"

	"github.com/yndnr/screenmesh-go/internal/core/domain"
	"github.com/yndnr/screenmesh-go/internal/protocol"
)

// handleHost drains every pending host event. Events are discarded
// unless the hub is connected.
func (h *Hub) handleHost() error {
	for {
		ev, ok := h.host.Next()
		if !ok {
			return nil
		}
		if h.state != StateConnected {
			h.metrics.HostDropped.Inc()
			continue
		}

		var g domain.Geometry
		if ev.Type == domain.EventPoll {
			var err error
			if g, err = h.host.Geometry(); err != nil {
				return domain.ErrHostGeometry.WithCause(err)
			}
		}

		msg, ok := h.cluster.ProcessHostEvent(g, ev)
		if !ok {
			continue
		}
		if msg.Kind.IsGlobal() {
			if err := h.handoff(msg); err != nil {
				return err
			}
			continue
		}
		h.unicast(msg, h.cluster.FocusedScreen().Route)
	}
}

// handoff fans a focus change out to every peer and applies it locally
// once the broadcast succeeded.
func (h *Hub) handoff(msg protocol.Message) error {
	if err := h.broadcast(msg, h.cluster.PeerRoutes()); err != nil {
		h.demote(err)
		return nil
	}
	return h.refocus(msg.Focus)
}

// refocus applies a focus change. Unknown screens are a protocol
// violation; cursor failures are fatal.
func (h *Hub) refocus(id domain.ScreenID) error {
	if err := h.cluster.Refocus(h.host, id); err != nil {
		if errors.Is(err, domain.ErrUnknownScreen) {
			h.log.Warn("focus for unknown screen ignored", "target", id)
			return nil
		}
		return err
	}
	h.metrics.FocusHandoffs.Inc()
	h.log.Debug("focus moved", "target", id, "cursor", h.cluster.Cursor())
	h.topologyChanged()
	return nil
}

// handleNet processes at most one received message.
func (h *Hub) handleNet() error {
	env, ok, err := h.net.Recv()
	if err != nil {
		h.metrics.RecordViolation("net")
		h.log.Warn("discarding datagram", "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	msg := env.Message
	h.metrics.RecordReceived("net", string(msg.Kind))

	switch msg.Kind {
	case protocol.KindConnect:
		if h.ownAnnounce(*msg.Cluster) {
			h.log.Debug("own announce ignored", "from", env.From)
			return nil
		}
		h.cluster.Merge(*msg.Cluster)
		h.topologyChanged()
		if err := h.broadcast(protocol.Cluster(h.cluster.Snapshot()), h.cluster.PeerRoutes()); err != nil {
			h.log.Warn("cluster broadcast failed", "error", err)
			return nil
		}
		h.setState(StateConnected)

	case protocol.KindCluster:
		if err := h.cluster.Replace(h.host, *msg.Cluster); err != nil {
			return err
		}
		h.topologyChanged()
		h.setState(StateConnected)

	case protocol.KindRequestCluster:
		h.unicast(protocol.Cluster(h.cluster.Snapshot()), env.From)

	case protocol.KindScreens:
		return h.setScreens(msg.Screens)

	case protocol.KindFocus:
		return h.refocus(msg.Focus)

	case protocol.KindMotion, protocol.KindButtonPress, protocol.KindButtonRelease,
		protocol.KindKeyPress, protocol.KindKeyRelease:
		ev, ok := h.cluster.ProcessNetEvent(msg)
		if !ok {
			return nil
		}
		if err := h.host.Inject(ev); err != nil {
			return domain.ErrHostInject.WithCause(err)
		}
		h.metrics.EventsInjected.Inc()

	case protocol.KindError:
		h.log.Warn("peer reported error", "from", env.From, "error", msg.Error)

	default:
		h.metrics.RecordViolation("net")
		h.log.Warn("unexpected message", "kind", msg.Kind, "from", env.From)
	}
	return nil
}

// ownAnnounce reports whether snap names only the local screen, as our
// own connect does when a multicast group loops it back.
func (h *Hub) ownAnnounce(snap protocol.Snapshot) bool {
	if len(snap.Screens) == 0 {
		return false
	}
	for _, s := range snap.Screens {
		if s.ID != h.cluster.LocalID() {
			return false
		}
	}
	return true
}

// handleAnnounce sends the initial connect. It fires once per arm.
func (h *Hub) handleAnnounce() {
	h.announce = nil

	rearmed := h.state == StateWaiting && h.cfg.ReannounceOnDemote
	if h.state != StateConnecting && !rearmed {
		return
	}

	routes := h.announceRoutes()
	if err := h.broadcast(protocol.Connect(h.cluster.LocalSnapshot()), routes); err != nil {
		h.log.Warn("connect announce failed", "error", err)
	}
	h.log.Info("announced", "peers", routes)
	h.setState(StateWaiting)
}

// announceRoutes returns the seed peers plus any known peer route.
func (h *Hub) announceRoutes() []string {
	return h.routes(h.net.Peers(), h.cluster.PeerRoutes())
}

// routes concatenates route lists in order, without duplicates or the
// local route.
func (h *Hub) routes(lists ...[]string) []string {
	self := h.cluster.LocalScreen().Route
	seen := map[string]struct{}{self: {}}
	var routes []string
	for _, list := range lists {
		for _, r := range list {
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			routes = append(routes, r)
		}
	}
	return routes
}

// handleAdmin answers one admin request.
func (h *Hub) handleAdmin(req AdminRequest) error {
	msg := req.Message
	h.metrics.RecordReceived("admin", string(msg.Kind))

	switch msg.Kind {
	case protocol.KindRequestCluster:
		h.reply(req, protocol.Cluster(h.cluster.Snapshot()))
		return nil

	case protocol.KindScreens:
		// Screens dropped by the list are told as well.
		before := h.cluster.PeerRoutes()
		if err := h.setScreens(msg.Screens); err != nil {
			return err
		}
		out := protocol.Screens(h.cluster.Screens())
		if err := h.broadcast(out, h.routes(h.cluster.PeerRoutes(), before)); err != nil {
			h.demote(err)
		}
		return nil
	}

	h.metrics.RecordViolation("admin")
	h.log.Warn("unexpected admin message", "kind", msg.Kind)
	h.reply(req, protocol.Error(domain.ErrUnexpectedMessage.WithDetails(string(msg.Kind))))
	return nil
}

func (h *Hub) reply(req AdminRequest, msg protocol.Message) {
	if req.Reply == nil {
		return
	}
	if err := req.Reply(msg); err != nil {
		h.log.Debug("admin reply dropped", "error", domain.ErrAdminClientGone.WithCause(err))
	}
}

// setScreens applies an administrative wholesale replace. If the focus
// owner was dropped the local pointer is released.
func (h *Hub) setScreens(screens []domain.Screen) error {
	if prev, dropped := h.cluster.SetScreens(screens); dropped {
		h.log.Info("focus owner removed", "previous", prev)
		if err := h.host.Restore(); err != nil {
			return domain.ErrHostCursor.WithCause(err)
		}
	}
	h.topologyChanged()
	return nil
}

// handleDeparture removes a screen reported gone by gossip. Focus held
// by the departed screen returns to the local screen.
func (h *Hub) handleDeparture(id domain.ScreenID) error {
	wasFocused, err := h.cluster.Remove(id)
	if err != nil {
		h.log.Debug("departure ignored", "peer", id, "error", err)
		return nil
	}
	h.log.Info("peer departed", "peer", id, "was_focused", wasFocused)
	if wasFocused {
		return h.refocus(h.cluster.LocalID())
	}
	h.topologyChanged()
	return nil
}
