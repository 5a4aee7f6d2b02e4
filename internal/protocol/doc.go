// Package protocol defines the ScreenMesh message vocabulary.
//
// Every message is a self-describing tagged record: a Kind tag plus the
// payload fields that kind uses. The same Message type travels over two
// encodings:
//
//   - CBOR (Core Deterministic Encoding) between peers, see Marshal/Unmarshal
//   - JSON on the local admin channel, see MarshalJSON/UnmarshalJSON helpers
//
// Kinds fall into three groups:
//
//   - Handshake: connect, cluster, request_cluster, screens
//   - Global: focus (delivered to every peer)
//   - Focused: motion, button_*, key_* (delivered to the focused screen only)
package protocol
