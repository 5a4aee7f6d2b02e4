// Package domain defines the core domain models for ScreenMesh.
//
// Domain models are plain values without IO dependencies:
//
//   - Screen, Point, Rect: placement of a display in the virtual desktop
//   - HostEvent: input captured from, or injected into, the local machine
//   - Errors: coded domain errors shared by every layer
package domain
