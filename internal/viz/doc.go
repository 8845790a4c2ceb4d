// Package viz renders trajectories for the terminal: static asciigraph
// compartment charts and a bubbletea playback of the epidemic curve.
package viz
