// Package analysis extracts scalar summaries from solved trajectories:
// the infected peak, the epidemic final size and attack rate, and a
// conservation check on the solver output. All functions are read-only
// over the trajectory and recompute on demand.
package analysis
