// Package analysis post-processes runs: power spectra of recorded series,
// single-ball trajectories and phase portraits, and the divergence of two
// nearly identical simulations.
//
// A positive divergence rate means the arena is chaotic for that setup:
//
//	d, err := analysis.Divergence(cfg, 1.0/60, 5, 1e-6)
//	if err == nil && d.Rate > 0 {
//	    // nearby starts separate exponentially
//	}
package analysis
