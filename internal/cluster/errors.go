// Package cluster applies a pre-trained standardizer and nearest-centroid
// model to region feature vectors.
package cluster

import "github.com/rotisserie/eris"

// Error taxonomy. Callers match with errors.Is; every returned error wraps
// exactly one of these.
var (
	// ErrInvalidInput marks a malformed, negative, or non-finite input value.
	ErrInvalidInput = eris.New("invalid input")
	// ErrShapeMismatch marks a vector whose dimensionality disagrees with the loaded parameters.
	ErrShapeMismatch = eris.New("shape mismatch")
	// ErrDegenerateScale marks a persisted scale entry equal to zero.
	ErrDegenerateScale = eris.New("degenerate scale")
	// ErrModelNotLoaded marks a call made before the model was loaded.
	ErrModelNotLoaded = eris.New("model not loaded")
	// ErrUnknownCluster marks a cluster id outside the configured range.
	ErrUnknownCluster = eris.New("unknown cluster")
	// ErrConfiguration marks a startup configuration defect.
	ErrConfiguration = eris.New("configuration error")
)
