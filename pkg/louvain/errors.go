package louvain

import (
	"errors"

	"github.com/gilchrisn/louvain-modularity/pkg/graph"
	"github.com/gilchrisn/louvain-modularity/pkg/validation"
)

var (
	// ErrNotFound reports a node key missing from the input graph.
	ErrNotFound = graph.ErrNotFound

	// ErrUnknownCommunity reports a community id missing from the ledger or a
	// renumbering map. It always means the bookkeeping is broken.
	ErrUnknownCommunity = errors.New("unknown community")

	// ErrInvalidParameter reports a parameter outside its documented range.
	ErrInvalidParameter = validation.ErrInvalidParameter
)
