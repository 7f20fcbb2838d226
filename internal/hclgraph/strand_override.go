package hclgraph

import (
	"github.com/vk/flowgrid/internal/module"
	"github.com/vk/flowgrid/internal/strand"
)

// strandOverride wraps a Module so a grid file's `strand = "..."`
// attribute wins over whatever strand key (if any) the module's own
// constructor chose. Every other method is promoted from the embedded
// Module.
type strandOverride struct {
	module.Module
	key string
}

func (s *strandOverride) Strand() (strand.Key, bool) {
	return s.key, true
}
