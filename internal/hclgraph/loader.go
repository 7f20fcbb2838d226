package hclgraph

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/edge"
	"github.com/vk/flowgrid/internal/fsutil"
	"github.com/vk/flowgrid/internal/graphspec"
	"github.com/vk/flowgrid/internal/respawn"
)

// Loaded is the result of loading a grid file: a ready-to-run graph and
// the respawn policy it should be executed under.
type Loaded struct {
	Graph  *graphspec.Graph
	Policy respawn.Policy
}

// LoadFile parses and decodes a single grid file at path, resolves each
// module block's type against reg, wires the declared edges, and
// returns the resulting graph and respawn policy.
func LoadFile(ctx context.Context, path string, reg *Registry) (*Loaded, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("loading grid file", "path", path)

	cfg, err := parseFile(path, hclparse.NewParser())
	if err != nil {
		return nil, err
	}
	return build(cfg, reg)
}

// LoadPath loads a grid from path, which may name either a single .hcl
// file or a directory. A directory is walked recursively for every
// .hcl file it contains, and every module, edge, and respawn block
// found is merged into one graph before resolution, so a grid can be
// split across several files the way a large configuration usually is.
func LoadPath(ctx context.Context, path string, reg *Registry) (*Loaded, error) {
	logger := ctxlog.FromContext(ctx)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("hclgraph: stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return LoadFile(ctx, path, reg)
	}

	logger.Debug("loading grid directory", "path", path)
	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("hclgraph: find grid files in %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("hclgraph: no .hcl files found under %s", path)
	}

	parser := hclparse.NewParser()
	merged := gridConfig{}
	for _, f := range files {
		cfg, err := parseFile(f, parser)
		if err != nil {
			return nil, err
		}
		merged.Modules = append(merged.Modules, cfg.Modules...)
		merged.Edges = append(merged.Edges, cfg.Edges...)
		if cfg.Respawn != nil {
			if merged.Respawn != nil {
				return nil, fmt.Errorf("hclgraph: respawn block declared in more than one file under %s", path)
			}
			merged.Respawn = cfg.Respawn
		}
	}

	return build(&merged, reg)
}

func parseFile(path string, parser *hclparse.Parser) (*gridConfig, error) {
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("hclgraph: parse %s: %s", path, diags.Error())
	}

	var cfg gridConfig
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("hclgraph: decode %s: %s", path, diags.Error())
	}
	return &cfg, nil
}

func build(cfg *gridConfig, reg *Registry) (*Loaded, error) {
	g := graphspec.New()

	seen := make(map[string]bool, len(cfg.Modules))
	for _, mb := range cfg.Modules {
		if seen[mb.Name] {
			return nil, fmt.Errorf("hclgraph: duplicate module name %q", mb.Name)
		}
		seen[mb.Name] = true

		m, err := reg.build(mb.Type, mb.Name)
		if err != nil {
			return nil, err
		}
		if mb.Strand != "" {
			m = &strandOverride{Module: m, key: mb.Strand}
		}
		g.AddVertex(mb.Name, m)
	}

	for _, eb := range cfg.Edges {
		if !seen[eb.From] {
			return nil, fmt.Errorf("hclgraph: edge references undeclared vertex %q", eb.From)
		}
		if !seen[eb.To] {
			return nil, fmt.Errorf("hclgraph: edge references undeclared vertex %q", eb.To)
		}
		capacity := eb.Capacity
		if capacity < 1 {
			capacity = 1
		}
		if err := g.Connect(eb.From, eb.To, edge.NewBuffer(capacity)); err != nil {
			return nil, fmt.Errorf("hclgraph: edge %s -> %s: %w", eb.From, eb.To, err)
		}
	}

	if err := g.DetectCycles(); err != nil {
		return nil, fmt.Errorf("hclgraph: %w", err)
	}

	policy := respawn.Bounded(1)
	if cfg.Respawn != nil {
		if cfg.Respawn.Calls == 0 {
			policy = respawn.Forever()
		} else {
			policy = respawn.Bounded(cfg.Respawn.Calls)
		}
	}

	return &Loaded{Graph: g, Policy: policy}, nil
}
