package pipeline

import (
	"context"
	"fmt"

	pkgio "github.com/matzehuels/tideman/pkg/io"
	"github.com/matzehuels/tideman/pkg/render/lockgraph"
	"github.com/matzehuels/tideman/pkg/tideman"
)

// Render generates output artifacts in the requested formats.
// The DOT source is generated once and shared by the svg, png and dot outputs.
func Render(ctx context.Context, res *tideman.Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	dot, err := lockgraph.ToDOT(res, opts.LockgraphOptions())
	if err != nil {
		return nil, err
	}
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte

		switch format {
		case FormatSVG:
			data, err = lockgraph.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = lockgraph.RenderPNG(ctx, dot)
		case FormatDOT:
			data = []byte(dot)
		case FormatJSON:
			data, err = pkgio.MarshalResult(res)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
