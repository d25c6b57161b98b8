package registry

import (
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/tistolabs/ruleta-overlay/internal/types"
)

// Normalize cleans an incoming segment list before it is accepted by the
// registry: labels are trimmed, missing ids are generated, missing colors
// fall back to the palette, and duplicate ids are rejected.
func Normalize(segments []types.Segment) ([]types.Segment, error) {
	out := make([]types.Segment, 0, len(segments))
	seen := make(map[string]bool, len(segments))

	for i, seg := range segments {
		seg.Text = strings.TrimSpace(seg.Text)
		seg.ID = strings.TrimSpace(seg.ID)
		seg.Color = strings.TrimSpace(seg.Color)

		if seg.ID == "" {
			suffix, err := gonanoid.New(8)
			if err != nil {
				return nil, fmt.Errorf("failed to generate segment id: %w", err)
			}
			seg.ID = "seg_" + suffix
		}
		if seen[seg.ID] {
			return nil, fmt.Errorf("duplicate segment id %q at position %d", seg.ID, i)
		}
		seen[seg.ID] = true

		if seg.Text == "" {
			seg.Text = fmt.Sprintf("Segmento %d", i+1)
		}
		if seg.Color == "" {
			seg.Color = colorPalette[i%len(colorPalette)]
		}

		out = append(out, seg)
	}

	return out, nil
}
