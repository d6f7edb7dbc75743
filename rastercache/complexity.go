package rastercache

import "github.com/gogpu/compositor/recording"

// Score is an estimated rasterization cost for a piece of content. Higher
// means more expensive to draw live every frame, and therefore more worth
// caching.
type Score int

// worthCachingScore is the admission bar: content cheaper than this is
// faster to redraw than to blit from a cache texture.
const worthCachingScore = 5

// WorthCaching reports whether content with this score clears the cache
// admission bar.
func (s Score) WorthCaching() bool {
	return s >= worthCachingScore
}

// Per-command cost weights. Rectangle fills are near-free on any backend;
// paths and layers dominate rasterization time.
const (
	costRect      = 1
	costImage     = 2
	costText      = 2
	costPath      = 3
	costSaveLayer = 5
	costPathVerbs = 10 // one extra point per this many path segments
)

// EstimateComplexity walks a display list and totals the estimated cost of
// its drawing commands, recursing into nested lists. A nil or empty list
// scores zero.
func EstimateComplexity(list *recording.DisplayList) Score {
	if list.IsEmpty() {
		return 0
	}
	var score Score
	for _, cmd := range list.Commands() {
		switch c := cmd.(type) {
		case recording.DrawRectCommand:
			score += costRect
		case recording.DrawImageCommand:
			score += costImage
		case recording.DrawTextCommand:
			score += costText
		case recording.DrawPathCommand:
			score += costPath
			if c.Path != nil {
				score += Score(len(c.Path.Verbs()) / costPathVerbs)
			}
		case recording.SaveLayerCommand:
			score += costSaveLayer
		case recording.DrawDisplayListCommand:
			score += EstimateComplexity(c.List)
		}
	}
	return score
}
