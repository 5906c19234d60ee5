package layout

// DefaultTopOffset is the vertical margin applied by [CenterOn].
const DefaultTopOffset = 20

// Transform is the initial viewport transform for a rendered tree.
type Transform struct {
	TranslateX float64 `json:"translate_x"`
	TranslateY float64 `json:"translate_y"`
	Scale      float64 `json:"scale"`
}

// Identity is the zero translation at scale 1.
var Identity = Transform{Scale: 1}

// CenterOn returns a transform that places the root node's screen X at the
// horizontal middle of a viewport of the given width, offset
// [DefaultTopOffset] from the top, at scale 1. When rootID is not among
// nodes it returns [Identity].
func CenterOn(nodes []Node, rootID string, viewportWidth float64) Transform {
	for _, n := range nodes {
		if n.ID == rootID {
			return Transform{
				TranslateX: viewportWidth/2 - n.X,
				TranslateY: DefaultTopOffset,
				Scale:      1,
			}
		}
	}
	return Identity
}

// Fit returns a transform that scales the whole layout down, never up, so
// that it fits within width and height with the given padding, and centers
// it. An empty result yields [Identity].
func Fit(r Result, width, height, padding float64) Transform {
	if r.Empty() || width <= 0 || height <= 0 {
		return Identity
	}
	minX, minY, maxX, maxY := r.Bounds()
	w := maxX - minX + 2*padding
	h := maxY - minY + 2*padding
	scale := 1.0
	if w > 0 && width/w < scale {
		scale = width / w
	}
	if h > 0 && height/h < scale {
		scale = height / h
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	return Transform{
		TranslateX: width/2 - cx*scale,
		TranslateY: height/2 - cy*scale,
		Scale:      scale,
	}
}
