package entity

// TileRect is a block of solid cells in tile coordinates.
type TileRect struct {
	Col, Row int
	W, H     int
}

// MergeTileRects greedily covers the filled cells of a width×height grid with
// as few rectangles as it can: each rect grows right as far as the row allows,
// then down while every cell beneath it is filled. maxRows caps the height;
// 0 means unlimited.
func MergeTileRects(width, height int, filled func(col, row int) bool, maxRows int) []TileRect {
	if width <= 0 || height <= 0 || filled == nil {
		return nil
	}
	visited := make([]bool, width*height)
	index := func(x, y int) int { return y*width + x }
	open := func(x, y int) bool { return !visited[index(x, y)] && filled(x, y) }

	var out []TileRect
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !open(x, y) {
				continue
			}

			maxW := 0
			for x2 := x; x2 < width && open(x2, y); x2++ {
				maxW++
			}

			maxH := 1
			for y2 := y + 1; y2 < height; y2++ {
				if maxRows > 0 && maxH >= maxRows {
					break
				}
				rowOK := true
				for x2 := x; x2 < x+maxW; x2++ {
					if !open(x2, y2) {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				maxH++
			}

			for yy := y; yy < y+maxH; yy++ {
				for xx := x; xx < x+maxW; xx++ {
					visited[index(xx, yy)] = true
				}
			}
			out = append(out, TileRect{Col: x, Row: y, W: maxW, H: maxH})
		}
	}
	return out
}
