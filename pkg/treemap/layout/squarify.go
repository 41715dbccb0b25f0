package layout

import "math"

// phi is the target aspect ratio for squarified rows.
var phi = (1 + math.Sqrt(5)) / 2

// squarify partitions the box among parent's children. Rows are grown while
// the worst aspect ratio in the row does not increase.
func squarify(parent *cell, x0, y0, x1, y1 float64) {
	nodes := parent.kids
	n := len(nodes)
	value := parent.value

	i0, i1 := 0, 0
	for i0 < n {
		if !(value > 0) {
			// Nothing left to share: remaining children are present but empty.
			for _, k := range nodes[i0:] {
				k.x0, k.y0, k.x1, k.y1 = x0, y0, x0, y0
			}
			return
		}
		dx, dy := x1-x0, y1-y0

		// Skip leading empty nodes; they join this row with zero extent.
		var sum float64
		for {
			sum = nodes[i1].value
			i1++
			if sum != 0 || i1 >= n {
				break
			}
		}

		minValue, maxValue := sum, sum
		alpha := math.Max(dy/dx, dx/dy) / (value * phi)
		beta := sum * sum * alpha
		minRatio := math.Max(maxValue/beta, beta/minValue)

		for ; i1 < n; i1++ {
			v := nodes[i1].value
			sum += v
			minValue = math.Min(minValue, v)
			maxValue = math.Max(maxValue, v)
			beta = sum * sum * alpha
			ratio := math.Max(maxValue/beta, beta/minValue)
			if ratio > minRatio {
				sum -= v
				break
			}
			minRatio = ratio
		}

		row := nodes[i0:i1]
		if dx < dy {
			ny := y1
			if dy != 0 {
				ny = y0 + dy*sum/value
			}
			dice(row, sum, x0, y0, x1, ny)
			y0 = ny
		} else {
			nx := x1
			if dx != 0 {
				nx = x0 + dx*sum/value
			}
			slice(row, sum, x0, y0, nx, y1)
			x0 = nx
		}
		value -= sum
		i0 = i1
	}
}

// dice lays nodes left to right across the box.
func dice(nodes []*cell, total, x0, y0, x1, y1 float64) {
	k := 0.0
	if total != 0 {
		k = (x1 - x0) / total
	}
	for _, c := range nodes {
		c.y0, c.y1 = y0, y1
		c.x0 = x0
		x0 += c.value * k
		c.x1 = x0
	}
}

// slice lays nodes top to bottom across the box.
func slice(nodes []*cell, total, x0, y0, x1, y1 float64) {
	k := 0.0
	if total != 0 {
		k = (y1 - y0) / total
	}
	for _, c := range nodes {
		c.x0, c.x1 = x0, x1
		c.y0 = y0
		y0 += c.value * k
		c.y1 = y0
	}
}
