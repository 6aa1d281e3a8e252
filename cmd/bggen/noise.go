package main

import (
	"math"
	"math/rand/v2"
)

// simplex is 2D simplex noise over a seeded permutation table.
type simplex struct {
	perm [512]uint8
}

func newSimplex(seed uint64) *simplex {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}
	r.Shuffle(len(p), func(i, j int) { p[i], p[j] = p[j], p[i] })

	n := &simplex{}
	for i := range n.perm {
		n.perm[i] = p[i&255]
	}
	return n
}

const (
	skew   = 0.3660254037844386  // (sqrt(3) - 1) / 2
	unskew = 0.21132486540518713 // (3 - sqrt(3)) / 6
)

// gradient dots one of eight fixed directions with (x, y).
func gradient(hash uint8, x, y float64) float64 {
	h := hash & 7
	if h >= 4 {
		x, y = y, x
	}
	if h&1 != 0 {
		x = -x
	}
	if h&2 != 0 {
		y = -y
	}
	return x + y
}

func (n *simplex) corner(hash uint8, x, y float64) float64 {
	t := 0.5 - x*x - y*y
	if t <= 0 {
		return 0
	}
	t *= t
	return t * t * gradient(hash, x, y)
}

// at returns noise in [-1, 1].
func (n *simplex) at(x, y float64) float64 {
	s := (x + y) * skew
	i, j := math.Floor(x+s), math.Floor(y+s)
	t := (i + j) * unskew
	x0, y0 := x-(i-t), y-(j-t)

	i1, j1 := 0, 1
	if x0 > y0 {
		i1, j1 = 1, 0
	}

	x1, y1 := x0-float64(i1)+unskew, y0-float64(j1)+unskew
	x2, y2 := x0-1+2*unskew, y0-1+2*unskew

	ii, jj := int(i)&255, int(j)&255
	p := &n.perm
	sum := n.corner(p[ii+int(p[jj])], x0, y0) +
		n.corner(p[ii+i1+int(p[jj+j1])], x1, y1) +
		n.corner(p[ii+1+int(p[jj+1])], x2, y2)
	return 70 * sum
}

// fractal sums octaves of noise and maps the result into [0, 1].
func (n *simplex) fractal(x, y, freq float64, octaves int) float64 {
	var total, norm float64
	amp := 1.0
	for range octaves {
		total += n.at(x*freq, y*freq) * amp
		norm += amp
		freq *= 2
		amp *= 0.5
	}
	return (total/norm + 1) / 2
}
