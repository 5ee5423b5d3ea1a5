package gen

import (
	"fmt"

	"github.com/aquilax/go-perlin"
)

// NoiseSource is a seeded 2D coherent noise field with output in roughly [-1, 1].
type NoiseSource interface {
	Noise2D(x, y float64) float64
}

var grad2 = [8][2]float64{
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
}

// NoiseGenerator is a seeded simplex field.
type NoiseGenerator struct {
	perm [512]uint8
}

// NewNoiseGenerator shuffles the permutation table from seed.
func NewNoiseGenerator(seed int64) *NoiseGenerator {
	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}

	s := uint64(seed)
	for i := 255; i > 0; i-- {
		s = s*6364136223846793005 + 1442695040888963407
		j := int((s >> 33) % uint64(i+1))
		p[i], p[j] = p[j], p[i]
	}

	ng := &NoiseGenerator{}
	for i := range ng.perm {
		ng.perm[i] = p[i&255]
	}
	return ng
}

func (ng *NoiseGenerator) corner(gi uint8, x, y float64) float64 {
	t := 0.5 - x*x - y*y
	if t < 0 {
		return 0
	}
	t *= t
	g := grad2[gi&7]
	return t * t * (g[0]*x + g[1]*y)
}

// Noise2D samples the field at (x, y).
func (ng *NoiseGenerator) Noise2D(x, y float64) float64 {
	const (
		f2 = 0.36602540378443864676 // (sqrt(3) - 1) / 2
		g2 = 0.21132486540518711775 // (3 - sqrt(3)) / 6
	)

	s := (x + y) * f2
	i := fastFloor(x + s)
	j := fastFloor(y + s)

	t := float64(i+j) * g2
	x0 := x - (float64(i) - t)
	y0 := y - (float64(j) - t)

	i1, j1 := 0, 1
	if x0 > y0 {
		i1, j1 = 1, 0
	}

	x1 := x0 - float64(i1) + g2
	y1 := y0 - float64(j1) + g2
	x2 := x0 - 1 + 2*g2
	y2 := y0 - 1 + 2*g2

	ii, jj := i&255, j&255
	n := ng.corner(ng.perm[ii+int(ng.perm[jj])], x0, y0) +
		ng.corner(ng.perm[ii+i1+int(ng.perm[jj+j1])], x1, y1) +
		ng.corner(ng.perm[ii+1+int(ng.perm[jj+1])], x2, y2)
	return 70 * n
}

func fastFloor(x float64) int {
	xi := int(x)
	if x < float64(xi) {
		return xi - 1
	}
	return xi
}

// Perlin adapts go-perlin to NoiseSource.
type Perlin struct {
	p *perlin.Perlin
}

// NewPerlin builds a perlin field with the usual alpha 2, beta 2 and three
// internal octaves.
func NewPerlin(seed int64) *Perlin {
	return &Perlin{p: perlin.NewPerlin(2, 2, 3, seed)}
}

func (p *Perlin) Noise2D(x, y float64) float64 { return p.p.Noise2D(x, y) }

// NewNoise returns the noise source registered under name.
func NewNoise(name string, seed int64) (NoiseSource, error) {
	switch name {
	case "simplex", "":
		return NewNoiseGenerator(seed), nil
	case "perlin":
		return NewPerlin(seed), nil
	default:
		return nil, fmt.Errorf("unknown noise source %q", name)
	}
}

// Octave2D sums octaves of src. Each octave's frequency grows by lacunarity and
// its amplitude shrinks by persistence. Raw samples are clamped to [-1, 1] and
// the sum is normalised by total amplitude, so the result stays in [-1, 1].
func Octave2D(src NoiseSource, x, y float64, octaves int, lacunarity, persistence float64) float64 {
	var total, norm float64
	freq, amp := 1.0, 1.0
	for range octaves {
		v := src.Noise2D(x*freq, y*freq)
		total += min(max(v, -1), 1) * amp
		norm += amp
		freq *= lacunarity
		amp *= persistence
	}
	if norm == 0 {
		return 0
	}
	return total / norm
}
