package eval

import (
	"math"
	"sync"

	"github.com/dangerclosesec/molselect/errs"
	"github.com/dangerclosesec/molselect/ir"
	"github.com/dangerclosesec/molselect/molctx"
)

// coordCache holds a context's x/y/z columns, built at most once per
// context identity (spec §4.5 expansion "Concurrent evaluation cache"),
// grounded on the teacher's IdentityGraph double-checked ruleCache.
type coordCache struct {
	once    sync.Once
	x, y, z []float64
	err     error
}

var coordCaches sync.Map // uintptr (CacheKey) -> *coordCache

func getCoords(ctx molctx.MolecularContext) ([]float64, []float64, []float64, error) {
	actual, _ := coordCaches.LoadOrStore(ctx.CacheKey(), &coordCache{})
	cc := actual.(*coordCache)
	cc.once.Do(func() {
		x, ok := ctx.FloatField("x")
		if !ok {
			cc.err = &errs.UnknownFieldError{Field: "x"}
			return
		}
		y, ok := ctx.FloatField("y")
		if !ok {
			cc.err = &errs.UnknownFieldError{Field: "y"}
			return
		}
		z, ok := ctx.FloatField("z")
		if !ok {
			cc.err = &errs.UnknownFieldError{Field: "z"}
			return
		}
		cc.x, cc.y, cc.z = x, y, z
	})
	return cc.x, cc.y, cc.z, cc.err
}

// cellKey is a bucket coordinate in the uniform grid.
type cellKey struct{ ix, iy, iz int }

// spatialGrid buckets atoms into cells of side cellSize, so a within-d
// query only has to scan the 27 buckets around a point instead of every
// atom (spec §4.5 "a uniform spatial grid, cell size = query distance").
type spatialGrid struct {
	cellSize     float64
	x, y, z      []float64
	buckets      map[cellKey][]int
}

func buildGrid(x, y, z []float64, cellSize float64) *spatialGrid {
	g := &spatialGrid{cellSize: cellSize, x: x, y: y, z: z, buckets: make(map[cellKey][]int)}
	for i := range x {
		k := g.cellOf(x[i], y[i], z[i])
		g.buckets[k] = append(g.buckets[k], i)
	}
	return g
}

func (g *spatialGrid) cellOf(x, y, z float64) cellKey {
	return cellKey{
		ix: int(math.Floor(x / g.cellSize)),
		iy: int(math.Floor(y / g.cellSize)),
		iz: int(math.Floor(z / g.cellSize)),
	}
}

// within returns every atom index within distance d (inclusive) of
// point (px,py,pz), scanning only the neighboring buckets.
func (g *spatialGrid) within(px, py, pz, d float64) []int {
	c := g.cellOf(px, py, pz)
	d2 := d * d
	var out []int
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				bucket := g.buckets[cellKey{c.ix + dx, c.iy + dy, c.iz + dz}]
				for _, j := range bucket {
					ddx, ddy, ddz := g.x[j]-px, g.y[j]-py, g.z[j]-pz
					if ddx*ddx+ddy*ddy+ddz*ddz <= d2 {
						out = append(out, j)
					}
				}
			}
		}
	}
	return out
}

func evalWithinSel(p *ir.WithinSel, ctx molctx.MolecularContext) (Mask, error) {
	dv, err := evalExpr(p.Distance, ctx)
	if err != nil {
		return nil, err
	}
	if dv.isVector() {
		return nil, &errs.TypeError{Detail: "within distance must be a pure numeric scalar"}
	}
	d := dv.sca
	if d < 0 {
		return nil, &errs.DomainError{Detail: "within distance must be non-negative"}
	}

	inner, err := evalPred(p.Inner, ctx)
	if err != nil {
		return nil, err
	}

	x, y, z, err := getCoords(ctx)
	if err != nil {
		return nil, err
	}
	// A zero cell size degenerates the grid to one bucket per point;
	// guard against within 0 of ... by using a minimum cell size of 1.
	cellSize := d
	if cellSize <= 0 {
		cellSize = 1
	}
	grid := buildGrid(x, y, z, cellSize)

	n := ctx.N()
	out := make(Mask, n)
	for i := 0; i < n; i++ {
		if !inner[i] {
			continue
		}
		for _, j := range grid.within(x[i], y[i], z[i], d) {
			out[j] = true
		}
	}

	if p.Op == ir.OpExWithin {
		out = maskAndNot(out, inner)
	}
	return out, nil
}
