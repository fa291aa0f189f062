package pathfind

import (
	"container/heap"
	"math"
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"

	"aerocore/internal/geo"
	"aerocore/internal/zone"
)

// Polygonal is implemented by zone variants that expose their vertex list,
// which FindClosestValidPoint needs to locate the nearest vertex of the
// zone currently containing a query point.
type Polygonal interface {
	Vertices() []geo.Point
}

type zoneWeight struct {
	Zone   zone.Zone
	Weight float64
}

// Grid is the weighted lat/lon PathFinder: an m x n, 8-connected grid of
// Node centroids with per-zone weight registration and an A*-style
// shortest path.
type Grid struct {
	LatMin, LatMax, LonMin, LonMax float64
	GridSizeDeg                    float64
	Cols, Rows                     int
	Nodes                          []*Node
	BaseWeight                     float64
	Body                           geo.CentralBody

	mu          sync.RWMutex
	zoneWeights []zoneWeight
	index       *rtree.Rtree
	indexDirty  bool
}

// NewGrid builds the m x n grid, m = ceil((lonMax-lonMin)/gridSize),
// n = ceil((latMax-latMin)/gridSize), each cell centroid a node, each node
// connected to up to eight neighbors.
func NewGrid(latMin, latMax, lonMin, lonMax, gridSizeDeg, baseWeight float64, body geo.CentralBody) *Grid {
	cols := int(math.Ceil((lonMax - lonMin) / gridSizeDeg))
	rows := int(math.Ceil((latMax - latMin) / gridSizeDeg))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	g := &Grid{
		LatMin: latMin, LatMax: latMax, LonMin: lonMin, LonMax: lonMax,
		GridSizeDeg: gridSizeDeg, Cols: cols, Rows: rows,
		BaseWeight: baseWeight, Body: body,
		indexDirty: true,
	}

	g.Nodes = make([]*Node, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			lat := latMin + (float64(row)+0.5)*gridSizeDeg
			lon := lonMin + (float64(col)+0.5)*gridSizeDeg
			idx := row*cols + col
			g.Nodes[idx] = &Node{
				X: col, Y: row,
				BaseWeight: baseWeight,
				Weight:     baseWeight,
				Loc:        geo.New(lat, lon, 0),
				NetworkIdx: idx,
			}
		}
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			idx := row*cols + col
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					nr, nc := row+dr, col+dc
					if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
						continue
					}
					g.Nodes[idx].Neighbors = append(g.Nodes[idx].Neighbors, nr*cols+nc)
				}
			}
		}
	}
	return g
}

// RegisterZone adds a zone/weight pair consulted by RecalculateWeights.
func (g *Grid) RegisterZone(z zone.Zone, weight float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.zoneWeights = append(g.zoneWeights, zoneWeight{Zone: z, Weight: weight})
}

// RecalculateWeights sets every non-impassable node's weight to base plus
// the sum of weights of zones containing its centroid; a node carrying the
// sentinel impassable weight is left untouched. A registered *zone.Set
// batches its containment test over every node centroid in one call via
// ContainsGrid, which reuses a single rtree pass instead of re-walking the
// Set's full member/exclusion list once per node; other zone kinds fall
// back to a direct per-node Contains call.
func (g *Grid) RecalculateWeights() {
	g.mu.RLock()
	zw := append([]zoneWeight(nil), g.zoneWeights...)
	g.mu.RUnlock()

	nodes := make([]*Node, 0, len(g.Nodes))
	locs := make([]geo.Point, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Weight == Impassable {
			continue
		}
		nodes = append(nodes, n)
		locs = append(locs, n.Loc)
	}

	add := make([]float64, len(nodes))
	for _, z := range zw {
		if set, ok := z.Zone.(*zone.Set); ok {
			inside := set.ContainsGrid(locs, geo.Point{}, 0, g.Body)
			for i, in := range inside {
				if in {
					add[i] += z.Weight
				}
			}
			continue
		}
		for i, loc := range locs {
			if z.Zone.Contains(loc, loc, 0, g.Body) {
				add[i] += z.Weight
			}
		}
	}
	for i, n := range nodes {
		n.Weight = n.BaseWeight + add[i]
	}
}

func (g *Grid) considerNode(n *Node) bool { return n.Weight != Impassable }

// ensureIndex (re)builds the rtree of node centroids used for nearest-node
// lookups (DESIGN.md: ctessum/geom/index/rtree for nearest-node queries,
// the same role it plays for zone.Set's member index).
func (g *Grid) ensureIndex() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.indexDirty && g.index != nil {
		return
	}
	tree := rtree.NewTree(25, 50)
	for _, n := range g.Nodes {
		tree.Insert(&nodeItem{node: n})
	}
	g.index = tree
	g.indexDirty = false
}

type nodeItem struct{ node *Node }

func (it *nodeItem) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: it.node.Loc.LonDeg, Y: it.node.Loc.LatDeg},
		Max: geom.Point{X: it.node.Loc.LonDeg, Y: it.node.Loc.LatDeg},
	}
}

// nearestNode finds the grid node closest to p, expanding the rtree search
// window until at least one candidate is found.
func (g *Grid) nearestNode(p geo.Point) *Node {
	g.ensureIndex()
	g.mu.RLock()
	idx := g.index
	g.mu.RUnlock()

	window := g.GridSizeDeg * 2
	var best *Node
	bestDist := math.Inf(1)
	for attempt := 0; attempt < 8 && best == nil; attempt++ {
		bounds := &geom.Bounds{
			Min: geom.Point{X: p.LonDeg - window, Y: p.LatDeg - window},
			Max: geom.Point{X: p.LonDeg + window, Y: p.LatDeg + window},
		}
		for _, hit := range idx.SearchIntersect(bounds) {
			item, ok := hit.(*nodeItem)
			if !ok {
				continue
			}
			d := p.SlantRangeTo(item.node.Loc, true, g.Body)
			if d < bestDist {
				bestDist = d
				best = item.node
			}
		}
		window *= 2
	}
	if best == nil && len(g.Nodes) > 0 {
		// Degenerate fallback: brute force over every node.
		for _, n := range g.Nodes {
			d := p.SlantRangeTo(n.Loc, true, g.Body)
			if d < bestDist {
				bestDist = d
				best = n
			}
		}
	}
	return best
}

// priorityItem is an entry in FindPath's open-set heap.
type priorityItem struct {
	nodeIdx  int
	priority float64
	index    int
}

type priorityQueue []*priorityItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].priority < pq[j].priority }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i]; pq[i].index, pq[j].index = i, j }
func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*priorityItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// FindPath runs an A*-style shortest path from startLLA to endLLA over the
// grid: cost = edgeLength * targetNode.weight, heuristic = great-circle
// distance to goal. Altitude on every returned waypoint is inherited from
// startLLA, never interpolated along the path.
func (g *Grid) FindPath(startLLA, endLLA geo.Point) []geo.Point {
	start := g.nearestNode(startLLA)
	end := g.nearestNode(endLLA)
	if start == nil || end == nil {
		return nil
	}

	const unvisited = -1
	dist := make([]float64, len(g.Nodes))
	prev := make([]int, len(g.Nodes))
	for i := range dist {
		dist[i] = math.Inf(1)
		prev[i] = unvisited
	}
	dist[start.NetworkIdx] = 0

	pq := &priorityQueue{}
	heap.Init(pq)
	heap.Push(pq, &priorityItem{nodeIdx: start.NetworkIdx, priority: 0})

	visited := make([]bool, len(g.Nodes))

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*priorityItem)
		if visited[cur.nodeIdx] {
			continue
		}
		visited[cur.nodeIdx] = true
		if cur.nodeIdx == end.NetworkIdx {
			break
		}
		curNode := g.Nodes[cur.nodeIdx]
		for _, nIdx := range curNode.Neighbors {
			neighbor := g.Nodes[nIdx]
			if !g.considerNode(neighbor) {
				continue
			}
			edgeLen := curNode.Loc.SlantRangeTo(neighbor.Loc, true, g.Body)
			cost := edgeLen * neighbor.Weight
			alt := dist[cur.nodeIdx] + cost
			if alt < dist[nIdx] {
				dist[nIdx] = alt
				prev[nIdx] = cur.nodeIdx
				heuristic := neighbor.Loc.SlantRangeTo(end.Loc, true, g.Body)
				heap.Push(pq, &priorityItem{nodeIdx: nIdx, priority: alt + heuristic})
			}
		}
	}

	if math.IsInf(dist[end.NetworkIdx], 1) {
		return nil
	}

	var pathIdx []int
	for at := end.NetworkIdx; at != unvisited; at = prev[at] {
		pathIdx = append([]int{at}, pathIdx...)
		if at == start.NetworkIdx {
			break
		}
	}

	out := make([]geo.Point, len(pathIdx))
	for i, idx := range pathIdx {
		p := g.Nodes[idx].Loc
		p.AltM = startLLA.AltM
		out[i] = p
	}
	return out
}

// FindClosestValidPoint searches the containing zone's nearest vertex, then
// among that vertex's nearest grid node's outgoing neighbors for the first
// one outside the zone.
func (g *Grid) FindClosestValidPoint(point geo.Point) geo.Point {
	g.mu.RLock()
	zw := append([]zoneWeight(nil), g.zoneWeights...)
	g.mu.RUnlock()

	var containing zone.Zone
	for _, z := range zw {
		if z.Zone.Contains(point, point, 0, g.Body) {
			containing = z.Zone
			break
		}
	}
	if containing == nil {
		return point
	}

	poly, ok := containing.(Polygonal)
	if !ok {
		return point
	}
	vertices := poly.Vertices()
	if len(vertices) == 0 {
		return point
	}

	nearestVertex := vertices[0]
	best := math.Inf(1)
	for _, v := range vertices {
		d := point.SlantRangeTo(v, true, g.Body)
		if d < best {
			best = d
			nearestVertex = v
		}
	}

	node := g.nearestNode(nearestVertex)
	if node == nil {
		return point
	}
	for _, nIdx := range node.Neighbors {
		candidate := g.Nodes[nIdx]
		if !containing.Contains(candidate.Loc, candidate.Loc, 0, g.Body) {
			return candidate.Loc
		}
	}
	return point
}

// quadrant identifies one of the four grid-rim scans FindClosestPointOnEdge
// cycles through.
type quadrant int

const (
	quadNE quadrant = iota
	quadNW
	quadSE
	quadSW
)

// rimNodes returns the border row/column of nodes facing quadrant q.
func (g *Grid) rimNodes(q quadrant) []*Node {
	var out []*Node
	switch q {
	case quadNE, quadNW:
		for col := 0; col < g.Cols; col++ {
			out = append(out, g.Nodes[(g.Rows-1)*g.Cols+col])
		}
	case quadSE, quadSW:
		for col := 0; col < g.Cols; col++ {
			out = append(out, g.Nodes[col])
		}
	}
	return out
}

func quadrantOf(g *Grid, p geo.Point) quadrant {
	centerLat := (g.LatMin + g.LatMax) / 2
	centerLon := (g.LonMin + g.LonMax) / 2
	north := p.LatDeg >= centerLat
	east := p.LonDeg >= centerLon
	switch {
	case north && east:
		return quadNE
	case north && !east:
		return quadNW
	case !north && east:
		return quadSE
	default:
		return quadSW
	}
}

// FindClosestPointOnEdge selects one of four quadrant-rim node scans,
// skipping impassable nodes; if no path to the chosen rim exists it cycles
// to the next quadrant up to four times. It returns the input point
// unchanged if all four quadrants fail, rather than an error (see
// DESIGN.md's Open Question decisions).
func (g *Grid) FindClosestPointOnEdge(point geo.Point) geo.Point {
	order := [4]quadrant{quadrantOf(g, point), 0, 0, 0}
	all := []quadrant{quadNE, quadNW, quadSE, quadSW}
	i := 1
	for _, q := range all {
		if q == order[0] {
			continue
		}
		order[i] = q
		i++
	}

	for _, q := range order {
		for _, rimNode := range g.rimNodes(q) {
			if !g.considerNode(rimNode) {
				continue
			}
			path := g.FindPath(point, rimNode.Loc)
			if len(path) > 0 {
				return rimNode.Loc
			}
		}
	}
	return point
}
