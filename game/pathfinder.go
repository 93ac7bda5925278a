package game

import "errors"

// Pathfinding errors.
var (
	ErrNoPath          = errors.New("no path to destination")
	ErrAlreadyAtTarget = errors.New("already at target")
)

// neighborOffsets is the fixed expansion order (up, right, down, left)
// so equal-length paths always tie-break the same way.
var neighborOffsets = [4]Position{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

// PathFinder computes shortest paths over the walkable tiles of a grid.
type PathFinder struct {
	grid *Grid
}

// NewPathFinder creates a PathFinder bound to the given grid.
func NewPathFinder(g *Grid) *PathFinder {
	return &PathFinder{grid: g}
}

// FindPath returns the shortest 4-connected path from start to goal,
// both inclusive. Paths are shortest by step count; the grid is
// unweighted.
//
// A goal that cannot be stepped onto (wall tile or blocking occupant)
// gets approach semantics: the path leads to the best reachable tile
// adjacent to the goal, or failing that to the reachable tile closest
// to the goal by Manhattan distance, provided that tile is strictly
// closer than start. A walkable goal that the search cannot reach
// fails with ErrNoPath. start == goal fails with ErrAlreadyAtTarget.
func (f *PathFinder) FindPath(start, goal Position) ([]Position, error) {
	if !f.grid.InBounds(start.X, start.Y) || !f.grid.InBounds(goal.X, goal.Y) {
		return nil, ErrOutOfBounds
	}
	if start == goal {
		return nil, ErrAlreadyAtTarget
	}

	goalWalkable := f.grid.IsWalkable(goal.X, goal.Y)

	// Breadth-first flood from start. The start tile is expandable even
	// though the agent standing on it makes it non-walkable.
	parent := map[Position]Position{start: start}
	order := []Position{start}
	frontier := []Position{start}

	for len(frontier) > 0 {
		current := frontier[0]
		frontier = frontier[1:]

		if current == goal {
			return f.reconstruct(parent, start, goal), nil
		}

		for _, delta := range neighborOffsets {
			next := Position{X: current.X + delta.X, Y: current.Y + delta.Y}
			if _, seen := parent[next]; seen {
				continue
			}
			if !f.grid.IsWalkable(next.X, next.Y) {
				continue
			}
			parent[next] = current
			order = append(order, next)
			frontier = append(frontier, next)
		}
	}

	if goalWalkable {
		// The goal tile itself is enterable but disconnected from start.
		return nil, ErrNoPath
	}
	return f.approach(parent, order, start, goal)
}

// approach picks a stand-in destination for a goal that cannot be
// entered. BFS visit order is breadth order, so the first match in
// order is also the closest by step count.
func (f *PathFinder) approach(parent map[Position]Position, order []Position, start, goal Position) ([]Position, error) {
	for _, visited := range order {
		if visited.ManhattanTo(goal) != 1 {
			continue
		}
		if visited == start {
			// The agent already stands beside the target.
			return nil, ErrAlreadyAtTarget
		}
		return f.reconstruct(parent, start, visited), nil
	}

	best := start
	bestDist := start.ManhattanTo(goal)
	for _, visited := range order {
		if d := visited.ManhattanTo(goal); d < bestDist {
			best = visited
			bestDist = d
		}
	}
	if best == start {
		return nil, ErrNoPath
	}
	return f.reconstruct(parent, start, best), nil
}

// reconstruct walks the parent links back from dest and reverses them.
func (f *PathFinder) reconstruct(parent map[Position]Position, start, dest Position) []Position {
	path := []Position{dest}
	for current := dest; current != start; {
		current = parent[current]
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
