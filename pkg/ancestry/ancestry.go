// Package ancestry implements the common-ancestor search and the
// ahead/behind distance derived from it (spec section 4.4). The search
// walks backward along immediate parent edges, so it works identically
// whether both revisions live in the same repository or in two different
// ones — the caller supplies a ParentLookup per side.
package ancestry

// ParentLookup returns the immediate parents of a revision id. It is the
// indirection that lets CommonAncestor compare revisions across two
// repository roots without this package knowing about repositories.
type ParentLookup func(id string) ([]string, error)

// Result is the outcome of a common-ancestor search: the signed distance
// (positive means the "into" side's walk landed on a node the "from" side
// had already visited, so "into" is ahead by that many commits; negative
// means the "from" side's walk landed on an "into" node, so "into" is
// behind) and the ancestor id, if one was found.
type Result struct {
	Distance int
	Ancestor string
	Found    bool
}

type queueItem struct {
	id       string
	distance int
}

// CommonAncestor performs an interleaved breadth-first search backward
// from idInto (using lookupInto) and from idFrom (using lookupFrom),
// alternating one step per side, until one side's frontier lands on a
// node the other side has already visited.
func CommonAncestor(idInto string, lookupInto ParentLookup, idFrom string, lookupFrom ParentLookup) (Result, error) {
	if idInto == idFrom {
		return Result{Distance: 0, Ancestor: idInto, Found: true}, nil
	}

	queueInto := []queueItem{{id: idInto, distance: 0}}
	queueFrom := []queueItem{{id: idFrom, distance: 0}}
	visitedInto := map[string]bool{}
	visitedFrom := map[string]bool{}

	for len(queueInto) > 0 || len(queueFrom) > 0 {
		if len(queueInto) > 0 {
			cur := queueInto[0]
			queueInto = queueInto[1:]

			if visitedFrom[cur.id] {
				return Result{Distance: cur.distance, Ancestor: cur.id, Found: true}, nil
			}
			if !visitedInto[cur.id] {
				visitedInto[cur.id] = true
				parents, err := lookupInto(cur.id)
				if err == nil {
					for _, p := range parents {
						queueInto = append(queueInto, queueItem{id: p, distance: cur.distance + 1})
					}
				}
			}
		}

		if len(queueFrom) > 0 {
			cur := queueFrom[0]
			queueFrom = queueFrom[1:]

			if visitedInto[cur.id] {
				return Result{Distance: -cur.distance, Ancestor: cur.id, Found: true}, nil
			}
			if !visitedFrom[cur.id] {
				visitedFrom[cur.id] = true
				parents, err := lookupFrom(cur.id)
				if err == nil {
					for _, p := range parents {
						queueFrom = append(queueFrom, queueItem{id: p, distance: cur.distance + 1})
					}
				}
			}
		}
	}

	return Result{}, nil
}

// AheadBehind reports how many commits idInto is ahead of (positive) or
// behind (negative) idFrom. It is CommonAncestor with only the distance
// surfaced, matching spec section 4.4's "ahead/behind uses this signed
// distance" rule.
func AheadBehind(idInto string, lookupInto ParentLookup, idFrom string, lookupFrom ParentLookup) (int, error) {
	res, err := CommonAncestor(idInto, lookupInto, idFrom, lookupFrom)
	if err != nil {
		return 0, err
	}
	return res.Distance, nil
}
