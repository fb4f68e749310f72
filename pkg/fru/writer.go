package fru

// UpdateRange describes a byte range whose on-media content changed as
// the result of a Write call. Ranges may overlap or abut; callers that
// need disjoint ranges must coalesce them.
type UpdateRange struct {
	Offset int
	Length int
}

// planner accumulates update ranges during a single encode pass. It is
// the concrete implementation of the Write Planner component: each area
// encoder reports the fine-grained ranges it changed, and the top-level
// FRU object hands the accumulated list back to the caller of Write.
type planner struct {
	ranges []UpdateRange
}

func (p *planner) add(offset, length int) {
	if length <= 0 {
		return
	}
	p.ranges = append(p.ranges, UpdateRange{Offset: offset, Length: length})
}

func (p *planner) addWhole(offset, length int) {
	p.add(offset, length)
}
