package faction

import "github.com/l1jgo/skirmish/internal/entity"

// Prerequisites evaluates building requirement groups against the built
// buildings of one faction.
type Prerequisites struct {
	buildings *members
}

// IsSatisfied reports whether every requirement group of b has at least one
// built building of a listed code. No groups means no requirement.
func (p Prerequisites) IsSatisfied(b *entity.Entity) bool {
	for _, group := range b.Requirements {
		if !p.groupSatisfied(group) {
			return false
		}
	}
	return true
}

func (p Prerequisites) groupSatisfied(group entity.RequirementGroup) bool {
	for _, have := range p.buildings.byID {
		if have.Built && group.Contains(have.Code) {
			return true
		}
	}
	return false
}
