package model

import "strings"

// SkillCategory groups skills for display and filtering.
type SkillCategory string

const (
	SkillCategoryTech      SkillCategory = "Tech"
	SkillCategoryCreative  SkillCategory = "Creative"
	SkillCategoryBusiness  SkillCategory = "Business"
	SkillCategoryLifestyle SkillCategory = "Lifestyle"
	SkillCategoryOther     SkillCategory = "Other"
)

// Valid reports whether c is one of the known categories.
func (c SkillCategory) Valid() bool {
	switch c {
	case SkillCategoryTech, SkillCategoryCreative, SkillCategoryBusiness, SkillCategoryLifestyle, SkillCategoryOther:
		return true
	}
	return false
}

// SkillList names one of the two skill lists on a profile.
type SkillList string

const (
	SkillListOffered SkillList = "offered"
	SkillListWanted  SkillList = "wanted"
)

// Valid reports whether l names a known list.
func (l SkillList) Valid() bool {
	return l == SkillListOffered || l == SkillListWanted
}

// Skill is a named capability. Skills are copied by value into every listing
// and swap request that references them.
type Skill struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Category SkillCategory `json:"category"`
}

// SameAs reports whether two skills share name (case-insensitive) and category.
func (s Skill) SameAs(other Skill) bool {
	return s.Category == other.Category &&
		strings.EqualFold(strings.TrimSpace(s.Name), strings.TrimSpace(other.Name))
}

// FindSkill returns the skill with the given ID from skills.
func FindSkill(skills []Skill, id string) (Skill, bool) {
	for _, s := range skills {
		if s.ID == id {
			return s, true
		}
	}
	return Skill{}, false
}

// SkillNames returns the names of skills in order.
func SkillNames(skills []Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}
