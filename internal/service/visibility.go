package service

import (
	"strings"

	"github.com/google/uuid"

	"skillhub/internal/model"
)

// BrowsableProfiles returns the profiles a viewer may discover: public, not
// banned, and not the viewer's own. Input order is preserved.
func BrowsableProfiles(viewerID uuid.UUID, profiles []model.Profile) []model.Profile {
	out := make([]model.Profile, 0, len(profiles))
	for _, p := range profiles {
		if !p.IsPublic || p.Banned || p.ID == viewerID {
			continue
		}
		out = append(out, p)
	}
	return out
}

// MatchSkill reports whether term occurs in the name of any offered or wanted
// skill. Matching ignores case and surrounding whitespace; an empty term
// matches every profile.
func MatchSkill(profile *model.Profile, term string) bool {
	needle := normalizeTerm(term)
	if needle == "" {
		return true
	}
	for _, list := range [][]model.Skill{profile.SkillsOffered, profile.SkillsWanted} {
		for _, s := range list {
			if strings.Contains(strings.ToLower(s.Name), needle) {
				return true
			}
		}
	}
	return false
}

// MatchName reports whether term occurs in the profile's display name.
func MatchName(profile *model.Profile, term string) bool {
	needle := normalizeTerm(term)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(profile.Name), needle)
}

func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// CanEditProfile reports whether actorID may edit the owner fields of targetID.
// Admins get no extra rights here.
func CanEditProfile(actorID, targetID uuid.UUID) bool {
	return actorID == targetID
}

// CanBan reports whether actor may change the banned flag of target. Admins
// cannot ban other admins or themselves.
func CanBan(actor model.Actor, target *model.Profile) bool {
	return actor.IsAdmin() && !target.IsAdmin()
}

// CanViewProfile reports whether actor may read target's full profile.
func CanViewProfile(actor model.Actor, target *model.Profile) bool {
	if actor.UserID == target.ID || actor.IsAdmin() {
		return true
	}
	return target.IsPublic && !target.Banned
}
