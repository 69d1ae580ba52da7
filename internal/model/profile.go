package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the authorization role of a profile.
type Role string

const (
	RoleStandard Role = "standard"
	RoleAdmin    Role = "admin"
)

// Signup defaults applied to new profiles.
const (
	DefaultAvatarURL    = "https://placehold.co/100x100.png"
	DefaultAvailability = "Not set"
	DefaultInterests    = "Not set yet. Please edit your profile!"
)

// Profile is a user's identity record plus the skills they offer and want.
type Profile struct {
	ID            uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name          string    `json:"name" gorm:"size:255;not null"`
	Email         string    `json:"email" gorm:"size:255;not null"`
	EmailKey      string    `json:"-" gorm:"size:255;not null;uniqueIndex"` // lower-cased email
	PasswordHash  string    `json:"-" gorm:"size:255"`
	Role          Role      `json:"role" gorm:"type:varchar(20);not null;default:'standard'"`
	Banned        bool      `json:"banned" gorm:"not null;index"`
	Location      string    `json:"location,omitempty" gorm:"size:255"`
	AvatarURL     string    `json:"avatar_url,omitempty" gorm:"size:512"`
	SkillsOffered []Skill   `json:"skills_offered" gorm:"serializer:json;type:json"`
	SkillsWanted  []Skill   `json:"skills_wanted" gorm:"serializer:json;type:json"`
	Availability  string    `json:"availability" gorm:"size:255"`
	IsPublic      bool      `json:"is_public" gorm:"not null;index"`
	Interests     string    `json:"interests" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName pins the table name used by the relational backend.
func (Profile) TableName() string { return "profiles" }

// BeforeCreate sets UUID and the email key before creating the record.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.EmailKey = EmailKey(p.Email)
	return nil
}

// IsAdmin reports whether the profile carries the admin role.
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Skills returns the named skill list.
func (p *Profile) Skills(list SkillList) []Skill {
	if list == SkillListWanted {
		return p.SkillsWanted
	}
	return p.SkillsOffered
}

// Clone returns a deep copy of p.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.SkillsOffered = cloneSkills(p.SkillsOffered)
	c.SkillsWanted = cloneSkills(p.SkillsWanted)
	return &c
}

// NewProfile builds a profile with signup defaults.
func NewProfile(name, email string) *Profile {
	return &Profile{
		Name:          name,
		Email:         email,
		Role:          RoleStandard,
		AvatarURL:     DefaultAvatarURL,
		SkillsOffered: []Skill{},
		SkillsWanted:  []Skill{},
		Availability:  DefaultAvailability,
		IsPublic:      true,
		Interests:     DefaultInterests,
	}
}

// EmailKey normalizes an email for case-insensitive comparison.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ProfilePatch carries a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	Name          *string  `json:"name,omitempty"`
	Location      *string  `json:"location,omitempty"`
	AvatarURL     *string  `json:"avatar_url,omitempty"`
	Availability  *string  `json:"availability,omitempty"`
	Interests     *string  `json:"interests,omitempty"`
	IsPublic      *bool    `json:"is_public,omitempty"`
	SkillsOffered *[]Skill `json:"skills_offered,omitempty"`
	SkillsWanted  *[]Skill `json:"skills_wanted,omitempty"`

	// Banned is admin-writable only.
	Banned *bool `json:"banned,omitempty"`
}

// TouchesOwnerFields reports whether any owner-writable field is set.
func (p ProfilePatch) TouchesOwnerFields() bool {
	return p.Name != nil || p.Location != nil || p.AvatarURL != nil ||
		p.Availability != nil || p.Interests != nil || p.IsPublic != nil ||
		p.SkillsOffered != nil || p.SkillsWanted != nil
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return !p.TouchesOwnerFields() && p.Banned == nil
}

// Apply merges the set fields into profile.
func (p ProfilePatch) Apply(profile *Profile) {
	if p.Name != nil {
		profile.Name = *p.Name
	}
	if p.Location != nil {
		profile.Location = *p.Location
	}
	if p.AvatarURL != nil {
		profile.AvatarURL = *p.AvatarURL
	}
	if p.Availability != nil {
		profile.Availability = *p.Availability
	}
	if p.Interests != nil {
		profile.Interests = *p.Interests
	}
	if p.IsPublic != nil {
		profile.IsPublic = *p.IsPublic
	}
	if p.SkillsOffered != nil {
		profile.SkillsOffered = cloneSkills(*p.SkillsOffered)
	}
	if p.SkillsWanted != nil {
		profile.SkillsWanted = cloneSkills(*p.SkillsWanted)
	}
	if p.Banned != nil {
		profile.Banned = *p.Banned
	}
}

// WithSkills returns a patch replacing the named list.
func WithSkills(list SkillList, skills []Skill) ProfilePatch {
	if list == SkillListWanted {
		return ProfilePatch{SkillsWanted: &skills}
	}
	return ProfilePatch{SkillsOffered: &skills}
}

func cloneSkills(skills []Skill) []Skill {
	if skills == nil {
		return nil
	}
	out := make([]Skill, len(skills))
	copy(out, skills)
	return out
}
