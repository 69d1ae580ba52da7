package main

import (
	"context"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skillhub/internal/config"
	"skillhub/internal/db"
	"skillhub/internal/model"
	"skillhub/internal/repository"
)

const seedPassword = "password123"

type seedProfile struct {
	name, email, location, availability, interests string
	admin, banned, public                          bool
	offered, wanted                                []string
}

type seedSwap struct {
	from, to        string
	offered, wanted string
	status          model.SwapStatus
	fromRating      int
	fromFeedback    string
	toRating        int
	toFeedback      string
}

var catalog = map[string]model.SkillCategory{
	"Photoshop":    model.SkillCategoryCreative,
	"Excel":        model.SkillCategoryBusiness,
	"React":        model.SkillCategoryTech,
	"Guitar":       model.SkillCategoryLifestyle,
	"Copywriting":  model.SkillCategoryCreative,
	"Next.js":      model.SkillCategoryTech,
	"SEO":          model.SkillCategoryBusiness,
	"Yoga":         model.SkillCategoryLifestyle,
	"Illustration": model.SkillCategoryCreative,
	"Node.js":      model.SkillCategoryTech,
}

var profiles = []seedProfile{
	{
		name: "Alex Doe", email: "alex@example.com", location: "San Francisco, CA",
		availability: "Evenings & Weekends", public: true,
		interests: "I am a web developer looking to get into music production and mindfulness practices.",
		offered:   []string{"Photoshop", "React", "Next.js"},
		wanted:    []string{"Guitar", "Yoga"},
	},
	{
		name: "Jane Smith", email: "jane@example.com", location: "New York, NY",
		availability: "Weekdays", public: true,
		interests: "Marketing specialist and musician. I want to improve my design skills.",
		offered:   []string{"Guitar", "Copywriting", "Illustration"},
		wanted:    []string{"Photoshop", "Excel"},
	},
	{
		name: "Sam Wilson", email: "sam@example.com", location: "Chicago, IL",
		availability: "Weekends", banned: true,
		interests: "Business analyst who wants to learn backend development.",
		offered:   []string{"Excel", "SEO"},
		wanted:    []string{"Node.js"},
	},
	{
		name: "Admin User", email: "admin@example.com", location: "Control Room",
		availability: "24/7", admin: true,
		interests: "Overseeing the SkillHub platform.",
	},
}

var swaps = []seedSwap{
	{from: "jane@example.com", to: "alex@example.com", offered: "Guitar", wanted: "React", status: model.SwapStatusPending},
	{from: "alex@example.com", to: "sam@example.com", offered: "Next.js", wanted: "SEO", status: model.SwapStatusPending},
	{from: "sam@example.com", to: "jane@example.com", offered: "Excel", wanted: "Copywriting", status: model.SwapStatusAccepted},
	{
		from: "alex@example.com", to: "jane@example.com", offered: "Photoshop", wanted: "Illustration",
		status:     model.SwapStatusCompleted,
		fromRating: 5, fromFeedback: "Jane was a fantastic and patient teacher!",
		toRating: 4, toFeedback: "Alex was great, very knowledgeable.",
	},
	{
		from: "jane@example.com", to: "alex@example.com", offered: "Copywriting", wanted: "Next.js",
		status:     model.SwapStatusCompleted,
		fromRating: 5, fromFeedback: "Great experience!",
	},
}

// path from pending to each seeded status
var statusPath = map[model.SwapStatus][]model.SwapStatus{
	model.SwapStatusPending:   nil,
	model.SwapStatusAccepted:  {model.SwapStatusAccepted},
	model.SwapStatusCompleted: {model.SwapStatusAccepted, model.SwapStatusCompleted},
}

func main() {
	log.Println("Starting seed script...")
	ctx := context.Background()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB, cfg.ResetDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ids, err := repository.NewIDGenerator(cfg.SnowflakeNode)
	if err != nil {
		log.Fatalf("Failed to create id generator: %v", err)
	}
	profileRepo := repository.NewProfileRepository(gormDB)
	swapRepo := repository.NewSwapRepository(gormDB, ids)

	if existing, err := profileRepo.FindByEmail(ctx, profiles[0].email); err != nil {
		log.Fatalf("Failed to check existing data: %v", err)
	} else if existing != nil {
		log.Println("Seed data already present, nothing to do")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	byEmail := make(map[string]*model.Profile, len(profiles))
	for _, sp := range profiles {
		p := model.NewProfile(sp.name, sp.email)
		p.PasswordHash = string(hash)
		p.Location = sp.location
		p.Availability = sp.availability
		p.Interests = sp.interests
		p.IsPublic = sp.public
		if sp.admin {
			p.Role = model.RoleAdmin
		}
		p.SkillsOffered = skillList(sp.offered)
		p.SkillsWanted = skillList(sp.wanted)

		if err := profileRepo.Create(ctx, p); err != nil {
			log.Fatalf("Failed to create profile %s: %v", sp.email, err)
		}
		byEmail[sp.email] = p
	}
	log.Printf("Created %d profiles (password %q)", len(profiles), seedPassword)

	for _, ss := range swaps {
		from, to := byEmail[ss.from], byEmail[ss.to]
		offered, ok := findByName(from.SkillsOffered, ss.offered)
		if !ok {
			log.Fatalf("Seed swap: %s does not offer %q", ss.from, ss.offered)
		}
		wanted, ok := findByName(to.SkillsOffered, ss.wanted)
		if !ok {
			log.Fatalf("Seed swap: %s does not offer %q", ss.to, ss.wanted)
		}

		req := &model.SwapRequest{
			FromUserID:   from.ID,
			ToUserID:     to.ID,
			OfferedSkill: offered,
			WantedSkill:  wanted,
		}
		if err := swapRepo.Create(ctx, req); err != nil {
			log.Fatalf("Failed to create swap request: %v", err)
		}

		current := req.Status
		for _, next := range statusPath[ss.status] {
			if _, err := swapRepo.UpdateStatus(ctx, req.ID, current, next); err != nil {
				log.Fatalf("Failed to move swap request %s to %s: %v", req.ID, next, err)
			}
			current = next
		}
		if ss.fromRating > 0 {
			if _, err := swapRepo.AttachRating(ctx, req.ID, model.SideFrom, ss.fromRating, ss.fromFeedback); err != nil {
				log.Fatalf("Failed to rate swap request %s: %v", req.ID, err)
			}
		}
		if ss.toRating > 0 {
			if _, err := swapRepo.AttachRating(ctx, req.ID, model.SideTo, ss.toRating, ss.toFeedback); err != nil {
				log.Fatalf("Failed to rate swap request %s: %v", req.ID, err)
			}
		}
	}
	log.Printf("Created %d swap requests", len(swaps))

	// Bans are applied once every swap exists.
	banned := true
	for _, sp := range profiles {
		if !sp.banned {
			continue
		}
		if _, err := profileRepo.Update(ctx, byEmail[sp.email].ID, model.ProfilePatch{Banned: &banned}); err != nil {
			log.Fatalf("Failed to ban profile %s: %v", sp.email, err)
		}
		log.Printf("Banned %s", sp.email)
	}
	log.Println("Seed completed")
}

func skillList(names []string) []model.Skill {
	skills := make([]model.Skill, 0, len(names))
	for _, name := range names {
		skills = append(skills, model.Skill{ID: uuid.NewString(), Name: name, Category: catalog[name]})
	}
	return skills
}

func findByName(skills []model.Skill, name string) (model.Skill, bool) {
	for _, s := range skills {
		if s.Name == name {
			return s, true
		}
	}
	return model.Skill{}, false
}
