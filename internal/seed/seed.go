// internal/seed/seed.go
package seed

import (
	"context"
	"log"

	"github.com/bcabs/josephs-list/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	// Skip when data already exists
	existing, _ := repos.ProfileRepo.FindByEmail(ctx, "joseph@maplestreet.coop")
	if existing != nil {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] 🌱 Creating initial data with real scenarios...")

	// ============================================
	// CREATE USERS (3 neighbors)
	// ============================================
	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// 1. JOSEPH - founder of the street group
	joseph := &repository.Profile{
		Email:        "joseph@maplestreet.coop",
		PasswordHash: string(password),
		FullName:     "Joseph Alvarez",
		Bio:          stringPtr("Happy to lend anything in the garage"),
	}
	repos.ProfileRepo.Create(ctx, joseph)

	// 2. PRIYA - member of the street group
	priya := &repository.Profile{
		Email:        "priya@maplestreet.coop",
		PasswordHash: string(password),
		FullName:     "Priya Raman",
	}
	repos.ProfileRepo.Create(ctx, priya)

	// 3. TOM - no group yet, can see nothing
	tom := &repository.Profile{
		Email:        "tom@elsewhere.test",
		PasswordHash: string(password),
		FullName:     "Tom Becker",
	}
	repos.ProfileRepo.Create(ctx, tom)

	log.Printf("✅ Created 3 users: Joseph (admin), Priya (member), Tom (no group)")

	// ============================================
	// CREATE GROUP
	// Joseph founds "Maple Street Tool Library"
	// ============================================
	group := &repository.Group{
		Name:        "Maple Street Tool Library",
		Description: stringPtr("Shared tools for everyone on Maple Street"),
		AdminID:     joseph.ID,
	}
	repos.GroupRepo.CreateWithAdmin(ctx, group)

	repos.GroupRepo.AddMember(ctx, &repository.GroupMember{
		GroupID: group.ID,
		UserID:  priya.ID,
		Role:    "member",
	})

	log.Printf("✅ Created group %q with Joseph as admin and Priya as member", group.Name)

	// ============================================
	// CREATE TOOLS
	// ============================================
	ladder := &repository.Tool{
		Name:        "Extension Ladder",
		Description: "24ft aluminum ladder, good for gutters and second-story windows",
		OwnerID:     joseph.ID,
	}
	repos.ToolRepo.Create(ctx, ladder)

	drill := &repository.Tool{
		Name:        "Cordless Drill",
		Description: "18V drill with two batteries and a bit set",
		OwnerID:     priya.ID,
	}
	repos.ToolRepo.Create(ctx, drill)

	log.Printf("✅ Created 2 tools visible inside the group")
	log.Println("[Seed] 🎉 Done")
}

func stringPtr(s string) *string {
	return &s
}
