package bootstrap

import (
	"log"

	"anoa.com/threadboard/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoPassword = "password123"

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Thread{},
		&entity.ThreadMember{},
		&entity.Post{},
	)
}

// SeedDemoData creates two users and a welcome thread for local development.
// It is a no-op once the first demo user exists.
func SeedDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.User{}).
		Where("username = ?", "alice").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Demo data already exists, skipping seed")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		alice := entity.User{Username: "alice", Email: "alice@example.com", PasswordHash: string(hashed)}
		bob := entity.User{Username: "bob", Email: "bob@example.com", PasswordHash: string(hashed)}
		if err := tx.Create(&alice).Error; err != nil {
			return err
		}
		if err := tx.Create(&bob).Error; err != nil {
			return err
		}

		welcome := entity.Thread{
			Title:    "Welcome to threadboard",
			Content:  "Say hello below. Private threads are only visible to people you invite.",
			AuthorID: alice.ID,
		}
		if err := tx.Omit("Author").Create(&welcome).Error; err != nil {
			return err
		}

		private := entity.Thread{
			Title:     "Planning",
			Content:   "Only alice and bob can see this.",
			IsPrivate: true,
			AuthorID:  alice.ID,
		}
		if err := tx.Omit("Author").Create(&private).Error; err != nil {
			return err
		}

		member := entity.ThreadMember{ThreadID: private.ID, UserID: bob.ID}
		if err := tx.Omit("Thread", "User").Create(&member).Error; err != nil {
			return err
		}

		log.Println("✅ Demo data seeded successfully")
		log.Printf("   Users: alice@example.com / bob@example.com, password: %s", demoPassword)
		return nil
	})
}
