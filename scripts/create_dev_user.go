package main

import (
	"flag"
	"fmt"
	"log"

	"gin-accounts-api/internal/database"
	"gin-accounts-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Development helper: creates a user with the given role directly in the
// local sqlite database, for poking at the API without going through the
// admin endpoints.
func main() {
	role := flag.String("role", "admin", "User role (admin or user)")
	email := flag.String("email", "", "User email (defaults to <role>@dev.local)")
	password := flag.String("password", "dev-password-123", "User password")
	dbPath := flag.String("db", "accounts.sqlite", "Path to the sqlite database")
	flag.Parse()

	db, err := gorm.Open(sqlite.Open(*dbPath), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	userEmail := *email
	if userEmail == "" {
		userEmail = fmt.Sprintf("%s@dev.local", *role)
	}

	var roleRow models.Role
	if err := db.Where("name = ?", *role).FirstOrCreate(&roleRow, models.Role{Name: *role}).Error; err != nil {
		log.Fatal("Failed to get role:", err)
	}

	var existing models.User
	if err := db.Where("email = ?", userEmail).First(&existing).Error; err == nil {
		fmt.Printf("User already exists: %s (ID: %d)\n", existing.Email, existing.ID)
		return
	}

	user := models.User{
		Name:   fmt.Sprintf("%s User", *role),
		Email:  userEmail,
		RoleID: roleRow.ID,
	}
	if err := user.SetPassword(*password); err != nil {
		log.Fatal("Failed to hash password:", err)
	}
	if err := db.Create(&user).Error; err != nil {
		log.Fatal("Failed to create user:", err)
	}

	fmt.Printf("✓ Development user created with role '%s'!\n", *role)
	fmt.Printf("Email: %s\n", userEmail)
	fmt.Printf("Password: %s\n", *password)
	fmt.Println("\nLog in with:")
	fmt.Printf("curl -X POST http://localhost:8080/api/v1/auth/login \\\n")
	fmt.Printf("  -H 'Content-Type: application/json' \\\n")
	fmt.Printf("  -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", userEmail, *password)
}
