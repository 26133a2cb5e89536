// Seeds a development database with a couple of users and tasks.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"zurich_todo/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), 12)
	if err != nil {
		log.Fatal(err)
	}

	users := []struct {
		username, email, first, last string
	}{
		{"john_doe", "john@example.com", "John", "Doe"},
		{"jane_smith", "jane@example.com", "Jane", "Smith"},
	}

	userIDs := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		var id uuid.UUID
		err := db.QueryRow(ctx,
			`INSERT INTO users (username, email, password, first_name, last_name)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (username) DO UPDATE SET email = EXCLUDED.email
			 RETURNING id`,
			u.username, u.email, string(hash), u.first, u.last,
		).Scan(&id)
		if err != nil {
			log.Fatalf("seed user %s: %v", u.username, err)
		}
		userIDs = append(userIDs, id)
	}

	now := time.Now()
	due := now.Add(72 * time.Hour)
	tasks := []struct {
		title, description string
		status             domain.TaskStatus
		priority           domain.TaskPriority
		dueDate            *time.Time
		owner              *uuid.UUID
	}{
		{"Complete project documentation", "Write the API documentation and deployment notes", domain.StatusPending, domain.PriorityHigh, &due, &userIDs[0]},
		{"Review pull requests", "Go through the open PRs in the backlog", domain.StatusPending, domain.PriorityMedium, nil, &userIDs[0]},
		{"Set up CI pipeline", "", domain.StatusCompleted, domain.PriorityHigh, nil, &userIDs[1]},
		{"Plan sprint retrospective", "Collect discussion topics from the team", domain.StatusPending, domain.PriorityLow, nil, nil},
	}

	for _, t := range tasks {
		var completedAt *time.Time
		if t.status == domain.StatusCompleted {
			completedAt = &now
		}
		var desc *string
		if t.description != "" {
			desc = &t.description
		}
		_, err := db.Exec(ctx,
			`INSERT INTO tasks (title, description, status, priority, due_date, completed_at, user_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			t.title, desc, t.status, t.priority, t.dueDate, completedAt, t.owner,
		)
		if err != nil {
			log.Fatalf("seed task %q: %v", t.title, err)
		}
	}

	log.Printf("seeded %d users and %d tasks", len(users), len(tasks))
}
