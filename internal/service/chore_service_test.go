package service

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"homehub/internal/database"
	"homehub/internal/models"
	"homehub/internal/repository"
)

func TestWeekAnchor(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"monday maps to itself", time.Date(2024, time.March, 4, 15, 30, 0, 0, time.UTC), "2024-03-04"},
		{"wednesday maps back", time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC), "2024-03-04"},
		{"sunday maps to previous monday", time.Date(2024, time.March, 10, 23, 59, 0, 0, time.UTC), "2024-03-04"},
		{"across month boundary", time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC), "2024-04-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekAnchor(tt.in)
			if got.Format("2006-01-02") != tt.want {
				t.Errorf("WeekAnchor(%s) = %s, want %s", tt.in, got.Format("2006-01-02"), tt.want)
			}
			if got.Weekday() != time.Monday {
				t.Errorf("WeekAnchor(%s) is a %s", tt.in, got.Weekday())
			}
		})
	}
}

func TestChoreIsDue(t *testing.T) {
	weekOf := WeekAnchor(time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC))
	lastWeek := weekOf.AddDate(0, 0, -7)
	twoWeeksAgo := weekOf.AddDate(0, 0, -14)

	tests := []struct {
		name  string
		chore models.Chore
		want  bool
	}{
		{"never generated", models.Chore{FrequencyDays: 7}, true},
		{"weekly generated last week", models.Chore{FrequencyDays: 7, LastGenerated: sql.NullTime{Time: lastWeek, Valid: true}}, true},
		{"weekly generated this week", models.Chore{FrequencyDays: 7, LastGenerated: sql.NullTime{Time: weekOf, Valid: true}}, false},
		{"biweekly after one week", models.Chore{FrequencyDays: 14, LastGenerated: sql.NullTime{Time: lastWeek, Valid: true}}, false},
		{"biweekly after two weeks", models.Chore{FrequencyDays: 14, LastGenerated: sql.NullTime{Time: twoWeeksAgo, Valid: true}}, true},
		{"leeway lets 10-day chore run weekly", models.Chore{FrequencyDays: 10, LastGenerated: sql.NullTime{Time: lastWeek, Valid: true}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := choreIsDue(&tt.chore, weekOf); got != tt.want {
				t.Errorf("choreIsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChoreDueCountsFromWeekAnchor(t *testing.T) {
	// A run stamped on a Sunday counts as that week's Monday: the biweekly
	// chore comes due two week anchors later, not a calendar-day count
	// after the Sunday stamp.
	sunday := time.Date(2024, time.March, 3, 18, 0, 0, 0, time.UTC)
	chore := models.Chore{
		FrequencyDays: 14,
		LastGenerated: sql.NullTime{Time: sunday, Valid: true},
	}

	nextMonday := WeekAnchor(time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC))
	if choreIsDue(&chore, nextMonday) {
		t.Error("biweekly chore should not be due one day after its last run")
	}

	mondayAfter := WeekAnchor(time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC))
	if !choreIsDue(&chore, mondayAfter) {
		t.Error("biweekly chore should be due two week anchors after its last run")
	}
}

// newTestDB opens a throwaway sqlite database with the full schema applied
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// seedFamily creates a family with the given number of members and returns
// the family ID with the member IDs in join order
func seedFamily(t *testing.T, db *database.DB, memberCount int) (int64, []int64) {
	t.Helper()

	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)

	owner, err := userRepo.CreateUser("owner", "", "hash")
	if err != nil {
		t.Fatalf("failed to create owner: %v", err)
	}
	family, err := familyRepo.CreateFamily("The Tests", owner.ID)
	if err != nil {
		t.Fatalf("failed to create family: %v", err)
	}

	memberIDs := []int64{owner.ID}
	for i := 1; i < memberCount; i++ {
		user, err := userRepo.CreateUser(string(rune('a'+i))+"member", "", "hash")
		if err != nil {
			t.Fatalf("failed to create member: %v", err)
		}
		if err := familyRepo.AddFamilyMember(family.ID, user.ID); err != nil {
			t.Fatalf("failed to add member: %v", err)
		}
		memberIDs = append(memberIDs, user.ID)
	}
	return family.ID, memberIDs
}

func TestGenerateAssignsEveryDueChore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database integration test")
	}

	db := newTestDB(t)
	familyID, memberIDs := seedFamily(t, db, 3)

	choreRepo := repository.NewChoreRepository(db)
	svc := NewChoreService(choreRepo, repository.NewFamilyRepository(db))

	choreNames := []string{"Dishes", "Vacuum", "Trash"}
	for _, name := range choreNames {
		if _, err := svc.CreateChore(familyID, name, 5, 7); err != nil {
			t.Fatalf("failed to create chore: %v", err)
		}
	}

	now := time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC)
	assignments, err := svc.Generate(familyID, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(assignments) != len(choreNames) {
		t.Fatalf("expected %d assignments, got %d", len(choreNames), len(assignments))
	}

	members := make(map[int64]bool)
	for _, id := range memberIDs {
		members[id] = true
	}
	assignees := make(map[int64]bool)
	for _, a := range assignments {
		if !members[a.UserID] {
			t.Errorf("assignment %d given to non-member %d", a.ID, a.UserID)
		}
		assignees[a.UserID] = true
		if !a.WeekOf.Equal(WeekAnchor(now)) {
			t.Errorf("assignment %d anchored to %s", a.ID, a.WeekOf)
		}
	}
	// Three chores across three members must spread out evenly
	if len(assignees) != 3 {
		t.Errorf("expected 3 distinct assignees, got %d", len(assignees))
	}

	// Every assigned chore carries the generation stamp
	chores, err := svc.GetFamilyChores(familyID)
	if err != nil {
		t.Fatalf("failed to get chores: %v", err)
	}
	for _, chore := range chores {
		if !chore.LastGenerated.Valid {
			t.Errorf("chore %q missing last_generated stamp", chore.Name)
		}
	}
}

func TestGenerateIsIdempotentPerWeek(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database integration test")
	}

	db := newTestDB(t)
	familyID, _ := seedFamily(t, db, 2)

	svc := NewChoreService(repository.NewChoreRepository(db), repository.NewFamilyRepository(db))
	if _, err := svc.CreateChore(familyID, "Dishes", 5, 7); err != nil {
		t.Fatalf("failed to create chore: %v", err)
	}

	now := time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC)
	if _, err := svc.Generate(familyID, now); err != nil {
		t.Fatalf("first Generate failed: %v", err)
	}

	// Again within the same week, from a different day
	if _, err := svc.Generate(familyID, now.AddDate(0, 0, 2)); !errors.Is(err, ErrAlreadyGenerated) {
		t.Fatalf("expected ErrAlreadyGenerated, got %v", err)
	}

	assignments, err := svc.GetWeekAssignments(familyID, now)
	if err != nil {
		t.Fatalf("failed to get assignments: %v", err)
	}
	if len(assignments) != 1 {
		t.Errorf("expected the single original assignment, got %d", len(assignments))
	}

	// The next week is a fresh slate
	nextWeek := now.AddDate(0, 0, 7)
	if _, err := svc.Generate(familyID, nextWeek); err != nil {
		t.Fatalf("next week's Generate failed: %v", err)
	}
}

func TestGenerateRotatesAssigneesWeekToWeek(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database integration test")
	}

	db := newTestDB(t)
	familyID, _ := seedFamily(t, db, 3)

	svc := NewChoreService(repository.NewChoreRepository(db), repository.NewFamilyRepository(db))
	if _, err := svc.CreateChore(familyID, "Dishes", 5, 7); err != nil {
		t.Fatalf("failed to create chore: %v", err)
	}

	now := time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC)
	first, err := svc.Generate(familyID, now)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	second, err := svc.Generate(familyID, now.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("second Generate failed: %v", err)
	}

	if first[0].UserID == second[0].UserID {
		t.Error("expected the chore to rotate to a different member the next week")
	}
}

func TestGenerateWithNothingDue(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database integration test")
	}

	db := newTestDB(t)
	familyID, _ := seedFamily(t, db, 2)

	svc := NewChoreService(repository.NewChoreRepository(db), repository.NewFamilyRepository(db))
	now := time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC)

	// Empty chore bank
	if _, err := svc.Generate(familyID, now); !errors.Is(err, ErrNoChoresDue) {
		t.Fatalf("expected ErrNoChoresDue, got %v", err)
	}

	// A monthly chore generated this week keeps next week quiet too
	if _, err := svc.CreateChore(familyID, "Deep clean", 10, 28); err != nil {
		t.Fatalf("failed to create chore: %v", err)
	}
	if _, err := svc.Generate(familyID, now); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := svc.Generate(familyID, now.AddDate(0, 0, 7)); !errors.Is(err, ErrNoChoresDue) {
		t.Fatalf("expected ErrNoChoresDue the following week, got %v", err)
	}
}

func TestRetentionSweepKeepsRecentWeeks(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database integration test")
	}

	db := newTestDB(t)
	familyID, _ := seedFamily(t, db, 2)

	choreRepo := repository.NewChoreRepository(db)
	svc := NewChoreService(choreRepo, repository.NewFamilyRepository(db))
	if _, err := svc.CreateChore(familyID, "Dishes", 5, 7); err != nil {
		t.Fatalf("failed to create chore: %v", err)
	}

	start := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	for week := 0; week < 8; week++ {
		if _, err := svc.Generate(familyID, start.AddDate(0, 0, 7*week)); err != nil {
			t.Fatalf("Generate for week %d failed: %v", week, err)
		}
	}

	now := start.AddDate(0, 0, 7*7)
	svc.RetentionSweep(familyID, now)

	for week := 0; week < 8; week++ {
		weekOf := WeekAnchor(start.AddDate(0, 0, 7*week))
		assignments, err := choreRepo.GetWeekAssignments(familyID, weekOf)
		if err != nil {
			t.Fatalf("failed to get assignments: %v", err)
		}
		age := WeekAnchor(now).Sub(weekOf)
		if age > assignmentRetention && len(assignments) != 0 {
			t.Errorf("week %s should have been swept", weekOf.Format("2006-01-02"))
		}
		if age <= assignmentRetention && len(assignments) == 0 {
			t.Errorf("week %s should have survived the sweep", weekOf.Format("2006-01-02"))
		}
	}
}
