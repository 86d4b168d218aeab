package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"homehub/internal/database"
)

// BackupData is the complete portable snapshot of a deployment: every
// household and everything scoped to it. Sessions are deliberately left
// out; logins do not survive a restore.
type BackupData struct {
	Version    string             `json:"version"`
	ExportedAt time.Time          `json:"exported_at"`
	Users      []UserBackup       `json:"users"`
	Families   []FamilyBackup     `json:"families"`
	Lists      []ListBackup       `json:"lists"`
	Events     []EventBackup      `json:"events"`
	Meals      []MealBackup       `json:"meals"`
	Notes      []NoteBackup       `json:"notes"`
	Vault      []VaultBackup      `json:"vault_entries"`
	Chores     []ChoreBackup      `json:"chores"`
	Rotation   []AssignmentBackup `json:"chore_assignments"`
}

type UserBackup struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	AvatarURL    string `json:"avatar_url"`
	Language     string `json:"language"`
}

type FamilyBackup struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	OwnerID int64   `json:"owner_id"`
	Members []int64 `json:"members"`
}

type ListBackup struct {
	ID       int64        `json:"id"`
	Name     string       `json:"name"`
	FamilyID int64        `json:"family_id"`
	Items    []ItemBackup `json:"items"`
}

type ItemBackup struct {
	Text     string `json:"text"`
	Done     bool   `json:"done"`
	AuthorID int64  `json:"author_id"`
}

type EventBackup struct {
	Title              string `json:"title"`
	Date               string `json:"date"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	AllDay             bool   `json:"all_day"`
	Color              string `json:"color"`
	RecurrenceType     string `json:"recurrence_type"`
	RecurrenceInterval int    `json:"recurrence_interval"`
	RecurrenceEnd      string `json:"recurrence_end"`
	FamilyID           int64  `json:"family_id"`
	AuthorID           int64  `json:"author_id"`
}

type MealBackup struct {
	WeekOf      string `json:"week_of"`
	Day         string `json:"day"`
	MealType    string `json:"meal_type"`
	Description string `json:"description"`
	Notes       string `json:"notes"`
	FamilyID    int64  `json:"family_id"`
	AuthorID    int64  `json:"author_id"`
}

type NoteBackup struct {
	Content  string `json:"content"`
	Pinned   bool   `json:"pinned"`
	FamilyID int64  `json:"family_id"`
	AuthorID int64  `json:"author_id"`
}

type VaultBackup struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	FamilyID int64  `json:"family_id"`
	AuthorID int64  `json:"author_id"`
}

type ChoreBackup struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Points        int    `json:"points"`
	FrequencyDays int    `json:"frequency_days"`
	LastGenerated string `json:"last_generated"`
	FamilyID      int64  `json:"family_id"`
}

type AssignmentBackup struct {
	ChoreID  int64  `json:"chore_id"`
	UserID   int64  `json:"user_id"`
	FamilyID int64  `json:"family_id"`
	WeekOf   string `json:"week_of"`
	Complete bool   `json:"complete"`
}

const backupVersion = "1"
const backupDateFormat = "2006-01-02"

// BackupService exports and imports full deployment snapshots
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a snapshot of the whole database to w
func (s *BackupService) Export(w io.Writer) error {
	data := BackupData{
		Version:    backupVersion,
		ExportedAt: time.Now().UTC(),
	}

	var err error
	if data.Users, err = s.exportUsers(); err != nil {
		return err
	}
	if data.Families, err = s.exportFamilies(); err != nil {
		return err
	}
	if data.Lists, err = s.exportLists(); err != nil {
		return err
	}
	if data.Events, err = s.exportEvents(); err != nil {
		return err
	}
	if data.Meals, err = s.exportMeals(); err != nil {
		return err
	}
	if data.Notes, err = s.exportNotes(); err != nil {
		return err
	}
	if data.Vault, err = s.exportVault(); err != nil {
		return err
	}
	if data.Chores, data.Rotation, err = s.exportChores(); err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// ExportToFile writes a snapshot to the given path
func (s *BackupService) ExportToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()
	return s.Export(f)
}

func (s *BackupService) exportUsers() ([]UserBackup, error) {
	rows, err := s.db.Query("SELECT id, username, COALESCE(email, ''), password_hash, avatar_url, language FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to export users: %w", err)
	}
	defer rows.Close()

	var users []UserBackup
	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.AvatarURL, &u.Language); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *BackupService) exportFamilies() ([]FamilyBackup, error) {
	rows, err := s.db.Query("SELECT id, name, owner_id FROM families ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to export families: %w", err)
	}
	defer rows.Close()

	var families []FamilyBackup
	for rows.Next() {
		var f FamilyBackup
		if err := rows.Scan(&f.ID, &f.Name, &f.OwnerID); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range families {
		memberRows, err := s.db.Query("SELECT user_id FROM family_members WHERE family_id = ? ORDER BY joined_at, user_id", families[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to export members: %w", err)
		}
		for memberRows.Next() {
			var userID int64
			if err := memberRows.Scan(&userID); err != nil {
				memberRows.Close()
				return nil, fmt.Errorf("failed to scan member: %w", err)
			}
			families[i].Members = append(families[i].Members, userID)
		}
		if err := memberRows.Err(); err != nil {
			memberRows.Close()
			return nil, err
		}
		memberRows.Close()
	}
	return families, nil
}

func (s *BackupService) exportLists() ([]ListBackup, error) {
	rows, err := s.db.Query("SELECT id, name, family_id FROM shopping_lists ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to export lists: %w", err)
	}
	defer rows.Close()

	var lists []ListBackup
	for rows.Next() {
		var l ListBackup
		if err := rows.Scan(&l.ID, &l.Name, &l.FamilyID); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lists {
		itemRows, err := s.db.Query("SELECT text, done, author_id FROM items WHERE list_id = ? ORDER BY id", lists[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to export items: %w", err)
		}
		for itemRows.Next() {
			var item ItemBackup
			if err := itemRows.Scan(&item.Text, &item.Done, &item.AuthorID); err != nil {
				itemRows.Close()
				return nil, fmt.Errorf("failed to scan item: %w", err)
			}
			lists[i].Items = append(lists[i].Items, item)
		}
		if err := itemRows.Err(); err != nil {
			itemRows.Close()
			return nil, err
		}
		itemRows.Close()
	}
	return lists, nil
}

func (s *BackupService) exportEvents() ([]EventBackup, error) {
	rows, err := s.db.Query(`
		SELECT title, date, COALESCE(start_time, ''), COALESCE(end_time, ''), all_day,
		       color, recurrence_type, recurrence_interval, recurrence_end, family_id, author_id
		FROM events ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to export events: %w", err)
	}
	defer rows.Close()

	var events []EventBackup
	for rows.Next() {
		var e EventBackup
		var date time.Time
		var recEnd sql.NullTime
		if err := rows.Scan(&e.Title, &date, &e.StartTime, &e.EndTime, &e.AllDay,
			&e.Color, &e.RecurrenceType, &e.RecurrenceInterval, &recEnd, &e.FamilyID, &e.AuthorID); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Date = date.Format(backupDateFormat)
		if recEnd.Valid {
			e.RecurrenceEnd = recEnd.Time.Format(backupDateFormat)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *BackupService) exportMeals() ([]MealBackup, error) {
	rows, err := s.db.Query("SELECT week_of, day, meal_type, description, notes, family_id, author_id FROM meals ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to export meals: %w", err)
	}
	defer rows.Close()

	var meals []MealBackup
	for rows.Next() {
		var m MealBackup
		var weekOf time.Time
		if err := rows.Scan(&weekOf, &m.Day, &m.MealType, &m.Description, &m.Notes, &m.FamilyID, &m.AuthorID); err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		m.WeekOf = weekOf.Format(backupDateFormat)
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

func (s *BackupService) exportNotes() ([]NoteBackup, error) {
	rows, err := s.db.Query("SELECT content, pinned, family_id, author_id FROM notes ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to export notes: %w", err)
	}
	defer rows.Close()

	var notes []NoteBackup
	for rows.Next() {
		var n NoteBackup
		if err := rows.Scan(&n.Content, &n.Pinned, &n.FamilyID, &n.AuthorID); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *BackupService) exportVault() ([]VaultBackup, error) {
	rows, err := s.db.Query("SELECT category, title, content, family_id, author_id FROM vault_entries ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to export vault: %w", err)
	}
	defer rows.Close()

	var entries []VaultBackup
	for rows.Next() {
		var v VaultBackup
		if err := rows.Scan(&v.Category, &v.Title, &v.Content, &v.FamilyID, &v.AuthorID); err != nil {
			return nil, fmt.Errorf("failed to scan vault entry: %w", err)
		}
		entries = append(entries, v)
	}
	return entries, rows.Err()
}

func (s *BackupService) exportChores() ([]ChoreBackup, []AssignmentBackup, error) {
	rows, err := s.db.Query("SELECT id, name, points, frequency_days, last_generated, family_id FROM chores ORDER BY id")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to export chores: %w", err)
	}
	defer rows.Close()

	var chores []ChoreBackup
	for rows.Next() {
		var c ChoreBackup
		var lastGenerated sql.NullTime
		if err := rows.Scan(&c.ID, &c.Name, &c.Points, &c.FrequencyDays, &lastGenerated, &c.FamilyID); err != nil {
			return nil, nil, fmt.Errorf("failed to scan chore: %w", err)
		}
		if lastGenerated.Valid {
			c.LastGenerated = lastGenerated.Time.Format(backupDateFormat)
		}
		chores = append(chores, c)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	assignmentRows, err := s.db.Query("SELECT chore_id, user_id, family_id, week_of, complete FROM chore_assignments ORDER BY id")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to export assignments: %w", err)
	}
	defer assignmentRows.Close()

	var assignments []AssignmentBackup
	for assignmentRows.Next() {
		var a AssignmentBackup
		var weekOf time.Time
		if err := assignmentRows.Scan(&a.ChoreID, &a.UserID, &a.FamilyID, &weekOf, &a.Complete); err != nil {
			return nil, nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		a.WeekOf = weekOf.Format(backupDateFormat)
		assignments = append(assignments, a)
	}
	return chores, assignments, assignmentRows.Err()
}

// Import loads a snapshot into the database. With clear set, all existing
// data is removed first; without it the snapshot must target an empty
// database or the explicit-ID inserts will collide.
func (s *BackupService) Import(r io.Reader, clear bool) error {
	var data BackupData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if data.Version != backupVersion {
		return fmt.Errorf("unsupported backup version %q", data.Version)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback()

	if clear {
		// Child tables first to satisfy foreign keys
		tables := []string{
			"chore_assignments", "chores", "vault_entries", "notes", "meals",
			"events", "items", "shopping_lists", "sessions", "family_members",
			"families", "users",
		}
		for _, table := range tables {
			if _, err := tx.Exec("DELETE FROM " + table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
	}

	for _, u := range data.Users {
		var email interface{}
		if u.Email != "" {
			email = u.Email
		}
		if _, err := tx.Exec(
			"INSERT INTO users (id, username, email, password_hash, avatar_url, language) VALUES (?, ?, ?, ?, ?, ?)",
			u.ID, u.Username, email, u.PasswordHash, u.AvatarURL, u.Language); err != nil {
			return fmt.Errorf("failed to import user %s: %w", u.Username, err)
		}
	}

	for _, f := range data.Families {
		if _, err := tx.Exec("INSERT INTO families (id, name, owner_id) VALUES (?, ?, ?)", f.ID, f.Name, f.OwnerID); err != nil {
			return fmt.Errorf("failed to import family %s: %w", f.Name, err)
		}
		for _, userID := range f.Members {
			if _, err := tx.Exec("INSERT INTO family_members (family_id, user_id) VALUES (?, ?)", f.ID, userID); err != nil {
				return fmt.Errorf("failed to import membership: %w", err)
			}
		}
	}

	for _, l := range data.Lists {
		if _, err := tx.Exec("INSERT INTO shopping_lists (id, name, family_id) VALUES (?, ?, ?)", l.ID, l.Name, l.FamilyID); err != nil {
			return fmt.Errorf("failed to import list %s: %w", l.Name, err)
		}
		for _, item := range l.Items {
			if _, err := tx.Exec(
				"INSERT INTO items (text, done, list_id, author_id) VALUES (?, ?, ?, ?)",
				item.Text, item.Done, l.ID, item.AuthorID); err != nil {
				return fmt.Errorf("failed to import item: %w", err)
			}
		}
	}

	for _, e := range data.Events {
		date, err := time.ParseInLocation(backupDateFormat, e.Date, time.UTC)
		if err != nil {
			return fmt.Errorf("bad event date %q: %w", e.Date, err)
		}
		var startTime, endTime, recEnd interface{}
		if e.StartTime != "" {
			startTime = e.StartTime
		}
		if e.EndTime != "" {
			endTime = e.EndTime
		}
		if e.RecurrenceEnd != "" {
			parsed, err := time.ParseInLocation(backupDateFormat, e.RecurrenceEnd, time.UTC)
			if err != nil {
				return fmt.Errorf("bad recurrence end %q: %w", e.RecurrenceEnd, err)
			}
			recEnd = parsed
		}
		if _, err := tx.Exec(`
			INSERT INTO events (title, date, start_time, end_time, all_day, color,
				recurrence_type, recurrence_interval, recurrence_end, family_id, author_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.Title, date, startTime, endTime, e.AllDay, e.Color,
			e.RecurrenceType, e.RecurrenceInterval, recEnd, e.FamilyID, e.AuthorID); err != nil {
			return fmt.Errorf("failed to import event %s: %w", e.Title, err)
		}
	}

	for _, m := range data.Meals {
		weekOf, err := time.ParseInLocation(backupDateFormat, m.WeekOf, time.UTC)
		if err != nil {
			return fmt.Errorf("bad meal week %q: %w", m.WeekOf, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO meals (week_of, day, meal_type, description, notes, family_id, author_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			weekOf, m.Day, m.MealType, m.Description, m.Notes, m.FamilyID, m.AuthorID); err != nil {
			return fmt.Errorf("failed to import meal: %w", err)
		}
	}

	for _, n := range data.Notes {
		if _, err := tx.Exec(
			"INSERT INTO notes (content, pinned, family_id, author_id) VALUES (?, ?, ?, ?)",
			n.Content, n.Pinned, n.FamilyID, n.AuthorID); err != nil {
			return fmt.Errorf("failed to import note: %w", err)
		}
	}

	for _, v := range data.Vault {
		if _, err := tx.Exec(
			"INSERT INTO vault_entries (category, title, content, family_id, author_id) VALUES (?, ?, ?, ?, ?)",
			v.Category, v.Title, v.Content, v.FamilyID, v.AuthorID); err != nil {
			return fmt.Errorf("failed to import vault entry: %w", err)
		}
	}

	for _, c := range data.Chores {
		var lastGenerated interface{}
		if c.LastGenerated != "" {
			parsed, err := time.ParseInLocation(backupDateFormat, c.LastGenerated, time.UTC)
			if err != nil {
				return fmt.Errorf("bad chore stamp %q: %w", c.LastGenerated, err)
			}
			lastGenerated = parsed
		}
		if _, err := tx.Exec(
			"INSERT INTO chores (id, name, points, frequency_days, last_generated, family_id) VALUES (?, ?, ?, ?, ?, ?)",
			c.ID, c.Name, c.Points, c.FrequencyDays, lastGenerated, c.FamilyID); err != nil {
			return fmt.Errorf("failed to import chore %s: %w", c.Name, err)
		}
	}

	for _, a := range data.Rotation {
		weekOf, err := time.ParseInLocation(backupDateFormat, a.WeekOf, time.UTC)
		if err != nil {
			return fmt.Errorf("bad assignment week %q: %w", a.WeekOf, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO chore_assignments (chore_id, user_id, family_id, week_of, complete) VALUES (?, ?, ?, ?, ?)",
			a.ChoreID, a.UserID, a.FamilyID, weekOf, a.Complete); err != nil {
			return fmt.Errorf("failed to import assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// ImportFromFile loads a snapshot from the given path
func (s *BackupService) ImportFromFile(path string, clear bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()
	return s.Import(f, clear)
}
