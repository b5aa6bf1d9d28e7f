package database

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

const testMigrationsPath = "../../migrations"

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(testMigrationsPath); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	tables := []string{"assessments", "assessment_responses", "pronunciation_exercises", "pronunciation_attempts"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Running again must be a no-op
	if err := db.RunMigrations(testMigrationsPath); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 recorded migration, got %d", count)
	}
}

// TestUpsertResponse checks the dialect upsert replaces an earlier answer
func TestUpsertResponse(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	if _, err := db.Exec("INSERT INTO assessments (id, child_name) VALUES (?, ?)", "a-1", "Sam"); err != nil {
		t.Fatalf("Failed to create assessment: %v", err)
	}
	for _, answer := range []int{25, 100} {
		if _, err := db.Exec(db.Dialect.UpsertResponseQuery(), "a-1", "pa1", answer); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	var rows, answer int
	if err := db.QueryRow("SELECT COUNT(*), MAX(answer) FROM assessment_responses WHERE assessment_id = ?", "a-1").Scan(&rows, &answer); err != nil {
		t.Fatalf("Failed to read responses: %v", err)
	}
	if rows != 1 || answer != 100 {
		t.Errorf("Expected one row with answer 100, got %d rows with answer %d", rows, answer)
	}
}

// TestDatabaseTransactions tests transaction support
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	err := db.WithTx(func(tx *Tx) error {
		_, err := tx.Exec("INSERT INTO assessments (id, child_name) VALUES (?, ?)", "committed", "Ada")
		return err
	})
	if err != nil {
		t.Fatalf("Committed transaction failed: %v", err)
	}

	_ = db.WithTx(func(tx *Tx) error {
		if _, err := tx.Exec("INSERT INTO assessments (id, child_name) VALUES (?, ?)", "rolled-back", "Bo"); err != nil {
			t.Fatalf("Insert in transaction failed: %v", err)
		}
		return errRollback
	})

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM assessments").Scan(&count); err != nil {
		t.Fatalf("Failed to count assessments: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 assessment after rollback, got %d", count)
	}
}

// TestExecReturningID checks generated ids come back from inserts
func TestExecReturningID(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	if _, err := db.Exec("INSERT INTO pronunciation_exercises (id, total_words) VALUES (?, ?)", "ex-1", 3); err != nil {
		t.Fatalf("Failed to create exercise: %v", err)
	}

	insert := `INSERT INTO pronunciation_attempts (exercise_id, word, spoken_text, confidence, accuracy, passed)
		VALUES (?, ?, ?, ?, ?, ?)`
	first, err := db.ExecReturningID(insert, "ex-1", "cat", "cat", 0.9, 0.97, true)
	if err != nil {
		t.Fatalf("First insert failed: %v", err)
	}
	second, err := db.ExecReturningID(insert, "ex-1", "dog", "dot", 0.6, 0.65, false)
	if err != nil {
		t.Fatalf("Second insert failed: %v", err)
	}
	if second <= first {
		t.Errorf("Expected increasing ids, got %d then %d", first, second)
	}
}

// TestConcurrentAccess tests concurrent database access
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	if _, err := db.Exec("INSERT INTO assessments (id, child_name) VALUES (?, ?)", "shared", "Kai"); err != nil {
		t.Fatalf("Failed to create test assessment: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var name string
			if err := db.QueryRow("SELECT child_name FROM assessments WHERE id = ?", "shared").Scan(&name); err != nil {
				t.Errorf("Concurrent read failed: %v", err)
				return
			}
			if name != "Kai" {
				t.Errorf("Expected child name 'Kai', got '%s'", name)
			}
		}()
	}
	wg.Wait()
}

var errRollback = errors.New("rollback")
