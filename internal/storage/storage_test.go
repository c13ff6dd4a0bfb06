package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/bebora/grubix/pkg/types"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenMigrates(t *testing.T) {
	db := openTestDB(t)
	v, err := db.CurrentVersion()
	if err != nil {
		t.Fatal(err)
	}
	if v != LatestVersion() {
		t.Errorf("CurrentVersion() = %d, want %d", v, LatestVersion())
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	id, err := NewSessionRepository(db).Create(time.Now(), "local", "")
	if err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	if _, err := NewSessionRepository(db).Get(id); err != nil {
		t.Errorf("session lost after reopen: %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	id, err := repo.Create(start, "smartcube", "GoCube_1234")
	if err != nil {
		t.Fatal(err)
	}
	if err := repo.SetScramble(id, "R U R' U'"); err != nil {
		t.Fatal(err)
	}

	s, err := repo.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if s.Ended() {
		t.Error("new session reports ended")
	}
	if !s.StartedAt.Equal(start) {
		t.Errorf("StartedAt = %v, want %v", s.StartedAt, start)
	}
	if s.ScrambleText == nil || *s.ScrambleText != "R U R' U'" {
		t.Errorf("ScrambleText = %v", s.ScrambleText)
	}
	if s.DeviceName == nil || *s.DeviceName != "GoCube_1234" {
		t.Errorf("DeviceName = %v", s.DeviceName)
	}

	if err := repo.End(id, start.Add(42500*time.Millisecond), true); err != nil {
		t.Fatal(err)
	}
	s, err = repo.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Ended() || !s.Solved {
		t.Errorf("after End: ended=%v solved=%v", s.Ended(), s.Solved)
	}
	if s.DurationMs == nil || *s.DurationMs != 42500 {
		t.Errorf("DurationMs = %v, want 42500", s.DurationMs)
	}
}

func TestSessionNotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)

	if _, err := repo.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get error = %v", err)
	}
	if err := repo.SetScramble("missing", "R"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SetScramble error = %v", err)
	}
	if err := repo.Delete("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Delete error = %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	db := openTestDB(t)
	repo := NewSessionRepository(db)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		id, err := repo.Create(base.Add(time.Duration(i)*time.Minute), "local", "")
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	all, err := repo.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].SessionID != ids[2] || all[2].SessionID != ids[0] {
		t.Errorf("List order wrong: %+v", all)
	}

	two, err := repo.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(two) != 2 {
		t.Errorf("List(2) returned %d", len(two))
	}
}

func TestMoves(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	moves := NewMoveRepository(db)

	id, err := sessions.Create(time.Now(), "local", "")
	if err != nil {
		t.Fatal(err)
	}

	scramble := []types.Move{
		{Face: types.FaceR, Turn: types.TurnCW, Timestamp: 0},
		{Face: types.FaceU, Turn: types.Turn180, Timestamp: 120},
	}
	if err := moves.CreateBatch(id, scramble, 0, "scramble"); err != nil {
		t.Fatal(err)
	}
	next, err := moves.GetNextIndex(id)
	if err != nil || next != 2 {
		t.Fatalf("GetNextIndex = %d, %v", next, err)
	}
	if _, err := moves.Create(id, next, 900, types.Move{Face: types.FaceU, Turn: types.Turn180}, "gesture"); err != nil {
		t.Fatal(err)
	}

	recs, err := moves.GetBySession(id)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d moves", len(recs))
	}
	if recs[1].Notation != "U2" || recs[1].TsMs != 120 || recs[1].Source != "scramble" {
		t.Errorf("recs[1] = %+v", recs[1])
	}
	if m := recs[2].Move(); m.Face != types.FaceU || m.Turn != types.Turn180 || m.Timestamp != 900 {
		t.Errorf("recs[2].Move() = %+v", m)
	}

	if n, _ := moves.Count(id, ""); n != 3 {
		t.Errorf("Count all = %d", n)
	}
	if n, _ := moves.Count(id, "scramble"); n != 2 {
		t.Errorf("Count scramble = %d", n)
	}

	// duplicate index violates the unique constraint
	if _, err := moves.Create(id, 0, 0, types.Move{Face: types.FaceF, Turn: types.TurnCW}, "api"); err == nil {
		t.Error("duplicate move index accepted")
	}
}

func TestDeleteCascadesMoves(t *testing.T) {
	db := openTestDB(t)
	sessions := NewSessionRepository(db)
	moves := NewMoveRepository(db)

	id, _ := sessions.Create(time.Now(), "local", "")
	if _, err := moves.Create(id, 0, 0, types.Move{Face: types.FaceL, Turn: types.TurnCCW}, "keyboard"); err != nil {
		t.Fatal(err)
	}
	if err := sessions.Delete(id); err != nil {
		t.Fatal(err)
	}
	if n, _ := moves.Count(id, ""); n != 0 {
		t.Errorf("%d moves survived session delete", n)
	}
}
