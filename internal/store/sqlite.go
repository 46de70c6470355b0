package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/rolewj/class-schedule-notifications-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

var _ Repo = (*SQLiteRepo)(nil)

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single-writer engine; one connection also keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// Ping checks that the database is reachable.
func (r *SQLiteRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// --- Lessons ---

// InsertLesson stores a new lesson and returns its id. l.ID is set on success.
func (r *SQLiteRepo) InsertLesson(ctx context.Context, l *domain.Lesson) (int64, error) {
	if l == nil {
		return 0, errors.New("nil lesson")
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO lessons (user_id, week_day, lesson_time, lesson_name, teacher_name, classroom)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.UserID, string(l.WeekDay), l.Time, l.Name, l.Teacher, l.Classroom,
	)
	if err != nil {
		return 0, fmt.Errorf("insert lesson: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert lesson: %w", err)
	}
	l.ID = id
	return id, nil
}

// UpdateLesson replaces the editable fields of a lesson.
func (r *SQLiteRepo) UpdateLesson(ctx context.Context, id int64, d domain.LessonDetails) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE lessons
		SET lesson_time = ?, lesson_name = ?, teacher_name = ?, classroom = ?
		WHERE id = ?`,
		d.Time, d.Name, d.Teacher, d.Classroom, id,
	)
	if err != nil {
		return fmt.Errorf("update lesson %d: %w", id, err)
	}
	return requireAffected(res, "lesson", id)
}

// DeleteLesson removes one lesson owned by userID.
func (r *SQLiteRepo) DeleteLesson(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete lesson %d: %w", id, err)
	}
	return requireAffected(res, "lesson", id)
}

// DeleteLessonsForDay removes all of a user's lessons on day and returns how many went.
func (r *SQLiteRepo) DeleteLessonsForDay(ctx context.Context, userID int64, day domain.WeekDay) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE user_id = ? AND week_day = ?`, userID, string(day))
	if err != nil {
		return 0, fmt.Errorf("delete %s lessons: %w", day, err)
	}
	return res.RowsAffected()
}

// ListLessonsForDay returns a user's lessons on day in insertion order.
func (r *SQLiteRepo) ListLessonsForDay(ctx context.Context, userID int64, day domain.WeekDay) ([]domain.Lesson, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+lessonColumns+`
		FROM lessons
		WHERE user_id = ? AND week_day = ?
		ORDER BY id ASC`,
		userID, string(day),
	)
	if err != nil {
		return nil, fmt.Errorf("list %s lessons: %w", day, err)
	}
	return collectLessons(rows)
}

// ListLessonsForUser returns every lesson of a user in insertion order.
func (r *SQLiteRepo) ListLessonsForUser(ctx context.Context, userID int64) ([]domain.Lesson, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+lessonColumns+`
		FROM lessons
		WHERE user_id = ?
		ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return collectLessons(rows)
}

// FindLessonID resolves a lesson by the fields shown on its label. When
// several lessons share those fields the oldest one wins.
func (r *SQLiteRepo) FindLessonID(ctx context.Context, userID int64, day domain.WeekDay, lessonTime, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM lessons
		WHERE user_id = ? AND week_day = ? AND lesson_time = ? AND lesson_name = ?
		ORDER BY id ASC
		LIMIT 1`,
		userID, string(day), lessonTime, name,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("find lesson: %w", domain.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("find lesson: %w", err)
	}
	return id, nil
}

// GetLesson returns a lesson by id.
func (r *SQLiteRepo) GetLesson(ctx context.Context, id int64) (*domain.Lesson, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+lessonColumns+` FROM lessons WHERE id = ?`, id)
	l, err := scanLesson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lesson %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get lesson %d: %w", id, err)
	}
	return &l, nil
}

// --- Subscriptions ---

// UpsertSubscription inserts or replaces a user's subscription settings.
// last_fired_on survives the update so a re-subscribe never fires twice a day.
func (r *SQLiteRepo) UpsertSubscription(ctx context.Context, s domain.Subscription) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (user_id, active, notify_utc, tz_offset)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			active     = excluded.active,
			notify_utc = excluded.notify_utc,
			tz_offset  = excluded.tz_offset`,
		s.UserID, boolToInt(s.Active), toNullString(s.NotifyUTC), s.Offset,
	)
	if err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}
	return nil
}

// SetSubscriptionActive toggles the active flag. A user without a
// subscription row is left untouched.
func (r *SQLiteRepo) SetSubscriptionActive(ctx context.Context, userID int64, active bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE subscriptions SET active = ? WHERE user_id = ?`, boolToInt(active), userID)
	if err != nil {
		return fmt.Errorf("set subscription active: %w", err)
	}
	return nil
}

// GetSubscription returns the user's subscription row.
func (r *SQLiteRepo) GetSubscription(ctx context.Context, userID int64) (*domain.Subscription, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = ?`, userID)
	s, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("subscription %d: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return &s, nil
}

// ListActiveSubscriptions returns all subscriptions with active = 1.
func (r *SQLiteRepo) ListActiveSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+subscriptionColumns+`
		FROM subscriptions
		WHERE active = 1 AND notify_utc IS NOT NULL
		ORDER BY user_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list active subscriptions: %w", err)
	}
	return collectSubscriptions(rows)
}

// MarkFired records the subscriber-local date of the last reminder.
func (r *SQLiteRepo) MarkFired(ctx context.Context, userID int64, localDate string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE subscriptions SET last_fired_on = ? WHERE user_id = ?`, localDate, userID)
	if err != nil {
		return fmt.Errorf("mark fired: %w", err)
	}
	return nil
}

// --- Admin ---

// ListAllLessons returns every stored lesson.
func (r *SQLiteRepo) ListAllLessons(ctx context.Context) ([]domain.Lesson, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+lessonColumns+` FROM lessons ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list all lessons: %w", err)
	}
	return collectLessons(rows)
}

// ListAllSubscriptions returns every subscription row, active or not.
func (r *SQLiteRepo) ListAllSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions ORDER BY user_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list all subscriptions: %w", err)
	}
	return collectSubscriptions(rows)
}

// ResetLessons empties the lessons table and restarts its id sequence.
func (r *SQLiteRepo) ResetLessons(ctx context.Context) error {
	return r.resetTable(ctx, "lessons")
}

// ResetSubscriptions empties the subscriptions table.
func (r *SQLiteRepo) ResetSubscriptions(ctx context.Context) error {
	return r.resetTable(ctx, "subscriptions")
}

// resetTable only ever receives the fixed table names above.
func (r *SQLiteRepo) resetTable(ctx context.Context, table string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("reset %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = ?`, table); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("reset %s sequence: %w", table, err)
	}
	return tx.Commit()
}

func requireAffected(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, domain.ErrNotFound)
	}
	return nil
}
