// Package recorder logs OSC traffic to a SQLite database.
package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/oscdeck/oscdeck/controller"
	"github.com/oscdeck/oscdeck/osc"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("recorder: closed")

// Entry is one recorded message.
type Entry struct {
	ID        int64
	Session   string
	Direction controller.Direction
	Peer      string
	Address   string
	TypeTags  string
	Payload   []byte
	At        time.Time
}

// Message decodes the recorded payload.
func (e Entry) Message() (*osc.Message, error) {
	return osc.NewMessageFromData(e.Payload)
}

// Recorder buffers messages and writes them to the database in batches. It
// implements controller.Recorder and is safe for concurrent use.
type Recorder struct {
	mu        sync.Mutex
	db        *sql.DB
	statement *sql.Stmt

	dbName    string
	session   xid.ID
	batchSize int
	pending   []Entry
}

// New creates the database <path>.sqlite3 and its messages table. An empty
// path names the database after the session. The buffer is flushed at exit.
func New(path string) (*Recorder, error) {
	r := &Recorder{
		dbName:    path,
		session:   xid.New(),
		batchSize: 1000,
	}
	if r.dbName == "" {
		r.dbName = "oscdeck_" + r.session.String()
	}

	if err := r.createDatabase(); err != nil {
		return nil, err
	}
	if err := r.createTable(); err != nil {
		r.db.Close()
		return nil, err
	}
	if err := r.prepareStatement(); err != nil {
		r.db.Close()
		return nil, err
	}

	atexit.Register(func() { _ = r.Flush() })

	return r, nil
}

// Filename returns the path of the database file.
func (r *Recorder) Filename() string {
	return r.dbName + ".sqlite3"
}

// Session returns the ID every entry of this recorder is tagged with.
func (r *Recorder) Session() xid.ID {
	return r.session
}

// SetBatchSize sets how many messages are buffered before a flush.
func (r *Recorder) SetBatchSize(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchSize = max(n, 1)
}

// Record buffers msg, flushing when the batch is full.
func (r *Recorder) Record(dir controller.Direction, peer string, msg *osc.Message) error {
	payload, err := msg.MarshalBinary()
	if err != nil {
		return fmt.Errorf("Record: %w", err)
	}
	tags, err := msg.TypeTags()
	if err != nil {
		return fmt.Errorf("Record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return ErrClosed
	}

	r.pending = append(r.pending, Entry{
		Session:   r.session.String(),
		Direction: dir,
		Peer:      peer,
		Address:   msg.Address,
		TypeTags:  tags,
		Payload:   payload,
		At:        time.Now(),
	})
	if len(r.pending) >= r.batchSize {
		return r.flushLocked()
	}
	return nil
}

// Flush writes all the buffered messages in one transaction.
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.flushLocked()
}

func (r *Recorder) flushLocked() error {
	if len(r.pending) == 0 || r.db == nil {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("Flush: %w", err)
	}
	stmt := tx.Stmt(r.statement)
	for _, e := range r.pending {
		_, err := stmt.Exec(
			e.Session,
			string(e.Direction),
			e.Peer,
			e.Address,
			e.TypeTags,
			e.Payload,
			e.At.UnixNano(),
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("Flush: %s: %w", e.Address, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Flush: %w", err)
	}

	r.pending = nil
	return nil
}

// Entries returns the flushed entries of every session whose address starts
// with prefix, oldest first.
func (r *Recorder) Entries(prefix string) ([]Entry, error) {
	r.mu.Lock()
	db := r.db
	r.mu.Unlock()
	if db == nil {
		return nil, ErrClosed
	}

	rows, err := db.Query(`
		SELECT id, session, direction, peer, address, typetags, payload, at
		FROM messages
		WHERE substr(address, 1, ?) = ?
		ORDER BY id`, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("Entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e   Entry
			dir string
			at  int64
		)
		if err := rows.Scan(&e.ID, &e.Session, &dir, &e.Peer, &e.Address, &e.TypeTags, &e.Payload, &at); err != nil {
			return nil, fmt.Errorf("Entries: %w", err)
		}
		e.Direction = controller.Direction(dir)
		e.At = time.Unix(0, at)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("Entries: %w", err)
	}
	return entries, nil
}

// Messages decodes the payloads of Entries(prefix).
func (r *Recorder) Messages(prefix string) ([]*osc.Message, error) {
	entries, err := r.Entries(prefix)
	if err != nil {
		return nil, err
	}

	msgs := make([]*osc.Message, 0, len(entries))
	for _, e := range entries {
		msg, err := e.Message()
		if err != nil {
			return nil, fmt.Errorf("Messages: entry %d: %w", e.ID, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// Close flushes and closes the database.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return ErrClosed
	}

	err := r.flushLocked()
	err = errors.Join(err, r.statement.Close(), r.db.Close())
	r.db = nil
	return err
}

func (r *Recorder) createDatabase() error {
	filename := r.Filename()
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return fmt.Errorf("New: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("New: %w", err)
	}

	r.db = db
	return nil
}

func (r *Recorder) createTable() error {
	_, err := r.db.Exec(strings.TrimSpace(`
		CREATE TABLE messages (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			session   TEXT NOT NULL,
			direction TEXT NOT NULL,
			peer      TEXT,
			address   TEXT NOT NULL,
			typetags  TEXT,
			payload   BLOB,
			at        INTEGER
		)`))
	if err != nil {
		return fmt.Errorf("New: %w", err)
	}

	_, err = r.db.Exec(`CREATE INDEX messages_address ON messages(address)`)
	if err != nil {
		return fmt.Errorf("New: %w", err)
	}
	return nil
}

func (r *Recorder) prepareStatement() error {
	sqlStr := `INSERT INTO messages VALUES (NULL, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := r.db.Prepare(sqlStr)
	if err != nil {
		return fmt.Errorf("New: %w", err)
	}
	r.statement = stmt
	return nil
}
