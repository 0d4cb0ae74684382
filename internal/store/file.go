package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

type fileDocument struct {
	Users    map[string]UserRecord `json:"users"`
	Payments []PaymentRecord       `json:"payments"`
}

// FileStore keeps all records in a single JSON document. Every mutation
// rewrites the file before returning, so a Get issued after a mutating
// call always observes it.
type FileStore struct {
	path string
	mu   sync.Mutex
	doc  fileDocument
	now  func() time.Time
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure dir: %w", err)
	}
	s := &FileStore{
		path: path,
		doc:  fileDocument{Users: make(map[string]UserRecord)},
		now:  time.Now,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open store file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	dec := json.NewDecoder(f)
	if err := dec.Decode(&s.doc); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode store file: %w", err)
	}
	if s.doc.Users == nil {
		s.doc.Users = make(map[string]UserRecord)
	}
	return nil
}

func (s *FileStore) saveUnlocked() error {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open write: %w", err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode store file: %w", err)
	}
	return f.Close()
}

func key(userID int64) string { return fmt.Sprintf("%d", userID) }

func (s *FileStore) Get(_ context.Context, userID int64) (UserRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.doc.Users[key(userID)]
	return rec, ok, nil
}

func (s *FileStore) Create(_ context.Context, userID int64, username string) (UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := UserRecord{
		ID:        userID,
		Username:  username,
		Mode:      ModeSubscription,
		CreatedAt: s.now(),
	}
	s.doc.Users[key(userID)] = rec
	if err := s.saveUnlocked(); err != nil {
		return UserRecord{}, err
	}
	return rec, nil
}

func (s *FileStore) GrantTrial(_ context.Context, userID int64, days int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.doc.Users[key(userID)]
	if !ok || rec.TrialUsed {
		return false, nil
	}
	end := s.now().Add(time.Duration(days) * 24 * time.Hour)
	rec.TrialUsed = true
	rec.SubscriptionEnd = &end
	s.doc.Users[key(userID)] = rec
	if err := s.saveUnlocked(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) GrantPaid(_ context.Context, userID int64, days int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.doc.Users[key(userID)]
	if !ok {
		return false, nil
	}
	// A paid grant replaces whatever expiry was there, trial included.
	end := s.now().Add(time.Duration(days) * 24 * time.Hour)
	rec.HasPaid = true
	rec.SubscriptionEnd = &end
	s.doc.Users[key(userID)] = rec
	if err := s.saveUnlocked(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) Status(_ context.Context, userID int64) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.doc.Users[key(userID)]
	if !ok {
		return Status{Kind: KindNone}, nil
	}
	return computeStatus(rec, s.now()), nil
}

func (s *FileStore) SetMode(_ context.Context, userID int64, username string, mode Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.doc.Users[key(userID)]
	if !ok {
		rec = UserRecord{ID: userID, CreatedAt: s.now()}
	}
	rec.Username = username
	rec.Mode = mode
	s.doc.Users[key(userID)] = rec
	return s.saveUnlocked()
}

func (s *FileStore) AddPayment(_ context.Context, userID int64, amount int, description string) (PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := PaymentRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      amount,
		Description: description,
		Status:      PaymentStatusPending,
		CreatedAt:   s.now(),
	}
	s.doc.Payments = append(s.doc.Payments, p)
	if err := s.saveUnlocked(); err != nil {
		return PaymentRecord{}, err
	}
	return p, nil
}

func (s *FileStore) Payments(_ context.Context, userID int64) ([]PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []PaymentRecord
	for _, p := range s.doc.Payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *FileStore) Close() error { return nil }
