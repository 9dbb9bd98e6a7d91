package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"scheduleandpay/internal/domain"
)

// FileStore keeps hours and bookings in a single JSON document. Every write
// replaces the whole file through a temp file and rename, so readers never
// observe a half written document.
type FileStore struct {
	path string
	mu   sync.Mutex
}

type fileDocument struct {
	Hours        []string            `json:"hours,omitempty"`
	Bookings     map[string][]string `json:"bookings"`
	Reservations []fileReservation   `json:"reservations"`
}

type fileReservation struct {
	ID        int64     `json:"id"`
	Reference string    `json:"reference"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) load() (*fileDocument, error) {
	doc := &fileDocument{Bookings: map[string][]string{}}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(b) == 0 {
		return doc, nil
	}
	if err := decodeDocument(b, doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return doc, nil
}

// decodeDocument also accepts the older layout, a bare {"2024-06-10": ["09:00 AM"]}
// map, and folds those dates into Bookings. Any other unknown key is an error
// so the next write never drops data it did not understand.
func decodeDocument(b []byte, doc *fileDocument) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	legacy := make(map[string][]string)
	for key, value := range raw {
		var err error
		switch key {
		case "hours":
			err = json.Unmarshal(value, &doc.Hours)
		case "bookings":
			err = json.Unmarshal(value, &doc.Bookings)
		case "reservations":
			err = json.Unmarshal(value, &doc.Reservations)
		default:
			day, perr := domain.ParseDay(key)
			if perr != nil {
				return fmt.Errorf("%w: unexpected key %q", ErrUnknownDocument, key)
			}
			var labels []string
			if err := json.Unmarshal(value, &labels); err != nil {
				return fmt.Errorf("%w: bookings for %s: %v", ErrUnknownDocument, key, err)
			}
			legacy[day.Key()] = append(legacy[day.Key()], labels...)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}

	if doc.Bookings == nil {
		doc.Bookings = map[string][]string{}
	}
	for key, labels := range legacy {
		for _, l := range labels {
			if !containsString(doc.Bookings[key], l) {
				doc.Bookings[key] = append(doc.Bookings[key], l)
			}
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (s *FileStore) save(doc *fileDocument) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("encode store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}

func (s *FileStore) Create(_ context.Context, res *domain.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	key := res.Day.Key()
	for _, t := range doc.Bookings[key] {
		if t == string(res.Time) {
			return ErrSlotTaken
		}
	}

	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}
	res.ID = int64(len(doc.Reservations)) + 1

	doc.Bookings[key] = append(doc.Bookings[key], string(res.Time))
	doc.Reservations = append(doc.Reservations, fileReservation{
		ID:        res.ID,
		Reference: res.Reference,
		Date:      key,
		Time:      string(res.Time),
		Name:      res.Contact.Name,
		Email:     res.Contact.Email,
		Phone:     res.Contact.Phone,
		CreatedAt: res.CreatedAt,
	})

	if err := s.save(doc); err != nil {
		res.ID = 0
		return err
	}
	return nil
}

func (s *FileStore) BookedLabels(_ context.Context, days []domain.Day) (map[string][]domain.TimeLabel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make(map[string][]domain.TimeLabel)
	for _, d := range days {
		key := d.Key()
		for _, t := range doc.Bookings[key] {
			out[key] = append(out[key], domain.TimeLabel(t))
		}
	}
	return out, nil
}

func (s *FileStore) ListByDay(_ context.Context, day domain.Day) ([]domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	key := day.Key()
	out := make([]domain.Reservation, 0)
	for _, r := range doc.Reservations {
		if r.Date == key {
			out = append(out, r.toDomain(day))
		}
	}
	return out, nil
}

func (s *FileStore) GetByReference(_ context.Context, ref string) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, r := range doc.Reservations {
		if r.Reference != ref {
			continue
		}
		day, err := domain.ParseDay(r.Date)
		if err != nil {
			return nil, err
		}
		res := r.toDomain(day)
		return &res, nil
	}
	return nil, ErrNotFound
}

func (s *FileStore) LoadHours(_ context.Context) ([]domain.TimeLabel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	if len(doc.Hours) == 0 {
		return nil, ErrNotFound
	}
	out := make([]domain.TimeLabel, 0, len(doc.Hours))
	for _, h := range doc.Hours {
		out = append(out, domain.TimeLabel(h))
	}
	return out, nil
}

func (s *FileStore) SaveHours(_ context.Context, labels []domain.TimeLabel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Hours = domain.LabelStrings(labels)
	return s.save(doc)
}

func (r fileReservation) toDomain(day domain.Day) domain.Reservation {
	return domain.Reservation{
		ID:        r.ID,
		Reference: r.Reference,
		Day:       day,
		Time:      domain.TimeLabel(r.Time),
		Contact: domain.Contact{
			Name:  r.Name,
			Email: r.Email,
			Phone: r.Phone,
		},
		CreatedAt: r.CreatedAt,
	}
}
