// Package appstate keeps small pieces of client state (the session, the
// cart) in one place with explicit persistence and change notification.
package appstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Slot holds a single value of type T. Every mutation is written to the
// backing file before subscribers hear about it. With an empty path the
// value lives in memory only.
type Slot[T any] struct {
	mu     sync.Mutex
	path   string
	value  T
	subs   map[int]chan T
	nextID int
	logger *logrus.Logger
}

// Open loads the slot from path. A missing file starts from the zero value;
// a file that cannot be decoded is reset to the zero value and rewritten.
func Open[T any](path string, logger *logrus.Logger) (*Slot[T], error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Slot[T]{path: path, subs: make(map[int]chan T), logger: logger}
	if path == "" {
		return s, nil
	}
	v, err := s.read()
	if err != nil {
		return nil, err
	}
	s.value = v
	return s, nil
}

func (s *Slot[T]) read() (T, error) {
	var zero T
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return zero, nil
	}
	if err != nil {
		return zero, fmt.Errorf("read state %s: %w", s.path, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.WithError(err).WithField("path", s.path).Warn("Discarding unreadable state")
		if err := s.write(zero); err != nil {
			return zero, err
		}
		return zero, nil
	}
	return v, nil
}

func (s *Slot[T]) write(v T) error {
	if s.path == "" {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

// Get returns the current value.
func (s *Slot[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the value, persists it and notifies subscribers.
func (s *Slot[T]) Set(v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(v)
}

// Update applies fn to the current value under the slot lock. If fn returns
// an error nothing changes.
func (s *Slot[T]) Update(fn func(T) (T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.value)
	if err != nil {
		return err
	}
	return s.commit(next)
}

// Clear resets the slot to the zero value.
func (s *Slot[T]) Clear() error {
	var zero T
	return s.Set(zero)
}

// Reload re-reads the backing file, picking up a write made by another
// process. Whatever was written last wins.
func (s *Slot[T]) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	v, err := s.read()
	if err != nil {
		return err
	}
	s.value = v
	s.broadcast(v)
	return nil
}

func (s *Slot[T]) commit(v T) error {
	if err := s.write(v); err != nil {
		return err
	}
	s.value = v
	s.broadcast(v)
	return nil
}

// broadcast hands v to every subscriber without blocking. A subscriber that
// has not consumed the previous value has it replaced by v.
func (s *Slot[T]) broadcast(v T) {
	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

// Subscribe returns a channel that receives the value after each change and
// a func that stops delivery and closes the channel.
func (s *Slot[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan T, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}
