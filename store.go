package imgedit

import (
	"errors"
	"fmt"
	"sync"

	"github.com/wbrown/imgedit/imageutil"
)

var (
	ErrNotFound        = errors.New("image with specified ID does not exist")
	ErrInvalidArgument = errors.New("invalid argument")
)

// Store maps image IDs to images. Putting an existing ID replaces the
// image stored under it.
type Store struct {
	mu     sync.RWMutex
	images map[string]*imageutil.Image
	order  []string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{images: make(map[string]*imageutil.Image)}
}

// Put stores img under id, replacing any previous image.
func (s *Store) Put(id string, img *imageutil.Image) error {
	if id == "" || img == nil {
		return fmt.Errorf("%w: ID or image cannot be empty", ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.images[id]; !ok {
		s.order = append(s.order, id)
	}
	s.images[id] = img
	return nil
}

// Get returns the image stored under id.
func (s *Store) Get(id string) (*imageutil.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return img, nil
}

// IDs lists the stored IDs in the order they were first added.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}
