package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrInvalidSettings wraps validation failures from Update.
var ErrInvalidSettings = errors.New("invalid settings")

// Store persists the JSON form of Settings. Load returns nil, nil when
// nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Service owns the current settings. It is safe for concurrent use.
type Service struct {
	mu      sync.RWMutex
	store   Store
	current Settings
	log     *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, current: Defaults(), log: log.Named("settings")}
}

// Load merges stored values over the defaults. Unreadable or invalid stored
// settings are logged and replaced by defaults; only store I/O errors are
// returned.
func (s *Service) Load(ctx context.Context) error {
	data, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	merged := Defaults()
	if len(data) > 0 {
		if err := json.Unmarshal(data, &merged); err != nil {
			s.log.Warn("stored settings are not valid JSON, using defaults", zap.Error(err))
			merged = Defaults()
		} else if err := merged.Validate(); err != nil {
			s.log.Warn("stored settings are invalid, using defaults", zap.Error(err))
			merged = Defaults()
		}
	}

	s.mu.Lock()
	s.current = merged
	s.mu.Unlock()
	return nil
}

// Current returns a copy of the active settings.
func (s *Service) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update applies fn to a copy, validates it and saves it before making it
// current. A failed save leaves the current settings unchanged.
func (s *Service) Update(ctx context.Context, fn func(*Settings)) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	fn(&next)
	if err := next.Validate(); err != nil {
		return s.current, fmt.Errorf("update settings: %w: %w", ErrInvalidSettings, err)
	}
	if err := s.save(ctx, next); err != nil {
		return s.current, err
	}
	s.current = next
	s.log.Debug("settings saved", zap.String("theme", next.Theme), zap.String("currency", next.Currency))
	return next, nil
}

// Replace validates and saves a complete settings value.
func (s *Service) Replace(ctx context.Context, next Settings) (Settings, error) {
	return s.Update(ctx, func(cur *Settings) { *cur = next })
}

// Reset restores and saves the defaults.
func (s *Service) Reset(ctx context.Context) (Settings, error) {
	return s.Replace(ctx, Defaults())
}

func (s *Service) save(ctx context.Context, v Settings) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := s.store.Save(ctx, data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
