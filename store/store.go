// Package store persists local, non-authoritative state: cached remote data
// with TTLs, recent-venue history and the session token. Everything lives
// under the user config/cache dirs; nothing here is booking state.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"theater-booking-cli/model"
)

const (
	venueCacheTTL    = 24 * time.Hour
	layoutCacheTTL   = 72 * time.Hour
	showtimeCacheTTL = 10 * time.Minute
	maxRecentVenues  = 8

	appDirName = "theater-booking-cli"
)

type cacheEnvelope[T any] struct {
	UpdatedAt time.Time `json:"updated_at"`
	Data      T         `json:"data"`
}

// RecentVenue is one entry of the venue history, most recent first.
type RecentVenue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
}

type venueHistory struct {
	Venues []RecentVenue `json:"venues"`
}

func LoadVenueCache() ([]model.Venue, bool, error) {
	path, err := cachePath("venues.json")
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Venue](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= venueCacheTTL, nil
}

func SaveVenueCache(venues []model.Venue) error {
	path, err := cachePath("venues.json")
	if err != nil {
		return err
	}
	return saveCache(path, venues)
}

func LoadLayoutCache(venueID string) (model.Layout, bool, error) {
	path, err := cachePath(fmt.Sprintf("layout_%s.json", venueID))
	if err != nil {
		return model.Layout{}, false, err
	}
	cache, err := loadCache[model.Layout](path)
	if err != nil {
		return model.Layout{}, false, err
	}
	fresh := time.Since(cache.UpdatedAt) <= layoutCacheTTL && len(cache.Data.Sections) > 0
	return cache.Data, fresh, nil
}

func SaveLayoutCache(layout model.Layout) error {
	if layout.VenueID == "" {
		return errors.New("layout venue id is required")
	}
	path, err := cachePath(fmt.Sprintf("layout_%s.json", layout.VenueID))
	if err != nil {
		return err
	}
	return saveCache(path, layout)
}

func LoadShowtimeCache(venueID string) ([]model.Showtime, bool, error) {
	path, err := cachePath(fmt.Sprintf("showtimes_%s.json", venueID))
	if err != nil {
		return nil, false, err
	}
	cache, err := loadCache[[]model.Showtime](path)
	if err != nil {
		return nil, false, err
	}
	return cache.Data, time.Since(cache.UpdatedAt) <= showtimeCacheTTL, nil
}

func SaveShowtimeCache(venueID string, showtimes []model.Showtime) error {
	if venueID == "" {
		return errors.New("venue id is required")
	}
	path, err := cachePath(fmt.Sprintf("showtimes_%s.json", venueID))
	if err != nil {
		return err
	}
	return saveCache(path, showtimes)
}

func LoadRecentVenues() ([]RecentVenue, error) {
	path, err := configPath("history.json")
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var history venueHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.New("invalid venue history format")
	}
	return history.Venues, nil
}

// RememberVenue moves the venue to the head of the history, deduplicated and
// capped at maxRecentVenues.
func RememberVenue(venue model.Venue) error {
	history, _ := LoadRecentVenues()
	next := []RecentVenue{{ID: venue.ID, Name: venue.Name, City: venue.City}}

	for _, existing := range history {
		if existing.ID == venue.ID && existing.ID != "" {
			continue
		}
		if existing.Name != "" && strings.EqualFold(existing.Name, venue.Name) && strings.EqualFold(existing.City, venue.City) {
			continue
		}
		next = append(next, existing)
		if len(next) >= maxRecentVenues {
			break
		}
	}

	return saveRecentVenues(next)
}

// LoadSessionToken returns the stored auth session token, empty when absent.
func LoadSessionToken() (string, error) {
	path, err := configPath("session")
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// SaveSessionToken persists the auth session token; an empty token removes it.
func SaveSessionToken(token string) error {
	path, err := configPath("session")
	if err != nil {
		return err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(token+"\n"), 0o600)
}

func loadCache[T any](path string) (cacheEnvelope[T], error) {
	var cache cacheEnvelope[T]
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return cache, err
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		return cache, err
	}
	return cache, nil
}

func saveCache[T any](path string, data T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cache := cacheEnvelope[T]{
		UpdatedAt: time.Now(),
		Data:      data,
	}
	payload, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func saveRecentVenues(venues []RecentVenue) error {
	path, err := configPath("history.json")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	history := venueHistory{Venues: venues}
	payload, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func configPath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, name), nil
}

func cachePath(name string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, name), nil
}
