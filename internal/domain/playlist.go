package domain

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// LocalPlaylist is a user-curated ordered collection of cached audios
type LocalPlaylist struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	CoverPath   string       `json:"cover_path,omitempty"`
	Cover       string       `json:"cover,omitempty"`
	Audios      []LocalAudio `json:"audios"`
	Platform    Platform     `json:"platform"`
	CreatedAt   int64        `json:"created_at"`
	UpdatedAt   int64        `json:"updated_at"`
}

// NewLocalPlaylist creates an empty playlist
func NewLocalPlaylist(name string, platform Platform, now time.Time) LocalPlaylist {
	ts := now.Unix()
	return LocalPlaylist{
		ID:        uuid.New().String(),
		Name:      name,
		Audios:    []LocalAudio{},
		Platform:  platform,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// AddAudio appends an audio to the playlist. Adding an audio whose
// identifier is already present is a no-op.
func (p *LocalPlaylist) AddAudio(audio LocalAudio, now time.Time) bool {
	if p.contains(audio.Audio.ID) {
		return false
	}
	p.Audios = append(p.Audios, audio)
	p.UpdatedAt = now.Unix()
	return true
}

// RemoveAudio removes an audio by identifier, reporting whether anything was removed
func (p *LocalPlaylist) RemoveAudio(audioID string, now time.Time) bool {
	for i, a := range p.Audios {
		if a.Audio.ID == audioID {
			p.Audios = append(p.Audios[:i], p.Audios[i+1:]...)
			p.UpdatedAt = now.Unix()
			return true
		}
	}
	return false
}

// Reorder moves an audio to a new position. Out-of-range positions are
// clamped to the valid range rather than failing.
func (p *LocalPlaylist) Reorder(audioID string, position int, now time.Time) error {
	current := -1
	for i, a := range p.Audios {
		if a.Audio.ID == audioID {
			current = i
			break
		}
	}
	if current < 0 {
		return ErrAudioNotFound
	}
	if position < 0 {
		position = 0
	}
	if current == position {
		return nil
	}

	audio := p.Audios[current]
	p.Audios = append(p.Audios[:current], p.Audios[current+1:]...)
	if position > len(p.Audios) {
		position = len(p.Audios)
	}
	p.Audios = append(p.Audios[:position], append([]LocalAudio{audio}, p.Audios[position:]...)...)
	p.UpdatedAt = now.Unix()
	return nil
}

// Merge appends every audio from source that the playlist does not already contain
func (p *LocalPlaylist) Merge(source *LocalPlaylist, now time.Time) {
	for _, a := range source.Audios {
		if !p.contains(a.Audio.ID) {
			p.Audios = append(p.Audios, a)
		}
	}
	p.UpdatedAt = now.Unix()
}

// Duplicate returns a copy of the playlist with a fresh identifier and
// a "(Copy)" suffixed name
func (p *LocalPlaylist) Duplicate(now time.Time) LocalPlaylist {
	copied := NewLocalPlaylist(p.Name+" (Copy)", p.Platform, now)
	copied.Description = p.Description
	copied.Cover = p.Cover
	copied.CoverPath = p.CoverPath
	copied.Audios = append([]LocalAudio{}, p.Audios...)
	return copied
}

// Shuffle randomizes the playlist order using the supplied source
func (p *LocalPlaylist) Shuffle(rng *rand.Rand, now time.Time) {
	rng.Shuffle(len(p.Audios), func(i, j int) {
		p.Audios[i], p.Audios[j] = p.Audios[j], p.Audios[i]
	})
	p.UpdatedAt = now.Unix()
}

// TotalDuration sums the declared durations of all audios, in seconds
func (p *LocalPlaylist) TotalDuration() uint64 {
	var total uint64
	for _, a := range p.Audios {
		if a.Audio.Duration != nil {
			total += *a.Audio.Duration
		}
	}
	return total
}

func (p *LocalPlaylist) contains(audioID string) bool {
	for _, a := range p.Audios {
		if a.Audio.ID == audioID {
			return true
		}
	}
	return false
}
