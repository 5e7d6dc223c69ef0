package domain

// Settings holds the user-tunable options persisted inside the catalog
type Settings struct {
	DownloadPath       string  `json:"download_path,omitempty"`
	MaxCacheSize       *uint64 `json:"max_cache_size,omitempty"` // MB
	AutoDownloadCover  bool    `json:"auto_download_cover"`
	DefaultAudioFormat string  `json:"default_audio_format"`
}

// Catalog is the single persisted aggregate: every cached audio, every
// playlist, and the application settings. It is loaded and saved wholesale.
type Catalog struct {
	Audios    []LocalAudio    `json:"audios"`
	Playlists []LocalPlaylist `json:"playlists"`
	Settings  Settings        `json:"settings"`
}

// NewCatalog returns an empty catalog seeded with default settings
func NewCatalog() *Catalog {
	return &Catalog{
		Audios:    []LocalAudio{},
		Playlists: []LocalPlaylist{},
		Settings: Settings{
			AutoDownloadCover:  true,
			DefaultAudioFormat: string(FormatMP3),
		},
	}
}

// AddAudio appends an entry to the catalog. Entries are unique by audio
// identifier; adding a duplicate is a no-op.
func (c *Catalog) AddAudio(audio LocalAudio) bool {
	if c.FindAudio(audio.Audio.ID) != nil {
		return false
	}
	c.Audios = append(c.Audios, audio)
	return true
}

// RemoveAudio removes an entry by audio identifier, reporting whether
// anything was removed
func (c *Catalog) RemoveAudio(audioID string) bool {
	for i, a := range c.Audios {
		if a.Audio.ID == audioID {
			c.Audios = append(c.Audios[:i], c.Audios[i+1:]...)
			return true
		}
	}
	return false
}

// FindAudio returns the entry with the given audio identifier, or nil
func (c *Catalog) FindAudio(audioID string) *LocalAudio {
	for i := range c.Audios {
		if c.Audios[i].Audio.ID == audioID {
			return &c.Audios[i]
		}
	}
	return nil
}

// AddPlaylist appends a playlist. Adding a duplicate identifier is a no-op.
func (c *Catalog) AddPlaylist(playlist LocalPlaylist) bool {
	if c.FindPlaylist(playlist.ID) != nil {
		return false
	}
	c.Playlists = append(c.Playlists, playlist)
	return true
}

// RemovePlaylist removes a playlist by identifier, reporting whether
// anything was removed
func (c *Catalog) RemovePlaylist(playlistID string) bool {
	for i, p := range c.Playlists {
		if p.ID == playlistID {
			c.Playlists = append(c.Playlists[:i], c.Playlists[i+1:]...)
			return true
		}
	}
	return false
}

// FindPlaylist returns the playlist with the given identifier, or nil
func (c *Catalog) FindPlaylist(playlistID string) *LocalPlaylist {
	for i := range c.Playlists {
		if c.Playlists[i].ID == playlistID {
			return &c.Playlists[i]
		}
	}
	return nil
}

// DefaultFormat returns the configured default audio format
func (c *Catalog) DefaultFormat() AudioFormat {
	if c.Settings.DefaultAudioFormat == "" {
		return FormatMP3
	}
	return AudioFormat(c.Settings.DefaultAudioFormat)
}
