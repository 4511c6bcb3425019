package notebook

import (
	"encoding/base64"
	"errors"
	"time"
)

// SourceType mirrors the service's source type enum.
type SourceType int

const (
	SourceTypeUnspecified  SourceType = 0
	SourceTypeUnknown      SourceType = 1
	SourceTypeGoogleDocs   SourceType = 3
	SourceTypeGoogleSlides SourceType = 4
	SourceTypeGoogleSheets SourceType = 5
	SourceTypeLocalFile    SourceType = 6
	SourceTypeWebPage      SourceType = 7
	SourceTypeSharedNote   SourceType = 8
	SourceTypeYouTubeVideo SourceType = 9
)

func (t SourceType) String() string {
	switch t {
	case SourceTypeGoogleDocs:
		return "GOOGLE_DOCS"
	case SourceTypeGoogleSlides:
		return "GOOGLE_SLIDES"
	case SourceTypeGoogleSheets:
		return "GOOGLE_SHEETS"
	case SourceTypeLocalFile:
		return "LOCAL_FILE"
	case SourceTypeWebPage:
		return "WEB_PAGE"
	case SourceTypeSharedNote:
		return "SHARED_NOTE"
	case SourceTypeYouTubeVideo:
		return "YOUTUBE_VIDEO"
	default:
		return "UNKNOWN"
	}
}

// SourceStatus mirrors the service's source status enum.
type SourceStatus int

const (
	SourceStatusUnspecified SourceStatus = 0
	SourceStatusEnabled     SourceStatus = 1
	SourceStatusDisabled    SourceStatus = 2
	SourceStatusError       SourceStatus = 3
)

func (s SourceStatus) String() string {
	switch s {
	case SourceStatusEnabled:
		return "ENABLED"
	case SourceStatusDisabled:
		return "DISABLED"
	case SourceStatusError:
		return "ERROR"
	default:
		return "UNSPECIFIED"
	}
}

// ProjectMetadata is the subset of notebook metadata the front end exposes.
type ProjectMetadata struct {
	UserRole      int
	SessionActive bool
	Type          int
	IsStarred     bool
	CreateTime    time.Time
	ModifiedTime  time.Time
}

// Project is one notebook.
type Project struct {
	ID       string
	Title    string
	Emoji    string
	Sources  []Source
	Metadata *ProjectMetadata
}

// Source is one notebook source. Notes are returned in the same shape.
type Source struct {
	ID     string
	Title  string
	Type   SourceType
	Status SourceStatus
}

// AudioOverview is the state of a notebook's audio overview. AudioData is
// base64 as delivered by the service.
type AudioOverview struct {
	ProjectID string
	AudioID   string
	Title     string
	AudioData string
	IsReady   bool
}

// Bytes decodes the base64 audio payload.
func (a AudioOverview) Bytes() ([]byte, error) {
	if a.AudioData == "" {
		return nil, errors.New("notebook: no audio data available")
	}
	return base64.StdEncoding.DecodeString(a.AudioData)
}

// ShareOption selects audio overview visibility.
type ShareOption int

const (
	SharePrivate ShareOption = 0
	SharePublic  ShareOption = 1
)

// ShareAudioResult is the outcome of a share request.
type ShareAudioResult struct {
	ShareURL string
	ShareID  string
	IsPublic bool
}
