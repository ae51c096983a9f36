package identify

import "strings"

// Kind labels the final classification of one source name.
type Kind string

const (
	KindMovie        Kind = "movie"
	KindMovieKids    Kind = "movie_kids"
	KindTV           Kind = "tv"
	KindTVKids       Kind = "tv_kids"
	KindUnclassified Kind = "unclassified"
)

// Decision is the engine's verdict for one source name.
type Decision struct {
	Kind       Kind   `json:"kind"`
	Title      string `json:"title,omitempty"`
	Year       int    `json:"year,omitempty"`
	Season     int    `json:"season,omitempty"`
	Episode    int    `json:"episode,omitempty"`
	Kids       bool   `json:"kids,omitempty"`
	MetadataID int64  `json:"metadata_id,omitempty"`
	Score      int    `json:"score,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// Confident reports whether the decision carries a usable classification.
func (d Decision) Confident() bool { return d.Kind != KindUnclassified && d.Kind != "" }

// IsTV reports whether the decision is an episode classification.
func (d Decision) IsTV() bool { return d.Kind == KindTV || d.Kind == KindTVKids }

// IsMovie reports whether the decision is a movie classification.
func (d Decision) IsMovie() bool { return d.Kind == KindMovie || d.Kind == KindMovieKids }

// withKids returns the kids variant of a base kind.
func (k Kind) withKids(kids bool) Kind {
	if !kids {
		return k
	}
	switch k {
	case KindMovie:
		return KindMovieKids
	case KindTV:
		return KindTVKids
	}
	return k
}

// mediaExtensions are the container suffixes stripped before classification.
var mediaExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".avi": true, ".m4v": true, ".mov": true,
	".mpg": true, ".mpeg": true, ".wmv": true, ".flv": true, ".webm": true,
	".ts": true, ".m2ts": true, ".vob": true, ".divx": true, ".ogm": true,
}

// Stem strips a known media container extension from a file name.
func Stem(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name
	}
	if mediaExtensions[strings.ToLower(name[idx:])] {
		return name[:idx]
	}
	return name
}
