package guard

import (
	"errors"
	"fmt"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// Rules holds the configurable bounds of payload validation.
type Rules struct {
	TitleMin        int      `yaml:"title_min"`
	TitleMax        int      `yaml:"title_max"`
	AnnounceMin     int      `yaml:"announce_min"`
	AnnounceMax     int      `yaml:"announce_max"`
	FullTextMin     int      `yaml:"full_text_min"`
	FullTextMax     int      `yaml:"full_text_max"`
	CommentMin      int      `yaml:"comment_min"`
	PasswordMin     int      `yaml:"password_min"`
	PasswordMaxByte int      `yaml:"password_max_bytes"`
	NameMax         int      `yaml:"name_max"`
	ImageExtensions []string `yaml:"image_extensions"`
}

// DefaultRules returns the bounds used when no configuration overrides them.
func DefaultRules() Rules {
	return Rules{
		TitleMin:        30,
		TitleMax:        250,
		AnnounceMin:     30,
		AnnounceMax:     250,
		FullTextMin:     1,
		FullTextMax:     1000,
		CommentMin:      20,
		PasswordMin:     6,
		PasswordMaxByte: MaxPasswordBytes,
		NameMax:         50,
		ImageExtensions: []string{".jpg", ".jpeg", ".png"},
	}
}

// Validate rejects bounds that could never be satisfied.
func (r Rules) Validate() error {
	pairs := []struct {
		name     string
		min, max int
	}{
		{"title", r.TitleMin, r.TitleMax},
		{"announce", r.AnnounceMin, r.AnnounceMax},
		{"full_text", r.FullTextMin, r.FullTextMax},
	}
	for _, p := range pairs {
		if p.min < 1 || p.max < p.min {
			return fmt.Errorf("invalid %s bounds [%d, %d]", p.name, p.min, p.max)
		}
	}
	if r.CommentMin < 1 {
		return errors.New("comment_min must be positive")
	}
	if r.PasswordMin < 1 {
		return errors.New("password_min must be positive")
	}
	if r.PasswordMaxByte < r.PasswordMin || r.PasswordMaxByte > MaxPasswordBytes {
		return fmt.Errorf("password_max_bytes must be between password_min and %d", MaxPasswordBytes)
	}
	if r.NameMax < 1 {
		return errors.New("name_max must be positive")
	}
	if len(r.ImageExtensions) == 0 {
		return errors.New("image_extensions must not be empty")
	}
	return nil
}
