package repos

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	jsoniter "github.com/json-iterator/go"

	"draftshop/internal/domain"
)

const stampLayout = "2006-01-02 15:04:05"

var photoJSON = jsoniter.ConfigCompatibleWithStandardLibrary

func nowStamp() time.Time { return domain.Now() }

func formatStamp(t time.Time) string { return t.UTC().Format(stampLayout) }

// parseStamp reads the layout we write; other shapes come from drivers that
// return native timestamps (lib/pq renders them as RFC 3339).
func parseStamp(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(stampLayout, s, time.UTC); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: timestamp %q", domain.ErrHydration, s)
	}
	return t.UTC(), nil
}

func encodePhotos(photos []string) (string, error) {
	if photos == nil {
		photos = []string{}
	}
	b, err := photoJSON.Marshal(photos)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodePhotos requires a JSON array of strings. A null list, a null
// element or any other shape is an integrity error.
func decodePhotos(raw string) ([]string, error) {
	var refs []*string
	if err := photoJSON.UnmarshalFromString(raw, &refs); err != nil {
		return nil, fmt.Errorf("%w: photos: %v", domain.ErrHydration, err)
	}
	if refs == nil {
		return nil, fmt.Errorf("%w: photos: not a list", domain.ErrHydration)
	}
	photos := make([]string, len(refs))
	for i, r := range refs {
		if r == nil {
			return nil, fmt.Errorf("%w: photos[%d] is null", domain.ErrHydration, i)
		}
		photos[i] = *r
	}
	return photos, nil
}
