package storage

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RawPrefix     = "raw/"
	SummaryPrefix = "summary/"
	InputPrefix   = "input"
)

// SummaryKeyFor derives where the summary of an uploaded object goes. Keys
// under raw/ are mirrored under summary/; anything else lands at
// summary/<name>_summary.txt.
func SummaryKeyFor(inputKey string) string {
	if rest, ok := strings.CutPrefix(inputKey, RawPrefix); ok {
		return SummaryPrefix + rest
	}

	base := path.Base(inputKey)
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return SummaryPrefix + base + "_summary.txt"
}

// GeneratedKey builds <prefix>/YYYY/MM/DD/<id>.<ext> using the UTC date of now.
func GeneratedKey(prefix, ext string, now time.Time, id string) string {
	return fmt.Sprintf("%s/%s/%s.%s",
		strings.TrimSuffix(prefix, "/"),
		now.UTC().Format("2006/01/02"),
		id,
		strings.TrimPrefix(ext, "."))
}

func NewObjectID() string {
	return uuid.NewString()
}

// DecodeEventKey undoes the form encoding S3 applies to keys in event
// notifications ("+" for space, %XX escapes).
func DecodeEventKey(key string) (string, error) {
	decoded, err := url.QueryUnescape(key)
	if err != nil {
		return "", fmt.Errorf("decode object key %q: %w", key, err)
	}
	return decoded, nil
}
