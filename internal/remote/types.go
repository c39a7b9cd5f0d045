package remote

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dagbolade/proposal-box/internal/answer"
)

var (
	ErrNotConfigured = errors.New("remote store not configured")
	ErrCallFailed    = errors.New("remote call failed")
)

type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// TimeField is the server-assigned recording time of a document.
const TimeField = "time"

// Collection is the shared remote answer collection.
type Collection interface {
	Add(ctx context.Context, doc answer.Document) (string, error)
	Query(ctx context.Context, orderBy string, dir Direction) ([]answer.Document, error)
}

type Config struct {
	URI            string
	Database       string
	Collection     string
	ConnectTimeout time.Duration
	Configured     bool
}

// NewConfig marks the config usable only when every credential is present and
// none is a template placeholder.
func NewConfig(uri, database, collection string, connectTimeout time.Duration) Config {
	return Config{
		URI:            uri,
		Database:       database,
		Collection:     collection,
		ConnectTimeout: connectTimeout,
		Configured:     !isPlaceholder(uri) && !isPlaceholder(database) && !isPlaceholder(collection),
	}
}

func isPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.Contains(v, "YOUR_")
}
