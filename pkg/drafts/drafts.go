// Package drafts stores named field maps per owner.
//
// A draft is a saved copy of the form: every field value keyed by field
// name, the owner who saved it, and the time of the last save. Saving a
// draft under an existing (owner, name) pair replaces it.
//
// # Backends
//
//   - [MemoryStore]: in-process, for tests and single-instance servers
//   - [FileStore]: one JSON file per draft, for the CLI
//   - [RedisStore]: one hash per owner, for multi-instance servers
//   - [MongoStore]: one document per draft with a unique (owner, name) index
//
// # Usage
//
//	d, err := drafts.Save(ctx, store, owner, "Q3 Review", fields)
//	fields, err := drafts.Load(ctx, store, owner, "Q3 Review")
package drafts

import (
	"context"
	stderrors "errors"
	"sort"
	"time"

	"github.com/matzehuels/topicsheet/pkg/errors"
	"github.com/matzehuels/topicsheet/pkg/sheet"
)

// ErrNotFound is returned by Get when no draft has the given owner and name.
var ErrNotFound = stderrors.New("draft not found")

// Draft is a saved form.
type Draft struct {
	Owner     string         `json:"owner" bson:"owner"`
	Name      string         `json:"name" bson:"name"`
	Fields    sheet.FieldMap `json:"fields" bson:"fields"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// Summary describes a draft without its fields.
type Summary struct {
	Name      string    `json:"name" bson:"name"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is implemented by every draft backend.
//
// Put inserts or replaces the draft with the same owner and name. Get
// returns [ErrNotFound] for a missing draft. List returns the owner's
// drafts sorted by name. Delete of a missing draft is not an error.
type Store interface {
	Put(ctx context.Context, d *Draft) error
	Get(ctx context.Context, owner, name string) (*Draft, error)
	List(ctx context.Context, owner string) ([]Summary, error)
	Delete(ctx context.Context, owner, name string) error
	Close() error
}

// Now is the clock used for UpdatedAt. Tests may replace it.
var Now = func() time.Time { return time.Now().UTC() }

// Save validates the owner and name, keeps only known non-empty fields and
// upserts the draft.
func Save(ctx context.Context, s Store, owner, name string, fields sheet.FieldMap) (*Draft, error) {
	if err := errors.ValidateOwnerID(owner); err != nil {
		return nil, err
	}
	if err := errors.ValidateDraftName(name); err != nil {
		return nil, err
	}
	d := &Draft{
		Owner:     owner,
		Name:      name,
		Fields:    fields.Normalize(),
		UpdatedAt: Now().Truncate(time.Millisecond),
	}
	if err := s.Put(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Load returns the fields of a draft. A missing draft yields an empty map.
func Load(ctx context.Context, s Store, owner, name string) (sheet.FieldMap, error) {
	d, err := s.Get(ctx, owner, name)
	if stderrors.Is(err, ErrNotFound) {
		return sheet.FieldMap{}, nil
	}
	if err != nil {
		return nil, err
	}
	if d.Fields == nil {
		return sheet.FieldMap{}, nil
	}
	return d.Fields, nil
}

// Names returns the names of the owner's drafts in sorted order.
func Names(ctx context.Context, s Store, owner string) ([]string, error) {
	list, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(list))
	for i, d := range list {
		names[i] = d.Name
	}
	return names, nil
}

func sortSummaries(list []Summary) {
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
}

func unavailable(err error, op string) error {
	return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "draft store %s", op)
}

func clone(d *Draft) *Draft {
	c := *d
	c.Fields = make(sheet.FieldMap, len(d.Fields))
	for k, v := range d.Fields {
		c.Fields[k] = v
	}
	return &c
}
