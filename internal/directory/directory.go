package directory

import (
	"context"
	"errors"
	"time"

	"github.com/susu3304/classbot/internal/db"
	"github.com/susu3304/classbot/internal/model"
)

var (
	ErrNotFound  = db.ErrNotFound
	ErrForbidden = errors.New("only the developer may change roles")
)

type Store interface {
	GetParticipant(ctx context.Context, id int64) (*model.Participant, error)
	CreateParticipant(ctx context.Context, p *model.Participant) (bool, error)
	SetRole(ctx context.Context, id int64, role model.Role) error
	ListByRole(ctx context.Context, role model.Role) ([]model.Participant, error)
	CountByRole(ctx context.Context) (map[model.Role]int, error)
}

// Directory maps participant ids to roles and names.
type Directory struct {
	store       Store
	developerID int64
	now         func() time.Time
}

func New(store Store, developerID int64) *Directory {
	return &Directory{
		store:       store,
		developerID: developerID,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (d *Directory) DeveloperID() int64 {
	return d.developerID
}

func (d *Directory) IsDeveloper(id int64) bool {
	return id == d.developerID
}

// Register records a participant on first contact. The configured developer
// id becomes the developer; everyone else waits as pending. Existing
// participants are returned unchanged.
func (d *Directory) Register(ctx context.Context, id int64, username, name string) (*model.Participant, bool, error) {
	role := model.RolePending
	if d.IsDeveloper(id) {
		role = model.RoleDeveloper
	}
	p := &model.Participant{
		ID:           id,
		Username:     username,
		Name:         name,
		Role:         role,
		RegisteredAt: d.now(),
	}
	created, err := d.store.CreateParticipant(ctx, p)
	if err != nil {
		return nil, false, err
	}
	if created {
		return p, true, nil
	}
	existing, err := d.store.GetParticipant(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (d *Directory) Get(ctx context.Context, id int64) (*model.Participant, error) {
	return d.store.GetParticipant(ctx, id)
}

// Assign changes the role of targetID. Only the developer may do this, and
// the developer's own role cannot be changed.
func (d *Directory) Assign(ctx context.Context, actorID, targetID int64, role model.Role) (*model.Participant, error) {
	if !d.IsDeveloper(actorID) || d.IsDeveloper(targetID) {
		return nil, ErrForbidden
	}
	if err := d.store.SetRole(ctx, targetID, role); err != nil {
		return nil, err
	}
	return d.store.GetParticipant(ctx, targetID)
}

func (d *Directory) Parents(ctx context.Context) ([]model.Participant, error) {
	return d.store.ListByRole(ctx, model.RoleParent)
}

func (d *Directory) Pending(ctx context.Context) ([]model.Participant, error) {
	return d.store.ListByRole(ctx, model.RolePending)
}

func (d *Directory) Counts(ctx context.Context) (map[model.Role]int, error) {
	return d.store.CountByRole(ctx)
}
