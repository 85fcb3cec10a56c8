package converter

import (
	"autoshop/internal/domain/autoshop"
	sqlc "autoshop/internal/infra/sqlc/generated"
	"autoshop/internal/pkg/errs"
)

func SessionToInfra(s *autoshop.Session) (sqlc.UpsertSessionParams, error) {
	settings, err := MarshalSettings(s.Settings())
	if err != nil {
		return sqlc.UpsertSessionParams{}, err
	}
	return sqlc.UpsertSessionParams{
		ID:        s.ID(),
		UserKey:   s.UserKey().String(),
		State:     s.State().String(),
		Settings:  settings,
		StartedAt: s.StartedAt(),
		EndsAt:    s.EndsAt(),
		UpdatedAt: s.UpdatedAt(),
	}, nil
}

func SessionFromInfra(row sqlc.AutoshopSession) (*autoshop.Session, error) {
	key, err := userKeyFromInfra(row.UserKey)
	if err != nil {
		return nil, err
	}
	state := autoshop.State(row.State)
	if !state.IsValid() {
		return nil, errs.Wrapf(ErrCorruptRow, "session %s has state %q", row.ID, row.State)
	}
	settings, err := UnmarshalSettings(row.Settings)
	if err != nil {
		return nil, errs.Mark(err, ErrCorruptRow)
	}
	return autoshop.ReconstructSession(row.ID, key, state, settings, row.StartedAt, row.EndsAt, row.UpdatedAt), nil
}
