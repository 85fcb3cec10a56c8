//go:build unit

package uow_test

import (
	"testing"

	"autoshop/internal/domain/identity"
	"autoshop/internal/infra/memstore"
	"autoshop/internal/infra/uow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	ephemeral := memstore.New()
	durable := memstore.New()
	anon, err := identity.Anonymous("sid-1")
	require.NoError(t, err)
	user := identity.Authenticated(uuid.New())

	r := uow.NewRouter(ephemeral, durable)
	assert.Same(t, ephemeral, r.For(anon))
	assert.Same(t, durable, r.For(user))
	assert.Len(t, r.Durable(), 1)

	fallback := uow.NewRouter(ephemeral, nil)
	assert.Same(t, ephemeral, fallback.For(user))
	assert.Empty(t, fallback.Durable())
}
