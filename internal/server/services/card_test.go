package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCard(vaultID int64) CardInput {
	return CardInput{
		Name: "Main", Number: "4111111111111111", Type: "visa", Bank: "ACME",
		CCV: "123", Expiration: "12/30", PIN: "0000", VaultID: vaultID,
	}
}

func TestCardLifecycle(t *testing.T) {
	f := newFixture(t)
	u := f.signup(t, "alice")
	v := f.vault(t, u, "Wallet")
	ctx := context.Background()

	c, err := f.cards.Create(ctx, u, sampleCard(v.ID))
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", c.Number)

	stored := f.store.cards[c.ID]
	assert.NotEqual(t, "4111111111111111", stored.Number)
	assert.NotEqual(t, "123", stored.CCV)
	assert.NotEqual(t, "0000", stored.PIN)
	assert.Equal(t, "12/30", stored.Expiration)

	got, err := f.cards.Get(ctx, u, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "123", got.CCV)
	assert.Equal(t, "0000", got.PIN)

	_, err = f.cards.Create(ctx, u, sampleCard(v.ID))
	requireKind(t, err, common.ErrorAlreadyExists, "Card name already exists.")

	in := sampleCard(v.ID)
	in.PIN = "9999"
	updated, err := f.cards.Update(ctx, u, c.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "9999", updated.PIN)

	list, err := f.cards.List(ctx, u, v.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "9999", list[0].PIN)

	deleted, err := f.cards.Delete(ctx, u, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", deleted.Number)

	_, err = f.cards.Get(ctx, u, c.ID)
	requireKind(t, err, common.ErrorNotFound, "Card not found.")
}

func TestCardOwnership(t *testing.T) {
	f := newFixture(t)
	a := f.signup(t, "alice")
	b := f.signup(t, "bob")
	ctx := context.Background()

	vb := f.vault(t, b, "Wallet")

	_, err := f.cards.Create(ctx, a, sampleCard(vb.ID))
	requireKind(t, err, common.ErrorNotFound, "Vault not found.")

	c, err := f.cards.Create(ctx, b, sampleCard(vb.ID))
	require.NoError(t, err)

	_, err = f.cards.Get(ctx, a, c.ID)
	requireKind(t, err, common.ErrorNotFound, "Card not found.")

	_, err = f.cards.Update(ctx, a, c.ID, sampleCard(vb.ID))
	requireKind(t, err, common.ErrorNotFound, "Card not found.")

	_, err = f.cards.Delete(ctx, a, c.ID)
	requireKind(t, err, common.ErrorNotFound, "Card not found.")

	in := sampleCard(vb.ID)
	in.UserID = b.ID
	_, err = f.cards.Create(ctx, a, in)
	requireKind(t, err, common.ErrorNotFound, "User not found.")
}
