package states

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spacemeshos/profilesync/common/types"
	"github.com/spacemeshos/profilesync/sql"
)

func genState(address string, submitted int64) types.State {
	return types.State{
		Address:            address,
		RetrievalTimestamp: time.Unix(submitted+10, 0),
		Profile: &types.Profile{
			FullName:            "Full " + address,
			Hometown:            "Town",
			CountryCode:         "NL",
			Services:            []string{"a", "b"},
			Signature:           []byte{1, 2, 3},
			SubmissionTimestamp: time.Unix(submitted, 0),
		},
	}
}

func TestAddGet(t *testing.T) {
	db := sql.InMemory()
	state := genState("alice@a.org", 100)
	require.NoError(t, Add(db, &state))
	require.ErrorIs(t, Add(db, &state), sql.ErrObjectExists)

	got, err := Get(db, state.Address)
	require.NoError(t, err)
	require.True(t, state.Equal(&got))
	require.True(t, state.RetrievalTimestamp.Equal(got.RetrievalTimestamp))
	require.Equal(t, state.Profile.Services, got.Profile.Services)
	require.Equal(t, state.Profile.Signature, got.Profile.Signature)

	byHash, err := GetByHash(db, state.Hash())
	require.NoError(t, err)
	require.Equal(t, state.Address, byHash.Address)

	_, err = Get(db, "bob@a.org")
	require.ErrorIs(t, err, sql.ErrNotFound)
	_, err = GetByHash(db, types.Hash32{1})
	require.ErrorIs(t, err, sql.ErrNotFound)
}

func TestAddWithoutProfile(t *testing.T) {
	db := sql.InMemory()
	require.Error(t, Add(db, &types.State{Address: "x"}))
}

func TestEmptyServices(t *testing.T) {
	db := sql.InMemory()
	state := genState("alice@a.org", 100)
	state.Profile.Services = nil
	require.NoError(t, Add(db, &state))
	got, err := Get(db, state.Address)
	require.NoError(t, err)
	require.Empty(t, got.Profile.Services)
	require.Equal(t, state.Hash(), got.Hash())
}

func TestDeleteAndIterate(t *testing.T) {
	db := sql.InMemory()
	expected := map[types.Hash32]struct{}{}
	for i, address := range []string{"a@x", "b@x", "c@x"} {
		state := genState(address, int64(100*(i+1)))
		require.NoError(t, Add(db, &state))
		expected[state.Hash()] = struct{}{}
	}
	count, err := Count(db)
	require.NoError(t, err)
	require.Equal(t, 3, count)

	got := map[types.Hash32]struct{}{}
	require.NoError(t, IterateHashes(db, func(h types.Hash32) bool {
		got[h] = struct{}{}
		return true
	}))
	require.Equal(t, expected, got)

	old, err := SubmittedBefore(db, time.Unix(250, 0))
	require.NoError(t, err)
	require.Len(t, old, 2)
	require.Contains(t, old, "a@x")
	require.Contains(t, old, "b@x")

	require.NoError(t, DeleteSubmittedBefore(db, time.Unix(250, 0)))
	count, err = Count(db)
	require.NoError(t, err)
	require.Equal(t, 1, count)

	require.NoError(t, Delete(db, "c@x"))
	_, err = Get(db, "c@x")
	require.ErrorIs(t, err, sql.ErrNotFound)
}
