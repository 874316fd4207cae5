package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_JSONOmitsSecrets(t *testing.T) {
	u := User{
		ID:           "u1",
		Name:         "Alice",
		Email:        "alice@example.com",
		Age:          30,
		PasswordHash: "$2a$08$hash",
		Avatar:       []byte{0x89, 'P', 'N', 'G'},
	}

	b, err := json.Marshal(u)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	assert.Equal(t, "u1", m["_id"])
	assert.Equal(t, "alice@example.com", m["email"])
	for _, k := range []string{"PasswordHash", "password", "Avatar", "avatar", "tokens"} {
		assert.NotContains(t, m, k)
	}
	assert.NotContains(t, string(b), "$2a$08$hash")
}
