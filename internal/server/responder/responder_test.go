package responder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairo-health/kairo-server/internal/common"
	"github.com/kairo-health/kairo-server/internal/server/models"
)

func TestProjectHistory_PreservesOrderAndMapsRoles(t *testing.T) {
	messages := []*models.ChatMessage{
		{Role: models.RoleUser, Content: "u1"},
		{Role: models.RoleAssistant, Content: "a1"},
		{Role: models.RoleUser, Content: "u2"},
		{Role: models.RoleAssistant, Content: "a2"},
	}

	turns := ProjectHistory(messages)

	require.Len(t, turns, 4)
	assert.Equal(t, []Turn{
		{Role: RoleUser, Text: "u1"},
		{Role: RoleModel, Text: "a1"},
		{Role: RoleUser, Text: "u2"},
		{Role: RoleModel, Text: "a2"},
	}, turns)
}

func TestProjectHistory_Empty(t *testing.T) {
	turns := ProjectHistory(nil)
	assert.NotNil(t, turns)
	assert.Len(t, turns, 0)
}

func TestUnavailableResponder_AlwaysNotConfigured(t *testing.T) {
	r := NewUnavailableResponder()

	_, err := r.Generate(context.Background(), nil, "hello")
	assert.ErrorIs(t, err, common.ErrNotConfigured)

	_, err = r.Generate(context.Background(), []Turn{{Role: RoleUser, Text: "hi"}}, "again")
	assert.ErrorIs(t, err, common.ErrNotConfigured)
}
