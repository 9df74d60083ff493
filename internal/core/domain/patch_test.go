package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/comitanigiacomo/kanso-goals/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patchPayload struct {
	Title   domain.Patch[string] `json:"title"`
	Content domain.Patch[string] `json:"content"`
	Count   domain.Patch[int]    `json:"count"`
}

func TestPatch_DecodeTriState(t *testing.T) {
	var p patchPayload
	require.NoError(t, json.Unmarshal([]byte(`{"title": "new", "content": null}`), &p))

	assert.True(t, p.Title.IsSet())
	assert.Equal(t, "new", p.Title.Value())
	assert.True(t, p.Content.IsClear())
	assert.True(t, p.Count.IsUnchanged())
}

func TestPatch_DecodeTypeMismatch(t *testing.T) {
	var p patchPayload
	assert.Error(t, json.Unmarshal([]byte(`{"count": "seven"}`), &p))
}

func TestPatch_Apply(t *testing.T) {
	assert.Equal(t, "old", domain.Unchanged[string]().Apply("old"))
	assert.Equal(t, "", domain.Clear[string]().Apply("old"))
	assert.Equal(t, "new", domain.Set("new").Apply("old"))

	old := 3
	assert.Same(t, &old, domain.Unchanged[int]().ApplyPtr(&old))
	assert.Nil(t, domain.Clear[int]().ApplyPtr(&old))
	assert.Equal(t, 9, *domain.Set(9).ApplyPtr(&old))

	assert.True(t, domain.SetPtr[int](nil).IsClear())
	assert.Equal(t, 3, domain.SetPtr(&old).Value())
}

func TestPatch_Encode(t *testing.T) {
	raw, err := json.Marshal(patchPayload{Title: domain.Set("x"), Content: domain.Clear[string]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"x","content":null,"count":null}`, string(raw))
}
