package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenMissingFileYieldsEmptyStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "prompts.json"))
	require.NoError(t, err)
	require.Empty(t, s.List())
}

func TestOpenMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	require.Error(t, err)
}

func TestAddGetListDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.json")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Add(Prompt{Name: "prd", Description: "product doc", Content: "Write a PRD: {transcript}"}))
	require.NoError(t, s.Add(Prompt{Name: "brief", Content: "Summarize: {transcript}"}))

	p, ok := s.Get("prd")
	require.True(t, ok)
	require.Equal(t, "Write a PRD: {transcript}", p.Content)

	list := s.List()
	require.Len(t, list, 2)
	require.Equal(t, "brief", list[0].Name)
	require.Equal(t, "prd", list[1].Name)

	removed, err := s.Delete("brief")
	require.NoError(t, err)
	require.True(t, removed)

	removed, err = s.Delete("brief")
	require.NoError(t, err)
	require.False(t, removed)

	_, ok = s.Get("brief")
	require.False(t, ok)
}

func TestAddValidation(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "prompts.json"))
	require.NoError(t, err)

	require.Error(t, s.Add(Prompt{Name: "", Content: "x"}))
	require.Error(t, s.Add(Prompt{Name: "x", Content: ""}))
}

func TestAddReplacesExisting(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "prompts.json"))
	require.NoError(t, err)

	require.NoError(t, s.Add(Prompt{Name: "prd", Content: "v1 {transcript}"}))
	require.NoError(t, s.Add(Prompt{Name: "prd", Content: "v2 {transcript}"}))

	p, _ := s.Get("prd")
	require.Equal(t, "v2 {transcript}", p.Content)
	require.Len(t, s.List(), 1)
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.json")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Add(Prompt{Name: "prd", Description: "d", Content: "c {transcript}"}))

	reopened, err := Open(path)
	require.NoError(t, err)
	p, ok := reopened.Get("prd")
	require.True(t, ok)
	require.Equal(t, "d", p.Description)
	require.Equal(t, "c {transcript}", p.Content)
}
