package handler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/behavior-rubric/internal/store"
)

const fixtureSnapshot = `{
  "students": [{"id": "s1", "name": "Alex Doe"}],
  "settings": {
    "categories": [
      {"id": "c1", "name": "Respectful"},
      {"id": "c2", "name": "On Task"}
    ],
    "periods": [
      {"id": "p1", "name": "Period 1"},
      {"id": "p2", "name": "Period 2"}
    ],
    "scale": {"scale_max": 3, "labels": {"0": "Not met", "1": "Partially met", "2": "Mostly met", "3": "Fully met"}},
    "goal_points": 6
  },
  "date": "",
  "student_id": "",
  "entries": {}
}`

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureSnapshot), 0o644))
	return store.New(path, zap.NewNop())
}
