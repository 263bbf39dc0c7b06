package media

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func writeCorpus(t *testing.T, notes, comments string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	notesPath := filepath.Join(dir, "notes.json")
	commentsPath := filepath.Join(dir, "comments.json")
	require.NoError(t, os.WriteFile(notesPath, []byte(notes), 0o644))
	require.NoError(t, os.WriteFile(commentsPath, []byte(comments), 0o644))
	return notesPath, commentsPath
}

func TestParseChineseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"4.2万", 42000},
		{"1.5千", 1500},
		{"1356", 1356},
		{"12.7", 12},
		{" 88 ", 88},
		{"", 0},
		{"赞", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseChineseNumber(tc.in), "input %q", tc.in)
	}
}

func TestSearchRelevantNotesRanksByMatchesAndLikes(t *testing.T) {
	notesPath, commentsPath := writeCorpus(t, `[
		{"note_id":"n1","title":"外滩夜景攻略","desc":"上海 外滩 必去","liked_count":"100"},
		{"note_id":"n2","title":"外滩咖啡店","desc":"小众","liked_count":"4.2万"},
		{"note_id":"n3","title":"东京塔","desc":"日本","liked_count":"9999"}
	]`, `[]`)

	repo := NewRepository(notesPath, commentsPath, testLogger())
	got := repo.SearchRelevantNotes("上海 外滩", 10)

	require.Len(t, got, 2)
	// n1 matches both tokens (score 20+1), n2 only one but with huge likes (10+420).
	assert.Equal(t, "n2", got[0].NoteID)
	assert.Equal(t, "n1", got[1].NoteID)
}

func TestSearchRelevantNotesTopKAndNoMatch(t *testing.T) {
	notesPath, commentsPath := writeCorpus(t, `[
		{"note_id":"n1","title":"Shibuya crossing","desc":"Tokyo","liked_count":"10"},
		{"note_id":"n2","title":"Shibuya food","desc":"Tokyo ramen","liked_count":"20"}
	]`, `[]`)

	repo := NewRepository(notesPath, commentsPath, testLogger())

	assert.Len(t, repo.SearchRelevantNotes("shibuya", 1), 1)
	assert.Empty(t, repo.SearchRelevantNotes("paris louvre", 10))
	assert.Empty(t, repo.SearchRelevantNotes("!!!", 10))
}

func TestSearchRelevantNotesMissingFiles(t *testing.T) {
	repo := NewRepository("/nonexistent/notes.json", "/nonexistent/comments.json", testLogger())
	assert.Empty(t, repo.SearchRelevantNotes("anything", 10))
	assert.Empty(t, repo.AggregateComments([]string{"n1"}))
}

func TestAggregateCommentsSortsByLikes(t *testing.T) {
	notesPath, commentsPath := writeCorpus(t, `[]`, `[
		{"note_id":"n1","comment_id":"c1","content":"ok","like_count":"3"},
		{"note_id":"n1","comment_id":"c2","content":"great","like_count":"2.1万"},
		{"note_id":"n2","comment_id":"c3","content":"meh","like_count":"500"},
		{"note_id":"","comment_id":"c4","content":"orphan","like_count":"9999"}
	]`)

	repo := NewRepository(notesPath, commentsPath, testLogger())
	got := repo.AggregateComments([]string{"n1", "n2"})

	require.Len(t, got, 3)
	assert.Equal(t, "c2", got[0].CommentID)
	assert.Equal(t, "c3", got[1].CommentID)
	assert.Equal(t, "c1", got[2].CommentID)
}

func TestNoteLink(t *testing.T) {
	assert.Equal(t, "https://example.com/post", NoteLink(Note{NoteID: "n1", NoteURL: "https://example.com/post"}))
	assert.Equal(t, "https://www.xiaohongshu.com/explore/n1", NoteLink(Note{NoteID: "n1"}))
}
