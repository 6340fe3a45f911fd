package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("expected default limit for negative, got %d", got)
	}
	if got := NormalizeLimit(1000); got != MaxLimit {
		t.Fatalf("expected max cap, got %d", got)
	}
	if got := NormalizeLimit(13); got != 13 {
		t.Fatalf("expected passthrough, got %d", got)
	}
	if got := LimitWithBuffer(13); got != 14 {
		t.Fatalf("expected limit+1, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	want := Cursor{CreatedAt: time.Now().UTC().Truncate(time.Microsecond), ID: uuid.New()}
	encoded := EncodeCursor(want)

	got, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || got.ID != want.ID {
		t.Fatalf("cursor mismatch: got %+v want %+v", got, want)
	}
}

func TestParseCursorEdgeCases(t *testing.T) {
	t.Parallel()

	if got, err := ParseCursor("  "); err != nil || got != nil {
		t.Fatalf("blank cursor should be nil/nil, got %v %v", got, err)
	}
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := ParseCursor("aGVsbG8="); err == nil {
		t.Fatalf("expected format error")
	}
}
