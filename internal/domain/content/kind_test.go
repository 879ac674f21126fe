package content

import (
	"errors"
	"testing"

	pkgerrors "github.com/yungbote/contentflow-backend/internal/pkg/errors"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Weekly-Question")
	if err != nil {
		t.Fatalf("ParseKind: %v", err)
	}
	if k != KindWeeklyQuestion {
		t.Fatalf("kind: want=%s got=%s", KindWeeklyQuestion, k)
	}
	if _, err := ParseKind("podcast"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if !KindMusic.IsWeekly() || KindMusic.IsDaily() {
		t.Fatalf("music should be weekly only")
	}
	if !KindAphorism.IsDaily() || KindArticle.IsWeekly() {
		t.Fatalf("kind classification mismatch")
	}
}

func TestValidateRequiredFields(t *testing.T) {
	blank := []Validator{
		&Affirmation{}, &Aphorism{}, &Music{}, &Movie{}, &Task{},
		&WeeklyQuestion{}, &Article{}, &Series{}, &Episode{},
	}
	for _, v := range blank {
		if err := v.Validate(); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
			t.Fatalf("%T: want ErrInvalidArgument got=%v", v, err)
		}
	}
	if err := (&Music{Title: "Blue in Green"}).Validate(); err != nil {
		t.Fatalf("valid music: %v", err)
	}
}
