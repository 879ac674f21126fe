package content

import (
	"fmt"
	"strings"

	pkgerrors "github.com/yungbote/contentflow-backend/internal/pkg/errors"
)

// Validator is implemented by rows that carry required text fields.
type Validator interface {
	Validate() error
}

func required(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required: %w", field, pkgerrors.ErrInvalidArgument)
	}
	return nil
}

func (a *Affirmation) Validate() error    { return required("text", a.Text) }
func (a *Aphorism) Validate() error       { return required("text", a.Text) }
func (m *Music) Validate() error          { return required("title", m.Title) }
func (m *Movie) Validate() error          { return required("title", m.Title) }
func (t *Task) Validate() error           { return required("title", t.Title) }
func (q *WeeklyQuestion) Validate() error { return required("question", q.Question) }
func (a *Article) Validate() error        { return required("title", a.Title) }
func (s *Series) Validate() error         { return required("title", s.Title) }
func (e *Episode) Validate() error        { return required("title", e.Title) }
