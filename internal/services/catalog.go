package services

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	types "github.com/yungbote/contentflow-backend/internal/domain"
	domaincontent "github.com/yungbote/contentflow-backend/internal/domain/content"
	"github.com/yungbote/contentflow-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/contentflow-backend/internal/pkg/errors"
	"github.com/yungbote/contentflow-backend/internal/platform/logger"
)

//go:embed catalog_sample.yaml
var sampleCatalog []byte

// Catalog is the YAML seed document. Content lists are appended in file
// order, so the Nth entry of a kind gets the next free order.
type Catalog struct {
	Users           []CatalogUser    `yaml:"users"`
	Series          []CatalogSeries  `yaml:"series"`
	Articles        []CatalogArticle `yaml:"articles"`
	Affirmations    []CatalogText    `yaml:"affirmations"`
	Aphorisms       []CatalogQuote   `yaml:"aphorisms"`
	Music           []CatalogMedia   `yaml:"music"`
	Movies          []CatalogMedia   `yaml:"movies"`
	Tasks           []CatalogTask    `yaml:"tasks"`
	WeeklyQuestions []CatalogText    `yaml:"weekly_questions"`
}

type CatalogUser struct {
	Email     string `yaml:"email"`
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Role      string `yaml:"role"`
}

type CatalogSeries struct {
	Title       string           `yaml:"title"`
	Description string           `yaml:"description"`
	CoverURL    string           `yaml:"cover_url"`
	Episodes    []CatalogEpisode `yaml:"episodes"`
}

type CatalogEpisode struct {
	Title       string `yaml:"title"`
	AudioURL    string `yaml:"audio_url"`
	DurationSec int    `yaml:"duration_sec"`
}

type CatalogArticle struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type CatalogText struct {
	Text string `yaml:"text"`
}

type CatalogQuote struct {
	Text   string `yaml:"text"`
	Author string `yaml:"author"`
}

// CatalogMedia covers music (Artist) and movies (Description).
type CatalogMedia struct {
	Title       string `yaml:"title"`
	Artist      string `yaml:"artist"`
	Description string `yaml:"description"`
	URL         string `yaml:"url"`
}

type CatalogTask struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// ParseCatalog decodes a catalog, rejecting unknown keys.
func ParseCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var c Catalog
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("parse catalog: %w: %w", pkgerrors.ErrInvalidArgument, err)
	}
	return &c, nil
}

// SampleCatalog is the built-in demo catalog.
func SampleCatalog() *Catalog {
	c, err := ParseCatalog(bytes.NewReader(sampleCatalog))
	if err != nil {
		panic(err)
	}
	return c
}

type SeedResult struct {
	Users        int            `json:"users"`
	UsersSkipped int            `json:"users_skipped"`
	Series       int            `json:"series"`
	Episodes     int            `json:"episodes"`
	Content      map[string]int `json:"content"`
}

// ContentServices groups the per-kind content services.
type ContentServices struct {
	Articles        ContentService[types.Article]
	Affirmations    ContentService[types.Affirmation]
	Aphorisms       ContentService[types.Aphorism]
	Music           ContentService[types.Music]
	Movies          ContentService[types.Movie]
	Tasks           ContentService[types.Task]
	WeeklyQuestions ContentService[types.WeeklyQuestion]
}

type CatalogService interface {
	Seed(dbc dbctx.Context, c *Catalog) (SeedResult, error)
}

type catalogService struct {
	db      *gorm.DB
	log     *logger.Logger
	users   UserService
	series  SeriesService
	content ContentServices
}

func NewCatalogService(db *gorm.DB, baseLog *logger.Logger, users UserService, series SeriesService, content ContentServices) CatalogService {
	return &catalogService{
		db:      db,
		log:     baseLog.With("service", "CatalogService"),
		users:   users,
		series:  series,
		content: content,
	}
}

// Seed loads the catalog in one transaction. Users whose email already
// exists are skipped; everything else is appended. Content creation extends
// the bundle tracks and series/user creation fans out access, so the result
// is ready for the first reconciliation pass.
func (s *catalogService) Seed(dbc dbctx.Context, c *Catalog) (SeedResult, error) {
	res := SeedResult{Content: map[string]int{}}
	if c == nil {
		return res, nil
	}
	err := withTx(dbc, s.db, func(inner dbctx.Context) error {
		if err := s.seedContent(inner, c, &res); err != nil {
			return err
		}
		for _, cs := range c.Series {
			series, err := s.series.CreateSeries(inner, &types.Series{
				Title:       cs.Title,
				Description: cs.Description,
				CoverURL:    cs.CoverURL,
			})
			if err != nil {
				return fmt.Errorf("series %q: %w", cs.Title, err)
			}
			res.Series++
			for _, ce := range cs.Episodes {
				if _, err := s.series.CreateEpisode(inner, series.ID, &types.Episode{
					Title:       ce.Title,
					AudioURL:    ce.AudioURL,
					DurationSec: ce.DurationSec,
				}); err != nil {
					return fmt.Errorf("series %q episode %q: %w", cs.Title, ce.Title, err)
				}
				res.Episodes++
			}
		}
		for _, cu := range c.Users {
			_, err := s.users.CreateUser(inner, CreateUserInput{
				Email:     cu.Email,
				FirstName: cu.FirstName,
				LastName:  cu.LastName,
				Role:      cu.Role,
			})
			if errors.Is(err, pkgerrors.ErrConflict) {
				res.UsersSkipped++
				continue
			}
			if err != nil {
				return fmt.Errorf("user %q: %w", cu.Email, err)
			}
			res.Users++
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}
	s.log.Info("catalog seeded",
		"users", res.Users,
		"users_skipped", res.UsersSkipped,
		"series", res.Series,
		"episodes", res.Episodes,
	)
	return res, nil
}

func (s *catalogService) seedContent(dbc dbctx.Context, c *Catalog, res *SeedResult) error {
	count := func(k domaincontent.Kind, err error) error {
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		res.Content[string(k)]++
		return nil
	}
	for _, a := range c.Articles {
		_, err := s.content.Articles.Create(dbc, &types.Article{Title: a.Title, Body: a.Body})
		if err := count(domaincontent.KindArticle, err); err != nil {
			return err
		}
	}
	for _, a := range c.Affirmations {
		_, err := s.content.Affirmations.Create(dbc, &types.Affirmation{Text: a.Text})
		if err := count(domaincontent.KindAffirmation, err); err != nil {
			return err
		}
	}
	for _, a := range c.Aphorisms {
		_, err := s.content.Aphorisms.Create(dbc, &types.Aphorism{Text: a.Text, Author: a.Author})
		if err := count(domaincontent.KindAphorism, err); err != nil {
			return err
		}
	}
	for _, m := range c.Music {
		_, err := s.content.Music.Create(dbc, &types.Music{Title: m.Title, Artist: m.Artist, URL: m.URL})
		if err := count(domaincontent.KindMusic, err); err != nil {
			return err
		}
	}
	for _, m := range c.Movies {
		_, err := s.content.Movies.Create(dbc, &types.Movie{Title: m.Title, Description: m.Description, URL: m.URL})
		if err := count(domaincontent.KindMovie, err); err != nil {
			return err
		}
	}
	for _, t := range c.Tasks {
		_, err := s.content.Tasks.Create(dbc, &types.Task{Title: t.Title, Description: t.Description})
		if err := count(domaincontent.KindTask, err); err != nil {
			return err
		}
	}
	for _, q := range c.WeeklyQuestions {
		_, err := s.content.WeeklyQuestions.Create(dbc, &types.WeeklyQuestion{Question: strings.TrimSpace(q.Text)})
		if err := count(domaincontent.KindWeeklyQuestion, err); err != nil {
			return err
		}
	}
	return nil
}
