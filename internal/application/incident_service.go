package application

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/ghozali/disaster-incident-api/internal/domain/entity"
	"github.com/ghozali/disaster-incident-api/internal/domain/repository"
	"github.com/ghozali/disaster-incident-api/pkg/helpers"
)

// IncidentEvent is published to the event queue after each successful write.
// The actor id is carried for downstream diagnostics only; it is not persisted.
type IncidentEvent struct {
	Kind     string    `json:"kind"`
	Action   string    `json:"action"` // created, updated, deleted
	ID       int64     `json:"id"`
	Province string    `json:"province,omitempty"`
	District string    `json:"district,omitempty"`
	Level    string    `json:"level,omitempty"`
	Status   string    `json:"status,omitempty"`
	ActorID  int64     `json:"actor_id"`
	At       time.Time `json:"at"`
}

// IncidentService implements CRUD over one incident kind. Two instances run
// side by side, one per kind, sharing this implementation.
type IncidentService struct {
	Repo   repository.IncidentRepository
	Logger *logrus.Logger
	Events *helpers.RabbitPublisher
	ES     *elasticsearch.Client
}

func NewIncidentService(repo repository.IncidentRepository, logger *logrus.Logger, events *helpers.RabbitPublisher, es *elasticsearch.Client) *IncidentService {
	return &IncidentService{Repo: repo, Logger: logger, Events: events, ES: es}
}

func (s *IncidentService) Kind() entity.IncidentKind { return s.Repo.Kind() }

// List returns all incidents of this kind, most recent first.
func (s *IncidentService) List() ([]*entity.Incident, error) {
	return s.Repo.List()
}

func (s *IncidentService) Get(id int64) (*entity.Incident, error) {
	return s.Repo.GetByID(id)
}

// Create inserts the incident and re-reads it from the store so the returned
// record reflects store-applied defaults. A concurrent delete between the
// write and the read-back surfaces as ErrNotFound, never as a fault.
func (s *IncidentService) Create(ctx context.Context, inc *entity.Incident, actorID int64) (*entity.Incident, error) {
	if inc.Status == "" {
		inc.Status = s.Kind().DefaultStatus
	}
	id, err := s.Repo.Create(inc)
	if err != nil {
		return nil, err
	}
	stored, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, "created", stored, actorID)
	return stored, nil
}

// Update overwrites every mutable field of the record; omitted optional
// fields are written as NULL. The refreshed record is re-read from the store.
func (s *IncidentService) Update(ctx context.Context, id int64, inc *entity.Incident, actorID int64) (*entity.Incident, error) {
	if err := s.Repo.Update(id, inc); err != nil {
		return nil, err
	}
	stored, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, "updated", stored, actorID)
	return stored, nil
}

func (s *IncidentService) Delete(ctx context.Context, id int64, actorID int64) error {
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.afterWrite(ctx, "deleted", &entity.Incident{ID: id}, actorID)
	s.removeIndexed(ctx, id)
	return nil
}

// afterWrite publishes the incident event and refreshes the search index.
// Both are best-effort: a queue or index fault never fails the request.
func (s *IncidentService) afterWrite(ctx context.Context, action string, inc *entity.Incident, actorID int64) {
	kind := s.Kind()
	if s.Events != nil {
		ev := IncidentEvent{
			Kind:     kind.Name,
			Action:   action,
			ID:       inc.ID,
			Province: inc.Province,
			District: inc.District,
			Level:    inc.Level,
			Status:   inc.Status,
			ActorID:  actorID,
			At:       time.Now().UTC(),
		}
		if err := s.Events.PublishJSON(ctx, ev); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("kind", kind.Name).Warn("publish incident event failed")
		}
	}
	if action != "deleted" {
		s.index(ctx, inc)
	}
}

func (s *IncidentService) index(ctx context.Context, inc *entity.Incident) {
	if s.ES == nil {
		return
	}
	kind := s.Kind()
	doc := map[string]any{
		"id":       inc.ID,
		"province": inc.Province,
		"district": inc.District,
		"level":    inc.Level,
		"status":   inc.Status,
		"category": inc.Category,
	}
	if inc.Description != nil {
		doc["description"] = *inc.Description
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{
		Index:      kind.Table,
		DocumentID: strconv.FormatInt(inc.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("id", inc.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("id", inc.ID).Warn("es index response error")
	}
}

func (s *IncidentService) removeIndexed(ctx context.Context, id int64) {
	if s.ES == nil {
		return
	}
	req := esapi.DeleteRequest{Index: s.Kind().Table, DocumentID: strconv.FormatInt(id, 10)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over province, district and description.
// Returns empty results when Elasticsearch is not configured.
func (s *IncidentService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"province^2", "district^2", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.Kind().Table),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// IsNotFound reports whether err is the repository's no-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
