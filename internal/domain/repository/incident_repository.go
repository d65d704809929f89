package repository

import (
	"github.com/ghozali/disaster-incident-api/internal/domain/entity"
)

// IncidentRepository defines database operations over one incident table.
// One implementation serves both kinds, parametrized by an IncidentKind.
type IncidentRepository interface {
	Kind() entity.IncidentKind
	List() ([]*entity.Incident, error)
	GetByID(id int64) (*entity.Incident, error)
	Create(inc *entity.Incident) (int64, error)
	Update(id int64, inc *entity.Incident) error
	Delete(id int64) error
}
