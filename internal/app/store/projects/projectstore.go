// internal/app/store/projects/projectstore.go
package projectstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/app/system/paging"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateKey is returned when a project key already exists within the
// company. The (company_id, key) unique index is the source of truth; this
// sentinel is how the violation surfaces.
var ErrDuplicateKey = apperr.Conflict("project key already exists in this company")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("projects")}
}

// Create inserts a project. Caller has already normalized the key to
// uppercase and validated field bounds.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	if p.Visibility == "" {
		p.Visibility = models.VisibilityPublic
	}
	if p.Status == "" {
		p.Status = models.ProjectActive
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Project{}, ErrDuplicateKey
		}
		return models.Project{}, err
	}
	return p, nil
}

// GetScoped loads a project by ID filtered to the caller's company. A
// cross-tenant project is reported NotFound, indistinguishable from an
// absent one.
func (s *Store) GetScoped(ctx context.Context, id, companyID primitive.ObjectID) (models.Project, error) {
	var p models.Project
	err := s.c.FindOne(ctx, bson.M{"_id": id, "company_id": companyID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Project{}, apperr.NotFound("project not found")
	}
	if err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// ListByCompany returns a page of the company's projects, newest first.
func (s *Store) ListByCompany(ctx context.Context, companyID primitive.ObjectID, pg paging.Page) ([]models.Project, error) {
	return s.list(ctx, bson.M{"company_id": companyID}, pg)
}

// ListCreatedBy returns a page of the company's projects created by the
// given admin, newest first.
func (s *Store) ListCreatedBy(ctx context.Context, companyID, creatorID primitive.ObjectID, pg paging.Page) ([]models.Project, error) {
	return s.list(ctx, bson.M{"company_id": companyID, "created_by": creatorID}, pg)
}

// ListForMember returns a page of the company's projects the given user
// belongs to, newest first.
func (s *Store) ListForMember(ctx context.Context, companyID, userID primitive.ObjectID, pg paging.Page) ([]models.Project, error) {
	return s.list(ctx, bson.M{"company_id": companyID, "members": userID}, pg)
}

// list fetches one row past the page limit; the handler trims it and builds
// the next cursor.
func (s *Store) list(ctx context.Context, filter bson.M, pg paging.Page) ([]models.Project, error) {
	cur, err := s.c.Find(ctx, pg.Filter(filter), pg.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update is the typed allow-list for project mutation: only the fields
// enumerated here can change, and only non-nil ones are written. Unknown
// request fields never reach this struct.
type Update struct {
	Name        *string
	Description *string
	Key         *string // already uppercased by the handler
	Visibility  *string
	Status      *string
	StartDate   *time.Time
	EndDate     *time.Time
	Members     *[]primitive.ObjectID
}

// Apply writes the non-nil fields of u, company-scoped, returning the
// updated document. Key collisions surface as ErrDuplicateKey.
func (s *Store) Apply(ctx context.Context, id, companyID primitive.ObjectID, u Update) (models.Project, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Key != nil {
		set["key"] = *u.Key
	}
	if u.Visibility != nil {
		set["visibility"] = *u.Visibility
	}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.StartDate != nil {
		set["start_date"] = *u.StartDate
	}
	if u.EndDate != nil {
		set["end_date"] = *u.EndDate
	}
	if u.Members != nil {
		set["members"] = *u.Members
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p models.Project
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "company_id": companyID},
		bson.M{"$set": set}, opts).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Project{}, apperr.NotFound("project not found")
	}
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Project{}, ErrDuplicateKey
		}
		return models.Project{}, err
	}
	return p, nil
}

// Delete removes a project, company-scoped.
func (s *Store) Delete(ctx context.Context, id, companyID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "company_id": companyID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("project not found")
	}
	return nil
}
