// internal/app/store/teams/teamstore.go
package teamstore

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

// ErrDuplicateKey is returned when a team key already exists within the
// project, backed by the (project_id, key) unique index.
var ErrDuplicateKey = apperr.Conflict("team key already exists in this project")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

// Create inserts a team. Membership has already been validated against the
// parent project by the caller.
func (s *Store) Create(ctx context.Context, t models.Team) (models.Team, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	if t.Status == "" {
		t.Status = models.TeamActive
	}
	if t.Members == nil {
		t.Members = []primitive.ObjectID{}
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Team{}, ErrDuplicateKey
		}
		return models.Team{}, err
	}
	return t, nil
}

// GetScoped loads a team by ID filtered to the caller's company.
func (s *Store) GetScoped(ctx context.Context, id, companyID primitive.ObjectID) (models.Team, error) {
	var t models.Team
	err := s.c.FindOne(ctx, bson.M{"_id": id, "company_id": companyID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Team{}, apperr.NotFound("team not found")
	}
	if err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// ListByProject returns a page of a project's teams, newest first.
func (s *Store) ListByProject(ctx context.Context, companyID, projectID primitive.ObjectID, pg paging.Page) ([]models.Team, error) {
	return s.list(ctx, bson.M{"company_id": companyID, "project_id": projectID}, pg)
}

// ListCreatedBy returns a page of the company's teams created by the given
// admin.
func (s *Store) ListCreatedBy(ctx context.Context, companyID, creatorID primitive.ObjectID, pg paging.Page) ([]models.Team, error) {
	return s.list(ctx, bson.M{"company_id": companyID, "created_by": creatorID}, pg)
}

// ListForMember returns a page of the company's teams the given user
// belongs to.
func (s *Store) ListForMember(ctx context.Context, companyID, userID primitive.ObjectID, pg paging.Page) ([]models.Team, error) {
	return s.list(ctx, bson.M{"company_id": companyID, "members": userID}, pg)
}

// list fetches one row past the page limit; the handler trims it and builds
// the next cursor.
func (s *Store) list(ctx context.Context, filter bson.M, pg paging.Page) ([]models.Team, error) {
	cur, err := s.c.Find(ctx, pg.Filter(filter), pg.FindOptions())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Team
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update is the typed allow-list for team mutation. ProjectID is absent on
// purpose; a team never moves between projects.
type Update struct {
	Name        *string
	Description *string
	Key         *string
	Status      *string
	Members     *[]primitive.ObjectID
}

// Apply writes the non-nil fields of u, company-scoped, returning the
// updated document.
func (s *Store) Apply(ctx context.Context, id, companyID primitive.ObjectID, u Update) (models.Team, error) {
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
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.Members != nil {
		set["members"] = *u.Members
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.Team
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "company_id": companyID},
		bson.M{"$set": set}, opts).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Team{}, apperr.NotFound("team not found")
	}
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Team{}, ErrDuplicateKey
		}
		return models.Team{}, err
	}
	return t, nil
}

// Delete removes a team, company-scoped.
func (s *Store) Delete(ctx context.Context, id, companyID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "company_id": companyID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("team not found")
	}
	return nil
}
