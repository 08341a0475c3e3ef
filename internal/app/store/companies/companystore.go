// internal/app/store/companies/companystore.go
package companystore

import (
	"context"
	"errors"
	"regexp"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/sprinthub/sprinthub/internal/app/system/apperr"
	"github.com/sprinthub/sprinthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateName is returned when a company with the same folded name
// already exists. Company names are unique case-insensitively.
var ErrDuplicateName = apperr.Conflict("a company with this name already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("companies")}
}

// GetByID loads a company. Companies are the tenant root, so there is no
// company-scoped variant of this lookup.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Company, error) {
	var c models.Company
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Company{}, apperr.NotFound("company not found")
		}
		return models.Company{}, err
	}
	return c, nil
}

// GetByName finds a company by case-insensitive name. Returns ok=false when
// no such company exists.
func (s *Store) GetByName(ctx context.Context, name string) (models.Company, bool, error) {
	var c models.Company
	err := s.c.FindOne(ctx, bson.M{"name_ci": text.Fold(name)}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Company{}, false, nil
	}
	if err != nil {
		return models.Company{}, false, err
	}
	return c, true, nil
}

// Create inserts a company. The unique name_ci index makes concurrent
// registrations under the same new name resolve to exactly one winner.
func (s *Store) Create(ctx context.Context, name string) (models.Company, error) {
	now := time.Now().UTC()
	c := models.Company{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Company{}, ErrDuplicateName
		}
		return models.Company{}, err
	}
	return c, nil
}

// SetCreatedBy records the founding admin on a freshly created company.
func (s *Store) SetCreatedBy(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"created_by": userID,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Suggest returns up to limit companies whose folded name contains the
// folded query. Used by the registration form; only names are returned.
func (s *Store) Suggest(ctx context.Context, query string, limit int64) ([]models.Company, error) {
	folded := text.Fold(query)
	if folded == "" {
		return nil, nil
	}
	opts := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "name_ci", Value: 1}}).
		SetProjection(bson.M{"name": 1})
	cur, err := s.c.Find(ctx, bson.M{"name_ci": bson.M{"$regex": primitive.Regex{Pattern: regexp.QuoteMeta(folded)}}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Company
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
