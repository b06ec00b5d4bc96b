package scheduling

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meetcircle/connections-api/databases"
	"github.com/meetcircle/connections-api/models"
)

// GetPerson loads one person from the external directory store
func (s *Service) GetPerson(ctx context.Context, personID string) (*models.Person, error) {
	if personID == "" {
		return nil, &ValidationError{Reason: "personId is required"}
	}
	person, err := s.People.FindOne(ctx, bson.M{"_id": personID})
	if err != nil {
		if databases.IsNoDocumentsError(err) {
			return nil, &NotFoundError{Entity: "person", ID: personID}
		}
		return nil, &TransientError{Op: "lookup person", Err: err}
	}
	return person, nil
}

// ListPeople is the stateless directory filter: q matches name or username
// case-insensitively, theme matches interest or expertise tags exactly
func (s *Service) ListPeople(ctx context.Context, q, theme string) ([]models.Person, error) {
	var clauses []bson.M
	if q != "" {
		pattern := primitive.Regex{Pattern: q, Options: "i"}
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"person.name": pattern},
			{"person.username": pattern},
		}})
	}
	if theme != "" {
		clauses = append(clauses, bson.M{"$or": []bson.M{
			{"person.interests": theme},
			{"person.expertise": theme},
		}})
	}

	filter := bson.M{}
	if len(clauses) > 0 {
		filter = bson.M{"$and": clauses}
	}

	opts := options.Find().SetSort(bson.D{{Key: "person.name", Value: 1}})
	people, err := s.People.Find(ctx, filter, opts)
	if err != nil {
		return nil, &TransientError{Op: "list people", Err: err}
	}
	if people == nil {
		people = []models.Person{}
	}
	return people, nil
}
