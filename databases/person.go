package databases

// go generate: mockery --name PersonDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/meetcircle/connections-api/models"
)

const personCollectionName = "people"

// PersonDatabase contains the read-only methods used against the people
// collection. The directory service owns writes to it.
type PersonDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Person, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Person, error)
}

type personDatabase struct {
	db DatabaseHelper
}

// NewPersonDatabase initializes a new instance of person database with the provided db connection
func NewPersonDatabase(db DatabaseHelper) PersonDatabase {
	return &personDatabase{
		db: db,
	}
}

func (c *personDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Person, error) {
	person := &models.Person{}
	err := c.db.Collection(personCollectionName).FindOne(ctx, filter, opts...).Decode(&person)
	if err != nil {
		return nil, err
	}
	return person, nil
}

func (c *personDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Person, error) {
	var people []models.Person
	cur, err := c.db.Collection(personCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&people)
	if err != nil {
		return nil, err
	}
	return people, nil
}
