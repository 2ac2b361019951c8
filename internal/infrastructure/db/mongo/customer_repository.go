package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/portfoliotracker/backoffice-api/internal/core/domain"
	"github.com/portfoliotracker/backoffice-api/internal/core/ports"
)

const customersCollection = "customers"

// CustomerRepository implements ports.CustomerRepository on MongoDB.
type CustomerRepository struct {
	customers *mongo.Collection
	users     *mongo.Collection
}

func NewCustomerRepository(db *mongo.Database) *CustomerRepository {
	return &CustomerRepository{
		customers: db.Collection(customersCollection),
		users:     db.Collection(usersCollection),
	}
}

type customerDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	FullName  string    `bson:"full_name"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toCustomerDoc(c *domain.Customer) customerDoc {
	return customerDoc{
		ID:        c.ID,
		UserID:    c.UserID,
		FullName:  c.FullName,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
	}
}

func (d customerDoc) toDomain() domain.Customer {
	return domain.Customer{
		ID:        d.ID,
		UserID:    d.UserID,
		FullName:  d.FullName,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// CreateWithUser persists the user and its customer as a pair. The unique
// email index on users is the linearisation point: once the user insert
// succeeds the pair is committed, and a failed customer insert rolls the
// user back so no orphan account can log in.
func (r *CustomerRepository) CreateWithUser(ctx context.Context, user *domain.User, customer *domain.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.users.InsertOne(ctx, toUserDoc(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	if _, err := r.customers.InsertOne(ctx, toCustomerDoc(customer)); err != nil {
		// Compensate so the email is not burned by a half-created pair.
		if _, delErr := r.users.DeleteOne(ctx, bson.M{"_id": user.ID}); delErr != nil {
			return fmt.Errorf("insert customer: %w (user rollback also failed: %v)", err, delErr)
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*ports.CustomerRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var cd customerDoc
	if err := r.customers.FindOne(ctx, bson.M{"_id": id}).Decode(&cd); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return r.withUser(ctx, cd)
}

func (r *CustomerRepository) FindByUserID(ctx context.Context, userID string) (*ports.CustomerRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var cd customerDoc
	if err := r.customers.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cd); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("find customer by user: %w", err)
	}
	return r.withUser(ctx, cd)
}

func (r *CustomerRepository) withUser(ctx context.Context, cd customerDoc) (*ports.CustomerRecord, error) {
	var ud userDoc
	if err := r.users.FindOne(ctx, bson.M{"_id": cd.UserID}).Decode(&ud); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Customer rows always reference a user; a dangling link is a
			// data fault, not a client-visible not-found.
			return nil, fmt.Errorf("customer %s references missing user %s", cd.ID, cd.UserID)
		}
		return nil, fmt.Errorf("find owning user: %w", err)
	}
	rec := &ports.CustomerRecord{Customer: cd.toDomain(), User: *ud.toDomain()}
	return rec, nil
}

// List returns one page of customers joined with their users, newest
// first.
func (r *CustomerRepository) List(ctx context.Context, page ports.PageRequest) ([]ports.CustomerRecord, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.customers.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		bson.D{{Key: "$skip", Value: page.Offset()}},
		bson.D{{Key: "$limit", Value: page.Size}},
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "user_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "user"},
		}}},
		bson.D{{Key: "$unwind", Value: "$user"}},
	}

	cur, err := r.customers.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	defer cur.Close(ctx)

	type joinedDoc struct {
		customerDoc `bson:",inline"`
		User        userDoc `bson:"user"`
	}

	var records []ports.CustomerRecord
	for cur.Next(ctx) {
		var jd joinedDoc
		if err := cur.Decode(&jd); err != nil {
			return nil, 0, fmt.Errorf("decode customer: %w", err)
		}
		records = append(records, ports.CustomerRecord{
			Customer: jd.customerDoc.toDomain(),
			User:     *jd.User.toDomain(),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return records, total, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.customers.ReplaceOne(ctx, bson.M{"_id": customer.ID}, toCustomerDoc(customer))
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

// EnsureUserIndexes creates the unique indexes backing signup and pairing.
func (r *CustomerRepository) EnsureUserIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}

	_, err = r.customers.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure customer indexes: %w", err)
	}
	return nil
}
