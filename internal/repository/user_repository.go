package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// firstAdminMarker is the _id of the bootstrap document claimed by the first registration.
const firstAdminMarker = "first_admin"

type mongoUserRepository struct {
	users     *mongo.Collection
	bootstrap *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{
		users:     db.Collection(usersCollection),
		bootstrap: db.Collection(bootstrapCollection),
	}
}

func (m *mongoUserRepository) Count(ctx context.Context) (int64, error) {
	n, err := m.users.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (m *mongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Cart == nil {
		user.Cart = domain.Cart{}
	}

	res, err := m.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (m *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := m.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (m *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.findOne(ctx, bson.M{"email": email})
}

func (m *mongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, ErrUserNotFound
	}
	return m.findOne(ctx, bson.M{"_id": oid})
}

func (m *mongoUserRepository) SetAdmin(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := m.users.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"isAdmin": true, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}
	return &user, nil
}

func (m *mongoUserRepository) AnyAdmin(ctx context.Context) (bool, error) {
	n, err := m.users.CountDocuments(ctx, bson.M{"isAdmin": true}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count admins: %w", err)
	}
	return n > 0, nil
}

func (m *mongoUserRepository) GetCart(ctx context.Context, userID string) (domain.Cart, error) {
	oid, ok := objectID(userID)
	if !ok {
		return nil, ErrUserNotFound
	}

	var doc struct {
		Cart domain.Cart `bson:"cart"`
	}
	opts := options.FindOne().SetProjection(bson.M{"cart": 1})
	if err := m.users.FindOne(ctx, bson.M{"_id": oid}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if doc.Cart == nil {
		doc.Cart = domain.Cart{}
	}
	return doc.Cart, nil
}

// SaveCart overwrites the whole embedded cart. There is no version check.
func (m *mongoUserRepository) SaveCart(ctx context.Context, userID string, cart domain.Cart) error {
	oid, ok := objectID(userID)
	if !ok {
		return ErrUserNotFound
	}
	if cart == nil {
		cart = domain.Cart{}
	}

	update := bson.M{"$set": bson.M{"cart": cart, "updatedAt": time.Now().UTC()}}
	result, err := m.users.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ClaimAdminBootstrap inserts the first-admin marker. Only one caller can ever get true.
func (m *mongoUserRepository) ClaimAdminBootstrap(ctx context.Context) (bool, error) {
	_, err := m.bootstrap.InsertOne(ctx, bson.M{"_id": firstAdminMarker, "claimedAt": time.Now().UTC()})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to claim admin bootstrap: %w", err)
	}
	return true, nil
}

func (m *mongoUserRepository) ReleaseAdminBootstrap(ctx context.Context) error {
	if _, err := m.bootstrap.DeleteOne(ctx, bson.M{"_id": firstAdminMarker}); err != nil {
		return fmt.Errorf("failed to release admin bootstrap: %w", err)
	}
	return nil
}
