package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ebatarlar/personal-finance/internal/domain"
)

const (
	usersCollection        = "users"
	transactionsCollection = "transactions"
	defaultsCollection     = "defaultCategories"
)

// EnsureIndexes creates the indexes the repositories rely on. The unique
// email index is what makes concurrent duplicate registrations lose instead
// of writing twice.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "oauth_info.provider", Value: 1}, {Key: "oauth_info.provider_user_id", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	_, err = db.Collection(transactionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create transaction index: %w", err)
	}
	return nil
}

// MongoUserRepo implements UserRepository on the users collection.
type MongoUserRepo struct {
	coll *mongo.Collection
}

var _ UserRepository = (*MongoUserRepo)(nil)

// NewMongoUserRepo constructs the user repository.
func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{coll: db.Collection(usersCollection)}
}

func (r *MongoUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepo) FindByOAuth(ctx context.Context, provider domain.OAuthProvider, providerUserID string) (domain.User, error) {
	return r.findOne(ctx, bson.M{
		"oauth_info.provider":         provider,
		"oauth_info.provider_user_id": providerUserID,
	})
}

func (r *MongoUserRepo) FindByID(ctx context.Context, userID string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"id": userID})
}

func (r *MongoUserRepo) Insert(ctx context.Context, user domain.User) (domain.User, error) {
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return domain.User{}, persistenceError("insert user", err)
	}
	return user, nil
}

func (r *MongoUserRepo) UpdateFields(ctx context.Context, userID string, fields map[string]any) (domain.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": userID}, bson.M{"$set": set})
	if err != nil {
		return domain.User{}, persistenceError("update user", err)
	}
	if result.MatchedCount == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, userID)
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (domain.User, error) {
	var user domain.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, persistenceError("find user", err)
	}
	return user, nil
}

// MongoTransactionRepo implements TransactionRepository.
type MongoTransactionRepo struct {
	coll *mongo.Collection
}

var _ TransactionRepository = (*MongoTransactionRepo)(nil)

// NewMongoTransactionRepo constructs the transaction repository.
func NewMongoTransactionRepo(db *mongo.Database) *MongoTransactionRepo {
	return &MongoTransactionRepo{coll: db.Collection(transactionsCollection)}
}

func (r *MongoTransactionRepo) Insert(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	if _, err := r.coll.InsertOne(ctx, tx); err != nil {
		return domain.Transaction{}, persistenceError("insert transaction", err)
	}
	return tx, nil
}

func (r *MongoTransactionRepo) ListByUser(ctx context.Context, userID string) ([]domain.Transaction, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, persistenceError("list transactions", err)
	}
	defer cursor.Close(ctx)

	transactions := make([]domain.Transaction, 0)
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, persistenceError("decode transactions", err)
	}
	return transactions, nil
}

// MongoCategoryRepo implements CategoryRepository. Defaults live in their own
// collection; custom categories are an array embedded on the user document.
type MongoCategoryRepo struct {
	defaults *mongo.Collection
	users    *mongo.Collection
}

var _ CategoryRepository = (*MongoCategoryRepo)(nil)

// NewMongoCategoryRepo constructs the category repository.
func NewMongoCategoryRepo(db *mongo.Database) *MongoCategoryRepo {
	return &MongoCategoryRepo{
		defaults: db.Collection(defaultsCollection),
		users:    db.Collection(usersCollection),
	}
}

func (r *MongoCategoryRepo) ListDefaults(ctx context.Context) ([]domain.Category, error) {
	cursor, err := r.defaults.Find(ctx, bson.M{})
	if err != nil {
		return nil, persistenceError("list default categories", err)
	}
	defer cursor.Close(ctx)

	categories := make([]domain.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, persistenceError("decode default categories", err)
	}
	for i := range categories {
		categories[i].IsDefault = true
	}
	return categories, nil
}

func (r *MongoCategoryRepo) ListCustom(ctx context.Context, userID string) ([]domain.Category, error) {
	var user domain.User
	err := r.users.FindOne(ctx, bson.M{"id": userID},
		options.FindOne().SetProjection(bson.M{"customCategories": 1})).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, persistenceError("load custom categories", err)
	}

	categories := make([]domain.Category, 0, len(user.CustomCategories))
	for _, c := range user.CustomCategories {
		c.IsDefault = false
		categories = append(categories, c)
	}
	return categories, nil
}

func (r *MongoCategoryRepo) AddCustom(ctx context.Context, userID string, category domain.Category) error {
	result, err := r.users.UpdateOne(ctx,
		bson.M{"id": userID},
		bson.M{"$push": bson.M{"customCategories": category}})
	if err != nil {
		return persistenceError("add custom category", err)
	}
	if result.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoCategoryRepo) RemoveCustom(ctx context.Context, userID, name string) error {
	result, err := r.users.UpdateOne(ctx,
		bson.M{"id": userID},
		bson.M{"$pull": bson.M{"customCategories": bson.M{"name": name}}})
	if err != nil {
		return persistenceError("remove custom category", err)
	}
	if result.ModifiedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// SeedDefaults inserts the given categories when the collection is empty and
// returns how many were written.
func (r *MongoCategoryRepo) SeedDefaults(ctx context.Context, categories []domain.Category) (int, error) {
	count, err := r.defaults.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, persistenceError("count default categories", err)
	}
	if count > 0 || len(categories) == 0 {
		return 0, nil
	}

	docs := make([]any, 0, len(categories))
	for _, c := range categories {
		docs = append(docs, c)
	}
	if _, err := r.defaults.InsertMany(ctx, docs); err != nil {
		return 0, persistenceError("seed default categories", err)
	}
	return len(docs), nil
}

func persistenceError(op string, err error) error {
	return domain.Wrap(domain.KindPersistence, op, err)
}
