package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SpiritX-2025-CodeChefs/auth-api/internal/core/domain"
)

const (
	userCollection    = "userTable"
	sessionCollection = "sessionTable"

	// sessionTTL is fixed at session creation and never extended.
	sessionTTL = 365 * 24 * time.Hour
)

// CredentialStore persists users and sessions in MongoDB. The typed
// entity methods below are thin wrappers over the generic document
// operations, which mirror the driver's collection API one-to-one.
type CredentialStore struct {
	db *mongo.Database
}

func NewCredentialStore(db *mongo.Database) *CredentialStore {
	return &CredentialStore{db: db}
}

type userDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Username string             `bson:"username"`
	Password string             `bson:"password"`
}

type sessionDoc struct {
	Token  string    `bson:"id"`
	UserID string    `bson:"userId"`
	Expiry time.Time `bson:"expiry"`
}

// EnsureIndexes creates the unique indexes this store relies on: one on
// username so concurrent registrations cannot both insert, and one on the
// session token. Safe to call on every startup.
func (s *CredentialStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(userCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create username index: %w", err)
	}

	_, err = s.db.Collection(sessionCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create session token index: %w", err)
	}
	return nil
}

// ── Generic document operations ───────────────────────────────────────────

// InsertOne persists a document and returns its generated id as hex.
func (s *CredentialStore) InsertOne(ctx context.Context, collection string, document any) (string, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, document)
	if err != nil {
		return "", err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return fmt.Sprintf("%v", res.InsertedID), nil
}

// FindOne decodes the first document matching the filter into out.
// Returns mongo.ErrNoDocuments when nothing matches.
func (s *CredentialStore) FindOne(ctx context.Context, collection string, filter bson.M, out any) error {
	return s.db.Collection(collection).FindOne(ctx, filter).Decode(out)
}

// UpdateOne applies patch as a $set to the first match and reports
// whether a document was actually modified. No auth flow patches
// documents today; it completes the generic document contract alongside
// insert/find/delete for callers that manage other collections.
func (s *CredentialStore) UpdateOne(ctx context.Context, collection string, filter, patch bson.M) (bool, error) {
	res, err := s.db.Collection(collection).UpdateOne(ctx, filter, bson.M{"$set": patch})
	if err != nil {
		return false, fmt.Errorf("update document: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// DeleteOne removes the first match and reports whether anything was deleted.
func (s *CredentialStore) DeleteOne(ctx context.Context, collection string, filter bson.M) (bool, error) {
	res, err := s.db.Collection(collection).DeleteOne(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	return res.DeletedCount > 0, nil
}

// ── Users ─────────────────────────────────────────────────────────────────

func (s *CredentialStore) CreateUser(ctx context.Context, username, passwordHash string) (string, error) {
	id, err := s.InsertOne(ctx, userCollection, userDoc{Username: username, Password: passwordHash})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", domain.ErrUserExists
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (s *CredentialStore) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var doc userDoc
	if err := s.FindOne(ctx, userCollection, bson.M{"username": username}, &doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (s *CredentialStore) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var doc userDoc
	if err := s.FindOne(ctx, userCollection, bson.M{"_id": oid}, &doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return doc.toDomain(), nil
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.Password,
	}
}

// ── Sessions ──────────────────────────────────────────────────────────────

func (s *CredentialStore) CreateSession(ctx context.Context, userID, token string) (time.Time, error) {
	expiry := time.Now().UTC().Add(sessionTTL)
	doc := sessionDoc{Token: token, UserID: userID, Expiry: expiry}
	if _, err := s.InsertOne(ctx, sessionCollection, doc); err != nil {
		return time.Time{}, fmt.Errorf("insert session: %w", err)
	}
	return expiry, nil
}

func (s *CredentialStore) FindSession(ctx context.Context, token string) (*domain.Session, error) {
	var doc sessionDoc
	if err := s.FindOne(ctx, sessionCollection, bson.M{"id": token}, &doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &domain.Session{Token: doc.Token, UserID: doc.UserID, Expiry: doc.Expiry.UTC()}, nil
}

func (s *CredentialStore) DeleteSession(ctx context.Context, token string) (bool, error) {
	deleted, err := s.DeleteOne(ctx, sessionCollection, bson.M{"id": token})
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return deleted, nil
}
