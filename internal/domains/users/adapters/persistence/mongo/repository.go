package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/spottythings-api/internal/domains/users/domain"
	"github.com/Apurer/spottythings-api/internal/domains/users/ports"
)

// CollectionName is the collection holding user documents.
const CollectionName = "users"

var _ ports.Repository = (*Repository)(nil)

// Repository persists users as MongoDB documents. Field names follow the existing
// collection layout (nome, cognome, datadinascita, ...).
type Repository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{col: db.Collection(CollectionName), now: time.Now}
}

// EnsureIndexes creates the unique username index.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("username_unique"),
	})
	if err != nil {
		return fmt.Errorf("mongo users index: %w", err)
	}
	return nil
}

type userDocument struct {
	ID             string     `bson:"_id"`
	Username       string     `bson:"username"`
	Name           string     `bson:"nome"`
	Surname        string     `bson:"cognome"`
	BirthDate      *time.Time `bson:"datadinascita,omitempty"`
	Address        string     `bson:"indirizzo"`
	Email          string     `bson:"email"`
	PasswordHash   string     `bson:"password"`
	PaymentMethods []string   `bson:"metodiPagamento"`
	CreatedAt      time.Time  `bson:"created_at"`
	UpdatedAt      time.Time  `bson:"updated_at"`
}

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	doc := toDocument(user)
	now := r.now().UTC()
	doc.CreatedAt, doc.UpdatedAt = now, now
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ports.ErrDuplicateUsername
		}
		return nil, fmt.Errorf("mongo insert: %w", err)
	}
	return doc.toDomain(), nil
}

// Save upserts by username, keeping the original _id and creation time.
func (r *Repository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	doc := toDocument(user)
	now := r.now().UTC()
	set := bson.M{
		"nome":            doc.Name,
		"cognome":         doc.Surname,
		"indirizzo":       doc.Address,
		"email":           doc.Email,
		"password":        doc.PasswordHash,
		"metodiPagamento": doc.PaymentMethods,
		"updated_at":      now,
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"_id": doc.ID, "created_at": now},
	}
	if doc.BirthDate != nil {
		set["datadinascita"] = doc.BirthDate
	} else {
		update["$unset"] = bson.M{"datadinascita": ""}
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"username": doc.Username}, update, options.Update().SetUpsert(true))
	if err != nil {
		return nil, fmt.Errorf("mongo upsert: %w", err)
	}
	return r.GetByUsername(ctx, doc.Username)
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var doc userDocument
	err := r.col.FindOne(ctx, bson.M{"username": strings.TrimSpace(username)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *Repository) Delete(ctx context.Context, username string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"username": strings.TrimSpace(username)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.User, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]*domain.User, 0, len(docs))
	for i := range docs {
		users = append(users, docs[i].toDomain())
	}
	return users, nil
}

func toDocument(user *domain.User) userDocument {
	doc := userDocument{
		ID:             user.ID,
		Username:       user.Username,
		Name:           user.Name,
		Surname:        user.Surname,
		Address:        user.Address,
		Email:          user.Email,
		PasswordHash:   user.PasswordHash,
		PaymentMethods: user.PaymentMethods,
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.PaymentMethods == nil {
		doc.PaymentMethods = []string{}
	}
	if !user.BirthDate.IsZero() {
		birth := user.BirthDate.UTC()
		doc.BirthDate = &birth
	}
	return doc
}

func (d userDocument) toDomain() *domain.User {
	user := &domain.User{
		ID:           d.ID,
		Username:     d.Username,
		Name:         d.Name,
		Surname:      d.Surname,
		Address:      d.Address,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if len(d.PaymentMethods) > 0 {
		user.PaymentMethods = append([]string(nil), d.PaymentMethods...)
	}
	if d.BirthDate != nil {
		user.BirthDate = d.BirthDate.UTC()
	}
	return user
}
