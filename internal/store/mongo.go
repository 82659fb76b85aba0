package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/linarifux/dentista-api/internal/models"
)

const (
	appointmentsCollection = "appointments"
	servicesCollection     = "services"
	usersCollection        = "users"
)

// Mongo implements Store on a MongoDB database.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

// EnsureIndexes creates the indexes the store relies on. The partial unique
// index over (date, time, doctor) covers only non-cancelled statuses, so a
// cancelled appointment frees its slot without being deleted. Requires
// MongoDB 6.0+ for $in in a partial filter expression.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.db.Collection(appointmentsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "date", Value: 1},
			{Key: "time", Value: 1},
			{Key: "doctor", Value: 1},
		},
		Options: options.Index().
			SetUnique(true).
			SetName("uniq_slot_active").
			SetPartialFilterExpression(bson.M{
				"status": bson.M{"$in": []string{
					string(models.StatusPending),
					string(models.StatusConfirmed),
					string(models.StatusCompleted),
				}},
			}),
	})
	if err != nil {
		return fmt.Errorf("create slot index: %w", err)
	}

	_, err = m.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_user_email"),
	})
	if err != nil {
		return fmt.Errorf("create user email index: %w", err)
	}
	return nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, readpref.Primary())
}

// ---- appointments ----

func (m *Mongo) InsertAppointment(ctx context.Context, a *models.Appointment) error {
	now := time.Now().UTC()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := m.db.Collection(appointmentsCollection).InsertOne(ctx, a)
	if mongo.IsDuplicateKeyError(err) {
		return ErrSlotTaken
	}
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (m *Mongo) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var a models.Appointment
	err = m.db.Collection(appointmentsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	a.Service = models.NormalizeServiceTitle(a.Service)
	return &a, nil
}

func (m *Mongo) UpdateAppointment(ctx context.Context, a *models.Appointment) error {
	a.UpdatedAt = time.Now().UTC()

	res, err := m.db.Collection(appointmentsCollection).ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	if mongo.IsDuplicateKeyError(err) {
		return ErrSlotTaken
	}
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) ListAppointments(ctx context.Context, f AppointmentFilter) ([]models.Appointment, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Date != "" {
		filter["date"] = f.Date
	}
	if f.Query != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"email": rx},
			bson.M{"phone": rx},
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "time", Value: 1}})
	cursor, err := m.db.Collection(appointmentsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []models.Appointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	for i := range appointments {
		appointments[i].Service = models.NormalizeServiceTitle(appointments[i].Service)
	}
	if appointments == nil {
		appointments = make([]models.Appointment, 0)
	}
	return appointments, nil
}

func (m *Mongo) BookedTimes(ctx context.Context, date, doctor, exemptID string) ([]string, error) {
	filter := bson.M{
		"date":   date,
		"doctor": doctor,
		"status": bson.M{"$ne": models.StatusCancelled},
	}
	if doctor == "" {
		// Records without the field and records with an explicit empty
		// string are the same "any doctor" pool.
		filter["doctor"] = bson.M{"$in": bson.A{"", nil}}
	}
	if exemptID != "" {
		if oid, err := primitive.ObjectIDFromHex(exemptID); err == nil {
			filter["_id"] = bson.M{"$ne": oid}
		}
	}

	opts := options.Find().
		SetProjection(bson.M{"time": 1}).
		SetSort(bson.D{{Key: "time", Value: 1}})
	cursor, err := m.db.Collection(appointmentsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list booked times: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Time string `bson:"time"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode booked times: %w", err)
	}

	times := make([]string, 0, len(docs))
	for _, d := range docs {
		times = append(times, d.Time)
	}
	return times, nil
}

func (m *Mongo) AggregatePatients(ctx context.Context) ([]models.Patient, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$toLower", Value: "$email"}}},
			{Key: "name", Value: bson.D{{Key: "$first", Value: "$name"}}},
			{Key: "phone", Value: bson.D{{Key: "$first", Value: "$phone"}}},
			{Key: "lastVisit", Value: bson.D{{Key: "$max", Value: "$date"}}},
			{Key: "visits", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "lastVisit", Value: -1}}}},
	}

	cursor, err := m.db.Collection(appointmentsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate patients: %w", err)
	}
	defer cursor.Close(ctx)

	var patients []models.Patient
	if err := cursor.All(ctx, &patients); err != nil {
		return nil, fmt.Errorf("decode patients: %w", err)
	}
	if patients == nil {
		patients = make([]models.Patient, 0)
	}
	return patients, nil
}

// ---- services ----

func (m *Mongo) ListServices(ctx context.Context) ([]models.Service, error) {
	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})
	cursor, err := m.db.Collection(servicesCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer cursor.Close(ctx)

	var services []models.Service
	if err := cursor.All(ctx, &services); err != nil {
		return nil, fmt.Errorf("decode services: %w", err)
	}
	if services == nil {
		services = make([]models.Service, 0)
	}
	return services, nil
}

func (m *Mongo) InsertService(ctx context.Context, s *models.Service) error {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	if _, err := m.db.Collection(servicesCollection).InsertOne(ctx, s); err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

func (m *Mongo) DeleteService(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := m.db.Collection(servicesCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedServices inserts the default treatment catalog when the collection is
// empty. Called once at startup.
func (m *Mongo) SeedServices(ctx context.Context, services []models.Service) error {
	count, err := m.db.Collection(servicesCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count services: %w", err)
	}
	if count > 0 || len(services) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(services))
	for i := range services {
		if services[i].ID.IsZero() {
			services[i].ID = primitive.NewObjectID()
		}
		docs = append(docs, services[i])
	}
	if _, err := m.db.Collection(servicesCollection).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed services: %w", err)
	}
	return nil
}

// ---- users ----

func (m *Mongo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := m.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (m *Mongo) InsertUser(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	_, err := m.db.Collection(usersCollection).InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (m *Mongo) ListUsers(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fullName", Value: 1}})
	cursor, err := m.db.Collection(usersCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	if users == nil {
		users = make([]models.User, 0)
	}
	return users, nil
}

func (m *Mongo) DeleteUser(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := m.db.Collection(usersCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
