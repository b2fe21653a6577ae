package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dentalcare/clinic-service/internal/app/clinic/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type patientRecordRepository struct {
	collection *mongo.Collection
}

// NewPatientRecordRepository создает новый репозиторий карт пациентов
// Автоматически создает индекс по patient_username для быстрой выборки
func NewPatientRecordRepository(db *mongo.Database) PatientRecordRepository {
	collection := db.Collection("patient_records")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "patient_username", Value: 1},
		},
		Options: options.Index().SetName("patient_username_idx"),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		// Логируем ошибку, но не прерываем работу - индекс может уже существовать
		fmt.Printf("Warning: failed to create index on patient_username: %v\n", err)
	}

	appointmentIndexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "appointment_id", Value: 1},
		},
		Options: options.Index().SetName("appointment_id_idx"),
	}

	_, err = collection.Indexes().CreateOne(ctx, appointmentIndexModel)
	if err != nil {
		fmt.Printf("Warning: failed to create index on appointment_id: %v\n", err)
	}

	return &patientRecordRepository{
		collection: collection,
	}
}

// Create создает новую запись в карте пациента
func (r *patientRecordRepository) Create(ctx context.Context, record *entity.PatientRecord) error {
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to create patient record: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		record.ID = oid
	}

	return nil
}

// GetByID получает запись карты по ID
func (r *patientRecordRepository) GetByID(ctx context.Context, id string) (*entity.PatientRecord, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid record ID: %w", err)
	}

	filter := bson.M{"_id": objectID}

	var record entity.PatientRecord
	err = r.collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get patient record: %w", err)
	}

	return &record, nil
}

// GetByPatient получает всю историю лечения пациента
// Использует индекс patient_username_idx для быстрой выборки
func (r *patientRecordRepository) GetByPatient(ctx context.Context, username string) ([]entity.PatientRecord, error) {
	filter := bson.M{"patient_username": username}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find patient records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []entity.PatientRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode patient records: %w", err)
	}

	return records, nil
}

// Update обновляет запись карты пациента
func (r *patientRecordRepository) Update(ctx context.Context, record *entity.PatientRecord) error {
	record.UpdatedAt = time.Now()

	filter := bson.M{"_id": record.ID}
	update := bson.M{
		"$set": bson.M{
			"diagnosis":      record.Diagnosis,
			"treatment_plan": record.TreatmentPlan,
			"notes":          record.Notes,
			"updated_at":     record.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update patient record: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// Delete удаляет запись из карты пациента
func (r *patientRecordRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid record ID: %w", err)
	}

	filter := bson.M{"_id": objectID}

	result, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete patient record: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrRecordNotFound
	}

	return nil
}
