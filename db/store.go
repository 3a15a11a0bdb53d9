package db

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrFarmerNotFound signals that no profile exists for a farmer id.
var ErrFarmerNotFound = errors.New("farmer not found")

// Store wraps database access helpers for farmer profiles, crop history and
// recommendation feedback.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Farmer represents one farmer profile record.
type Farmer struct {
	ID             string    `json:"farmer_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Phone          *string   `json:"phone,omitempty"`
	Village        string    `json:"village"`
	State          string    `json:"state"`
	District       *string   `json:"district,omitempty"`
	Pincode        *string   `json:"pincode,omitempty"`
	LandSize       *float64  `json:"land_size,omitempty"`
	LandSizeUnit   string    `json:"land_size_unit"`
	IrrigationType *string   `json:"irrigation_type,omitempty"`
	Language       string    `json:"language"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const getFarmerSQL = `
    SELECT id, email, name, phone, village, state, district, pincode,
           land_size, land_size_unit, irrigation_type, language, created_at, updated_at
    FROM agri.farmers
    WHERE id = $1
`

// GetFarmer returns one farmer profile.
func (s *Store) GetFarmer(ctx context.Context, farmerID string) (*Farmer, error) {
	row := s.pool.QueryRow(ctx, getFarmerSQL, farmerID)

	var f Farmer
	if err := row.Scan(
		&f.ID,
		&f.Email,
		&f.Name,
		&f.Phone,
		&f.Village,
		&f.State,
		&f.District,
		&f.Pincode,
		&f.LandSize,
		&f.LandSizeUnit,
		&f.IrrigationType,
		&f.Language,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFarmerNotFound
		}
		return nil, err
	}
	return &f, nil
}

const upsertFarmerSQL = `
    INSERT INTO agri.farmers
        (id, email, name, phone, village, state, district, pincode,
         land_size, land_size_unit, irrigation_type, language, created_at, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())
    ON CONFLICT (id) DO UPDATE SET
        email = EXCLUDED.email,
        name = EXCLUDED.name,
        phone = EXCLUDED.phone,
        village = EXCLUDED.village,
        state = EXCLUDED.state,
        district = EXCLUDED.district,
        pincode = EXCLUDED.pincode,
        land_size = EXCLUDED.land_size,
        land_size_unit = EXCLUDED.land_size_unit,
        irrigation_type = EXCLUDED.irrigation_type,
        language = EXCLUDED.language,
        updated_at = now()
`

// UpsertFarmer creates or replaces a farmer profile.
func (s *Store) UpsertFarmer(ctx context.Context, f Farmer) error {
	if f.LandSizeUnit == "" {
		f.LandSizeUnit = "acres"
	}
	if f.Language == "" {
		f.Language = "en"
	}
	_, err := s.pool.Exec(ctx, upsertFarmerSQL,
		f.ID, f.Email, f.Name, f.Phone, f.Village, f.State, f.District, f.Pincode,
		f.LandSize, f.LandSizeUnit, f.IrrigationType, f.Language,
	)
	return err
}

// FarmerUpdate holds the mutable profile fields; nil fields are untouched.
type FarmerUpdate struct {
	Name           *string
	Phone          *string
	Village        *string
	State          *string
	District       *string
	Pincode        *string
	LandSize       *float64
	IrrigationType *string
	Language       *string
}

// UpdateFarmer applies the non-nil fields of the update.
func (s *Store) UpdateFarmer(ctx context.Context, farmerID string, u FarmerUpdate) error {
	set := ""
	args := []any{farmerID}
	argPos := 2

	add := func(column string, value any) {
		if set != "" {
			set += ", "
		}
		set += column + " = $" + strconv.Itoa(argPos)
		args = append(args, value)
		argPos++
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Phone != nil {
		add("phone", *u.Phone)
	}
	if u.Village != nil {
		add("village", *u.Village)
	}
	if u.State != nil {
		add("state", *u.State)
	}
	if u.District != nil {
		add("district", *u.District)
	}
	if u.Pincode != nil {
		add("pincode", *u.Pincode)
	}
	if u.LandSize != nil {
		add("land_size", *u.LandSize)
	}
	if u.IrrigationType != nil {
		add("irrigation_type", *u.IrrigationType)
	}
	if u.Language != nil {
		add("language", *u.Language)
	}

	if set == "" {
		return errors.New("no fields to update")
	}

	sql := "UPDATE agri.farmers SET " + set + ", updated_at = now() WHERE id = $1"
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFarmerNotFound
	}
	return nil
}

const deleteFarmerSQL = `DELETE FROM agri.farmers WHERE id = $1`

// DeleteFarmer removes a farmer profile.
func (s *Store) DeleteFarmer(ctx context.Context, farmerID string) error {
	tag, err := s.pool.Exec(ctx, deleteFarmerSQL, farmerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrFarmerNotFound
	}
	return nil
}

// CropHistoryEntry is one past cultivation record.
type CropHistoryEntry struct {
	CropName    string    `json:"crop_name"`
	Season      string    `json:"season"`
	Year        int       `json:"year"`
	YieldAmount *string   `json:"yield_amount,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

const addCropHistorySQL = `
    INSERT INTO agri.crop_history (farmer_id, crop_name, season, year, yield_amount, added_at)
    VALUES ($1, $2, $3, $4, $5, now())
`

// AddCropHistory appends a cultivation record to the farmer's history.
func (s *Store) AddCropHistory(ctx context.Context, farmerID string, entry CropHistoryEntry) error {
	_, err := s.pool.Exec(ctx, addCropHistorySQL,
		farmerID, entry.CropName, entry.Season, entry.Year, entry.YieldAmount,
	)
	return err
}

const recentCropsSQL = `
    SELECT crop_name
    FROM agri.crop_history
    WHERE farmer_id = $1
    ORDER BY added_at DESC
    LIMIT $2
`

// RecentCropNames returns the farmer's most recent crop names, newest first.
func (s *Store) RecentCropNames(ctx context.Context, farmerID string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.pool.Query(ctx, recentCropsSQL, farmerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0, limit)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Feedback is one recommendation feedback record.
type Feedback struct {
	ID        string    `json:"id"`
	FarmerID  string    `json:"farmer_id"`
	CropName  string    `json:"crop_name"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

const insertFeedbackSQL = `
    INSERT INTO agri.feedback (id, farmer_id, crop_name, rating, comment, created_at)
    VALUES ($1, $2, $3, $4, $5, now())
`

// InsertFeedback stores feedback on a recommended crop and returns the
// generated record id.
func (s *Store) InsertFeedback(ctx context.Context, farmerID, cropName string, rating int, comment *string) (string, error) {
	id := uuid.NewString()
	_, err := s.pool.Exec(ctx, insertFeedbackSQL, id, farmerID, cropName, rating, comment)
	if err != nil {
		return "", err
	}
	return id, nil
}
