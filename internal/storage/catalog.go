package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrNotFound = errors.New("run not found")

// RunRecord is the catalog row for one stored run.
type RunRecord struct {
	ID         string `gorm:"primaryKey;size:36"`
	Name       string `gorm:"size:128"`
	Model      string `gorm:"size:64;index:idx_model"`
	Integrator string `gorm:"size:32"`
	Status     string `gorm:"size:32;index:idx_status"`
	Reason     string `gorm:"size:64"`
	Steps      int
	Dt         float64
	FinalTime  float64
	CreatedAt  time.Time `gorm:"index:idx_created"`
	Params     datatypes.JSON
	Metrics    datatypes.JSON
}

// Catalog indexes runs in SQLite so they can be queried without reading
// every metadata.json.
type Catalog struct {
	db *gorm.DB
}

// OpenCatalog opens or creates the catalog at path. An empty path uses a
// private in-memory database.
func OpenCatalog(path string) (*Catalog, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if path == "" {
		// every pooled connection would get its own empty memory database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&RunRecord{}); err != nil {
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record inserts or replaces the row for meta.
func (c *Catalog) Record(meta RunMetadata) error {
	params, err := json.Marshal(nonNil(meta.Params))
	if err != nil {
		return err
	}
	metrics, err := json.Marshal(finite(meta.Metrics))
	if err != nil {
		return err
	}
	rec := RunRecord{
		ID:         meta.ID,
		Name:       meta.Name,
		Model:      meta.Model,
		Integrator: meta.Integrator,
		Status:     meta.Status,
		Reason:     meta.Reason,
		Steps:      meta.Steps,
		Dt:         meta.Dt,
		FinalTime:  meta.FinalTime,
		CreatedAt:  meta.Timestamp,
		Params:     datatypes.JSON(params),
		Metrics:    datatypes.JSON(metrics),
	}
	return c.db.Save(&rec).Error
}

func (c *Catalog) Get(id string) (*RunRecord, error) {
	var rec RunRecord
	err := c.db.First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Filter narrows Find; zero fields match everything.
type Filter struct {
	Model  string
	Status string
	Limit  int
}

// Find returns matching runs, newest first.
func (c *Catalog) Find(f Filter) ([]RunRecord, error) {
	q := c.db.Model(&RunRecord{})
	if f.Model != "" {
		q = q.Where("model = ?", f.Model)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var recs []RunRecord
	if err := q.Order("created_at desc").Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *Catalog) Delete(id string) error {
	res := c.db.Delete(&RunRecord{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// MetricValues decodes the stored metrics.
func (r *RunRecord) MetricValues() (map[string]float64, error) {
	out := map[string]float64{}
	if len(r.Metrics) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(r.Metrics, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RunRecord) ParamValues() (map[string]float64, error) {
	out := map[string]float64{}
	if len(r.Params) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(r.Params, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func nonNil(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}
