package settings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"srburger-api/models"

	"gorm.io/gorm"
)

// GormStore keeps the settings document in a single database row and
// notices changes made by other instances by polling LastUpdated.
type GormStore struct {
	db       *gorm.DB
	interval time.Duration
}

func NewGormStore(db *gorm.DB, interval time.Duration) *GormStore {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &GormStore{db: db, interval: interval}
}

// Get returns the document, creating it with defaults on first use.
func (g *GormStore) Get(ctx context.Context) (Snapshot, error) {
	var row models.AdminSettings
	err := g.db.WithContext(ctx).First(&row, "id = ?", models.SettingsDocumentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		def := Default()
		def.LastUpdated = time.Now().UTC()
		if err := g.Save(ctx, def); err != nil {
			return Snapshot{}, err
		}
		return def, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load settings: %w", err)
	}
	return fromRow(row), nil
}

func (g *GormStore) Save(ctx context.Context, s Snapshot) error {
	row := toRow(s.normalized())
	if err := g.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (g *GormStore) Subscribe(ctx context.Context, fn func(Snapshot)) (Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	p := &poller{cancel: cancel, done: make(chan struct{})}

	var last time.Time
	if cur, err := g.Get(ctx); err == nil {
		last = cur.LastUpdated
	}

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(g.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cur, err := g.Get(ctx)
				if err != nil {
					if ctx.Err() == nil {
						log.Printf("⚠️  settings poll failed: %v", err)
					}
					continue
				}
				if cur.LastUpdated.Equal(last) {
					continue
				}
				last = cur.LastUpdated
				fn(cur)
			}
		}
	}()
	return p, nil
}

type poller struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Unsubscribe stops polling and waits for the poll goroutine to exit.
func (p *poller) Unsubscribe() error {
	p.cancel()
	<-p.done
	return nil
}

func toRow(s Snapshot) models.AdminSettings {
	return models.AdminSettings{
		ID:             models.SettingsDocumentID,
		ServiceActive:  s.ServiceActive,
		HiddenProducts: s.HiddenProductIDs,
		UpdatedBy:      s.UpdatedBy,
		LastUpdated:    s.LastUpdated,
	}
}

func fromRow(row models.AdminSettings) Snapshot {
	hidden := row.HiddenProducts
	if hidden == nil {
		hidden = []int{}
	}
	return Snapshot{
		ServiceActive:    row.ServiceActive,
		HiddenProductIDs: hidden,
		UpdatedBy:        row.UpdatedBy,
		LastUpdated:      row.LastUpdated,
	}.normalized()
}
