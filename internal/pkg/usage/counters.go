package usage

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/TobiasFuchs/AdBoard/app/models"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/cache"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/database"
)

// CounterKey names a tenant-scoped usage counter consumed by the limit
// checking middleware. The mapping from key to query is fixed.
type CounterKey string

const (
	CounterBillboards  CounterKey = "billboards"
	CounterContracts   CounterKey = "contracts"
	CounterTeamMembers CounterKey = "team.members"
	CounterClients     CounterKey = "clients"
	CounterTemplates   CounterKey = "templates"
)

// CountFunc produces the current usage count for one tenant.
type CountFunc func(companyID uint) (int, error)

// For resolves a counter key to its count query against the shared database.
func For(key CounterKey) (CountFunc, bool) {
	switch key {
	case CounterBillboards:
		return countModel(&models.Billboard{}), true
	case CounterContracts:
		return countModel(&models.Contract{}), true
	case CounterTeamMembers:
		return countModel(&models.CompanyMember{}), true
	case CounterClients:
		return countModel(&models.Client{}), true
	case CounterTemplates:
		return countModel(&models.ContractTemplate{}), true
	default:
		return nil, false
	}
}

func countModel(model interface{}) CountFunc {
	return func(companyID uint) (int, error) {
		return countRows(database.GetDB(), model, companyID)
	}
}

func countRows(db *gorm.DB, model interface{}, companyID uint) (int, error) {
	var n int64
	if err := db.Model(model).Where("company_id = ?", companyID).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}

const (
	snapshotCacheKey = "usage:snapshot:%d"
	snapshotCacheTTL = 5 * time.Minute
)

// Snapshot holds the dashboard usage numbers for one company.
type Snapshot struct {
	Billboards  int `json:"billboards"`
	Contracts   int `json:"contracts"`
	TeamMembers int `json:"team_members"`
	Clients     int `json:"clients"`
}

// GetSnapshot returns dashboard usage counts for a company, cached briefly.
// Limit enforcement never reads this cache; it always counts live.
func GetSnapshot(companyID uint) (Snapshot, error) {
	key := fmt.Sprintf(snapshotCacheKey, companyID)
	var snap Snapshot

	if raw, err := cache.Get(key); err == nil {
		if decoded, ok := decodeSnapshot(raw); ok {
			return decoded, nil
		}
	} else if !cache.IsMiss(err) {
		log.Printf("usage: cache read failed for %s: %v", key, err)
	}

	db := database.GetDB()
	var err error
	if snap.Billboards, err = countRows(db, &models.Billboard{}, companyID); err != nil {
		return snap, err
	}
	if snap.Contracts, err = countRows(db, &models.Contract{}, companyID); err != nil {
		return snap, err
	}
	if snap.TeamMembers, err = countRows(db, &models.CompanyMember{}, companyID); err != nil {
		return snap, err
	}
	if snap.Clients, err = countRows(db, &models.Client{}, companyID); err != nil {
		return snap, err
	}

	if cerr := cache.Set(key, encodeSnapshot(snap), snapshotCacheTTL); cerr != nil {
		log.Printf("usage: cache write failed for %s: %v", key, cerr)
	}
	return snap, nil
}

func encodeSnapshot(s Snapshot) string {
	b, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(b)
}

func decodeSnapshot(raw string) (Snapshot, bool) {
	var s Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return Snapshot{}, false
	}
	return s, true
}
