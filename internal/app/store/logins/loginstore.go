// internal/app/store/logins/loginstore.go
package loginstore

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/tenanthub/internal/app/store"
	"github.com/dalemusser/tenanthub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("login_records")}
}

// Create inserts a LoginRecord. If CreatedAt is zero, it's set to time.Now().UTC().
func (s *Store) Create(ctx context.Context, rec models.LoginRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, rec)
	return err
}

// DefaultRecentLimit caps RecentByTenant when no limit is given.
const DefaultRecentLimit = 50

// RecentByTenant returns the tenant's latest sign-ins, newest first.
func (s *Store) RecentByTenant(ctx context.Context, tenantID string, limit int64) ([]models.LoginRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := s.c.Find(ctx, bson.M{"tenant_id": tenantID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.LoginRecord{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// NewRecord builds a LoginRecord for a sign-in from ip (see ClientIP).
func NewRecord(r *http.Request, ip, userID, tenantID, mode, host string) models.LoginRecord {
	return models.LoginRecord{
		UserID:    userID,
		TenantID:  tenantID,
		Mode:      mode,
		Host:      host,
		IP:        ip,
		UserAgent: r.UserAgent(),
		CreatedAt: time.Now().UTC(),
	}
}

// ClientIP returns the originating client address for r. X-Forwarded-For
// and X-Real-IP are read only when trustProxy is set; clients can forge
// them otherwise.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// first entry is the original client
			if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
				return ip
			}
		}
		if xr := strings.TrimSpace(r.Header.Get("X-Real-IP")); xr != "" {
			return xr
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

var _ store.Logins = (*Store)(nil)
