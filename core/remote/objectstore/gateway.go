package objectstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"report-sync/core/metrics"
	"report-sync/core/remote"
	"report-sync/core/storage"
	"report-sync/feature/report/models"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	reportPrefix  = "reports/"
	accountPrefix = "accounts/"
	profilePrefix = "users/"
	docExtension  = ".json"

	minPasswordLength = 6
)

var _ remote.Gateway = (*Gateway)(nil)

// Option configures a Gateway.
type Option func(*Gateway)

// WithMetrics records call counts and latencies on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) { g.metrics = m }
}

// WithClock replaces the clock used for creation times.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(g *Gateway) { g.cost = cost }
}

type session struct {
	uid   string
	email string
}

type account struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	CreatedAt    int64  `json:"createdAt"`
}

type profile struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Gateway keeps reports, accounts and profiles as JSON documents in one bucket.
// The signed-in session lives in memory.
type Gateway struct {
	client  storage.Client
	bucket  string
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	cost    int

	mu      sync.RWMutex
	session *session
}

// New creates a gateway over bucket.
func New(client storage.Client, bucket string, logger *zap.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		client: client,
		bucket: bucket,
		logger: logger,
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// track translates *err into the remote taxonomy and records the call.
func (g *Gateway) track(op string, start time.Time, err *error) {
	*err = remote.Translate(op, *err)
	g.metrics.ObserveGatewayCall(op, start, *err, remote.IsCancelled)
	if *err != nil && !remote.IsCancelled(*err) {
		g.logger.Debug("Remote call failed", zap.String("op", op), zap.Error(*err))
	}
}

func (g *Gateway) CurrentUserEmail() (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return "", false
	}
	return g.session.email, true
}

func (g *Gateway) CurrentUserUID() (string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.session == nil {
		return "", false
	}
	return g.session.uid, true
}

func (g *Gateway) setSession(s *session) {
	g.mu.Lock()
	g.session = s
	g.mu.Unlock()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func accountKey(email string) string {
	sum := sha256.Sum256([]byte(normalizeEmail(email)))
	return accountPrefix + hex.EncodeToString(sum[:]) + docExtension
}

func reportKey(id string) string {
	return reportPrefix + id + docExtension
}

func (g *Gateway) SignUp(ctx context.Context, email, password string) (err error) {
	defer g.track("sign_up", time.Now(), &err)

	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email %q", email)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	var existing account
	err = g.getJSON(ctx, accountKey(email), &existing)
	switch {
	case err == nil:
		return remote.ErrEmailTaken
	case !storage.IsNotFound(err):
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.cost)
	if err != nil {
		return err
	}
	acc := account{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    g.now().UnixMilli(),
	}
	if err := g.putJSON(ctx, accountKey(email), acc); err != nil {
		return err
	}

	g.setSession(&session{uid: acc.UID, email: acc.Email})
	return nil
}

func (g *Gateway) SignIn(ctx context.Context, email, password string) (err error) {
	defer g.track("sign_in", time.Now(), &err)

	var acc account
	if err := g.getJSON(ctx, accountKey(email), &acc); err != nil {
		if storage.IsNotFound(err) {
			return remote.ErrInvalidCredentials
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return remote.ErrInvalidCredentials
	}

	g.setSession(&session{uid: acc.UID, email: acc.Email})
	return nil
}

func (g *Gateway) SignOut(ctx context.Context) (err error) {
	defer g.track("sign_out", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return err
	}
	g.setSession(nil)
	return nil
}

func (g *Gateway) UpdatePassword(ctx context.Context, newPassword string) (err error) {
	defer g.track("update_password", time.Now(), &err)

	email, ok := g.CurrentUserEmail()
	if !ok {
		return remote.ErrNotSignedIn
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	var acc account
	if err := g.getJSON(ctx, accountKey(email), &acc); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), g.cost)
	if err != nil {
		return err
	}
	acc.PasswordHash = string(hash)
	return g.putJSON(ctx, accountKey(email), acc)
}

func (g *Gateway) SaveUserProfile(ctx context.Context, uid, email string) (err error) {
	defer g.track("save_profile", time.Now(), &err)
	return g.putJSON(ctx, profilePrefix+uid+docExtension, profile{UID: uid, Email: normalizeEmail(email)})
}

func (g *Gateway) GetAllReports(ctx context.Context) (reports []models.Report, err error) {
	defer g.track("get_all_reports", time.Now(), &err)
	return g.listReports(ctx, func(models.Report) bool { return true })
}

func (g *Gateway) GetReportsForUser(ctx context.Context, userID string) (reports []models.Report, err error) {
	defer g.track("get_user_reports", time.Now(), &err)
	return g.listReports(ctx, func(r models.Report) bool { return r.UserID == userID })
}

func (g *Gateway) listReports(ctx context.Context, keep func(models.Report) bool) ([]models.Report, error) {
	objects := g.client.ListObjects(ctx, g.bucket, minio.ListObjectsOptions{
		Prefix:    reportPrefix,
		Recursive: true,
	})

	reports := make([]models.Report, 0)
	for obj := range objects {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if !strings.HasSuffix(obj.Key, docExtension) {
			continue
		}

		data, err := g.read(ctx, obj.Key)
		if err != nil {
			if storage.IsNotFound(err) {
				// Deleted between list and read.
				continue
			}
			return nil, err
		}
		r, err := decodeReport(data, obj.Key)
		if err != nil {
			g.logger.Warn("Skipping unreadable report document", zap.String("key", obj.Key), zap.Error(err))
			continue
		}
		if keep(r) {
			reports = append(reports, r)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].CreatedAt != reports[j].CreatedAt {
			return reports[i].CreatedAt > reports[j].CreatedAt
		}
		return reports[i].ID < reports[j].ID
	})
	return reports, nil
}

func (g *Gateway) SaveReport(ctx context.Context, in models.NewReport) (report models.Report, err error) {
	defer g.track("save_report", time.Now(), &err)

	userID := in.UserID
	if userID == "" {
		uid, ok := g.CurrentUserUID()
		if !ok {
			return models.Report{}, remote.ErrNotSignedIn
		}
		userID = uid
	}

	report = in.Build(uuid.NewString(), userID, g.now().UnixMilli())
	if err := g.putJSON(ctx, reportKey(report.ID), report); err != nil {
		return models.Report{}, err
	}
	return report, nil
}

func (g *Gateway) UpdateReport(ctx context.Context, id string, patch models.ReportPatch) (err error) {
	defer g.track("update_report", time.Now(), &err)

	if patch.Empty() {
		return nil
	}

	data, err := g.read(ctx, reportKey(id))
	if err != nil {
		if storage.IsNotFound(err) {
			return fmt.Errorf("%s: %w", id, remote.ErrReportNotFound)
		}
		return err
	}
	report, err := decodeReport(data, reportKey(id))
	if err != nil {
		return err
	}
	patch.Apply(&report)
	return g.putJSON(ctx, reportKey(id), report)
}

func (g *Gateway) DeleteReport(ctx context.Context, id string) (err error) {
	defer g.track("delete_report", time.Now(), &err)
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.client.RemoveObject(ctx, g.bucket, reportKey(id), minio.RemoveObjectOptions{})
}

func (g *Gateway) read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obj, err := g.client.GetObject(ctx, g.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

func (g *Gateway) getJSON(ctx context.Context, key string, v any) error {
	data, err := g.read(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (g *Gateway) putJSON(ctx context.Context, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = g.client.PutObject(ctx, g.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

var errNotObject = errors.New("document is not a JSON object")
